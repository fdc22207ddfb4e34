/*
   Package hgt samples horizontal gene transfer events on a
   time-calibrated species tree and applies them as dated SPR
   moves
*/
package hgt

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pythseq/hgtree/io"
	"github.com/pythseq/hgtree/tree"
)

// Rates maps node names to per-lineage transfer rates. A nil
// map is valid and means a uniform rate of 1 everywhere.
type Rates map[string]float64

// ReadRates reads a headerless two-column CSV of node name and
// positive decimal rate. Rows with fewer than two fields are
// skipped; an unparseable rate falls back to 1.0 with a
// warning.
func ReadRates(path string) (Rates, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	rates := make(Rates)
	for _, record := range records {
		if len(record) < 2 {
			continue
		}
		name := trim(record[0])
		rate, err := strconv.ParseFloat(trim(record[1]), 64)
		if err != nil {
			io.LogWarning("failed to parse transfer rate %q for %q, defaulting to 1.0", record[1], name)
			rate = 1.0
		}
		rates[name] = rate
	}
	return rates, nil
}

func trim(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

// Vector expands the rate table into a per-slot vector for the
// given flat tree. Names absent from the table default to 1.0.
func (r Rates) Vector(t *tree.FlatTree) []float64 {
	rates := make([]float64, len(t.Nodes))
	for i := range t.Nodes {
		rate, ok := r[t.Nodes[i].Name]
		if !ok {
			rate = 1.0
		}
		rates[i] = rate
	}
	return rates
}
