package hgt

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pythseq/hgtree/tree"
)

// WriteTransfersCSV writes the transfer events to path with a
// Donor,Recipient,Depth header, one row per transfer in the
// given (ascending-time) order. Donor and recipient are
// resolved to node names against the species tree snapshot.
func WriteTransfersCSV(path string, t *tree.FlatTree, transfers []Transfer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"Donor", "Recipient", "Depth"}); err != nil {
		return err
	}
	for _, transfer := range transfers {
		record := []string{
			t.Nodes[transfer.Donor].Name,
			t.Nodes[transfer.Recipient].Name,
			strconv.FormatFloat(transfer.Time, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
