package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/pythseq/hgtree/hgt"
	"github.com/pythseq/hgtree/io"
	"github.com/pythseq/hgtree/newick"
	"github.com/pythseq/hgtree/tree"
)

var geneTransferVerbose bool

// geneTransferCmd represents the gene-transfer command
var geneTransferCmd = &cobra.Command{
	Use:   "gene-transfer <species_tree.nwk> <output_dir> <transfer_counts.csv> <rng_seed> [transfer_rate.csv]",
	Short: "Generate gene trees by simulating horizontal gene transfers",
	Long: `Generate gene trees by simulating horizontal gene transfers.

For every tree k of the input file and every entry i of the
transfer count list, draws that many transfer events from a
time- and rate-weighted density over the species tree
timeline, applies them as dated SPR moves, and writes

    <output_dir>/tree_k/genes/gene_i.nwk
    <output_dir>/tree_k/transfers/transfers_i.csv

The RNG seed makes the whole run reproducible: identical seed,
tree, rates and counts give bit-identical outputs.`,
	Args: cobra.RangeArgs(4, 5),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		treePath := args[0]
		outputDir := args[1]
		countsPath := args[2]

		var seed uint64
		if seed, err = strconv.ParseUint(args[3], 10, 64); err != nil {
			err = fmt.Errorf("rng_seed must be a 64-bit unsigned integer, received %q", args[3])
			io.LogError(err)
			return
		}
		rng := rand.New(rand.NewSource(seed))

		var counts []int
		if counts, err = readTransferCounts(countsPath); err != nil {
			io.LogError(err)
			return
		}

		rates := hgt.Rates(nil)
		if len(args) == 5 {
			if rates, err = hgt.ReadRates(args[4]); err != nil {
				io.LogError(err)
				return
			}
		}

		if err = os.MkdirAll(outputDir, 0755); err != nil {
			io.LogError(err)
			return
		}

		var content []byte
		if content, err = os.ReadFile(treePath); err != nil {
			io.LogError(err)
			return
		}

		// A parse failure is fatal to the affected tree only;
		// the remaining trees of the file are still processed.
		failures := 0
		for k, treeStr := range newick.SplitTrees(string(content)) {
			parsed, perr := newick.Parse(treeStr)
			if perr != nil {
				io.LogError(fmt.Errorf("tree %d: %w", k, perr))
				failures++
				continue
			}
			if gerr := simulateGeneTrees(parsed[0], filepath.Join(outputDir, fmt.Sprintf("tree_%d", k)), counts, rates, rng); gerr != nil {
				io.LogError(gerr)
				return gerr
			}
		}
		if failures > 0 {
			err = fmt.Errorf("%d input tree(s) could not be parsed", failures)
			return
		}
		return
	},
}

// readTransferCounts parses a comma-separated list of
// non-negative integers, one per gene tree to generate.
func readTransferCounts(path string) ([]int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	counts := make([]int, 0)
	for _, field := range strings.Split(strings.TrimSpace(string(content)), ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("transfer counts must be non-negative integers, received %q", field)
		}
		counts = append(counts, n)
	}
	return counts, nil
}

// simulateGeneTrees runs the gene-transfer pipeline for one
// species tree: every gene starts from the same species tree
// snapshot, and the sampler's CDF and contemporaneity index
// are never refreshed between transfers.
func simulateGeneTrees(root *tree.Node, treeDir string, counts []int, rates hgt.Rates, rng *rand.Rand) error {
	flat := timeCalibrate(root)

	sampler, err := hgt.NewSampler(flat, rates.Vector(flat), rng)
	if err != nil {
		return err
	}

	if geneTransferVerbose {
		fmt.Printf("Timeline: %d intervals over [0, %v]\n",
			len(sampler.Subdivision())-1, sampler.Subdivision()[len(sampler.Subdivision())-1])
		fmt.Printf("Edges alive through time: %v\n", tree.SpeciesThroughTime(sampler.Contemporaneity()))
	}

	transfersDir := filepath.Join(treeDir, "transfers")
	genesDir := filepath.Join(treeDir, "genes")
	if err := os.MkdirAll(transfersDir, 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(genesDir, 0755); err != nil {
		return err
	}

	for i, n := range counts {
		transfers, err := sampler.DrawN(n)
		if err != nil {
			return err
		}
		if err := hgt.WriteTransfersCSV(filepath.Join(transfersDir, fmt.Sprintf("transfers_%d.csv", i)), flat, transfers); err != nil {
			return err
		}

		gene := flat.Clone()
		if err := hgt.Apply(gene, transfers); err != nil {
			return err
		}
		out, err := emitTree(gene)
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(genesDir, fmt.Sprintf("gene_%d.nwk", i)), out); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	RootCmd.AddCommand(geneTransferCmd)

	geneTransferCmd.Flags().BoolVar(&geneTransferVerbose, "verbose", false, "Print the timeline subdivision and alive-edge counts")
}
