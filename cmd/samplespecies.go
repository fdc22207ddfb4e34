package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/pythseq/hgtree/extant"
	"github.com/pythseq/hgtree/io"
	"github.com/pythseq/hgtree/tree"
)

var sampleGenesDir string
var sampleGenesFrom int
var sampleGenesTo int

// sampleSpeciesCmd represents the sample-species command
var sampleSpeciesCmd = &cobra.Command{
	Use:   "sample-species <species_tree.nwk> <reference.nwk> <k> <output_dir> <rng_seed>",
	Short: "Randomly sample species present in a reference tree",
	Long: `Randomly sample species present in a reference tree.

Draws k leaves uniformly without replacement from the leaves
of the species tree whose names also occur in the reference
tree, prunes every other leaf and writes
<output_dir>/sampled_species_tree.nwk.

With --genes, additionally prunes the removed species from the
gene trees <genes>/genes/gene_i.nwk for i in [--from, --to)
and writes each result as <output_dir>/sampled_gene_i.nwk.`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var k int
		if k, err = strconv.Atoi(args[2]); err != nil || k < 0 {
			err = fmt.Errorf("k must be a non-negative integer, received %q", args[2])
			io.LogError(err)
			return
		}
		var seed uint64
		if seed, err = strconv.ParseUint(args[4], 10, 64); err != nil {
			err = fmt.Errorf("rng_seed must be a 64-bit unsigned integer, received %q", args[4])
			io.LogError(err)
			return
		}
		rng := rand.New(rand.NewSource(seed))
		outputDir := args[3]
		if err = os.MkdirAll(outputDir, 0755); err != nil {
			io.LogError(err)
			return
		}

		var speciesRoot, referenceRoot *tree.Node
		if speciesRoot, err = readTree(args[0]); err != nil {
			io.LogError(err)
			return
		}
		if referenceRoot, err = readTree(args[1]); err != nil {
			io.LogError(err)
			return
		}

		flat := timeCalibrate(speciesRoot)
		reference := referenceRoot.ToFlat()

		sampled := extant.SampleRandom(flat, reference, k, rng)
		if len(sampled) == 0 {
			err = fmt.Errorf("no species tree leaf matches the reference tree")
			io.LogError(err)
			return
		}
		removed := extant.Complement(flat, sampled)
		sampledNames := extant.Names(flat, sampled)
		removedNames := extant.Names(flat, removed)

		if err = extant.RemoveAll(flat, removed); err != nil {
			io.LogError(err)
			return
		}
		var out string
		if out, err = emitTree(flat); err != nil {
			io.LogError(err)
			return
		}
		if err = writeFile(filepath.Join(outputDir, "sampled_species_tree.nwk"), out); err != nil {
			io.LogError(err)
			return
		}

		fmt.Printf("Sampled Leaves: %v\n", sampledNames)
		fmt.Printf("Removed Leaves: %v\n", removedNames)

		if sampleGenesDir != "" {
			if err = sampleGeneTrees(removedNames, outputDir); err != nil {
				io.LogError(err)
				return
			}
		}
		return
	},
}

// sampleGeneTrees prunes the removed species from each gene
// tree in the configured index range. Gene trees that fail to
// read or parse are reported and skipped.
func sampleGeneTrees(removedNames []string, outputDir string) error {
	for i := sampleGenesFrom; i < sampleGenesTo; i++ {
		genePath := filepath.Join(sampleGenesDir, "genes", fmt.Sprintf("gene_%d.nwk", i))
		root, err := readTree(genePath)
		if err != nil {
			io.LogError(fmt.Errorf("gene tree %d: %w", i, err))
			continue
		}
		flat := timeCalibrate(root)
		if err := extant.RemoveAll(flat, extant.LeavesNamed(flat, removedNames)); err != nil {
			return err
		}
		out, err := emitTree(flat)
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(outputDir, fmt.Sprintf("sampled_gene_%d.nwk", i)), out); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	RootCmd.AddCommand(sampleSpeciesCmd)

	sampleSpeciesCmd.Flags().StringVar(&sampleGenesDir, "genes", "", "Directory holding a genes/gene_i.nwk family to sample as well")
	sampleSpeciesCmd.Flags().IntVar(&sampleGenesFrom, "from", 0, "First gene tree index (inclusive)")
	sampleSpeciesCmd.Flags().IntVar(&sampleGenesTo, "to", 0, "Last gene tree index (exclusive)")
}
