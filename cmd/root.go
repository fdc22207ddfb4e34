package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "hgtree",
	Short: "Simulate horizontal gene transfer on ultrametric species trees",
	Long: `hgtree simulates horizontal gene transfer (HGT) on rooted,
ultrametric phylogenetic trees and extracts contemporary subtrees.

Gene trees differ from the species tree by a sequence of
time-consistent SPR moves, each sampled from a time- and
rate-weighted density over the tree's timeline.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits nonzero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
