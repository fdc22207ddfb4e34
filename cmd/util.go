package cmd

import (
	"fmt"
	"os"

	"github.com/pythseq/hgtree/newick"
	"github.com/pythseq/hgtree/tree"
)

// readTree reads and parses the first tree of a Newick file.
func readTree(path string) (*tree.Node, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trees, err := newick.Parse(string(content))
	if err != nil {
		return nil, err
	}
	return trees[0], nil
}

// timeCalibrate prepares a freshly parsed tree for surgery:
// zero root length, depths from the root, flat form.
func timeCalibrate(root *tree.Node) *tree.FlatTree {
	root.ZeroRootLength()
	root.AssignDepths(0.0)
	return root.ToFlat()
}

// emitTree converts a pruned or rearranged flat tree back to
// Newick, recomputing branch lengths from depths.
func emitTree(t *tree.FlatTree) (string, error) {
	root := t.ToNode()
	if !root.HasDepth() {
		return "", fmt.Errorf("root depth not found")
	}
	root.DepthsToLengths(root.Depth)
	return newick.String(root), nil
}

// writeFile writes content to path, creating parent-less files
// only: callers are responsible for the directory.
func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
