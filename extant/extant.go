/*
   Package extant selects subsets of leaves from a
   time-calibrated tree and prunes the complement
*/
package extant

import (
	"sort"

	"github.com/fredericlemoine/bitset"
	"golang.org/x/exp/rand"

	"github.com/pythseq/hgtree/tree"
)

// DeepestLeaves returns the indices of the k deepest leaves,
// in descending depth order. Equal depths keep their
// first-seen order. On an ultrametric tree with extinct
// lineages, the deepest leaves are the extant species.
func DeepestLeaves(t *tree.FlatTree, k int) []int {
	return topLeaves(t, k, func(n *tree.FlatNode) float64 { return n.Depth }, true)
}

// SampleDiversified returns the k leaves with the longest
// terminal branches.
func SampleDiversified(t *tree.FlatTree, k int) []int {
	return topLeaves(t, k, func(n *tree.FlatNode) float64 { return n.Length }, true)
}

// SampleClustered returns the k leaves with the shortest
// terminal branches.
func SampleClustered(t *tree.FlatTree, k int) []int {
	return topLeaves(t, k, func(n *tree.FlatNode) float64 { return n.Length }, false)
}

func topLeaves(t *tree.FlatTree, k int, key func(*tree.FlatNode) float64, descending bool) []int {
	leaves := t.Leaves()
	sort.SliceStable(leaves, func(a, b int) bool {
		ka := key(&t.Nodes[leaves[a]])
		kb := key(&t.Nodes[leaves[b]])
		if descending {
			return ka > kb
		}
		return ka < kb
	})
	if k < 0 {
		k = 0
	}
	if k > len(leaves) {
		k = len(leaves)
	}
	return leaves[:k]
}

// SampleRandom draws k leaves uniformly without replacement
// from the leaves of t whose names also occur as leaves of the
// reference tree.
func SampleRandom(t, reference *tree.FlatTree, k int, rng *rand.Rand) []int {
	names := make(map[string]struct{})
	for _, i := range reference.Leaves() {
		names[reference.Nodes[i].Name] = struct{}{}
	}
	candidates := make([]int, 0)
	for _, i := range t.Leaves() {
		if _, ok := names[t.Nodes[i].Name]; ok {
			candidates = append(candidates, i)
		}
	}
	if k < 0 {
		k = 0
	}
	if k > len(candidates) {
		k = len(candidates)
	}
	sampled := make([]int, 0, k)
	for _, p := range rng.Perm(len(candidates))[:k] {
		sampled = append(sampled, candidates[p])
	}
	return sampled
}

// Complement returns the leaves of t that are not in keep, in
// pre-order. Membership goes through a bitset so the filter
// stays linear in the number of leaves.
func Complement(t *tree.FlatTree, keep []int) []int {
	kept := bitset.New(uint(t.Len()))
	for _, i := range keep {
		kept.Set(uint(i))
	}
	removed := make([]int, 0)
	for _, i := range t.Leaves() {
		if !kept.Test(uint(i)) {
			removed = append(removed, i)
		}
	}
	return removed
}

// LeavesNamed returns the leaf indices of t whose name occurs
// in names.
func LeavesNamed(t *tree.FlatTree, names []string) []int {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}
	matched := make([]int, 0)
	for _, i := range t.Leaves() {
		if _, ok := wanted[t.Nodes[i].Name]; ok {
			matched = append(matched, i)
		}
	}
	return matched
}

// RemoveAll prunes the given leaves one by one. The order is
// insignificant: leaves that are not ancestors of each other
// stay leaves after any number of removals.
func RemoveAll(t *tree.FlatTree, leaves []int) error {
	for _, i := range leaves {
		if err := t.RemoveLeaf(i); err != nil {
			return err
		}
	}
	return nil
}

// Names resolves indices to node names.
func Names(t *tree.FlatTree, indices []int) []string {
	names := make([]string, 0, len(indices))
	for _, i := range indices {
		names = append(names, t.Nodes[i].Name)
	}
	return names
}
