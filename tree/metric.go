package tree

import (
	"math"
	"sort"
)

// ZeroRootLength forces the branch length of the node to zero.
// Called on the root before AssignDepths so that depth(root) = 0.
func (n *Node) ZeroRootLength() {
	n.Length = 0.0
}

// AssignDepths propagates depths down the subtree:
// depth(child) = depth(parent) + length(child).
func (n *Node) AssignDepths(currentDepth float64) {
	n.Depth = currentDepth
	if n.Left != nil {
		n.Left.AssignDepths(currentDepth + n.Left.Length)
	}
	if n.Right != nil {
		n.Right.AssignDepths(currentDepth + n.Right.Length)
	}
}

// DepthsToLengths recomputes branch lengths from depths:
// length(node) = depth(node) - depth(parent). The inverse of
// AssignDepths on ultrametric trees with zero root length.
func (n *Node) DepthsToLengths(parentDepth float64) {
	n.Length = n.Depth - parentDepth
	if n.Left != nil {
		n.Left.DepthsToLengths(n.Depth)
	}
	if n.Right != nil {
		n.Right.DepthsToLengths(n.Depth)
	}
}

// TotalLength returns the sum of all branch lengths in the
// subtree, root branch included.
func (n *Node) TotalLength() float64 {
	total := 0.0
	it := n.Iter(PreOrder)
	for node, ok := it.Next(); ok; node, ok = it.Next() {
		total += node.Length
	}
	return total
}

// ZeroRootLength forces the branch length of the root to zero.
func (t *FlatTree) ZeroRootLength() {
	t.Nodes[t.Root].Length = 0.0
}

// AssignDepths propagates depths from the root over all
// reachable nodes. The root is given depth 0 whatever its
// stored branch length; that length is left unchanged.
func (t *FlatTree) AssignDepths() {
	t.Nodes[t.Root].Depth = 0.0
	stack := []int{t.Root}
	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		depth := t.Nodes[index].Depth
		if left := t.Nodes[index].Left; left != NIL_INDEX {
			t.Nodes[left].Depth = depth + t.Nodes[left].Length
			stack = append(stack, left)
		}
		if right := t.Nodes[index].Right; right != NIL_INDEX {
			t.Nodes[right].Depth = depth + t.Nodes[right].Length
			stack = append(stack, right)
		}
	}
}

// TotalLength returns the sum of branch lengths over every
// slot, orphaned slots included.
func (t *FlatTree) TotalLength() float64 {
	total := 0.0
	for i := range t.Nodes {
		total += t.Nodes[i].Length
	}
	return total
}

// Subdivision returns the sorted, deduplicated sequence of
// node depths: the partition of the timeline induced by the
// nodes of the tree. For ((A:1,B:2)C:1,D:5)R:0 the subdivision
// is [0,1,2,3,5].
func (t *FlatTree) Subdivision() []float64 {
	depths := make([]float64, 0, len(t.Nodes))
	for i := range t.Nodes {
		if t.Nodes[i].HasDepth() {
			depths = append(depths, t.Nodes[i].Depth)
		}
	}
	sort.Float64s(depths)
	deduped := depths[:0]
	for i, d := range depths {
		if i == 0 || d != deduped[len(deduped)-1] {
			deduped = append(deduped, d)
		}
	}
	return deduped
}

// Intervals returns the widths of the subdivision intervals.
// A leading zero keeps the vector the same size as the
// subdivision: for depths [0,1,2,3,5] the intervals are
// [0,1,1,1,2].
func (t *FlatTree) Intervals() []float64 {
	depths := t.Subdivision()
	intervals := make([]float64, 0, len(depths))
	intervals = append(intervals, 0.0)
	for i := 0; i < len(depths)-1; i++ {
		intervals = append(intervals, depths[i+1]-depths[i])
	}
	return intervals
}

// FindClosestIndex locates v in the sorted subdivision. On an
// exact hit it returns the matching index; on a miss it
// returns the neighbor minimizing |subdivision[i]-v|, ties
// broken to the lower index. Snapping node endpoint times back
// to the grid absorbs the few ULPs of drift that depth
// recomputation can introduce.
func FindClosestIndex(subdivision []float64, v float64) int {
	idx := sort.SearchFloat64s(subdivision, v)
	if idx < len(subdivision) && subdivision[idx] == v {
		return idx
	}
	if idx == 0 {
		return 0
	}
	if idx == len(subdivision) {
		return len(subdivision) - 1
	}
	if math.Abs(v-subdivision[idx-1]) <= math.Abs(v-subdivision[idx]) {
		return idx - 1
	}
	return idx
}

// Contemporaneity computes, for each subdivision interval, the
// set of node indices whose edge is alive within it. The edge
// above node v spans (depth(v)-length(v), depth(v)]; v is
// appended to every interval j in (start, end] after snapping
// both endpoints to the grid. The entry at j=0 is always
// empty, and the root contributes nothing (zero length).
func (t *FlatTree) Contemporaneity(subdivision []float64) [][]int {
	contemporaneity := make([][]int, len(subdivision))
	for j := range contemporaneity {
		contemporaneity[j] = make([]int, 0)
	}
	for i := range t.Nodes {
		if !t.Nodes[i].HasDepth() {
			continue
		}
		end := t.Nodes[i].Depth
		start := end - t.Nodes[i].Length
		startIndex := FindClosestIndex(subdivision, start)
		endIndex := FindClosestIndex(subdivision, end)
		// The node is not alive on the interval ending at its
		// own birth time.
		for j := startIndex + 1; j <= endIndex; j++ {
			contemporaneity[j] = append(contemporaneity[j], i)
		}
	}
	return contemporaneity
}

// SpeciesThroughTime returns the number of edges alive in each
// subdivision interval.
func SpeciesThroughTime(contemporaneity [][]int) []float64 {
	counts := make([]float64, len(contemporaneity))
	for j, alive := range contemporaneity {
		counts[j] = float64(len(alive))
	}
	return counts
}
