package tree

import (
	"github.com/pythseq/hgtree/io"
)

// FlatNode mirrors Node with child and parent links replaced
// by indices into the backing slice. NIL_INDEX marks an absent
// neighbor.
type FlatNode struct {
	Name   string
	Left   int
	Right  int
	Parent int
	Depth  float64
	Length float64
}

// Returns true if the node is a tip (no children)
func (n *FlatNode) Tip() bool {
	return n.Left == NIL_INDEX && n.Right == NIL_INDEX
}

// Returns true if the depth of the node has been assigned
func (n *FlatNode) HasDepth() bool {
	return n.Depth != NIL_DEPTH
}

// FlatTree is the working representation for all mutating
// operations. The slice grows monotonically: pruning detaches
// slots instead of renumbering, so indices stay stable across
// surgery.
type FlatTree struct {
	Nodes []FlatNode
	Root  int
}

// Len returns the number of slots in the backing slice,
// including slots orphaned by pruning.
func (t *FlatTree) Len() int {
	return len(t.Nodes)
}

// Clone returns a deep copy of the flat tree.
func (t *FlatTree) Clone() *FlatTree {
	nodes := make([]FlatNode, len(t.Nodes))
	copy(nodes, t.Nodes)
	return &FlatTree{Nodes: nodes, Root: t.Root}
}

// ToFlat converts the subtree rooted at n into a flat tree.
// Nodes are placed in pre-order, so the root of the subtree
// occupies index 0.
func (n *Node) ToFlat() *FlatTree {
	t := &FlatTree{Nodes: make([]FlatNode, 0)}
	t.Root = nodeToFlat(n, t, NIL_INDEX)
	return t
}

func nodeToFlat(n *Node, t *FlatTree, parent int) int {
	index := len(t.Nodes)
	t.Nodes = append(t.Nodes, FlatNode{
		Name:   n.Name,
		Left:   NIL_INDEX,
		Right:  NIL_INDEX,
		Parent: parent,
		Depth:  n.Depth,
		Length: n.Length,
	})
	if n.Left != nil {
		t.Nodes[index].Left = nodeToFlat(n.Left, t, index)
	}
	if n.Right != nil {
		t.Nodes[index].Right = nodeToFlat(n.Right, t, index)
	}
	return index
}

// ToNode converts the flat tree back into the recursive form,
// starting from the root and following child indices. Slots
// orphaned by pruning are not visited, so ToNode is the exact
// inverse of ToFlat only on unpruned trees.
func (t *FlatTree) ToNode() *Node {
	return t.flatToNode(t.Root)
}

func (t *FlatTree) flatToNode(index int) *Node {
	flat := &t.Nodes[index]
	n := &Node{
		Name:   flat.Name,
		Depth:  flat.Depth,
		Length: flat.Length,
	}
	if flat.Left != NIL_INDEX {
		n.Left = t.flatToNode(flat.Left)
	}
	if flat.Right != NIL_INDEX {
		n.Right = t.flatToNode(flat.Right)
	}
	return n
}

// FindByName returns the first index whose name equals name,
// or NIL_INDEX. Name uniqueness is not enforced; callers that
// need it must check.
func (t *FlatTree) FindByName(name string) int {
	for i := range t.Nodes {
		if t.Nodes[i].Name == name {
			return i
		}
	}
	return NIL_INDEX
}

// Leaves returns the indices of all tips reachable from the
// root, in pre-order.
func (t *FlatTree) Leaves() []int {
	leaves := make([]int, 0)
	it := t.Iter(PreOrder)
	for i, ok := it.Next(); ok; i, ok = it.Next() {
		if t.Nodes[i].Tip() {
			leaves = append(leaves, i)
		}
	}
	return leaves
}

// IsAncestor returns true iff a != d and walking parent links
// from d reaches a. Malformed parent chains (cycles, a root
// with a parent) are diagnosed and treated as "not an
// ancestor".
func (t *FlatTree) IsAncestor(a, d int) bool {
	if a < 0 || a >= len(t.Nodes) || d < 0 || d >= len(t.Nodes) {
		return false
	}
	if a == d {
		return false
	}
	current := t.Nodes[d].Parent
	for steps := 0; current != NIL_INDEX; steps++ {
		if current == a {
			return true
		}
		if current == t.Root && t.Nodes[t.Root].Parent != NIL_INDEX {
			io.LogWarning("root node %d has an unexpected parent during ancestry check", t.Root)
			return false
		}
		if current == d || steps >= len(t.Nodes) {
			io.LogWarning("cycle detected involving node %d during ancestry check", d)
			return false
		}
		current = t.Nodes[current].Parent
	}
	return false
}

// FindRoot walks parent links from the given node up to the
// node with no parent. Useful after batch pruning when the
// caller wants to re-derive the root from a kept leaf.
func (t *FlatTree) FindRoot(from int) int {
	current := from
	for t.Nodes[current].Parent != NIL_INDEX {
		current = t.Nodes[current].Parent
	}
	return current
}
