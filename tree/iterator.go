package tree

// TraversalOrder selects the order in which Iter visits nodes.
// The left child is always visited before the right child.
type TraversalOrder int

const (
	PreOrder TraversalOrder = iota
	InOrder
	PostOrder
)

type iterPhase int

const (
	phaseStart iterPhase = iota
	phaseLeft
	phaseRight
	phaseEnd
)

type nodeState struct {
	node  *Node
	phase iterPhase
}

// NodeIter is a lazy, non-restartable iterator over the
// recursive representation.
type NodeIter struct {
	stack []nodeState
	order TraversalOrder
}

// Iter returns an iterator over the subtree rooted at n
// in the given order.
func (n *Node) Iter(order TraversalOrder) *NodeIter {
	return &NodeIter{
		stack: []nodeState{{node: n, phase: phaseStart}},
		order: order,
	}
}

// Next returns the next node, or false when the traversal
// is exhausted.
func (it *NodeIter) Next() (*Node, bool) {
	for len(it.stack) > 0 {
		state := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		switch state.phase {
		case phaseStart:
			switch it.order {
			case PreOrder:
				it.stack = append(it.stack,
					nodeState{state.node, phaseRight},
					nodeState{state.node, phaseLeft})
				return state.node, true
			case InOrder:
				it.stack = append(it.stack,
					nodeState{state.node, phaseRight},
					nodeState{state.node, phaseEnd},
					nodeState{state.node, phaseLeft})
			case PostOrder:
				it.stack = append(it.stack,
					nodeState{state.node, phaseEnd},
					nodeState{state.node, phaseRight},
					nodeState{state.node, phaseLeft})
			}
		case phaseLeft:
			if state.node.Left != nil {
				it.stack = append(it.stack, nodeState{state.node.Left, phaseStart})
			}
		case phaseRight:
			if state.node.Right != nil {
				it.stack = append(it.stack, nodeState{state.node.Right, phaseStart})
			}
		case phaseEnd:
			if it.order == InOrder || it.order == PostOrder {
				return state.node, true
			}
		}
	}
	return nil, false
}

type flatState struct {
	index int
	phase iterPhase
}

// FlatIter is a lazy, non-restartable iterator over the flat
// representation. It yields node indices so that callers can
// both read and address nodes.
type FlatIter struct {
	tree  *FlatTree
	stack []flatState
	order TraversalOrder
}

// Iter returns an iterator over the nodes reachable from the
// root, in the given order. Slots orphaned by pruning are not
// visited.
func (t *FlatTree) Iter(order TraversalOrder) *FlatIter {
	return &FlatIter{
		tree:  t,
		stack: []flatState{{index: t.Root, phase: phaseStart}},
		order: order,
	}
}

// Next returns the index of the next node, or false when the
// traversal is exhausted.
func (it *FlatIter) Next() (int, bool) {
	for len(it.stack) > 0 {
		state := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		switch state.phase {
		case phaseStart:
			switch it.order {
			case PreOrder:
				it.stack = append(it.stack,
					flatState{state.index, phaseRight},
					flatState{state.index, phaseLeft})
				return state.index, true
			case InOrder:
				it.stack = append(it.stack,
					flatState{state.index, phaseRight},
					flatState{state.index, phaseEnd},
					flatState{state.index, phaseLeft})
			case PostOrder:
				it.stack = append(it.stack,
					flatState{state.index, phaseEnd},
					flatState{state.index, phaseRight},
					flatState{state.index, phaseLeft})
			}
		case phaseLeft:
			if left := it.tree.Nodes[state.index].Left; left != NIL_INDEX {
				it.stack = append(it.stack, flatState{left, phaseStart})
			}
		case phaseRight:
			if right := it.tree.Nodes[state.index].Right; right != NIL_INDEX {
				it.stack = append(it.stack, flatState{right, phaseStart})
			}
		case phaseEnd:
			if it.order == InOrder || it.order == PostOrder {
				return state.index, true
			}
		}
	}
	return NIL_INDEX, false
}
