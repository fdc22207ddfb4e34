package tree

import (
	"errors"
	"fmt"
)

// Structured failure kinds surfaced by the surgery primitives.
// Precondition violations point at bad moves generated by the
// caller; integrity errors indicate a malformed tree and are
// never expected on well-formed input.
var (
	ErrNotLeaf          = errors.New("node is not a leaf")
	ErrInvalidDonor     = errors.New("invalid donor node")
	ErrInvalidRecipient = errors.New("invalid recipient node")
	ErrInvalidMove      = errors.New("invalid SPR move")
	ErrTreeIntegrity    = errors.New("tree integrity error")
)

// sibling returns the other child of parent, given that child
// is one of its children.
func (t *FlatTree) sibling(parent, child int) (int, error) {
	p := &t.Nodes[parent]
	switch {
	case p.Left == child:
		if p.Right == NIL_INDEX {
			return NIL_INDEX, fmt.Errorf("%w: node %d is missing the sibling of %d", ErrTreeIntegrity, parent, child)
		}
		return p.Right, nil
	case p.Right == child:
		if p.Left == NIL_INDEX {
			return NIL_INDEX, fmt.Errorf("%w: node %d is missing the sibling of %d", ErrTreeIntegrity, parent, child)
		}
		return p.Left, nil
	default:
		return NIL_INDEX, fmt.Errorf("%w: node %d does not list %d as a child", ErrTreeIntegrity, parent, child)
	}
}

// replaceChild rewrites the child slot of parent holding old
// with next.
func (t *FlatTree) replaceChild(parent, old, next int) error {
	p := &t.Nodes[parent]
	switch {
	case p.Left == old:
		p.Left = next
	case p.Right == old:
		p.Right = next
	default:
		return fmt.Errorf("%w: node %d does not list %d as a child", ErrTreeIntegrity, parent, old)
	}
	return nil
}

// RemoveLeaf splices the leaf i and its parent out of the
// tree. The sibling of i takes the parent's former position;
// if the parent was the root, the sibling becomes the new
// root. The pruned slots are retained but detached, so indices
// of the remaining nodes are stable.
//
// Depths on the promoted sibling are preserved; the parent's
// branch length is NOT merged into the sibling's (the
// systematics convention). Callers that need ultrametric
// branch lengths recompute them from depths afterwards.
func (t *FlatTree) RemoveLeaf(i int) error {
	if i < 0 || i >= len(t.Nodes) {
		return fmt.Errorf("%w: leaf index %d out of bounds", ErrTreeIntegrity, i)
	}
	if !t.Nodes[i].Tip() {
		return fmt.Errorf("%w: node %d", ErrNotLeaf, i)
	}
	parent := t.Nodes[i].Parent
	if parent == NIL_INDEX {
		return fmt.Errorf("%w: cannot remove the root node %d", ErrInvalidMove, i)
	}
	sibling, err := t.sibling(parent, i)
	if err != nil {
		return err
	}
	grandparent := t.Nodes[parent].Parent

	if grandparent != NIL_INDEX {
		if err := t.replaceChild(grandparent, parent, sibling); err != nil {
			return err
		}
		t.Nodes[sibling].Parent = grandparent
	} else {
		t.Root = sibling
		t.Nodes[sibling].Parent = NIL_INDEX
	}

	// Detach the pruned slots: both are kept in place but no
	// longer reachable from the root.
	t.Nodes[i].Parent = NIL_INDEX
	t.Nodes[parent].Parent = NIL_INDEX
	t.Nodes[parent].Left = NIL_INDEX
	t.Nodes[parent].Right = NIL_INDEX
	return nil
}

// SPR applies a time-dated subtree-prune-and-regraft move:
// the edge above recipient is detached together with the
// subtree below it, and regrafted by splitting the edge above
// donor at absolute time time, so that donor and recipient
// become siblings. The recipient's parent node is reused as
// the split point and re-dated to time, so no slot is
// allocated; the recipient's former sibling takes that
// parent's old position.
func (t *FlatTree) SPR(donor, recipient int, time float64) error {
	return t.spr(donor, recipient, time, true)
}

// SPRTopology is SPR without imposing a time on the regrafted
// parent. Used when the caller has no transfer time: the move
// changes topology only.
func (t *FlatTree) SPRTopology(donor, recipient int) error {
	return t.spr(donor, recipient, 0, false)
}

func (t *FlatTree) spr(donor, recipient int, time float64, dated bool) error {
	if donor < 0 || donor >= len(t.Nodes) {
		return fmt.Errorf("%w: index %d out of bounds", ErrInvalidDonor, donor)
	}
	if recipient < 0 || recipient >= len(t.Nodes) {
		return fmt.Errorf("%w: index %d out of bounds", ErrInvalidRecipient, recipient)
	}
	if donor == t.Root {
		return fmt.Errorf("%w: donor %d is the root", ErrInvalidDonor, donor)
	}
	if recipient == t.Root {
		return fmt.Errorf("%w: recipient %d is the root", ErrInvalidRecipient, recipient)
	}
	if donor == recipient {
		return fmt.Errorf("%w: donor and recipient are both %d", ErrInvalidMove, donor)
	}
	donorParent := t.Nodes[donor].Parent
	if donorParent == NIL_INDEX {
		return fmt.Errorf("%w: non-root donor %d has no parent", ErrTreeIntegrity, donor)
	}
	recipientParent := t.Nodes[recipient].Parent
	if recipientParent == NIL_INDEX {
		return fmt.Errorf("%w: non-root recipient %d has no parent", ErrTreeIntegrity, recipient)
	}
	if donor == recipientParent {
		return fmt.Errorf("%w: donor %d is the parent of recipient %d", ErrInvalidMove, donor, recipient)
	}
	if t.IsAncestor(donor, recipient) {
		return fmt.Errorf("%w: donor %d is an ancestor of recipient %d", ErrInvalidMove, donor, recipient)
	}
	// The reverse direction would wire the recipient's parent
	// into its own subtree. Contemporaneous edges are never
	// ancestor-related, so the sampler cannot produce this; it
	// is rejected here to keep the invariants unconditional.
	if t.IsAncestor(recipient, donor) {
		return fmt.Errorf("%w: recipient %d is an ancestor of donor %d", ErrInvalidMove, recipient, donor)
	}

	if donorParent == recipientParent {
		// Donor and recipient are already siblings: the move
		// only re-dates their common parent.
		if dated {
			t.Nodes[recipientParent].Depth = time
		}
		return nil
	}

	recipientSibling, err := t.sibling(recipientParent, recipient)
	if err != nil {
		return err
	}
	recipientGrandparent := t.Nodes[recipientParent].Parent

	// The recipient's parent moves under the donor's parent
	// and takes the donor in the recipient's child slot.
	t.Nodes[recipientParent].Parent = donorParent
	if err := t.replaceChild(recipientParent, recipient, donor); err != nil {
		return err
	}
	if dated {
		t.Nodes[recipientParent].Depth = time
	}

	// The recipient's sibling takes the recipient's parent's
	// former position; if that parent was the root, the
	// sibling becomes the new root.
	if recipientGrandparent != NIL_INDEX {
		if err := t.replaceChild(recipientGrandparent, recipientParent, recipientSibling); err != nil {
			return err
		}
		t.Nodes[recipientSibling].Parent = recipientGrandparent
	} else {
		t.Nodes[recipientSibling].Parent = NIL_INDEX
		t.Root = recipientSibling
	}

	// The donor's parent adopts the recipient's parent in the
	// donor's slot.
	if err := t.replaceChild(donorParent, donor, recipientParent); err != nil {
		return err
	}
	t.Nodes[donor].Parent = recipientParent

	// The recipient re-attaches as the other child of its
	// former parent, in the slot its sibling vacated.
	if err := t.replaceChild(recipientParent, recipientSibling, recipient); err != nil {
		return err
	}
	t.Nodes[recipient].Parent = recipientParent
	return nil
}
