package tree_test

import (
	"reflect"
	"testing"

	"github.com/pythseq/hgtree/newick"
	"github.com/pythseq/hgtree/tree"
)

func parseTree(t *testing.T, s string) *tree.Node {
	t.Helper()
	trees, err := newick.Parse(s)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", s, err)
	}
	return trees[0]
}

func TestToFlatPreOrderPlacement(t *testing.T) {
	root := parseTree(t, "((A:1,B:2)C:1,D:5)R:0;")
	flat := root.ToFlat()

	if flat.Root != 0 {
		t.Errorf("root should occupy index 0, got %d", flat.Root)
	}
	wantNames := []string{"R", "C", "A", "B", "D"}
	if flat.Len() != len(wantNames) {
		t.Fatalf("expected %d nodes, got %d", len(wantNames), flat.Len())
	}
	for i, name := range wantNames {
		if flat.Nodes[i].Name != name {
			t.Errorf("node %d: expected name %s, got %s", i, name, flat.Nodes[i].Name)
		}
	}
	// Parent/child wiring of the pre-order layout
	if flat.Nodes[0].Left != 1 || flat.Nodes[0].Right != 4 {
		t.Errorf("root children should be 1 and 4, got %d and %d", flat.Nodes[0].Left, flat.Nodes[0].Right)
	}
	if flat.Nodes[1].Left != 2 || flat.Nodes[1].Right != 3 {
		t.Errorf("node C children should be 2 and 3, got %d and %d", flat.Nodes[1].Left, flat.Nodes[1].Right)
	}
	for i, wantParent := range []int{tree.NIL_INDEX, 0, 1, 1, 0} {
		if flat.Nodes[i].Parent != wantParent {
			t.Errorf("node %d: expected parent %d, got %d", i, wantParent, flat.Nodes[i].Parent)
		}
	}
}

func TestFlatRoundTrip(t *testing.T) {
	root := parseTree(t, "((A:1,B:2)C:1,D:5)R:0;")
	root.ZeroRootLength()
	root.AssignDepths(0.0)

	flat := root.ToFlat()
	back := flat.ToNode()
	if !tree.EqualWithLengths(root, back) {
		t.Errorf("ToNode(ToFlat(n)) differs from n")
	}

	// ToFlat after ToNode reproduces the same slice on an
	// unpruned tree.
	again := back.ToFlat()
	if !reflect.DeepEqual(flat.Nodes, again.Nodes) || flat.Root != again.Root {
		t.Errorf("ToFlat(ToNode(t)) differs from t")
	}
}

func traversalNames(flat *tree.FlatTree, order tree.TraversalOrder) []string {
	names := make([]string, 0)
	it := flat.Iter(order)
	for i, ok := it.Next(); ok; i, ok = it.Next() {
		names = append(names, flat.Nodes[i].Name)
	}
	return names
}

func TestTraversalOrders(t *testing.T) {
	flat := parseTree(t, "((A:1,B:2)C:1,D:5)R:0;").ToFlat()

	tests := []struct {
		order tree.TraversalOrder
		want  []string
	}{
		{tree.PreOrder, []string{"R", "C", "A", "B", "D"}},
		{tree.InOrder, []string{"A", "C", "B", "R", "D"}},
		{tree.PostOrder, []string{"A", "B", "C", "D", "R"}},
	}
	for _, test := range tests {
		got := traversalNames(flat, test.order)
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("order %v: expected %v, got %v", test.order, test.want, got)
		}
	}
}

func TestNodeIterMatchesFlatIter(t *testing.T) {
	root := parseTree(t, "(((A:1,B:1)P:1,C:2)S:1,D:3)R:0;")
	flat := root.ToFlat()

	for _, order := range []tree.TraversalOrder{tree.PreOrder, tree.InOrder, tree.PostOrder} {
		fromFlat := traversalNames(flat, order)
		fromNode := make([]string, 0)
		it := root.Iter(order)
		for n, ok := it.Next(); ok; n, ok = it.Next() {
			fromNode = append(fromNode, n.Name)
		}
		if !reflect.DeepEqual(fromFlat, fromNode) {
			t.Errorf("order %v: flat %v != recursive %v", order, fromFlat, fromNode)
		}
	}
}

func TestFindByName(t *testing.T) {
	flat := parseTree(t, "((A:1,B:2)C:1,D:5)R:0;").ToFlat()

	if got := flat.FindByName("B"); got != 3 {
		t.Errorf("expected index 3 for B, got %d", got)
	}
	if got := flat.FindByName("nope"); got != tree.NIL_INDEX {
		t.Errorf("expected NIL_INDEX for a missing name, got %d", got)
	}
}

func TestIsAncestor(t *testing.T) {
	flat := parseTree(t, "((A:1,B:2)C:1,D:5)R:0;").ToFlat()
	// 0=R 1=C 2=A 3=B 4=D

	tests := []struct {
		a, d int
		want bool
	}{
		{0, 2, true},  // root is ancestor of A
		{1, 3, true},  // C is ancestor of B
		{1, 4, false}, // C is not an ancestor of D
		{2, 1, false}, // child is not an ancestor of its parent
		{2, 2, false}, // a node is not its own ancestor
	}
	for _, test := range tests {
		if got := flat.IsAncestor(test.a, test.d); got != test.want {
			t.Errorf("IsAncestor(%d,%d): expected %v, got %v", test.a, test.d, test.want, got)
		}
	}
}

func TestLeaves(t *testing.T) {
	flat := parseTree(t, "((A:1,B:2)C:1,D:5)R:0;").ToFlat()
	if got := flat.Leaves(); !reflect.DeepEqual(got, []int{2, 3, 4}) {
		t.Errorf("expected leaves [2 3 4], got %v", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	flat := parseTree(t, "((A:1,B:2)C:1,D:5)R:0;").ToFlat()
	clone := flat.Clone()
	clone.Nodes[2].Name = "mutated"
	if flat.Nodes[2].Name != "A" {
		t.Errorf("mutating the clone changed the original")
	}
}
