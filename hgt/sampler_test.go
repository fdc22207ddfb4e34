package hgt_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/pythseq/hgtree/hgt"
	"github.com/pythseq/hgtree/newick"
	"github.com/pythseq/hgtree/tree"
)

const testTree = "((A:1,B:2)C:1,D:5)R:0;"

// a 10-leaf ultrametric tree of height 5
const bigTree = "(((T1:1,T2:1)I1:1,(T3:1.5,T4:1.5)I2:0.5)I3:3," +
	"(((T5:1,T6:1)I4:1,(T7:1.5,T8:1.5)I5:0.5)I6:1,(T9:2.5,T10:2.5)I7:0.5)I8:2)R:0;"

func prepare(t *testing.T, s string) *tree.FlatTree {
	t.Helper()
	trees, err := newick.Parse(s)
	require.NoError(t, err)
	root := trees[0]
	root.ZeroRootLength()
	root.AssignDepths(0.0)
	return root.ToFlat()
}

func uniformRates(t *tree.FlatTree) []float64 {
	return hgt.Rates(nil).Vector(t)
}

func TestIntervalIntensity(t *testing.T) {
	contemporaneity := [][]int{{}, {1, 4}, {2, 3, 4}, {3, 4}, {4}}
	rates := []float64{1, 1, 1, 1, 1}
	require.Equal(t, []float64{0, 2, 3, 2, 1}, hgt.IntervalIntensity(contemporaneity, rates))

	weighted := []float64{1, 2, 1, 3, 0.5}
	require.Equal(t, []float64{0, 2.5, 4.5, 3.5, 0.5}, hgt.IntervalIntensity(contemporaneity, weighted))
}

func TestMakeCDF(t *testing.T) {
	intervals := []float64{0, 1, 1, 1, 2}
	intensity := []float64{0, 2, 3, 2, 1}
	cdf, err := hgt.MakeCDF(intervals, intensity)
	require.NoError(t, err)

	require.Equal(t, 0.0, cdf[0], "C[0] must be exactly 0")
	require.Equal(t, 1.0, cdf[len(cdf)-1], "C[m-1] must be exactly 1")
	for j := 1; j < len(cdf); j++ {
		require.GreaterOrEqual(t, cdf[j], cdf[j-1], "the CDF must be monotone")
	}
	require.InDelta(t, 2.0/9.0, cdf[1], 1e-12)
	require.InDelta(t, 5.0/9.0, cdf[2], 1e-12)
	require.InDelta(t, 7.0/9.0, cdf[3], 1e-12)
}

func TestMakeCDFDegenerate(t *testing.T) {
	_, err := hgt.MakeCDF([]float64{0, 1}, []float64{0, 0})
	require.ErrorIs(t, err, hgt.ErrDegenerateCDF)

	_, err = hgt.MakeCDF(nil, nil)
	require.ErrorIs(t, err, hgt.ErrDegenerateCDF)
}

func TestSamplerDrawProperties(t *testing.T) {
	flat := prepare(t, bigTree)
	rng := rand.New(rand.NewSource(7))
	sampler, err := hgt.NewSampler(flat, uniformRates(flat), rng)
	require.NoError(t, err)

	maxDepth := sampler.Subdivision()[len(sampler.Subdivision())-1]
	for i := 0; i < 200; i++ {
		transfer, err := sampler.Draw()
		require.NoError(t, err)

		require.NotEqual(t, transfer.Donor, transfer.Recipient)
		require.NotEqual(t, flat.Root, transfer.Donor)
		require.NotEqual(t, flat.Root, transfer.Recipient)
		require.False(t, flat.IsAncestor(transfer.Donor, transfer.Recipient),
			"the donor must never be an ancestor of the recipient")
		require.Greater(t, transfer.Time, 0.0)
		require.LessOrEqual(t, transfer.Time, maxDepth)

		// Both edges are alive at the transfer time.
		for _, v := range []int{transfer.Donor, transfer.Recipient} {
			end := flat.Nodes[v].Depth
			start := end - flat.Nodes[v].Length
			require.GreaterOrEqual(t, transfer.Time, start-1e-9)
			require.LessOrEqual(t, transfer.Time, end+1e-9)
		}
	}
}

func TestDrawNSortedByTime(t *testing.T) {
	flat := prepare(t, bigTree)
	rng := rand.New(rand.NewSource(3))
	sampler, err := hgt.NewSampler(flat, uniformRates(flat), rng)
	require.NoError(t, err)

	transfers, err := sampler.DrawN(25)
	require.NoError(t, err)
	require.Len(t, transfers, 25)
	for i := 1; i < len(transfers); i++ {
		require.LessOrEqual(t, transfers[i-1].Time, transfers[i].Time,
			"transfers must be sorted by time ascending")
	}
}

func TestSamplerDeterminism(t *testing.T) {
	draw := func() []hgt.Transfer {
		flat := prepare(t, bigTree)
		rng := rand.New(rand.NewSource(42))
		sampler, err := hgt.NewSampler(flat, uniformRates(flat), rng)
		require.NoError(t, err)
		transfers, err := sampler.DrawN(5)
		require.NoError(t, err)
		return transfers
	}
	require.Equal(t, draw(), draw(), "identical seeds must give identical transfer sequences")
}

func TestPipelineDeterminism(t *testing.T) {
	run := func() string {
		flat := prepare(t, bigTree)
		rng := rand.New(rand.NewSource(42))
		sampler, err := hgt.NewSampler(flat, uniformRates(flat), rng)
		require.NoError(t, err)
		transfers, err := sampler.DrawN(5)
		require.NoError(t, err)

		gene := flat.Clone()
		require.NoError(t, hgt.Apply(gene, transfers))
		root := gene.ToNode()
		root.DepthsToLengths(root.Depth)
		return newick.String(root)
	}
	first := run()
	require.Equal(t, first, run(), "the gene-tree pipeline must be reproducible from the seed")
	require.NotEmpty(t, first)
}

func TestApplyPreservesInvariants(t *testing.T) {
	flat := prepare(t, bigTree)
	rng := rand.New(rand.NewSource(11))
	sampler, err := hgt.NewSampler(flat, uniformRates(flat), rng)
	require.NoError(t, err)

	transfers, err := sampler.DrawN(10)
	require.NoError(t, err)
	gene := flat.Clone()
	require.NoError(t, hgt.Apply(gene, transfers))

	// reciprocity and acyclicity on the reachable part
	seen := 0
	it := gene.Iter(tree.PreOrder)
	for i, ok := it.Next(); ok; i, ok = it.Next() {
		seen++
		require.LessOrEqual(t, seen, gene.Len(), "cycle suspected")
		n := &gene.Nodes[i]
		require.Equal(t, n.Left == tree.NIL_INDEX, n.Right == tree.NIL_INDEX,
			"node %d must have 0 or 2 children", i)
		for _, child := range []int{n.Left, n.Right} {
			if child != tree.NIL_INDEX {
				require.Equal(t, i, gene.Nodes[child].Parent, "reciprocity broken at %d", child)
			}
		}
	}
	require.Equal(t, tree.NIL_INDEX, gene.Nodes[gene.Root].Parent)

	// Every applied transfer re-dated the recipient's former
	// parent; spot-check ultrametric consistency instead: for
	// every reachable non-root node, depth = parent depth + length
	// after DepthsToLengths.
	root := gene.ToNode()
	root.DepthsToLengths(root.Depth)
	var check func(n *tree.Node)
	check = func(n *tree.Node) {
		for _, child := range n.Children() {
			require.InDelta(t, child.Depth, n.Depth+child.Length, 1e-9)
			check(child)
		}
	}
	check(root)
}

func TestDrawErrorsWhenIntervalHoldsOneEdge(t *testing.T) {
	// Non-ultrametric on purpose: in (1,2] only B is alive, and
	// that interval carries a third of the CDF mass.
	flat := prepare(t, "(A:1,B:2)R:0;")
	rng := rand.New(rand.NewSource(1))
	sampler, err := hgt.NewSampler(flat, uniformRates(flat), rng)
	require.NoError(t, err)

	sawError := false
	for i := 0; i < 100; i++ {
		if _, err := sampler.Draw(); err != nil {
			require.ErrorIs(t, err, hgt.ErrNoPair)
			sawError = true
		}
	}
	require.True(t, sawError, "drawing into a one-edge interval must fail")
}

func TestRatesVectorDefaults(t *testing.T) {
	flat := prepare(t, testTree)

	uniform := hgt.Rates(nil).Vector(flat)
	require.Equal(t, []float64{1, 1, 1, 1, 1}, uniform)

	custom := hgt.Rates{"B": 2.5, "D": 0.5}.Vector(flat)
	require.Equal(t, []float64{1, 1, 1, 2.5, 0.5}, custom)
}
