package hgt

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pythseq/hgtree/tree"
)

// maxPairAttempts bounds the redraws of a donor/recipient pair
// within one interval, so that drawing always terminates.
const maxPairAttempts = 64

var (
	// ErrDegenerateCDF means the tree carries no transferable
	// time: every interval has zero width or zero intensity.
	ErrDegenerateCDF = errors.New("degenerate transfer CDF")
	// ErrNoPair means the selected interval holds fewer than
	// two alive edges, or every drawn pair failed the ancestry
	// filter. Both indicate a sampler bug rather than bad user
	// data.
	ErrNoPair = errors.New("no valid donor/recipient pair")
)

// Transfer is one horizontal gene transfer event: a dated SPR
// move from the edge above Donor to the edge above Recipient
// at absolute time Time.
type Transfer struct {
	Donor     int
	Recipient int
	Time      float64
}

// IntervalIntensity sums the transfer rates of all edges alive
// in each subdivision interval.
func IntervalIntensity(contemporaneity [][]int, rates []float64) []float64 {
	intensity := make([]float64, len(contemporaneity))
	for j, alive := range contemporaneity {
		sum := 0.0
		for _, v := range alive {
			if v < len(rates) {
				sum += rates[v]
			}
		}
		intensity[j] = sum
	}
	return intensity
}

// MakeCDF builds the normalized cumulative distribution over
// subdivision intervals, weighting each interval by its width
// times its intensity. By construction C[0] = 0 and
// C[m-1] = 1.
func MakeCDF(intervals, intensity []float64) ([]float64, error) {
	if len(intervals) == 0 || len(intervals) != len(intensity) {
		return nil, fmt.Errorf("%w: %d intervals, %d intensities", ErrDegenerateCDF, len(intervals), len(intensity))
	}
	cdf := make([]float64, len(intervals))
	cdf[0] = intervals[0] * intensity[0]
	for j := 1; j < len(intervals); j++ {
		cdf[j] = cdf[j-1] + intervals[j]*intensity[j]
	}
	total := cdf[len(cdf)-1]
	if total <= 0 {
		return nil, fmt.Errorf("%w: total mass %g", ErrDegenerateCDF, total)
	}
	for j := range cdf {
		cdf[j] /= total
	}
	cdf[len(cdf)-1] = 1.0
	return cdf, nil
}

// Sampler draws transfer events from a snapshot of a species
// tree. The snapshot is never refreshed: transfers generated
// for one gene tree all see the pre-transfer timeline, even
// though they are applied sequentially.
type Sampler struct {
	tree            *tree.FlatTree
	subdivision     []float64
	contemporaneity [][]int
	cdf             []float64
	donors          []*distuv.Categorical
	rng             *rand.Rand
}

// NewSampler indexes the flat tree and precomputes the
// interval CDF and the per-interval weighted donor
// distributions. rates is indexed by node slot; the rng is the
// single source threaded through every draw.
func NewSampler(t *tree.FlatTree, rates []float64, rng *rand.Rand) (*Sampler, error) {
	subdivision := t.Subdivision()
	intervals := t.Intervals()
	contemporaneity := t.Contemporaneity(subdivision)
	intensity := IntervalIntensity(contemporaneity, rates)
	cdf, err := MakeCDF(intervals, intensity)
	if err != nil {
		return nil, err
	}

	// Intervals holding fewer than two alive edges cannot host
	// a transfer and get no donor distribution.
	donors := make([]*distuv.Categorical, len(contemporaneity))
	for j, alive := range contemporaneity {
		if len(alive) < 2 {
			continue
		}
		weights := make([]float64, len(alive))
		for k, v := range alive {
			weights[k] = rates[v]
		}
		dist := distuv.NewCategorical(weights, rng)
		donors[j] = &dist
	}

	return &Sampler{
		tree:            t,
		subdivision:     subdivision,
		contemporaneity: contemporaneity,
		cdf:             cdf,
		donors:          donors,
		rng:             rng,
	}, nil
}

// Subdivision exposes the timeline grid of the snapshot.
func (s *Sampler) Subdivision() []float64 {
	return s.subdivision
}

// Contemporaneity exposes the per-interval alive-edge sets of
// the snapshot.
func (s *Sampler) Contemporaneity() [][]int {
	return s.contemporaneity
}

// CDF exposes the normalized interval CDF.
func (s *Sampler) CDF() []float64 {
	return s.cdf
}

// Draw samples one transfer: a continuous time by inverse CDF
// with linear interpolation inside the selected interval, a
// donor weighted by transfer rate among the edges alive at
// that time, and a recipient uniform among the remaining alive
// edges. Pairs whose donor is an ancestor of the recipient are
// rejected and redrawn, so an emitted transfer can never
// create a cycle.
func (s *Sampler) Draw() (Transfer, error) {
	r := s.rng.Float64()
	j := sort.SearchFloat64s(s.cdf, r)
	if j >= len(s.cdf) {
		return Transfer{}, fmt.Errorf("%w: random value %g exceeds CDF range", ErrDegenerateCDF, r)
	}
	if j == 0 {
		// cdf[0] is exactly 0; r = 0 falls into the first real
		// interval.
		j = 1
	}

	span := s.cdf[j] - s.cdf[j-1]
	time := s.subdivision[j-1]
	if span > 0 {
		time += (r - s.cdf[j-1]) / span * (s.subdivision[j] - s.subdivision[j-1])
	}

	alive := s.contemporaneity[j]
	if len(alive) < 2 || s.donors[j] == nil {
		return Transfer{}, fmt.Errorf("%w: interval %d holds %d edges", ErrNoPair, j, len(alive))
	}

	for attempt := 0; attempt < maxPairAttempts; attempt++ {
		donorPos := int(s.donors[j].Rand())
		donor := alive[donorPos]
		recipientPos := s.rng.Intn(len(alive) - 1)
		if recipientPos >= donorPos {
			recipientPos++
		}
		recipient := alive[recipientPos]
		if donor == s.tree.Nodes[recipient].Parent || s.tree.IsAncestor(donor, recipient) {
			continue
		}
		return Transfer{Donor: donor, Recipient: recipient, Time: time}, nil
	}
	return Transfer{}, fmt.Errorf("%w: no pair passed the ancestry filter in interval %d", ErrNoPair, j)
}

// DrawN samples n transfers and returns them sorted by time
// ascending, the order in which they must be applied.
func (s *Sampler) DrawN(n int) ([]Transfer, error) {
	transfers := make([]Transfer, 0, n)
	for i := 0; i < n; i++ {
		transfer, err := s.Draw()
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	sort.SliceStable(transfers, func(a, b int) bool {
		return transfers[a].Time < transfers[b].Time
	})
	return transfers, nil
}

// Apply replays the transfers on t as dated SPR moves, in the
// given order. Earlier transfers must come first so that later
// ones see the rearranged topology.
func Apply(t *tree.FlatTree, transfers []Transfer) error {
	for _, transfer := range transfers {
		if err := t.SPR(transfer.Donor, transfer.Recipient, transfer.Time); err != nil {
			return err
		}
	}
	return nil
}
