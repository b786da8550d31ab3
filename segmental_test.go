package locus

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lycantropos/locus/geom"
)

func TestNewSegmentalTreeRejectsEmpty(t *testing.T) {
	_, err := NewSegmentalTree[float64](nil, DefaultMaxChildren)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func collinearSegments() []geom.Segment[float64] {
	segments := make([]geom.Segment[float64], 10)
	for i := 1; i <= 10; i++ {
		segments[i-1] = geom.Segment[float64]{
			Start: geom.Point[float64]{X: 0, Y: float64(i)},
			End:   geom.Point[float64]{X: float64(i), Y: float64(i)},
		}
	}
	return segments
}

// Stacked horizontal segments sort by their distance to the probe point.
func TestSegmentalTreeNNearestToPointCollinear(t *testing.T) {
	tree, err := NewSegmentalTree(collinearSegments(), 4)
	require.NoError(t, err)

	indices, err := tree.NNearestToPointIndices(2, geom.Point[float64]{X: 0, Y: 0})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, indices)
}

// The lowest segment is nearest to a probe running along the x axis.
func TestSegmentalTreeNearestIntersectingProbe(t *testing.T) {
	tree, err := NewSegmentalTree(collinearSegments(), 4)
	require.NoError(t, err)

	probe := geom.Segment[float64]{Start: geom.Point[float64]{X: 0, Y: 0}, End: geom.Point[float64]{X: 10, Y: 0}}
	segment, err := tree.NearestSegment(probe)
	require.NoError(t, err)
	require.Equal(t, geom.Segment[float64]{
		Start: geom.Point[float64]{X: 0, Y: 1},
		End:   geom.Point[float64]{X: 1, Y: 1},
	}, segment)

	index, err := tree.NearestIndex(probe)
	require.NoError(t, err)
	require.Equal(t, 0, index)
}

func TestSegmentalTreeNNearestSaturatesInInputOrder(t *testing.T) {
	segments := collinearSegments()
	tree, err := NewSegmentalTree(segments, 4)
	require.NoError(t, err)

	got, err := tree.NNearestToPointSegments(25, geom.Point[float64]{X: 0, Y: 0})
	require.NoError(t, err)
	require.Equal(t, segments, got)
}

func TestSegmentalTreePrimitiveAtEqualsInput(t *testing.T) {
	segments := collinearSegments()
	tree, err := NewSegmentalTree(segments, 3)
	require.NoError(t, err)
	for i, s := range segments {
		require.Equal(t, s, tree.Segments()[i])
	}
}

func TestSegmentalTreeNNearestToPointMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	for trial := 0; trial < 20; trial++ {
		n := 30 + rng.Intn(50)
		segments := make([]geom.Segment[float64], n)
		for i := range segments {
			x := rng.Float64() * 100
			y := rng.Float64() * 100
			segments[i] = geom.Segment[float64]{
				Start: geom.Point[float64]{X: x, Y: y},
				End:   geom.Point[float64]{X: x + rng.Float64()*5, Y: y + rng.Float64()*5},
			}
		}
		tree, err := NewSegmentalTree(segments, 4)
		require.NoError(t, err)

		query := geom.Point[float64]{X: rng.Float64() * 100, Y: rng.Float64() * 100}
		k := 1 + rng.Intn(5)
		items, err := tree.NNearestToPointItems(k, query)
		require.NoError(t, err)
		require.Len(t, items, k)

		distances := make([]float64, n)
		for i, s := range segments {
			distances[i] = geom.SegmentSquaredDistanceToPoint(s, query)
		}
		for i := 0; i < len(distances); i++ {
			for j := i + 1; j < len(distances); j++ {
				if distances[j] < distances[i] {
					distances[i], distances[j] = distances[j], distances[i]
				}
			}
		}
		for i, item := range items {
			require.InDelta(t, distances[i], geom.SegmentSquaredDistanceToPoint(item.Value, query), 1e-9)
		}
	}
}

func TestSegmentalTreeNNearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(32))
	for trial := 0; trial < 20; trial++ {
		n := 30 + rng.Intn(50)
		segments := make([]geom.Segment[float64], n)
		for i := range segments {
			x := rng.Float64() * 100
			y := rng.Float64() * 100
			segments[i] = geom.Segment[float64]{
				Start: geom.Point[float64]{X: x, Y: y},
				End:   geom.Point[float64]{X: x + rng.Float64()*5, Y: y + rng.Float64()*5},
			}
		}
		tree, err := NewSegmentalTree(segments, 4)
		require.NoError(t, err)

		px := rng.Float64() * 100
		py := rng.Float64() * 100
		probe := geom.Segment[float64]{
			Start: geom.Point[float64]{X: px, Y: py},
			End:   geom.Point[float64]{X: px + rng.Float64()*10, Y: py + rng.Float64()*10},
		}
		k := 1 + rng.Intn(5)
		items, err := tree.NNearestItems(k, probe)
		require.NoError(t, err)
		require.Len(t, items, k)

		distances := make([]float64, n)
		for i, s := range segments {
			distances[i] = geom.SegmentsSquaredDistance(s, probe)
		}
		for i := 0; i < len(distances); i++ {
			for j := i + 1; j < len(distances); j++ {
				if distances[j] < distances[i] {
					distances[i], distances[j] = distances[j], distances[i]
				}
			}
		}
		for i, item := range items {
			require.InDelta(t, distances[i], geom.SegmentsSquaredDistance(item.Value, probe), 1e-9)
		}
	}
}

func TestSegmentalTreeNNearestRejectsNonPositiveN(t *testing.T) {
	tree, err := NewSegmentalTree(collinearSegments(), DefaultMaxChildren)
	require.NoError(t, err)
	_, err = tree.NNearestIndices(0, geom.Segment[float64]{})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSegmentalTreePermutationInvariantPrimitiveSet(t *testing.T) {
	segments := collinearSegments()
	permuted := append([]geom.Segment[float64]{}, segments[5:]...)
	permuted = append(permuted, segments[:5]...)

	treeA, err := NewSegmentalTree(segments, 3)
	require.NoError(t, err)
	treeB, err := NewSegmentalTree(permuted, 3)
	require.NoError(t, err)

	query := geom.Point[float64]{X: 0, Y: 0}
	segmentsA, err := treeA.NNearestToPointSegments(10, query)
	require.NoError(t, err)
	segmentsB, err := treeB.NNearestToPointSegments(10, query)
	require.NoError(t, err)
	require.ElementsMatch(t, segmentsA, segmentsB)
}
