package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegmentsRelateCrossing(t *testing.T) {
	rel := SegmentsRelate(
		Point[float64]{X: 0, Y: 0}, Point[float64]{X: 2, Y: 2},
		Point[float64]{X: 0, Y: 2}, Point[float64]{X: 2, Y: 0},
	)
	require.Equal(t, RelationshipCross, rel)
}

func TestSegmentsRelateTouchingAtEndpoint(t *testing.T) {
	rel := SegmentsRelate(
		Point[float64]{X: 0, Y: 0}, Point[float64]{X: 1, Y: 1},
		Point[float64]{X: 1, Y: 1}, Point[float64]{X: 2, Y: 0},
	)
	require.Equal(t, RelationshipTouch, rel)
}

func TestSegmentsRelateDisjoint(t *testing.T) {
	rel := SegmentsRelate(
		Point[float64]{X: 0, Y: 0}, Point[float64]{X: 1, Y: 0},
		Point[float64]{X: 0, Y: 5}, Point[float64]{X: 1, Y: 5},
	)
	require.Equal(t, RelationshipNone, rel)
}

func TestSegmentSquaredDistanceToPoint(t *testing.T) {
	s := Segment[float64]{Start: Point[float64]{X: 0, Y: 0}, End: Point[float64]{X: 10, Y: 0}}
	require.Equal(t, 0.0, SegmentSquaredDistanceToPoint(s, Point[float64]{X: 5, Y: 0}))
	require.Equal(t, 4.0, SegmentSquaredDistanceToPoint(s, Point[float64]{X: 5, Y: 2}))
	require.Equal(t, 1.0, SegmentSquaredDistanceToPoint(s, Point[float64]{X: -1, Y: 0}))
}

func TestSegmentsSquaredDistanceZeroWhenCrossing(t *testing.T) {
	a := Segment[float64]{Start: Point[float64]{X: 0, Y: 0}, End: Point[float64]{X: 2, Y: 2}}
	b := Segment[float64]{Start: Point[float64]{X: 0, Y: 2}, End: Point[float64]{X: 2, Y: 0}}
	require.Equal(t, 0.0, SegmentsSquaredDistance(a, b))
}

func TestSegmentsSquaredDistanceParallel(t *testing.T) {
	a := Segment[float64]{Start: Point[float64]{X: 0, Y: 0}, End: Point[float64]{X: 10, Y: 0}}
	b := Segment[float64]{Start: Point[float64]{X: 0, Y: 3}, End: Point[float64]{X: 10, Y: 3}}
	require.Equal(t, 9.0, SegmentsSquaredDistance(a, b))
}

func TestBoxSquaredDistanceToSegmentContainsEndpoint(t *testing.T) {
	b := Box[float64]{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	s := Segment[float64]{Start: Point[float64]{X: 0.5, Y: 0.5}, End: Point[float64]{X: 5, Y: 5}}
	require.Equal(t, 0.0, BoxSquaredDistanceToSegment(b, s))
}

func TestBoxSquaredDistanceToSegmentOutside(t *testing.T) {
	b := Box[float64]{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	s := Segment[float64]{Start: Point[float64]{X: 3, Y: 0}, End: Point[float64]{X: 3, Y: 1}}
	require.Equal(t, 4.0, BoxSquaredDistanceToSegment(b, s))
}

func TestBoxSquaredDistanceToSegmentDegenerateBox(t *testing.T) {
	collapsed := Box[float64]{MinX: 2, MaxX: 2, MinY: 0, MaxY: 4}
	s := Segment[float64]{Start: Point[float64]{X: 0, Y: 2}, End: Point[float64]{X: 1, Y: 2}}
	require.Equal(t, 1.0, BoxSquaredDistanceToSegment(collapsed, s))

	crossing := Segment[float64]{Start: Point[float64]{X: 0, Y: 2}, End: Point[float64]{X: 5, Y: 2}}
	require.Equal(t, 0.0, BoxSquaredDistanceToSegment(collapsed, crossing))
}
