package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBoxNormalizesCorners(t *testing.T) {
	testNewBoxNormalizesCorners[float32](t)
	testNewBoxNormalizesCorners[float64](t)
}

func testNewBoxNormalizesCorners[T Float](t *testing.T) {
	b := NewBox[T](5, 5, 1, 1)
	require.Equal(t, Box[T]{MinX: 1, MaxX: 5, MinY: 1, MaxY: 5}, b)
}

func TestMergeBox(t *testing.T) {
	a := Box[float64]{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	b := Box[float64]{MinX: -1, MaxX: 0.5, MinY: 2, MaxY: 3}
	require.Equal(t, Box[float64]{MinX: -1, MaxX: 1, MinY: 0, MaxY: 3}, MergeBox(a, b))
}

func TestBoxContainsPointClosed(t *testing.T) {
	b := Box[float64]{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	require.True(t, BoxContainsPoint(b, Point[float64]{X: 0, Y: 0}))
	require.True(t, BoxContainsPoint(b, Point[float64]{X: 1, Y: 1}))
	require.False(t, BoxContainsPoint(b, Point[float64]{X: 1.1, Y: 0}))
}

func TestBoxOverlapsBoxIsStrict(t *testing.T) {
	a := Box[float64]{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	touching := Box[float64]{MinX: 1, MaxX: 2, MinY: 0, MaxY: 1}
	require.False(t, BoxOverlapsBox(a, touching))
	overlapping := Box[float64]{MinX: 0.5, MaxX: 2, MinY: 0.5, MaxY: 2}
	require.True(t, BoxOverlapsBox(a, overlapping))
}

func TestBoxIsSubsetOfIsClosed(t *testing.T) {
	goal := Box[float64]{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10}
	require.True(t, BoxIsSubsetOf(goal, goal))
	require.True(t, BoxIsSubsetOf(Box[float64]{MinX: 1, MaxX: 2, MinY: 1, MaxY: 2}, goal))
	require.False(t, BoxIsSubsetOf(Box[float64]{MinX: -1, MaxX: 2, MinY: 1, MaxY: 2}, goal))
}

func TestBoxSquaredDistanceToPoint(t *testing.T) {
	b := Box[float64]{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	require.Equal(t, 0.0, BoxSquaredDistanceToPoint(b, Point[float64]{X: 0.5, Y: 0.5}))
	require.Equal(t, 1.0, BoxSquaredDistanceToPoint(b, Point[float64]{X: 2, Y: 0.5}))
	require.Equal(t, 2.0, BoxSquaredDistanceToPoint(b, Point[float64]{X: 2, Y: 2}))
}

func TestSquaredDistance(t *testing.T) {
	require.Equal(t, 25.0, SquaredDistance(Point[float64]{X: 0, Y: 0}, Point[float64]{X: 3, Y: 4}))
}

func TestBoxOfSegment(t *testing.T) {
	s := Segment[float64]{Start: Point[float64]{X: 3, Y: -1}, End: Point[float64]{X: 1, Y: 2}}
	require.Equal(t, Box[float64]{MinX: 1, MaxX: 3, MinY: -1, MaxY: 2}, BoxOfSegment(s))
}
