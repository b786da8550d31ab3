// Package geom provides the point, box and segment primitives shared by the
// tree packages in this module, plus the predicates and squared-distance
// metrics the trees prune and rank with.
package geom

// Float is the scalar kind a Point, Box or Segment is parameterized over.
// The trees never take a square root internally; every comparison runs on
// squared distances, so Float only needs to support ordering and the four
// basic arithmetic operators.
type Float interface {
	~float32 | ~float64
}

// Point is an ordered pair (X, Y) of coordinates.
type Point[T Float] struct {
	X, Y T
}

// Box is an axis-aligned rectangle (MinX, MaxX, MinY, MaxY). A degenerate
// box (zero width on one or both axes) is legal.
type Box[T Float] struct {
	MinX, MaxX, MinY, MaxY T
}

// Segment is an ordered pair of distinct points.
type Segment[T Float] struct {
	Start, End Point[T]
}

// NewBox builds a Box, merging the two corners so callers don't need to
// know which of minX/maxX (or minY/maxY) is larger.
func NewBox[T Float](x0, y0, x1, y1 T) Box[T] {
	b := Box[T]{MinX: x0, MaxX: x0, MinY: y0, MaxY: y0}
	if x1 < b.MinX {
		b.MinX = x1
	}
	if x1 > b.MaxX {
		b.MaxX = x1
	}
	if y1 < b.MinY {
		b.MinY = y1
	}
	if y1 > b.MaxY {
		b.MaxY = y1
	}
	return b
}

// BoxOfSegment returns the bounding box of a segment's two endpoints.
func BoxOfSegment[T Float](s Segment[T]) Box[T] {
	return NewBox(s.Start.X, s.Start.Y, s.End.X, s.End.Y)
}

// Center returns the midpoint of the box.
func (b Box[T]) Center() Point[T] {
	var two T = 2
	return Point[T]{X: (b.MinX + b.MaxX) / two, Y: (b.MinY + b.MaxY) / two}
}

// MergeBox returns the componentwise min/max merge of two boxes.
func MergeBox[T Float](left, right Box[T]) Box[T] {
	return Box[T]{
		MinX: min(left.MinX, right.MinX),
		MaxX: max(left.MaxX, right.MaxX),
		MinY: min(left.MinY, right.MinY),
		MaxY: max(left.MaxY, right.MaxY),
	}
}

// BoxContainsPoint reports whether p lies within b, closed on all sides.
func BoxContainsPoint[T Float](b Box[T], p Point[T]) bool {
	return b.MinX <= p.X && p.X <= b.MaxX && b.MinY <= p.Y && p.Y <= b.MaxY
}

// BoxOverlapsBox reports whether left and right share interior area. Boxes
// that only touch along an edge or corner do not overlap (strict <).
func BoxOverlapsBox[T Float](left, right Box[T]) bool {
	return right.MinX < left.MaxX && left.MinX < right.MaxX &&
		right.MinY < left.MaxY && left.MinY < right.MaxY
}

// BoxIsSubsetOf reports whether test is contained in goal, closed on all
// sides (so test == goal counts as a subset).
func BoxIsSubsetOf[T Float](test, goal Box[T]) bool {
	return goal.MinX <= test.MinX && test.MaxX <= goal.MaxX &&
		goal.MinY <= test.MinY && test.MaxY <= goal.MaxY
}

// BoxDoesNotOverlap is the cheap early-cull test used by find-subset range
// queries: true when the two boxes cannot possibly overlap, even loosely.
func BoxDoesNotOverlap[T Float](left, right Box[T]) bool {
	return left.MaxX < right.MinX || left.MinX > right.MaxX ||
		left.MaxY < right.MinY || left.MinY > right.MaxY
}

func distanceToInterval[T Float](coordinate, lo, hi T) T {
	switch {
	case coordinate < lo:
		return lo - coordinate
	case coordinate > hi:
		return coordinate - hi
	default:
		return 0
	}
}

// BoxSquaredDistanceToPoint returns the squared distance from p to the
// nearest point of b; zero when p is inside b.
func BoxSquaredDistanceToPoint[T Float](b Box[T], p Point[T]) T {
	dx := distanceToInterval(p.X, b.MinX, b.MaxX)
	dy := distanceToInterval(p.Y, b.MinY, b.MaxY)
	return dx*dx + dy*dy
}

// SquaredDistance returns the squared Euclidean distance between two points.
func SquaredDistance[T Float](a, b Point[T]) T {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
