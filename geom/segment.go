package geom

// Relationship classifies how two segments relate to each other. The trees
// only ever care whether a relationship is RelationshipNone (disjoint) or
// not; the other values exist so callers inspecting a relationship directly
// get a meaningful answer instead of a bare bool.
type Relationship int

const (
	RelationshipNone Relationship = iota
	RelationshipTouch
	RelationshipCross
)

func clamp01[T Float](v T) T {
	var zero, one T = 0, 1
	if v < zero {
		return zero
	}
	if v > one {
		return one
	}
	return v
}

// closestPointFactor returns t in [0, 1] such that start + t*(end-start) is
// the closest point on segment (start, end) to point.
func closestPointFactor[T Float](start, end, point Point[T]) T {
	vx, vy := end.X-start.X, end.Y-start.Y
	var zero T
	denom := vx*vx + vy*vy
	if denom == zero {
		return zero
	}
	wx, wy := point.X-start.X, point.Y-start.Y
	return clamp01((wx*vx + wy*vy) / denom)
}

// SegmentSquaredDistanceToPoint projects point onto the line supporting the
// segment, clamps the projection to the segment, and returns the squared
// distance from point to that clamped foot.
func SegmentSquaredDistanceToPoint[T Float](s Segment[T], point Point[T]) T {
	t := closestPointFactor(s.Start, s.End, point)
	foot := Point[T]{
		X: s.Start.X + t*(s.End.X-s.Start.X),
		Y: s.Start.Y + t*(s.End.Y-s.Start.Y),
	}
	return SquaredDistance(foot, point)
}

func orientation[T Float](a, b, c Point[T]) int {
	var zero T
	val := (b.Y-a.Y)*(c.X-b.X) - (b.X-a.X)*(c.Y-b.Y)
	switch {
	case val == zero:
		return 0
	case val > zero:
		return 1
	default:
		return -1
	}
}

func onSegment[T Float](a, b, c Point[T]) bool {
	return min(a.X, b.X) <= c.X && c.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= c.Y && c.Y <= max(a.Y, b.Y)
}

// SegmentsRelate reports how segments (p1, q1) and (p2, q2) relate: disjoint
// (RelationshipNone), touching at an endpoint or overlapping collinearly
// (RelationshipTouch), or properly crossing (RelationshipCross). Implemented
// with the standard orientation test.
func SegmentsRelate[T Float](p1, q1, p2, q2 Point[T]) Relationship {
	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1*o2 < 0 && o3*o4 < 0 {
		return RelationshipCross
	}
	if o1 == 0 && onSegment(p1, q1, p2) {
		return RelationshipTouch
	}
	if o2 == 0 && onSegment(p1, q1, q2) {
		return RelationshipTouch
	}
	if o3 == 0 && onSegment(p2, q2, p1) {
		return RelationshipTouch
	}
	if o4 == 0 && onSegment(p2, q2, q1) {
		return RelationshipTouch
	}
	return RelationshipNone
}

// SegmentsSquaredDistance returns zero if the segments touch or cross;
// otherwise the minimum of the four endpoint-to-opposite-segment squared
// distances.
func SegmentsSquaredDistance[T Float](a, b Segment[T]) T {
	if SegmentsRelate(a.Start, a.End, b.Start, b.End) != RelationshipNone {
		var zero T
		return zero
	}
	d1 := SegmentSquaredDistanceToPoint(a, b.Start)
	d2 := SegmentSquaredDistanceToPoint(a, b.End)
	d3 := SegmentSquaredDistanceToPoint(b, a.Start)
	d4 := SegmentSquaredDistanceToPoint(b, a.End)
	return min(min(d1, d2), min(d3, d4))
}

// BoxSquaredDistanceToSegment returns the squared distance from s to the
// nearest point of b. Zero if either endpoint of s lies inside b. For a
// degenerate box (collapsed on one axis) this reduces to a segment-to-
// segment distance against the collapsed side; otherwise it is the minimum
// of the distances from s to each of the box's four sides.
func BoxSquaredDistanceToSegment[T Float](b Box[T], s Segment[T]) T {
	var zero T
	if BoxContainsPoint(b, s.Start) || BoxContainsPoint(b, s.End) {
		return zero
	}

	bottomLeft := Point[T]{X: b.MinX, Y: b.MinY}
	bottomRight := Point[T]{X: b.MaxX, Y: b.MinY}
	topLeft := Point[T]{X: b.MinX, Y: b.MaxY}
	topRight := Point[T]{X: b.MaxX, Y: b.MaxY}

	if b.MinX == b.MaxX {
		return SegmentsSquaredDistance(s, Segment[T]{Start: bottomLeft, End: topLeft})
	}
	if b.MinY == b.MaxY {
		return SegmentsSquaredDistance(s, Segment[T]{Start: bottomLeft, End: bottomRight})
	}

	bottom := SegmentsSquaredDistance(s, Segment[T]{Start: bottomLeft, End: bottomRight})
	if bottom == zero {
		return bottom
	}
	right := SegmentsSquaredDistance(s, Segment[T]{Start: bottomRight, End: topRight})
	if right == zero {
		return right
	}
	top := SegmentsSquaredDistance(s, Segment[T]{Start: topLeft, End: topRight})
	if top == zero {
		return top
	}
	left := SegmentsSquaredDistance(s, Segment[T]{Start: bottomLeft, End: topLeft})
	if left == zero {
		return left
	}
	return min(min(bottom, right), min(top, left))
}
