package locus

import (
	"fmt"
	"strings"

	"github.com/lycantropos/locus/geom"
)

// snode is one node of a packed segmental Hilbert R-tree. Like rnode it
// lives in a flat arena with leaves at positions [0, N) in input order; a
// leaf additionally carries the segment it bounds, since k-NN search needs
// the exact segment, not just its box, to rank candidates.
type snode[T geom.Float] struct {
	box      geom.Box[T]
	children []int32
	segment  geom.Segment[T]
}

func (n *snode[T]) isLeaf() bool { return len(n.children) == 0 }

// SegmentalTree is a packed 2D Hilbert R-tree over line segments, ranking
// candidates by segment-to-point or segment-to-segment distance rather than
// box distance.
type SegmentalTree[T geom.Float] struct {
	segments    []geom.Segment[T]
	maxChildren int
	arena       []snode[T]
	root        int32
}

// NewSegmentalTree bulk-loads a SegmentalTree from segments. maxChildren
// must be at least 2.
func NewSegmentalTree[T geom.Float](segments []geom.Segment[T], maxChildren int) (*SegmentalTree[T], error) {
	if len(segments) == 0 {
		return nil, invalidArgument("SegmentalTree requires a non-empty segment sequence")
	}
	if maxChildren < 2 {
		return nil, invalidArgument("max_children must be at least 2, got %d", maxChildren)
	}

	n := len(segments)
	arena := make([]snode[T], n, 2*n)
	for i, s := range segments {
		arena[i] = snode[T]{box: geom.BoxOfSegment(s), segment: s}
	}

	order := hilbertOrder(n, func(idx int32) geom.Box[T] { return arena[idx].box })

	tree := &SegmentalTree[T]{
		segments:    append([]geom.Segment[T](nil), segments...),
		maxChildren: maxChildren,
		arena:       arena,
	}
	tree.root = packNodes(order, maxChildren,
		func(idx int32) geom.Box[T] { return tree.arena[idx].box },
		func(box geom.Box[T], children []int32) int32 {
			idx := int32(len(tree.arena))
			tree.arena = append(tree.arena, snode[T]{box: box, children: children})
			return idx
		})
	return tree, nil
}

// Segments returns the segments the tree was built from, in original order.
func (t *SegmentalTree[T]) Segments() []geom.Segment[T] { return t.segments }

// MaxChildren returns the branching factor the tree was built with.
func (t *SegmentalTree[T]) MaxChildren() int { return t.maxChildren }

// NNearestToPointIndices returns the indices of the min(n, len(Segments()))
// segments closest to point, ordered by ascending squared distance.
func (t *SegmentalTree[T]) NNearestToPointIndices(n int, point geom.Point[T]) ([]int, error) {
	items, err := t.NNearestToPointItems(n, point)
	if err != nil {
		return nil, err
	}
	result := make([]int, len(items))
	for i, it := range items {
		result[i] = it.Index
	}
	return result, nil
}

// NNearestToPointSegments returns the segments closest to point.
func (t *SegmentalTree[T]) NNearestToPointSegments(n int, point geom.Point[T]) ([]geom.Segment[T], error) {
	items, err := t.NNearestToPointItems(n, point)
	if err != nil {
		return nil, err
	}
	result := make([]geom.Segment[T], len(items))
	for i, it := range items {
		result[i] = it.Value
	}
	return result, nil
}

// NNearestToPointItems returns (index, segment) pairs for the segments
// closest to point.
func (t *SegmentalTree[T]) NNearestToPointItems(n int, point geom.Point[T]) ([]Item[geom.Segment[T]], error) {
	return t.nNearest(n, func(box geom.Box[T]) T { return geom.BoxSquaredDistanceToPoint(box, point) },
		func(seg geom.Segment[T]) T { return geom.SegmentSquaredDistanceToPoint(seg, point) })
}

// NearestToPointIndex returns the index of the single segment closest to
// point. Equivalent to NNearestToPointIndices(1, point)[0].
func (t *SegmentalTree[T]) NearestToPointIndex(point geom.Point[T]) (int, error) {
	indices, err := t.NNearestToPointIndices(1, point)
	if err != nil {
		return 0, err
	}
	return indices[0], nil
}

// NearestToPointSegment returns the single segment closest to point.
func (t *SegmentalTree[T]) NearestToPointSegment(point geom.Point[T]) (geom.Segment[T], error) {
	segments, err := t.NNearestToPointSegments(1, point)
	if err != nil {
		var zero geom.Segment[T]
		return zero, err
	}
	return segments[0], nil
}

// NearestToPointItem returns the (index, segment) pair closest to point.
func (t *SegmentalTree[T]) NearestToPointItem(point geom.Point[T]) (Item[geom.Segment[T]], error) {
	items, err := t.NNearestToPointItems(1, point)
	if err != nil {
		return Item[geom.Segment[T]]{}, err
	}
	return items[0], nil
}

// NNearestIndices returns the indices of the min(n, len(Segments())) segments
// closest to probe (by segment-to-segment distance).
func (t *SegmentalTree[T]) NNearestIndices(n int, probe geom.Segment[T]) ([]int, error) {
	items, err := t.NNearestItems(n, probe)
	if err != nil {
		return nil, err
	}
	result := make([]int, len(items))
	for i, it := range items {
		result[i] = it.Index
	}
	return result, nil
}

// NNearestSegments returns the segments closest to probe.
func (t *SegmentalTree[T]) NNearestSegments(n int, probe geom.Segment[T]) ([]geom.Segment[T], error) {
	items, err := t.NNearestItems(n, probe)
	if err != nil {
		return nil, err
	}
	result := make([]geom.Segment[T], len(items))
	for i, it := range items {
		result[i] = it.Value
	}
	return result, nil
}

// NNearestItems returns (index, segment) pairs for the segments closest to
// probe.
func (t *SegmentalTree[T]) NNearestItems(n int, probe geom.Segment[T]) ([]Item[geom.Segment[T]], error) {
	return t.nNearest(n, func(box geom.Box[T]) T { return geom.BoxSquaredDistanceToSegment(box, probe) },
		func(seg geom.Segment[T]) T { return geom.SegmentsSquaredDistance(seg, probe) })
}

// NearestIndex returns the index of the single segment closest to probe.
func (t *SegmentalTree[T]) NearestIndex(probe geom.Segment[T]) (int, error) {
	indices, err := t.NNearestIndices(1, probe)
	if err != nil {
		return 0, err
	}
	return indices[0], nil
}

// NearestSegment returns the single segment closest to probe.
func (t *SegmentalTree[T]) NearestSegment(probe geom.Segment[T]) (geom.Segment[T], error) {
	segments, err := t.NNearestSegments(1, probe)
	if err != nil {
		var zero geom.Segment[T]
		return zero, err
	}
	return segments[0], nil
}

// NearestItem returns the (index, segment) pair closest to probe.
func (t *SegmentalTree[T]) NearestItem(probe geom.Segment[T]) (Item[geom.Segment[T]], error) {
	items, err := t.NNearestItems(1, probe)
	if err != nil {
		return Item[geom.Segment[T]]{}, err
	}
	return items[0], nil
}

// nNearest runs the shared best-first search, using boxDist to
// bound internal nodes and leafDist to rank the leaf segment exactly. The
// point and segment queries differ only in these two distance functions.
// RTree runs the same loop inline in its NNearestItems over its own node
// type rather than sharing one generic implementation over an arena
// interface.
func (t *SegmentalTree[T]) nNearest(n int, boxDist func(geom.Box[T]) T, leafDist func(geom.Segment[T]) T) ([]Item[geom.Segment[T]], error) {
	if n <= 0 {
		return nil, invalidArgument("n must be positive, got %d", n)
	}
	if n >= len(t.segments) {
		result := make([]Item[geom.Segment[T]], len(t.segments))
		for i, s := range t.segments {
			result[i] = Item[geom.Segment[T]]{Index: i, Value: s}
		}
		return result, nil
	}

	assert(int(t.root) < len(t.arena), "segmental tree: corrupted arena, root %d out of bounds for %d nodes", t.root, len(t.arena))

	queue := newBestFirstQueue[T](func(a, b T) bool { return a < b })
	var zero T
	queue.push(bestFirstEntry[T]{distance: zero, tie: internalTie(t.root), node: t.root})

	var result []Item[geom.Segment[T]]
	for len(result) < n && !queue.empty() {
		top := queue.pop()
		node := &t.arena[top.node]
		for _, c := range node.children {
			child := &t.arena[c]
			var dist T
			var tie int64
			if child.isLeaf() {
				dist = leafDist(child.segment)
				tie = leafTie(c)
			} else {
				dist = boxDist(child.box)
				tie = internalTie(c)
			}
			queue.push(bestFirstEntry[T]{distance: dist, tie: tie, node: c})
		}
		for len(result) < n && !queue.empty() && queue.peek().tie >= 0 {
			e := queue.pop()
			result = append(result, Item[geom.Segment[T]]{Index: int(e.node), Value: t.arena[e.node].segment})
		}
	}
	return result, nil
}

// String renders the tree's shape, one line per node, for debugging.
func (t *SegmentalTree[T]) String() string {
	if t == nil {
		return "nil SegmentalTree"
	}
	if len(t.segments) == 0 {
		return "SegmentalTree: no segments"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "SegmentalTree (segments: %d, max-children: %d):\n", len(t.segments), t.maxChildren)
	t.stringifyNode(&sb, t.root, 0)
	return sb.String()
}

// height returns the number of edges on the longest root-to-leaf path.
func (t *SegmentalTree[T]) height() int {
	return t.nodeHeight(t.root)
}

func (t *SegmentalTree[T]) nodeHeight(node int32) int {
	n := &t.arena[node]
	if n.isLeaf() {
		return 0
	}
	best := 0
	for _, c := range n.children {
		if h := t.nodeHeight(c); h > best {
			best = h
		}
	}
	return best + 1
}

func (t *SegmentalTree[T]) stringifyNode(sb *strings.Builder, node int32, depth int) {
	indent := strings.Repeat("  ", depth)
	n := &t.arena[node]
	if n.isLeaf() {
		fmt.Fprintf(sb, "%sleaf[%d] segment=%v box=%v\n", indent, node, n.segment, n.box)
		return
	}
	fmt.Fprintf(sb, "%snode[%d] box=%v children=%d\n", indent, node, n.box, len(n.children))
	for _, c := range n.children {
		t.stringifyNode(sb, c, depth+1)
	}
}
