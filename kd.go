package locus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lycantropos/locus/geom"
)

// kdNode is one node of a static 2D KD-tree. Unlike the R-tree and
// segmental tree arenas, a KD-tree node's own arena position carries no
// meaning: children are linked by arena index instead of pointers to keep
// the whole tree in one allocation.
type kdNode struct {
	pointIndex  int32 // index into KDTree.points
	left, right int32 // arena index, -1 when absent
}

func (n *kdNode) isLeaf() bool { return n.left < 0 && n.right < 0 }

// kdFrame is one pending subtree in an iterative range walk.
type kdFrame struct {
	node  int32
	depth int
}

// KDTree is a static, balanced 2D KD-tree over points, built by recursively
// splitting on the lower median of the alternating axis.
type KDTree[T geom.Float] struct {
	points []geom.Point[T]
	arena  []kdNode
	root   int32
}

// NewKDTree builds a KDTree from points. The root splits on X; each deeper
// level alternates to the other axis.
func NewKDTree[T geom.Float](points []geom.Point[T]) (*KDTree[T], error) {
	if len(points) == 0 {
		return nil, invalidArgument("KDTree requires a non-empty point sequence")
	}

	tree := &KDTree[T]{
		points: append([]geom.Point[T](nil), points...),
		arena:  make([]kdNode, 0, len(points)),
	}

	handles := make([]int32, len(points))
	for i := range handles {
		handles[i] = int32(i)
	}
	tree.root = tree.build(handles, 0)
	return tree, nil
}

// build recursively partitions handles on axis (depth % 2), taking the
// lower median (index (len-1)/2 of the axis-sorted handles) as the node's
// point and recursing on the two remaining halves.
func (t *KDTree[T]) build(handles []int32, depth int) int32 {
	if len(handles) == 0 {
		return -1
	}

	axis := depth % 2
	sort.Slice(handles, func(i, j int) bool {
		a, b := axisValue(t.points[handles[i]], axis), axisValue(t.points[handles[j]], axis)
		if a != b {
			return a < b
		}
		return handles[i] < handles[j]
	})
	medianPos := (len(handles) - 1) / 2
	medianHandle := handles[medianPos]

	left := t.build(handles[:medianPos], depth+1)
	right := t.build(handles[medianPos+1:], depth+1)

	idx := int32(len(t.arena))
	t.arena = append(t.arena, kdNode{pointIndex: medianHandle, left: left, right: right})
	return idx
}

func axisValue[T geom.Float](p geom.Point[T], axis int) T {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

func boxAxisRange[T geom.Float](box geom.Box[T], axis int) (lo, hi T) {
	if axis == 0 {
		return box.MinX, box.MaxX
	}
	return box.MinY, box.MaxY
}

// Points returns the points the tree was built from, in original order.
func (t *KDTree[T]) Points() []geom.Point[T] { return t.points }

// FindBoxIndices returns the indices of every point contained in box.
func (t *KDTree[T]) FindBoxIndices(box geom.Box[T]) []int {
	var result []int
	t.findBox(box, func(i int32) { result = append(result, int(i)) })
	return result
}

// FindBoxPoints returns the points contained in box.
func (t *KDTree[T]) FindBoxPoints(box geom.Box[T]) []geom.Point[T] {
	var result []geom.Point[T]
	t.findBox(box, func(i int32) { result = append(result, t.points[i]) })
	return result
}

// FindBoxItems returns (index, point) pairs for the points contained in box.
func (t *KDTree[T]) FindBoxItems(box geom.Box[T]) []Item[geom.Point[T]] {
	var result []Item[geom.Point[T]]
	t.findBox(box, func(i int32) {
		result = append(result, Item[geom.Point[T]]{Index: int(i), Value: t.points[i]})
	})
	return result
}

func (t *KDTree[T]) findBox(box geom.Box[T], emit func(int32)) {
	if t.root < 0 {
		return
	}
	stack := []kdFrame{{t.root, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.arena[top.node]
		point := t.points[node.pointIndex]
		if geom.BoxContainsPoint(box, point) {
			emit(node.pointIndex)
		}
		axis := top.depth % 2
		value := axisValue(point, axis)
		lo, hi := boxAxisRange(box, axis)
		if node.left >= 0 && lo <= value {
			stack = append(stack, kdFrame{node.left, top.depth + 1})
		}
		if node.right >= 0 && hi >= value {
			stack = append(stack, kdFrame{node.right, top.depth + 1})
		}
	}
}

// FindBallIndices returns the indices of every point within radius of
// center (closed: points exactly at radius are included).
func (t *KDTree[T]) FindBallIndices(center geom.Point[T], radius T) []int {
	var result []int
	t.findBall(center, radius, func(i int32) { result = append(result, int(i)) })
	return result
}

// FindBallPoints returns the points within radius of center.
func (t *KDTree[T]) FindBallPoints(center geom.Point[T], radius T) []geom.Point[T] {
	var result []geom.Point[T]
	t.findBall(center, radius, func(i int32) { result = append(result, t.points[i]) })
	return result
}

// FindBallItems returns (index, point) pairs for the points within radius
// of center.
func (t *KDTree[T]) FindBallItems(center geom.Point[T], radius T) []Item[geom.Point[T]] {
	var result []Item[geom.Point[T]]
	t.findBall(center, radius, func(i int32) {
		result = append(result, Item[geom.Point[T]]{Index: int(i), Value: t.points[i]})
	})
	return result
}

func (t *KDTree[T]) findBall(center geom.Point[T], radius T, emit func(int32)) {
	if t.root < 0 {
		return
	}
	squaredRadius := radius * radius
	stack := []kdFrame{{t.root, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.arena[top.node]
		point := t.points[node.pointIndex]
		if geom.SquaredDistance(center, point) <= squaredRadius {
			emit(node.pointIndex)
		}
		axis := top.depth % 2
		value := axisValue(point, axis)
		centerValue := axisValue(center, axis)
		diff := centerValue - value
		crossesPlane := diff*diff <= squaredRadius
		if node.left >= 0 && (centerValue <= value || crossesPlane) {
			stack = append(stack, kdFrame{node.left, top.depth + 1})
		}
		if node.right >= 0 && (centerValue >= value || crossesPlane) {
			stack = append(stack, kdFrame{node.right, top.depth + 1})
		}
	}
}

// NNearestIndices returns the indices of the min(n, len(Points())) points
// closest to point, ordered by ascending squared distance.
func (t *KDTree[T]) NNearestIndices(n int, point geom.Point[T]) ([]int, error) {
	items, err := t.NNearestItems(n, point)
	if err != nil {
		return nil, err
	}
	result := make([]int, len(items))
	for i, it := range items {
		result[i] = it.Index
	}
	return result, nil
}

// NNearestPoints returns the points closest to point.
func (t *KDTree[T]) NNearestPoints(n int, point geom.Point[T]) ([]geom.Point[T], error) {
	items, err := t.NNearestItems(n, point)
	if err != nil {
		return nil, err
	}
	result := make([]geom.Point[T], len(items))
	for i, it := range items {
		result[i] = it.Value
	}
	return result, nil
}

// NNearestItems returns (index, point) pairs for the points closest to
// point, ordered by ascending squared distance.
func (t *KDTree[T]) NNearestItems(n int, point geom.Point[T]) ([]Item[geom.Point[T]], error) {
	if n <= 0 {
		return nil, invalidArgument("n must be positive, got %d", n)
	}
	if n >= len(t.points) {
		result := make([]Item[geom.Point[T]], len(t.points))
		for i, p := range t.points {
			result[i] = Item[geom.Point[T]]{Index: i, Value: p}
		}
		return result, nil
	}

	best := newBoundedMaxHeap[T](n)
	t.nearest(t.root, 0, point, best)

	entries := best.sorted()
	result := make([]Item[geom.Point[T]], len(entries))
	for i, e := range entries {
		result[i] = Item[geom.Point[T]]{Index: int(e.index), Value: t.points[e.index]}
	}
	return result, nil
}

// NearestIndex returns the index of the single point closest to point.
// Equivalent to NNearestIndices(1, point)[0].
func (t *KDTree[T]) NearestIndex(point geom.Point[T]) (int, error) {
	indices, err := t.NNearestIndices(1, point)
	if err != nil {
		return 0, err
	}
	return indices[0], nil
}

// NearestPoint returns the single point closest to point.
func (t *KDTree[T]) NearestPoint(point geom.Point[T]) (geom.Point[T], error) {
	points, err := t.NNearestPoints(1, point)
	if err != nil {
		var zero geom.Point[T]
		return zero, err
	}
	return points[0], nil
}

// NearestItem returns the (index, point) pair closest to point.
func (t *KDTree[T]) NearestItem(point geom.Point[T]) (Item[geom.Point[T]], error) {
	items, err := t.NNearestItems(1, point)
	if err != nil {
		return Item[geom.Point[T]]{}, err
	}
	return items[0], nil
}

// nearest walks the subtree rooted at node, descending into the near child
// first and only visiting the far child when its splitting plane is closer
// than the current worst kept candidate.
func (t *KDTree[T]) nearest(node int32, depth int, point geom.Point[T], best *boundedMaxHeap[T]) {
	if node < 0 {
		return
	}
	n := &t.arena[node]
	candidate := t.points[n.pointIndex]
	best.offer(geom.SquaredDistance(point, candidate), n.pointIndex)

	axis := depth % 2
	value := axisValue(candidate, axis)
	queryValue := axisValue(point, axis)
	near, far := n.left, n.right
	if queryValue > value {
		near, far = n.right, n.left
	}

	t.nearest(near, depth+1, point, best)

	diff := queryValue - value
	if far >= 0 && (!best.full() || diff*diff < best.worst()) {
		t.nearest(far, depth+1, point, best)
	}
}

// String renders the tree's shape, one line per node, for debugging.
func (t *KDTree[T]) String() string {
	if t == nil {
		return "nil KDTree"
	}
	if len(t.points) == 0 {
		return "KDTree: no points"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "KDTree (points: %d):\n", len(t.points))
	t.stringifyNode(&sb, "Root", t.root, 0)
	return sb.String()
}

// height returns the number of edges on the longest root-to-leaf path,
// or -1 for an empty tree. Used only by tests to check the balance
// invariant of the lower-median split.
func (t *KDTree[T]) height() int {
	return t.nodeHeight(t.root)
}

func (t *KDTree[T]) nodeHeight(node int32) int {
	if node < 0 {
		return -1
	}
	n := &t.arena[node]
	leftHeight := t.nodeHeight(n.left)
	rightHeight := t.nodeHeight(n.right)
	if leftHeight > rightHeight {
		return leftHeight + 1
	}
	return rightHeight + 1
}

func (t *KDTree[T]) stringifyNode(sb *strings.Builder, prefix string, node int32, depth int) {
	if node < 0 {
		return
	}
	indent := strings.Repeat("  ", depth)
	n := &t.arena[node]
	point := t.points[n.pointIndex]
	if n.isLeaf() {
		fmt.Fprintf(sb, "%s%s leaf point[%d]=(%v, %v)\n", indent, prefix, n.pointIndex, point.X, point.Y)
		return
	}
	fmt.Fprintf(sb, "%s%s node axis=%d point[%d]=(%v, %v)\n", indent, prefix, depth%2, n.pointIndex, point.X, point.Y)
	t.stringifyNode(sb, "Left", n.left, depth+1)
	t.stringifyNode(sb, "Right", n.right, depth+1)
}
