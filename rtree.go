package locus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lycantropos/locus/geom"
	"github.com/lycantropos/locus/hilbert"
)

// DefaultMaxChildren is the branching factor to use when a caller has no
// reason to pick anything else.
const DefaultMaxChildren = 16

// rnode is one node of a packed Hilbert R-tree, stored in a flat arena.
// A leaf has a nil children slice, and its own arena index equals the
// position its box held in the input sequence.
type rnode[T geom.Float] struct {
	box      geom.Box[T]
	children []int32
}

func (n *rnode[T]) isLeaf() bool { return len(n.children) == 0 }

// RTree is a packed 2D Hilbert R-tree over axis-aligned boxes.
type RTree[T geom.Float] struct {
	boxes       []geom.Box[T]
	maxChildren int
	arena       []rnode[T]
	root        int32
}

// NewRTree bulk-loads an RTree from boxes. maxChildren must be at least 2;
// pass DefaultMaxChildren for the library default of 16.
func NewRTree[T geom.Float](boxes []geom.Box[T], maxChildren int) (*RTree[T], error) {
	if len(boxes) == 0 {
		return nil, invalidArgument("RTree requires a non-empty box sequence")
	}
	if maxChildren < 2 {
		return nil, invalidArgument("max_children must be at least 2, got %d", maxChildren)
	}

	n := len(boxes)
	arena := make([]rnode[T], n, 2*n)
	for i, b := range boxes {
		arena[i] = rnode[T]{box: b}
	}

	order := hilbertOrder(n, func(idx int32) geom.Box[T] { return arena[idx].box })

	tree := &RTree[T]{
		boxes:       append([]geom.Box[T](nil), boxes...),
		maxChildren: maxChildren,
		arena:       arena,
	}
	tree.root = packNodes(order, maxChildren,
		func(idx int32) geom.Box[T] { return tree.arena[idx].box },
		func(box geom.Box[T], children []int32) int32 {
			idx := int32(len(tree.arena))
			tree.arena = append(tree.arena, rnode[T]{box: box, children: children})
			return idx
		})
	return tree, nil
}

// hilbertOrder returns leaf handles 0..n-1 ordered by the Hilbert index of
// each leaf's box center mapped onto the outer bounding box of all n leaves.
// Shared by the R-tree and segmental tree packers, parameterized by boxOf so
// each can index its own leaf representation.
func hilbertOrder[T geom.Float](n int, boxOf func(int32) geom.Box[T]) []int32 {
	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	if n <= 1 {
		return order
	}

	outer := boxOf(0)
	for i := int32(1); i < int32(n); i++ {
		outer = geom.MergeBox(outer, boxOf(i))
	}

	keys := make([]uint32, n)
	width := outer.MaxX - outer.MinX
	height := outer.MaxY - outer.MinY
	for i := int32(0); i < int32(n); i++ {
		keys[i] = hilbertKeyOfBox(boxOf(i), outer, width, height)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return keys[order[i]] < keys[order[j]]
	})
	return order
}

// hilbertKeyOfBox maps a box's center onto the curve's grid, scaled by the
// outer box of all leaves. An outer box degenerate on an axis (all centers
// collinear) leaves that curve coordinate at 0; the stable sort then falls
// back to original input order for equal keys.
func hilbertKeyOfBox[T geom.Float](box, outer geom.Box[T], width, height T) uint32 {
	center := box.Center()
	var zero T
	var u, v uint32
	if width != zero {
		u = uint32(hilbert.Max * float64(center.X-outer.MinX) / float64(width))
	}
	if height != zero {
		v = uint32(hilbert.Max * float64(center.Y-outer.MinY) / float64(height))
	}
	return hilbert.Encode(u, v)
}

// packNodes groups handles into runs of up to maxChildren, iteratively
// building parents until a single root remains. boxOf
// looks up an already-appended node's box by arena index; appendNode adds a
// new internal node to the caller's arena and returns its index. Both trees
// share this packer: the segmental tree's arena holds a different node type,
// but the grouping logic is identical.
// At least one level is always packed, so the root is an internal node even
// for a single input, and internal arena indices always extend past the leaf
// range [0, N).
func packNodes[T geom.Float](order []int32, maxChildren int, boxOf func(int32) geom.Box[T], appendNode func(geom.Box[T], []int32) int32) int32 {
	level := order
	for {
		next := make([]int32, 0, (len(level)+maxChildren-1)/maxChildren)
		for i := 0; i < len(level); i += maxChildren {
			end := i + maxChildren
			if end > len(level) {
				end = len(level)
			}
			children := append([]int32(nil), level[i:end]...)
			box := boxOf(children[0])
			for _, c := range children[1:] {
				box = geom.MergeBox(box, boxOf(c))
			}
			next = append(next, appendNode(box, children))
		}
		level = next
		if len(level) == 1 {
			return level[0]
		}
	}
}

// Boxes returns the boxes the tree was built from, in original order.
func (t *RTree[T]) Boxes() []geom.Box[T] { return t.boxes }

// MaxChildren returns the branching factor the tree was built with.
func (t *RTree[T]) MaxChildren() int { return t.maxChildren }

// FindSupersetsIndices returns the indices of every stored box that is a
// (closed) superset of probe.
func (t *RTree[T]) FindSupersetsIndices(probe geom.Box[T]) []int {
	var result []int
	t.findSupersets(probe, func(i int32, _ geom.Box[T]) { result = append(result, int(i)) })
	return result
}

// FindSupersetsBoxes returns the boxes that are a superset of probe.
func (t *RTree[T]) FindSupersetsBoxes(probe geom.Box[T]) []geom.Box[T] {
	var result []geom.Box[T]
	t.findSupersets(probe, func(_ int32, b geom.Box[T]) { result = append(result, b) })
	return result
}

// FindSupersetsItems returns (index, box) pairs for every superset of probe.
func (t *RTree[T]) FindSupersetsItems(probe geom.Box[T]) []Item[geom.Box[T]] {
	var result []Item[geom.Box[T]]
	t.findSupersets(probe, func(i int32, b geom.Box[T]) { result = append(result, Item[geom.Box[T]]{Index: int(i), Value: b}) })
	return result
}

func (t *RTree[T]) findSupersets(probe geom.Box[T], emit func(int32, geom.Box[T])) {
	stack := []int32{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.arena[idx]
		if !geom.BoxIsSubsetOf(probe, node.box) {
			continue
		}
		if node.isLeaf() {
			emit(idx, node.box)
			continue
		}
		for _, c := range node.children {
			stack = append(stack, c)
		}
	}
}

// FindSubsetsIndices returns the indices of every stored box that is a
// (closed) subset of probe.
func (t *RTree[T]) FindSubsetsIndices(probe geom.Box[T]) []int {
	var result []int
	t.findSubsets(probe, func(i int32, _ geom.Box[T]) { result = append(result, int(i)) })
	return result
}

// FindSubsetsBoxes returns the boxes that are a subset of probe.
func (t *RTree[T]) FindSubsetsBoxes(probe geom.Box[T]) []geom.Box[T] {
	var result []geom.Box[T]
	t.findSubsets(probe, func(_ int32, b geom.Box[T]) { result = append(result, b) })
	return result
}

// FindSubsetsItems returns (index, box) pairs for every subset of probe.
func (t *RTree[T]) FindSubsetsItems(probe geom.Box[T]) []Item[geom.Box[T]] {
	var result []Item[geom.Box[T]]
	t.findSubsets(probe, func(i int32, b geom.Box[T]) { result = append(result, Item[geom.Box[T]]{Index: int(i), Value: b}) })
	return result
}

func (t *RTree[T]) findSubsets(probe geom.Box[T], emit func(int32, geom.Box[T])) {
	stack := []int32{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.arena[idx]
		if node.isLeaf() {
			if geom.BoxIsSubsetOf(node.box, probe) {
				emit(idx, node.box)
			}
			continue
		}
		for _, c := range node.children {
			child := &t.arena[c]
			if geom.BoxDoesNotOverlap(child.box, probe) {
				continue
			}
			if child.isLeaf() {
				if geom.BoxIsSubsetOf(child.box, probe) {
					emit(c, child.box)
				}
			} else {
				stack = append(stack, c)
			}
		}
	}
}

// NNearestIndices returns the indices of the min(n, len(Boxes())) boxes
// closest to point, ordered by ascending squared distance.
func (t *RTree[T]) NNearestIndices(n int, point geom.Point[T]) ([]int, error) {
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

// NNearestBoxes returns the boxes closest to point.
func (t *RTree[T]) NNearestBoxes(n int, point geom.Point[T]) ([]geom.Box[T], error) {
	items, err := t.NNearestItems(n, point)
	if err != nil {
		return nil, err
	}
	result := make([]geom.Box[T], len(items))
	for i, it := range items {
		result[i] = it.Value
	}
	return result, nil
}

// NNearestItems returns (index, box) pairs for the boxes closest to point.
func (t *RTree[T]) NNearestItems(n int, point geom.Point[T]) ([]Item[geom.Box[T]], error) {
	if n <= 0 {
		return nil, invalidArgument("n must be positive, got %d", n)
	}
	if n >= len(t.boxes) {
		result := make([]Item[geom.Box[T]], len(t.boxes))
		for i, b := range t.boxes {
			result[i] = Item[geom.Box[T]]{Index: i, Value: b}
		}
		return result, nil
	}

	assert(int(t.root) < len(t.arena), "rtree: corrupted arena, root %d out of bounds for %d nodes", t.root, len(t.arena))

	queue := newBestFirstQueue[T](func(a, b T) bool { return a < b })
	var zero T
	queue.push(bestFirstEntry[T]{distance: zero, tie: internalTie(t.root), node: t.root})

	var result []Item[geom.Box[T]]
	for len(result) < n && !queue.empty() {
		top := queue.pop()
		node := &t.arena[top.node]
		for _, c := range node.children {
			child := &t.arena[c]
			dist := geom.BoxSquaredDistanceToPoint(child.box, point)
			tie := internalTie(c)
			if child.isLeaf() {
				tie = leafTie(c)
			}
			queue.push(bestFirstEntry[T]{distance: dist, tie: tie, node: c})
		}
		for len(result) < n && !queue.empty() && queue.peek().tie >= 0 {
			e := queue.pop()
			result = append(result, Item[geom.Box[T]]{Index: int(e.node), Value: t.arena[e.node].box})
		}
	}
	return result, nil
}

// String renders the tree's shape, one line per node, for debugging.
func (t *RTree[T]) String() string {
	if t == nil {
		return "nil RTree"
	}
	if len(t.boxes) == 0 {
		return "RTree: no boxes"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "RTree (boxes: %d, max-children: %d):\n", len(t.boxes), t.maxChildren)
	t.stringifyNode(&sb, t.root, 0)
	return sb.String()
}

// height returns the number of edges on the longest root-to-leaf path. Used
// only by tests to check the packed tree's branching-factor invariant.
func (t *RTree[T]) height() int {
	return t.nodeHeight(t.root)
}

func (t *RTree[T]) nodeHeight(node int32) int {
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

func (t *RTree[T]) stringifyNode(sb *strings.Builder, node int32, depth int) {
	indent := strings.Repeat("  ", depth)
	n := &t.arena[node]
	if n.isLeaf() {
		fmt.Fprintf(sb, "%sleaf[%d] box=%v\n", indent, node, n.box)
		return
	}
	fmt.Fprintf(sb, "%snode[%d] box=%v children=%d\n", indent, node, n.box, len(n.children))
	for _, c := range n.children {
		t.stringifyNode(sb, c, depth+1)
	}
}
