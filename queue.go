package locus

import "container/heap"

// bestFirstEntry is one (distance, tie-break, node) tuple in the best-first
// search priority queue shared by the R-tree and segmental R-tree k-NN
// search. Node handles are arena indices rather than pointers, per the
// flat-arena node representation both trees use.
//
// tie: for a leaf, tie == the leaf's original item index (>= 0); for an
// internal node, tie == -node.index - 1 (< 0). Among entries of equal
// distance, leaves order before internal nodes: an internal node's box
// distance is a lower bound on every segment or box inside it, so a leaf
// that ties an internal node can be emitted without expanding it. Within
// leaves, the smaller original index drains first; within internals, the
// smaller tie (so the larger, higher-level node index) drains first. The
// search loop checks the queue top's sign to decide whether to emit it as
// a leaf or expand it as an internal node.
type bestFirstEntry[T any] struct {
	distance T
	tie      int64
	node     int32
}

// bestFirstQueue is a min-heap ordered first by distance, then by the
// tie-break described on bestFirstEntry.
type bestFirstQueue[T any] struct {
	entries []bestFirstEntry[T]
	less    func(a, b T) bool
}

func newBestFirstQueue[T any](less func(a, b T) bool) *bestFirstQueue[T] {
	return &bestFirstQueue[T]{less: less}
}

func (q *bestFirstQueue[T]) Len() int { return len(q.entries) }

func (q *bestFirstQueue[T]) Less(i, j int) bool {
	a, b := q.entries[i], q.entries[j]
	if q.less(a.distance, b.distance) {
		return true
	}
	if q.less(b.distance, a.distance) {
		return false
	}
	if (a.tie >= 0) != (b.tie >= 0) {
		return a.tie >= 0
	}
	return a.tie < b.tie
}

func (q *bestFirstQueue[T]) Swap(i, j int) {
	q.entries[i], q.entries[j] = q.entries[j], q.entries[i]
}

func (q *bestFirstQueue[T]) Push(x any) {
	q.entries = append(q.entries, x.(bestFirstEntry[T]))
}

func (q *bestFirstQueue[T]) Pop() any {
	n := len(q.entries)
	item := q.entries[n-1]
	q.entries = q.entries[:n-1]
	return item
}

func (q *bestFirstQueue[T]) push(e bestFirstEntry[T]) {
	heap.Push(q, e)
}

func (q *bestFirstQueue[T]) pop() bestFirstEntry[T] {
	return heap.Pop(q).(bestFirstEntry[T])
}

func (q *bestFirstQueue[T]) peek() bestFirstEntry[T] {
	return q.entries[0]
}

func (q *bestFirstQueue[T]) empty() bool {
	return len(q.entries) == 0
}

// leafTie and internalTie implement the §4.5 tie-break convention: leaves
// get their own original index (non-negative), internal nodes get
// -index-1 (negative). Draining stops comparing once the queue top is an
// internal node (tie < 0).
func leafTie(index int32) int64     { return int64(index) }
func internalTie(index int32) int64 { return -int64(index) - 1 }
