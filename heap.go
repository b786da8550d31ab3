package locus

import (
	"container/heap"
	"sort"

	"github.com/lycantropos/locus/geom"
)

// boundedHeapEntry is one (squared distance, original point index) candidate
// kept by a KDTree nearest-neighbor search.
type boundedHeapEntry[T any] struct {
	distance T
	index    int32
}

// boundedMaxHeap keeps the n closest candidates offered to it, ordered as a
// max-heap on distance so the current worst kept candidate is always at the
// root; offer() evicts that root once the heap is full and a closer
// candidate arrives. The KD-tree search never needs to expand the candidate
// set past n, only replace its worst member.
type boundedMaxHeap[T geom.Float] struct {
	entries []boundedHeapEntry[T]
	cap     int
}

func newBoundedMaxHeap[T geom.Float](cap int) *boundedMaxHeap[T] {
	return &boundedMaxHeap[T]{cap: cap}
}

func (h *boundedMaxHeap[T]) Len() int { return len(h.entries) }

func (h *boundedMaxHeap[T]) Less(i, j int) bool {
	return h.entries[i].distance > h.entries[j].distance
}

func (h *boundedMaxHeap[T]) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *boundedMaxHeap[T]) Push(x any) { h.entries = append(h.entries, x.(boundedHeapEntry[T])) }

func (h *boundedMaxHeap[T]) Pop() any {
	n := len(h.entries)
	item := h.entries[n-1]
	h.entries = h.entries[:n-1]
	return item
}

func (h *boundedMaxHeap[T]) full() bool { return len(h.entries) >= h.cap }

// worst returns the largest kept distance. Only valid when full().
func (h *boundedMaxHeap[T]) worst() T { return h.entries[0].distance }

// offer adds (distance, index) if the heap isn't full yet, or if it beats
// the current worst kept candidate, evicting that candidate.
func (h *boundedMaxHeap[T]) offer(distance T, index int32) {
	if !h.full() {
		heap.Push(h, boundedHeapEntry[T]{distance: distance, index: index})
		return
	}
	if distance < h.worst() {
		heap.Pop(h)
		heap.Push(h, boundedHeapEntry[T]{distance: distance, index: index})
	}
}

// sorted drains the heap into ascending-distance order, breaking ties by
// original index to keep results deterministic.
func (h *boundedMaxHeap[T]) sorted() []boundedHeapEntry[T] {
	result := append([]boundedHeapEntry[T](nil), h.entries...)
	sort.Slice(result, func(i, j int) bool {
		if result[i].distance != result[j].distance {
			return result[i].distance < result[j].distance
		}
		return result[i].index < result[j].index
	})
	return result
}
