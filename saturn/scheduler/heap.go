package scheduler

import "container/heap"

// eventHeap is a container/heap.Interface over *event, ordered by target
// cycle with registration-order tie-breaking (spec.md §5: "same-cycle
// events dispatch in event-id registration order").
type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].target != h[j].target {
		return h[i].target < h[j].target
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *eventHeap) Push(x any) {
	e := x.(*event)
	e.heapIndex = len(*h)
	*h = append(*h, e)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heapIndex = -1
	*h = old[:n-1]
	return e
}

// fix re-establishes heap order after e.target changed in place.
func (h *eventHeap) fix(e *event) {
	heap.Fix(h, e.heapIndex)
}

// remove pulls e out of the heap regardless of its current position.
func (h *eventHeap) remove(e *event) {
	heap.Remove(h, e.heapIndex)
}
