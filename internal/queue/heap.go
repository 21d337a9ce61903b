package queue

import "container/heap"

// Entry is one ready-heap slot: the channel currently at the head of its
// FIFO, tagged with the finish time of that head packet.
type Entry struct {
	Finish  float64
	Index   int // channel index, used only to break Finish ties
	Channel *Channel
}

// ReadyHeap is a min-heap of Entry ordered by (Finish, Index) ascending,
// implementing container/heap.Interface. Because every non-empty channel
// holds exactly one entry at a time (the scheduler never tags more than one
// packet ahead per channel), no entry is ever removed except via the root,
// so unlike a general-purpose priority queue this one needs no decrease-key
// or remove-by-key operation and no per-entry position bookkeeping.
type ReadyHeap []Entry

func (h ReadyHeap) Len() int { return len(h) }

func (h ReadyHeap) Less(i, j int) bool {
	if h[i].Finish != h[j].Finish {
		return h[i].Finish < h[j].Finish
	}
	return h[i].Index < h[j].Index
}

func (h ReadyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *ReadyHeap) Push(x interface{}) {
	*h = append(*h, x.(Entry))
}

func (h *ReadyHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// NewReadyHeap constructs an empty ready heap.
func NewReadyHeap() *ReadyHeap {
	h := make(ReadyHeap, 0)
	return &h
}

// PushEntry pushes a new (finish, index, channel) triple onto the heap.
func PushEntry(h *ReadyHeap, e Entry) {
	heap.Push(h, e)
}

// PopMin removes and returns the entry with the smallest (Finish, Index).
func PopMin(h *ReadyHeap) Entry {
	return heap.Pop(h).(Entry)
}

// Peek returns the entry with the smallest (Finish, Index) without removing
// it. Callers must not call Peek on an empty heap.
func Peek(h *ReadyHeap) Entry {
	return (*h)[0]
}
