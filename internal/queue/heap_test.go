package queue

import "testing"

func TestReadyHeapOrdersByFinishThenIndex(t *testing.T) {
	h := NewReadyHeap()

	chA := &Channel{Index: 0}
	chB := &Channel{Index: 1}
	chC := &Channel{Index: 2}

	PushEntry(h, Entry{Finish: 100, Index: chB.Index, Channel: chB})
	PushEntry(h, Entry{Finish: 50, Index: chC.Index, Channel: chC})
	PushEntry(h, Entry{Finish: 100, Index: chA.Index, Channel: chA})

	first := PopMin(h)
	if first.Channel != chC {
		t.Fatalf("expected smallest Finish (50) to pop first, got index %d", first.Index)
	}

	second := PopMin(h)
	if second.Channel != chA {
		t.Fatalf("expected tie on Finish=100 to break by smaller Index, got index %d", second.Index)
	}

	third := PopMin(h)
	if third.Channel != chB {
		t.Fatalf("expected chB last, got index %d", third.Index)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestReadyHeapPeekDoesNotRemove(t *testing.T) {
	h := NewReadyHeap()
	ch := &Channel{Index: 0}
	PushEntry(h, Entry{Finish: 1, Index: 0, Channel: ch})

	if got := Peek(h); got.Channel != ch {
		t.Fatalf("Peek() returned wrong entry")
	}
	if h.Len() != 1 {
		t.Errorf("Peek() should not remove the entry, Len() = %d", h.Len())
	}
}
