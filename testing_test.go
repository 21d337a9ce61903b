package wfq

import (
	"bytes"
	"context"
	"testing"
)

func TestMockObserverRecordsEvents(t *testing.T) {
	obs := NewMockObserver()
	trace := NewTraceBuilder().
		Arrival(0, "1.1.1.1", "10", "2.2.2.2", "20", 100).
		Arrival(0, "1.1.1.1", "10", "2.2.2.2", "20", 50).
		String()

	s := NewScheduler(Options{Observer: obs})
	var out bytes.Buffer
	if err := s.RunToCompletion(context.Background(), bytes.NewBufferString(trace), &out); err != nil {
		t.Fatalf("RunToCompletion: %v", err)
	}

	if got := obs.ChannelsCreated(); len(got) != 1 || got[0] != 0 {
		t.Errorf("ChannelsCreated() = %v, want [0]", got)
	}
	emits := obs.Emits()
	if len(emits) != 2 {
		t.Fatalf("Emits() has %d entries, want 2", len(emits))
	}
	if emits[0].Length != 100 || emits[1].Length != 50 {
		t.Errorf("Emits() = %+v, want lengths [100 50] in FIFO order", emits)
	}
	if obs.MaxHeapDepth() < 1 {
		t.Errorf("MaxHeapDepth() = %d, want at least 1", obs.MaxHeapDepth())
	}
}

func TestMockObserverReset(t *testing.T) {
	obs := NewMockObserver()
	obs.ObserveChannelCreated(0)
	obs.ObserveEmit(0, 10, 1)
	obs.ObserveIdleGap(0, 5)
	obs.ObserveHeapDepth(2)

	obs.Reset()

	if len(obs.ChannelsCreated()) != 0 || len(obs.Emits()) != 0 || len(obs.IdleGaps()) != 0 || obs.MaxHeapDepth() != 0 {
		t.Errorf("expected empty state after Reset")
	}
}

func TestTraceBuilderFormatsLines(t *testing.T) {
	trace := NewTraceBuilder().
		Arrival(0, "A", "a", "B", "b", 10).
		WeightedArrival(5, "C", "c", "D", "d", 20, 2.5).
		String()

	want := "0 A a B b 10\n5 C c D d 20 2.50\n"
	if trace != want {
		t.Errorf("trace = %q, want %q", trace, want)
	}
}

func TestTraceBuilderEmpty(t *testing.T) {
	if got := NewTraceBuilder().String(); got != "" {
		t.Errorf("empty TraceBuilder.String() = %q, want empty", got)
	}
}
