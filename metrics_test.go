package wfq

import "testing"

func TestMetricsRecordEmit(t *testing.T) {
	m := NewMetrics()
	m.recordChannelCreated(0)
	m.recordEmit(0, 100, 50)
	m.recordEmit(0, 50, 5)

	snap := m.Snapshot()
	if snap.PacketsEmitted != 2 {
		t.Errorf("PacketsEmitted = %d, want 2", snap.PacketsEmitted)
	}
	if snap.BytesServed != 150 {
		t.Errorf("BytesServed = %d, want 150", snap.BytesServed)
	}
	if m.ChannelBytes(0) != 150 {
		t.Errorf("ChannelBytes(0) = %d, want 150", m.ChannelBytes(0))
	}
	wantAvg := (50.0 + 5.0) / 2
	if snap.AvgVirtualWait != wantAvg {
		t.Errorf("AvgVirtualWait = %v, want %v", snap.AvgVirtualWait, wantAvg)
	}
}

func TestMetricsIdleGap(t *testing.T) {
	m := NewMetrics()
	m.recordIdleGap(10, 100)
	m.recordIdleGap(100, 100)

	snap := m.Snapshot()
	if snap.IdleGaps != 2 {
		t.Errorf("IdleGaps = %d, want 2", snap.IdleGaps)
	}
	if snap.IdleTicks != 90 {
		t.Errorf("IdleTicks = %d, want 90", snap.IdleTicks)
	}
}

func TestMetricsHeapDepth(t *testing.T) {
	m := NewMetrics()
	m.recordHeapDepth(1)
	m.recordHeapDepth(3)
	m.recordHeapDepth(2)

	snap := m.Snapshot()
	if snap.MaxHeapDepth != 3 {
		t.Errorf("MaxHeapDepth = %d, want 3", snap.MaxHeapDepth)
	}
	wantAvg := (1.0 + 3.0 + 2.0) / 3
	if snap.AvgHeapDepth != wantAvg {
		t.Errorf("AvgHeapDepth = %v, want %v", snap.AvgHeapDepth, wantAvg)
	}
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.recordEmit(0, 10, 1)
	m.Reset()

	snap := m.Snapshot()
	if snap.PacketsEmitted != 0 || snap.BytesServed != 0 {
		t.Errorf("expected zeroed metrics after Reset, got %+v", snap)
	}
}

func TestMetricsObserverRecordsThroughInterface(t *testing.T) {
	m := NewMetrics()
	obs := NewMetricsObserver(m)

	obs.ObserveChannelCreated(0)
	obs.ObserveEmit(0, 200, 10)
	obs.ObserveIdleGap(0, 50)
	obs.ObserveHeapDepth(1)

	snap := m.Snapshot()
	if snap.ChannelsCreated != 1 {
		t.Errorf("ChannelsCreated = %d, want 1", snap.ChannelsCreated)
	}
	if snap.PacketsEmitted != 1 {
		t.Errorf("PacketsEmitted = %d, want 1", snap.PacketsEmitted)
	}
	if snap.IdleGaps != 1 {
		t.Errorf("IdleGaps = %d, want 1", snap.IdleGaps)
	}
}

func TestNoOpObserverDoesNotPanic(t *testing.T) {
	var obs NoOpObserver
	obs.ObserveChannelCreated(0)
	obs.ObserveEmit(0, 1, 1)
	obs.ObserveIdleGap(0, 1)
	obs.ObserveHeapDepth(1)
}

func TestVirtualWaitHistogramBuckets(t *testing.T) {
	m := NewMetrics()
	m.recordEmit(0, 10, 5)   // wait=5: counts in every bucket with bound >= 5
	m.recordEmit(0, 10, 500) // wait=500: counts only in buckets with bound >= 500

	snap := m.Snapshot()
	if snap.VirtualWaitHistogram[1] != 1 {
		t.Errorf("bucket[1] (bound=10) = %d, want 1 (only the wait=5 packet)", snap.VirtualWaitHistogram[1])
	}
	if snap.VirtualWaitHistogram[3] != 2 {
		t.Errorf("bucket[3] (bound=1000) = %d, want 2 (both packets)", snap.VirtualWaitHistogram[3])
	}
}
