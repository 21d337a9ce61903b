package wfq

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ehrlich-b/wfq-sched/internal/interfaces"
)

// MockObserver is a recording implementation of interfaces.Observer for
// tests that want to assert on the sequence of scheduling events without
// wiring up a full Metrics.
type MockObserver struct {
	mu sync.RWMutex

	channelsCreated []int
	emits           []MockEmit
	idleGaps        []MockIdleGap
	heapDepths      []int
}

// MockEmit records one ObserveEmit call.
type MockEmit struct {
	ChannelIndex int
	Length       uint64
	VirtualWait  float64
}

// MockIdleGap records one ObserveIdleGap call.
type MockIdleGap struct {
	From, To uint64
}

// NewMockObserver creates an empty MockObserver.
func NewMockObserver() *MockObserver {
	return &MockObserver{}
}

func (m *MockObserver) ObserveChannelCreated(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channelsCreated = append(m.channelsCreated, index)
}

func (m *MockObserver) ObserveEmit(channelIndex int, length uint64, virtualWait float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emits = append(m.emits, MockEmit{ChannelIndex: channelIndex, Length: length, VirtualWait: virtualWait})
}

func (m *MockObserver) ObserveIdleGap(from, to uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleGaps = append(m.idleGaps, MockIdleGap{From: from, To: to})
}

func (m *MockObserver) ObserveHeapDepth(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.heapDepths = append(m.heapDepths, depth)
}

// ChannelsCreated returns the arena indices of every channel created, in
// creation order.
func (m *MockObserver) ChannelsCreated() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.channelsCreated...)
}

// Emits returns every recorded emission, in emission order.
func (m *MockObserver) Emits() []MockEmit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MockEmit(nil), m.emits...)
}

// IdleGaps returns every recorded idle gap, in occurrence order.
func (m *MockObserver) IdleGaps() []MockIdleGap {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MockIdleGap(nil), m.idleGaps...)
}

// MaxHeapDepth returns the largest heap depth observed, or 0 if none was
// recorded.
func (m *MockObserver) MaxHeapDepth() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	max := 0
	for _, d := range m.heapDepths {
		if d > max {
			max = d
		}
	}
	return max
}

// Reset clears all recorded events.
func (m *MockObserver) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channelsCreated = nil
	m.emits = nil
	m.idleGaps = nil
	m.heapDepths = nil
}

// TraceBuilder assembles an arrival trace line by line for tests, sparing
// callers from formatting the trace lines ParseArrival reads by hand.
type TraceBuilder struct {
	lines []string
}

// NewTraceBuilder creates an empty TraceBuilder.
func NewTraceBuilder() *TraceBuilder {
	return &TraceBuilder{}
}

// Arrival appends a 6-token arrival line (no explicit weight).
func (b *TraceBuilder) Arrival(t uint64, srcAddr, srcPort, dstAddr, dstPort string, length uint64) *TraceBuilder {
	b.lines = append(b.lines, fmt.Sprintf("%d %s %s %s %s %d", t, srcAddr, srcPort, dstAddr, dstPort, length))
	return b
}

// WeightedArrival appends a 7-token arrival line carrying an explicit weight.
func (b *TraceBuilder) WeightedArrival(t uint64, srcAddr, srcPort, dstAddr, dstPort string, length uint64, weight float64) *TraceBuilder {
	b.lines = append(b.lines, fmt.Sprintf("%d %s %s %s %s %d %.2f", t, srcAddr, srcPort, dstAddr, dstPort, length, weight))
	return b
}

// String renders the trace as newline-terminated input suitable for
// RunToCompletion.
func (b *TraceBuilder) String() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// Compile-time interface check.
var _ interfaces.Observer = (*MockObserver)(nil)
