package wfq

import (
	"github.com/ehrlich-b/wfq-sched/internal/constants"
	"github.com/ehrlich-b/wfq-sched/internal/interfaces"
)

// virtualWaitBuckets defines the virtual-time-wait histogram buckets, in
// the same units as arrival length (L). A packet's virtual wait is its
// finish tag minus its arrival time -- how long, in virtual time, it sat
// behind itself and its flow-mates before departing.
var virtualWaitBuckets = constants.VirtualWaitHistogramBuckets

const numWaitBuckets = 8

// Metrics accumulates run-level statistics. Unlike the concurrent I/O loop
// this codebase's lineage instruments with atomics, the scheduler loop is
// single-threaded by specification (§5), so these are plain counters rather
// than atomic ones -- there is never more than one goroutine driving a
// Scheduler at a time, and pretending otherwise would just be unexercised
// ceremony.
type Metrics struct {
	ChannelsCreated uint64
	PacketsEmitted  uint64
	BytesServed     uint64
	IdleGaps        uint64 // number of times the ready heap went empty
	IdleTicks       uint64 // total simulated-time advanced during idle gaps

	heapDepthTotal uint64
	heapDepthCount uint64
	maxHeapDepth   int

	waitBuckets [numWaitBuckets]uint64 // cumulative counts, like LatencyBuckets
	waitTotal   float64
	waitCount   uint64

	perChannelBytes []uint64 // indexed by channel index
}

// NewMetrics creates a new, zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// recordChannelCreated is called the first time a connection-key is seen.
func (m *Metrics) recordChannelCreated(index int) {
	m.ChannelsCreated++
	for len(m.perChannelBytes) <= index {
		m.perChannelBytes = append(m.perChannelBytes, 0)
	}
}

// recordEmit is called for every packet written to the schedule.
func (m *Metrics) recordEmit(channelIndex int, length uint64, virtualWait float64) {
	m.PacketsEmitted++
	m.BytesServed += length
	for len(m.perChannelBytes) <= channelIndex {
		m.perChannelBytes = append(m.perChannelBytes, 0)
	}
	m.perChannelBytes[channelIndex] += length

	m.waitTotal += virtualWait
	m.waitCount++
	for i, bucket := range virtualWaitBuckets {
		if virtualWait <= bucket {
			m.waitBuckets[i]++
		}
	}
}

// recordIdleGap is called whenever the ready heap goes empty and the clock
// fast-forwards to the next arrival.
func (m *Metrics) recordIdleGap(from, to uint64) {
	m.IdleGaps++
	if to > from {
		m.IdleTicks += to - from
	}
}

// recordHeapDepth is called once per scheduler iteration.
func (m *Metrics) recordHeapDepth(depth int) {
	m.heapDepthTotal += uint64(depth)
	m.heapDepthCount++
	if depth > m.maxHeapDepth {
		m.maxHeapDepth = depth
	}
}

// ChannelBytes returns the bytes served for a given channel index, or 0 if
// the channel never emitted a packet.
func (m *Metrics) ChannelBytes(index int) uint64 {
	if index < 0 || index >= len(m.perChannelBytes) {
		return 0
	}
	return m.perChannelBytes[index]
}

// Snapshot is a point-in-time view of Metrics with derived statistics.
type Snapshot struct {
	ChannelsCreated uint64
	PacketsEmitted  uint64
	BytesServed     uint64
	IdleGaps        uint64
	IdleTicks       uint64

	AvgHeapDepth float64
	MaxHeapDepth int

	AvgVirtualWait float64

	// VirtualWaitHistogram mirrors waitBuckets: cumulative counts of
	// packets whose virtual wait was <= the corresponding bucket bound.
	VirtualWaitHistogram [numWaitBuckets]uint64

	PerChannelBytes []uint64
}

// Snapshot takes a point-in-time snapshot of m.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		ChannelsCreated: m.ChannelsCreated,
		PacketsEmitted:  m.PacketsEmitted,
		BytesServed:     m.BytesServed,
		IdleGaps:        m.IdleGaps,
		IdleTicks:       m.IdleTicks,
		MaxHeapDepth:    m.maxHeapDepth,
	}
	if m.heapDepthCount > 0 {
		s.AvgHeapDepth = float64(m.heapDepthTotal) / float64(m.heapDepthCount)
	}
	if m.waitCount > 0 {
		s.AvgVirtualWait = m.waitTotal / float64(m.waitCount)
	}
	copy(s.VirtualWaitHistogram[:], m.waitBuckets[:])
	s.PerChannelBytes = append([]uint64(nil), m.perChannelBytes...)
	return s
}

// Reset zeroes all counters. Useful for testing.
func (m *Metrics) Reset() {
	*m = Metrics{}
}

// MetricsObserver implements interfaces.Observer by recording into a Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an Observer that records to the given Metrics.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveChannelCreated(index int) {
	o.metrics.recordChannelCreated(index)
}

func (o *MetricsObserver) ObserveEmit(channelIndex int, length uint64, virtualWait float64) {
	o.metrics.recordEmit(channelIndex, length, virtualWait)
}

func (o *MetricsObserver) ObserveIdleGap(from, to uint64) {
	o.metrics.recordIdleGap(from, to)
}

func (o *MetricsObserver) ObserveHeapDepth(depth int) {
	o.metrics.recordHeapDepth(depth)
}

// NoOpObserver is a no-op implementation of interfaces.Observer, used when
// the caller doesn't want metrics collection overhead.
type NoOpObserver struct{}

func (NoOpObserver) ObserveChannelCreated(int)        {}
func (NoOpObserver) ObserveEmit(int, uint64, float64) {}
func (NoOpObserver) ObserveIdleGap(uint64, uint64)    {}
func (NoOpObserver) ObserveHeapDepth(int)             {}

// Compile-time interface checks.
var _ interfaces.Observer = (*MetricsObserver)(nil)
var _ interfaces.Observer = (*NoOpObserver)(nil)
