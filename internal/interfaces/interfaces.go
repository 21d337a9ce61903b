// Package interfaces provides internal interface definitions for wfq-sched.
// These are separate from the public package to avoid circular imports
// between the top-level scheduler and the internal queue/logging packages.
package interfaces

// Logger is the subset of logging behavior the scheduler depends on.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Printf(format string, args ...interface{})
}

// Observer receives scheduling events as they happen. Implementations are
// called from the scheduler's single goroutine -- the run loop never
// parallelizes, so an Observer does not need to be concurrency-safe.
type Observer interface {
	// ObserveChannelCreated is called the first time a connection-key is seen.
	ObserveChannelCreated(index int)

	// ObserveEmit is called for every packet written to the schedule, with
	// the virtual-time wait (finish tag minus arrival time) it experienced.
	ObserveEmit(channelIndex int, length uint64, virtualWait float64)

	// ObserveIdleGap is called whenever the ready heap goes empty and the
	// clock fast-forwards to the next arrival.
	ObserveIdleGap(from, to uint64)

	// ObserveHeapDepth is called once per scheduler iteration with the
	// number of channels currently holding a heap entry.
	ObserveHeapDepth(depth int)
}
