// Package constants holds default tunables for the scheduler and its CLI,
// mirrored at the top level by constants.go for callers that prefer not to
// reach into internal packages.
package constants

// DefaultWeight is the weight a channel is given until an explicit W token
// arrives on one of its arrivals.
const DefaultWeight = 1.0

// MaxTokenLength is the documented upper bound on an address/port token.
// Tokens longer than this are accepted but logged at Warn.
const MaxTokenLength = 31

// ScannerInitialBufferSize is the starting size of the bufio.Scanner buffer
// used to read the arrival trace. Lines are expected to be short; this is
// generous headroom before the scanner needs to grow its buffer.
const ScannerInitialBufferSize = 64 * 1024

// ScannerMaxBufferSize bounds how large a single trace line is allowed to
// grow to before the scanner gives up and reports a read error.
const ScannerMaxBufferSize = 1024 * 1024

// VirtualWaitHistogramBuckets are the default bucket bounds, in the same
// units as arrival length, for the virtual-time-wait histogram collected by
// Metrics.
var VirtualWaitHistogramBuckets = []float64{
	1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000,
}
