// Package wfq implements a Weighted Fair Queueing packet scheduler: a
// deterministic stdin-to-stdout transducer that reads a time-ordered trace
// of packet arrivals on multiple logical flows and emits a transmission
// schedule approximating Generalized Processor Sharing.
//
// All scheduling state (the channel table, the ready heap, the virtual
// clock, and the one-arrival look-ahead) is owned by a single Scheduler
// value rather than scattered across package-level globals -- the
// re-architecture called for in the design notes this scheduler is built
// from. A Scheduler is safe to reuse across multiple RunToCompletion calls;
// each call starts from a clean scheduling state.
package wfq

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ehrlich-b/wfq-sched/internal/constants"
	"github.com/ehrlich-b/wfq-sched/internal/interfaces"
	"github.com/ehrlich-b/wfq-sched/internal/logging"
	"github.com/ehrlich-b/wfq-sched/internal/queue"
)

// Options configures a Scheduler.
type Options struct {
	// DefaultWeight is applied to a channel until an explicit weight
	// arrives on one of its arrivals. Must be positive; non-positive
	// values fall back to 1.0.
	DefaultWeight float64

	// Logger receives Debug/Warn traces of scheduling decisions. Defaults
	// to the package-level default logger (stderr, Info level -- so Debug
	// traces are silent unless the caller raises the level).
	Logger interfaces.Logger

	// Observer receives scheduling events (channel creation, emission,
	// idle gaps, heap depth). Defaults to a no-op observer.
	Observer interfaces.Observer
}

func (o Options) withDefaults() Options {
	if o.DefaultWeight <= 0 {
		o.DefaultWeight = constants.DefaultWeight
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
	if o.Observer == nil {
		o.Observer = NoOpObserver{}
	}
	return o
}

// Scheduler runs the WFQ algorithm over an input trace, emitting an output
// schedule. It holds no package-level state; every field below lives on the
// value.
type Scheduler struct {
	opts Options

	table *queue.Table
	heap  *queue.ReadyHeap
	v     float64
	tau   uint64

	src        *lineSource
	lookahead  *Arrival
	sourceDone bool
}

// NewScheduler constructs a Scheduler with the given options.
func NewScheduler(opts Options) *Scheduler {
	opts = opts.withDefaults()
	return &Scheduler{
		opts: opts,
	}
}

// RunToCompletion reads arrivals from r, runs the scheduler to completion,
// and writes the schedule to w. It returns a *Error on malformed input or a
// wrapped I/O error; nil on clean EOF. The context is checked once per
// scheduler iteration, before the next packet is selected -- the algorithm
// itself never suspends mid-packet, so cancellation cannot change the output
// already produced for a given input prefix.
func (s *Scheduler) RunToCompletion(ctx context.Context, r io.Reader, w io.Writer) error {
	s.table = queue.NewTable(s.opts.DefaultWeight)
	s.heap = queue.NewReadyHeap()
	s.v = 0
	s.tau = 0
	s.src = newLineSource(r)
	s.lookahead = nil
	s.sourceDone = false

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if s.heap.Len() == 0 {
			n, err := s.readBatch()
			if err != nil {
				return err
			}
			if n == 0 {
				break // no more input, all channels empty: halt
			}
			top := queue.Peek(s.heap)
			newTau := top.Channel.Front().Arrival
			if newTau > s.tau {
				s.opts.Observer.ObserveIdleGap(s.tau, newTau)
				s.opts.Logger.Debugf("idle fast-forward %d -> %d", s.tau, newTau)
			}
			s.tau = newTau
		}

		s.opts.Observer.ObserveHeapDepth(s.heap.Len())

		entry := queue.PopMin(s.heap)
		ch := entry.Channel
		s.v = math.Max(s.v, entry.Finish)

		pkt := ch.PopFront()
		if err := s.emit(bw, ch, pkt); err != nil {
			return WrapError("RunToCompletion", err)
		}

		wait := pkt.Finish - float64(pkt.Arrival)
		s.opts.Observer.ObserveEmit(ch.Index, pkt.Length, wait)

		s.tau += pkt.Length

		if ch.Len() > 0 {
			next := ch.Front()
			next.Finish = s.tagPacket(ch, next)
			queue.PushEntry(s.heap, queue.Entry{Finish: next.Finish, Index: ch.Index, Channel: ch})
		}

		if _, err := s.readAllUpTo(s.tau); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return WrapError("RunToCompletion", err)
	}
	return nil
}

// tagPacket computes the start/finish tags for pkt on ch per the Parekh-
// Gallager virtual-time recurrence: S = max(V, F_last), F = S + L/w. It
// updates ch.FLast and returns F.
func (s *Scheduler) tagPacket(ch *queue.Channel, pkt *queue.Packet) float64 {
	start := math.Max(s.v, ch.FLast)
	finish := start + float64(pkt.Length)/ch.Weight
	ch.FLast = finish
	return finish
}

// consume ingests one already-parsed arrival: looks up or creates its
// channel, applies an explicit weight (before tagging, per §4.C), appends
// the packet to the channel's FIFO, and tags + heaps it if the channel was
// previously empty.
func (s *Scheduler) consume(a Arrival) {
	ch, created := s.table.LookupOrCreate(a.Key(), a.SrcAddr, a.SrcPort, a.DstAddr, a.DstPort)
	if created {
		s.opts.Observer.ObserveChannelCreated(ch.Index)
		s.opts.Logger.Debugf("channel=%d created key=%q", ch.Index, a.Key())
	}

	if a.Weight != nil {
		ch.Weight = *a.Weight
		s.opts.Logger.Debugf("channel=%d weight updated to %.2f", ch.Index, *a.Weight)
	}

	if toks := oversizedTokens(a); len(toks) > 0 {
		s.opts.Logger.Warnf("channel=%d arrival at T=%d has oversized token(s): %s",
			ch.Index, a.T, strings.Join(toks, ", "))
	}

	wasEmpty := ch.Len() == 0
	pkt := &queue.Packet{Arrival: a.T, Length: a.Length, Weight: a.Weight}
	ch.PushBack(pkt)
	if wasEmpty {
		pkt.Finish = s.tagPacket(ch, pkt)
		queue.PushEntry(s.heap, queue.Entry{Finish: pkt.Finish, Index: ch.Index, Channel: ch})
	}
}

// fillLookahead ensures s.lookahead holds the next unconsumed arrival,
// unless the source is exhausted.
func (s *Scheduler) fillLookahead() error {
	if s.lookahead != nil || s.sourceDone {
		return nil
	}
	a, ok, err := s.src.next()
	if err != nil {
		return err
	}
	if !ok {
		s.sourceDone = true
		return nil
	}
	s.lookahead = &a
	return nil
}

// readUntil consumes arrivals in input order while the front arrival's T
// satisfies T <= tMax, retaining at most one look-ahead arrival for the
// next call. Returns the number of arrivals consumed.
func (s *Scheduler) readUntil(tMax uint64) (int, error) {
	count := 0
	for {
		if err := s.fillLookahead(); err != nil {
			return count, err
		}
		if s.lookahead == nil {
			return count, nil
		}
		if s.lookahead.T > tMax {
			return count, nil
		}
		a := *s.lookahead
		s.lookahead = nil
		s.consume(a)
		count++
	}
}

// readBatch pulls exactly the set of simultaneously-arriving packets at the
// earliest unconsumed T.
func (s *Scheduler) readBatch() (int, error) {
	if err := s.fillLookahead(); err != nil {
		return 0, err
	}
	if s.lookahead == nil {
		return 0, nil
	}
	return s.readUntil(s.lookahead.T)
}

// readAllUpTo drains arrivals across multiple batch boundaries up to tMax.
func (s *Scheduler) readAllUpTo(tMax uint64) (int, error) {
	total := 0
	for {
		n, err := s.readUntil(tMax)
		if err != nil {
			return total, err
		}
		total += n
		if n == 0 {
			return total, nil
		}
	}
}

// emit writes one schedule line for pkt, departing from ch at simulated-now
// s.tau: "<tau>: <T> <src-addr> <src-port> <dst-addr> <dst-port> <L>[ <W>]".
func (s *Scheduler) emit(w io.Writer, ch *queue.Channel, pkt *queue.Packet) error {
	if pkt.Weight != nil {
		_, err := fmt.Fprintf(w, "%d: %d %s %s %s %s %d %.2f\n",
			s.tau, pkt.Arrival, ch.SrcAddr, ch.SrcPort, ch.DstAddr, ch.DstPort, pkt.Length, *pkt.Weight)
		return err
	}
	_, err := fmt.Fprintf(w, "%d: %d %s %s %s %s %d\n",
		s.tau, pkt.Arrival, ch.SrcAddr, ch.SrcPort, ch.DstAddr, ch.DstPort, pkt.Length)
	return err
}

// lineSource reads arrivals one line at a time, tracking 1-based line
// numbers for diagnostics and skipping blank lines.
type lineSource struct {
	sc     *bufio.Scanner
	lineNo int
}

func newLineSource(r io.Reader) *lineSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, constants.ScannerInitialBufferSize), constants.ScannerMaxBufferSize)
	return &lineSource{sc: sc}
}

// next returns the next non-blank arrival, ok=false at clean EOF, or a
// *Error on a malformed line / read failure.
func (s *lineSource) next() (a Arrival, ok bool, err error) {
	for s.sc.Scan() {
		s.lineNo++
		line := strings.TrimSpace(s.sc.Text())
		if line == "" {
			continue
		}
		parsed, perr := ParseArrival(line, s.lineNo)
		if perr != nil {
			return Arrival{}, false, perr
		}
		return parsed, true, nil
	}
	if serr := s.sc.Err(); serr != nil {
		return Arrival{}, false, WrapError("ReadLine", serr)
	}
	return Arrival{}, false, nil
}
