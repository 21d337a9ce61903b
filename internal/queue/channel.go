// Package queue holds the scheduler's core data structures: the channel
// arena (stable per-flow handles) and the finish-tag-ordered ready heap.
//
// The teacher codebase this module descends from addressed per-tag state by
// storing it in a slice indexed by an integer tag, rather than by taking the
// address of a map entry that could move if the map rehashes. The channel
// arena below is the same idea applied to per-flow (rather than per-tag)
// state: Table hands out a stable integer index the first time a
// connection-key is seen, and every later lookup -- including the one the
// ready heap holds onto across pushes -- goes through that index.
package queue

// Packet is one queued unit of service on a Channel's FIFO.
type Packet struct {
	Arrival uint64   // T: simulated arrival time
	Length  uint64   // L: service length, same units as time
	Weight  *float64 // literal W from the arrival line, nil if implicit
	Finish  float64  // F: computed once, immutable thereafter
}

// Channel is the per-connection scheduling state: weight, pending FIFO, and
// the virtual-time memory (FLast) that start tags are computed against.
type Channel struct {
	Index int // assigned once, in order of first appearance, never reused

	SrcAddr, SrcPort, DstAddr, DstPort string

	Weight float64 // defaults to 1.0 until an explicit W arrives
	FLast  float64 // finish tag of the most recently tagged packet

	pending []*Packet
	head    int // index of the current FIFO head within pending
}

// Len reports the number of packets still queued on the channel.
func (c *Channel) Len() int {
	return len(c.pending) - c.head
}

// Front returns the packet at the head of the FIFO, or nil if empty.
func (c *Channel) Front() *Packet {
	if c.Len() == 0 {
		return nil
	}
	return c.pending[c.head]
}

// PushBack appends a packet to the tail of the FIFO.
func (c *Channel) PushBack(p *Packet) {
	c.pending = append(c.pending, p)
}

// PopFront removes and returns the packet at the head of the FIFO.
// Compacts the backing slice once it is entirely drained so a long-lived,
// bursty channel does not retain unbounded dead capacity.
func (c *Channel) PopFront() *Packet {
	if c.Len() == 0 {
		return nil
	}
	p := c.pending[c.head]
	c.pending[c.head] = nil
	c.head++
	if c.head == len(c.pending) {
		c.pending = c.pending[:0]
		c.head = 0
	}
	return p
}

// Key reproduces the 4-tuple connection-key in input order.
func (c *Channel) Key() string {
	return c.SrcAddr + " " + c.SrcPort + " " + c.DstAddr + " " + c.DstPort
}

// Table maps a connection-key to its Channel, assigning stable arena
// indices on first insertion. A *Channel returned by LookupOrCreate remains
// valid for the table's entire lifetime -- further insertions never move or
// invalidate it.
type Table struct {
	byKey         map[string]int
	arena         []*Channel
	defaultWeight float64
}

// NewTable constructs an empty channel table. Channels created before an
// explicit weight arrives on one of their arrivals get defaultWeight; a
// non-positive value is treated as 1.0.
func NewTable(defaultWeight float64) *Table {
	if defaultWeight <= 0 {
		defaultWeight = 1.0
	}
	return &Table{byKey: make(map[string]int), defaultWeight: defaultWeight}
}

// LookupOrCreate returns the Channel for key, creating it (with the next
// arena index, the table's default weight, and an empty FIFO) if this is
// the first time key has been seen. The second return value reports
// whether the channel was just created.
func (t *Table) LookupOrCreate(key, srcAddr, srcPort, dstAddr, dstPort string) (*Channel, bool) {
	if idx, ok := t.byKey[key]; ok {
		return t.arena[idx], false
	}
	idx := len(t.arena)
	ch := &Channel{
		Index:   idx,
		SrcAddr: srcAddr,
		SrcPort: srcPort,
		DstAddr: dstAddr,
		DstPort: dstPort,
		Weight:  t.defaultWeight,
	}
	t.arena = append(t.arena, ch)
	t.byKey[key] = idx
	return ch, true
}

// Len returns the number of distinct channels seen so far.
func (t *Table) Len() int {
	return len(t.arena)
}

// At returns the channel with the given arena index. Used by tests and by
// diagnostics that want to walk every channel ever created.
func (t *Table) At(index int) *Channel {
	return t.arena[index]
}
