package wfq

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ehrlich-b/wfq-sched/internal/constants"
)

// Arrival is one parsed trace line: a packet entering the scheduler at
// simulated time T on the flow identified by its 4-tuple connection-key.
type Arrival struct {
	T                                  uint64
	SrcAddr, SrcPort, DstAddr, DstPort string
	Length                             uint64
	Weight                             *float64 // nil if the line had 6 tokens
}

// Key composes the connection-key in input order: "src-addr src-port
// dst-addr dst-port", single-space separated.
func (a Arrival) Key() string {
	return a.SrcAddr + " " + a.SrcPort + " " + a.DstAddr + " " + a.DstPort
}

// ParseArrival parses one trace line. line must have 6 or 7 whitespace-
// separated tokens: T, src-addr, src-port, dst-addr, dst-port, L, and
// optionally W. Any other shape, or a token that fails to parse as its
// expected numeric type, produces a *Error with code ErrCodeMalformedLine
// naming lineNo. An explicit non-positive weight produces a *Error with
// code ErrCodeBadWeight.
func ParseArrival(line string, lineNo int) (Arrival, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 && len(fields) != 7 {
		return Arrival{}, NewLineError("ParseArrival", lineNo, ErrCodeMalformedLine,
			"expected 6 or 7 whitespace-separated tokens, got "+strconv.Itoa(len(fields)))
	}

	t, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return Arrival{}, NewLineError("ParseArrival", lineNo, ErrCodeMalformedLine,
			fmt.Sprintf("arrival time %q is not a non-negative integer", fields[0]))
	}

	l, err := strconv.ParseUint(fields[5], 10, 64)
	if err != nil {
		return Arrival{}, NewLineError("ParseArrival", lineNo, ErrCodeMalformedLine,
			fmt.Sprintf("length %q is not a non-negative integer", fields[5]))
	}

	a := Arrival{
		T:       t,
		SrcAddr: fields[1],
		SrcPort: fields[2],
		DstAddr: fields[3],
		DstPort: fields[4],
		Length:  l,
	}

	if len(fields) == 7 {
		w, err := strconv.ParseFloat(fields[6], 64)
		if err != nil {
			return Arrival{}, NewLineError("ParseArrival", lineNo, ErrCodeMalformedLine,
				fmt.Sprintf("weight %q is not a decimal real", fields[6]))
		}
		if w <= 0 {
			return Arrival{}, NewLineError("ParseArrival", lineNo, ErrCodeBadWeight,
				"weight must be positive, got "+fields[6])
		}
		a.Weight = &w
	}

	return a, nil
}

// oversizedTokens returns the address/port tokens on a that exceed
// maxTokenLength, for the caller to log at Warn level. Per §6 these are not
// fatal -- the connection-key is treated as opaque.
func oversizedTokens(a Arrival) []string {
	var out []string
	for _, tok := range []string{a.SrcAddr, a.SrcPort, a.DstAddr, a.DstPort} {
		if len(tok) > constants.MaxTokenLength {
			out = append(out, tok)
		}
	}
	return out
}
