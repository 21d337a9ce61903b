package wfq

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents a structured wfq-sched error with context about where in
// the trace it occurred.
type Error struct {
	Op    string    // Operation that failed (e.g., "ParseArrival")
	Line  int       // 1-based input line number (0 if not applicable)
	Code  ErrorCode // High-level error category
	Msg   string    // Human-readable message
	Inner error     // Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line=%d", e.Line))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("wfq: %s (%s)", msg, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("wfq: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support keyed on error category.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// ErrorCode represents a high-level error category.
type ErrorCode string

const (
	// ErrCodeMalformedLine: the line does not parse as 6 or 7 tokens of the
	// expected shape, or one of T/L/W fails to parse as its numeric type.
	ErrCodeMalformedLine ErrorCode = "malformed line"

	// ErrCodeBadWeight: an explicit weight token parsed but was <= 0.
	ErrCodeBadWeight ErrorCode = "non-positive weight"

	// ErrCodeIO: a read error from the input stream other than EOF.
	ErrCodeIO ErrorCode = "input read error"
)

// NewError creates a new structured error with no line context.
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewLineError creates a structured error naming the offending input line.
func NewLineError(op string, line int, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Line: line, Code: code, Msg: msg}
}

// WrapError wraps an existing error with wfq-sched context, preserving line
// and code information if inner is already a structured *Error.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if we, ok := inner.(*Error); ok {
		return &Error{
			Op:    op,
			Line:  we.Line,
			Code:  we.Code,
			Msg:   we.Msg,
			Inner: we.Inner,
		}
	}
	return &Error{
		Op:    op,
		Code:  ErrCodeIO,
		Msg:   inner.Error(),
		Inner: inner,
	}
}

// IsCode reports whether err is (or wraps) a structured *Error with the
// given category.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
