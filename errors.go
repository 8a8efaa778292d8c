// Package xdr implements RFC 4506 External Data Representation encoding
// and decoding: the bit-exact primitive codec, the buffered byte-sink/
// byte-source stream abstractions (in-memory, UDP datagram, and TCP
// record-marked), and the RFC 1831 record-marking state machine used
// over byte streams.
//
// The package is protocol-agnostic: it has no knowledge of RPC call/reply
// framing, authentication flavors, or program/version dispatch. Those are
// external collaborators that consume Encoder and Decoder.
package xdr

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a codec failure. Every fallible
// operation in this package returns (or wraps) an *Error carrying one of
// these kinds.
type Kind int

const (
	// CannotSend indicates the underlying sink refused or partially
	// accepted encoded bytes.
	CannotSend Kind = iota

	// CannotReceive indicates the underlying source was exhausted
	// before a required read completed, including a TCP peer closing
	// mid-fragment.
	CannotReceive

	// BufferOverflow indicates an encode would advance the cursor past
	// the legal high-water mark of a fixed buffer, or past capacity on
	// a stream backing.
	BufferOverflow

	// BufferUnderflow indicates a decode would read past the end of
	// the current fragment's available data, and no more data can be
	// fetched.
	BufferUnderflow

	// Malformed indicates a fragment header was not a multiple of 4, a
	// non-last fragment had length zero, a decoded length was
	// negative, or a decoded string's length would exceed the
	// remaining data.
	Malformed

	// Failed is the catch-all for unexpected conditions not covered by
	// the other kinds.
	Failed
)

// Error is the single tagged error type returned by every fallible codec
// operation. It carries a Kind, an Op naming the operation that failed,
// and an optional wrapped cause.
//
// Error deliberately does not attempt to repair or retry; the caller
// decides whether a failure is transient (retry the whole record) or
// fatal (tear down the connection).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xdr: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("xdr: %s: %s", e.Op, e.Kind)
}

// Unwrap allows errors.Is/errors.As to see through Error to the wrapped
// cause (e.g. an underlying *net.OpError).
func (e *Error) Unwrap() error { return e.Err }

// NewError constructs an *Error whose Err is a plain error carrying msg
// (there is no underlying cause beyond the message). Stream backings in
// mem, udp, and tcp use this to raise BufferOverflow, BufferUnderflow, and
// Malformed conditions detected locally, with no underlying cause to wrap.
func NewError(kind Kind, op string, msg string) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.New(msg)}
}

// WrapError constructs an *Error wrapping cause. If cause is nil, returns
// nil, so call sites can write `return xdr.WrapError(CannotSend, "op", err)`
// and have it degrade to a nil return when err is nil. udp and tcp use this
// to tag socket errors as CannotSend/CannotReceive.
func WrapError(kind Kind, op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: cause}
}

// newError is the package-internal spelling of NewError.
func newError(kind Kind, op string, msg string) *Error {
	return NewError(kind, op, msg)
}

// Is reports whether err is an *Error (at any depth reachable via
// Unwrap) of the given Kind. This lets callers write
// `if xdr.Is(err, xdr.BufferUnderflow) { ... }` instead of matching on
// error strings.
func Is(err error, kind Kind) bool {
	var xe *Error
	if errors.As(err, &xe) {
		return xe.Kind == kind
	}
	return false
}
