// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package errors provides a chainable error type used throughout the rest
// of this module, plus the closed set of construction errors that the
// signal/message/network builders and the composer can fail with.
package errors

import "fmt"

// Error is implemented by every error value produced by this module's
// builders. It behaves like the standard error interface but additionally
// exposes the innermost message and the wrapped cause, so that callers can
// render a full chain of contexts rather than a single flattened string.
type Error interface {
	error

	// Msg returns this error's own message, without any wrapped cause.
	Msg() string

	// Err returns the wrapped cause, or nil if there is none.
	Err() Error
}

var _ Error = (*chainedError)(nil)

type chainedError struct {
	msg string
	err Error
}

func (ce *chainedError) Error() string {
	if ce == nil {
		return ""
	}
	if ce.err != nil {
		return fmt.Sprintf("%s: %s", ce.msg, ce.err.Error())
	}
	return ce.msg
}

func (ce *chainedError) Msg() string {
	return ce.msg
}

func (ce *chainedError) Err() Error {
	return ce.err
}

// Unwrap lets this error type participate in errors.Is/errors.As from the
// standard library, in addition to its own Err() accessor.
func (ce *chainedError) Unwrap() error {
	if ce.err == nil {
		return nil
	}
	return ce.err
}

// New returns an Error carrying only the given message.
func New(msg string) Error {
	return &chainedError{msg: msg}
}

// Wrap returns an Error that reports wrapper's message followed by cause's
// full chain. If cause is nil, Wrap returns nil. If wrapper is nil, cause is
// returned unchanged (cast to Error if needed).
func Wrap(wrapper Error, cause error) Error {
	if cause == nil {
		return nil
	}
	if wrapper == nil {
		return cast(cause)
	}
	return &chainedError{
		msg: wrapper.Msg(),
		err: cast(cause),
	}
}

func cast(err error) Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		return e
	}
	return &chainedError{msg: err.Error()}
}

// Contains reports whether any error in ce's chain has the same message as
// target.
func Contains(ce Error, target error) bool {
	if ce == nil || target == nil {
		return ce == nil && target == nil
	}
	if ce.Msg() == target.Error() {
		return true
	}
	if ce.Err() == nil {
		return false
	}
	return Contains(ce.Err(), target)
}

// Chain renders the full chain of e as a list of lines, one context per
// line, outermost first; each line is indented by one more '-' than the one
// before, so the innermost cause comes last and deepest. The CLI numbers
// these lines when it prints them on failure.
func Chain(e Error) []string {
	var lines []string
	depth := 0
	for cur := e; cur != nil; cur = cur.Err() {
		lines = append(lines, fmt.Sprintf("%s%s", indent(depth), cur.Msg()))
		depth++
	}
	return lines
}

func indent(depth int) string {
	b := make([]byte, depth)
	for i := range b {
		b[i] = '-'
	}
	if len(b) > 0 {
		return string(b) + " "
	}
	return ""
}
