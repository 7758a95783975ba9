// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package message implements the validated Message model (spec.md §3, §4.2):
// a signal-ordered, bit-packed description of a CAN message, along with the
// message Kind distinctions (independent / raw / template / from-template)
// that drive struct and enum ownership in codegen (SPEC_FULL.md §11.1).
package message

import "github.com/opencan/opencan/can/signal"

// maxMessageBit is the highest addressable bit in a CAN message's 8-byte
// data payload.
const maxMessageBit = 63

// SignalWithPosition pairs a Signal with its start bit within a Message.
type SignalWithPosition struct {
	bit uint32
	sig signal.Signal
}

// Start returns the signal's start bit.
func (s SignalWithPosition) Start() uint32 { return s.bit }

// End returns the signal's last occupied bit.
func (s SignalWithPosition) End() uint32 { return s.bit + s.sig.Width() - 1 }

// Signal returns the underlying Signal.
func (s SignalWithPosition) Signal() signal.Signal { return s.sig }

// Kind distinguishes how a Message's struct/enum definitions are owned in
// codegen output (SPEC_FULL.md §11.1, grounded on
// original_source/codegen/src/message.rs's CANMessageKind).
type Kind int

const (
	// KindIndependent is an ordinary standalone message.
	KindIndependent Kind = iota
	// KindRaw is a message with no generated structs, getters, or
	// unpack/pack code: its payload bytes are handed straight to the user's
	// RX callback or filled in by the user's TX populate function.
	KindRaw
	// KindTemplate is a template definition's own representative message; it
	// owns the shared struct/enum definitions every instance reuses.
	KindTemplate
	// KindFromTemplate is a message instantiated from a template; it reuses
	// the template's struct/enum definitions under the template's name.
	KindFromTemplate
)

// Message is a validated, bit-packed description of a CAN message: its
// name, ID, cycle time, transmitting/receiving nodes, and its signals
// ordered by start bit. Message is immutable once built.
type Message struct {
	name      string
	id        uint32
	cycletime *uint32
	length    uint32
	txNode    string
	rxNodes   []string

	kind             Kind
	originTemplate   string // set when kind is KindFromTemplate or KindTemplate
	signalPrefix     string // set when kind is KindFromTemplate, for normalization

	signals []SignalWithPosition
	sigMap  map[string]int
}

// Name returns the message's name.
func (m Message) Name() string { return m.name }

// ID returns the message's numeric identifier.
func (m Message) ID() uint32 { return m.id }

// Cycletime returns the message's periodic TX interval in milliseconds, if any.
func (m Message) Cycletime() (uint32, bool) {
	if m.cycletime == nil {
		return 0, false
	}
	return *m.cycletime, true
}

// Length returns the message's length in bytes, 0..=8.
func (m Message) Length() uint32 { return m.length }

// TXNode returns the name of the node that transmits this message, if any.
func (m Message) TXNode() (string, bool) {
	if m.txNode == "" {
		return "", false
	}
	return m.txNode, true
}

// RXNodes returns the names of the nodes that receive this message.
func (m Message) RXNodes() []string {
	out := make([]string, len(m.rxNodes))
	copy(out, m.rxNodes)
	return out
}

// Signals returns this message's signals, ordered by start bit.
func (m Message) Signals() []SignalWithPosition {
	out := make([]SignalWithPosition, len(m.signals))
	copy(out, m.signals)
	return out
}

// Signal looks up a signal by name.
func (m Message) Signal(name string) (SignalWithPosition, bool) {
	idx, ok := m.sigMap[name]
	if !ok {
		return SignalWithPosition{}, false
	}
	return m.signals[idx], true
}

// Kind returns the message's struct/enum-ownership classification.
func (m Message) Kind() Kind { return m.kind }

// OriginTemplate returns the name of the template this message is derived
// from or defines, valid when Kind is KindFromTemplate or KindTemplate.
func (m Message) OriginTemplate() string { return m.originTemplate }

// SignalPrefix returns the prefix applied to this message's signal names
// when it was instantiated from a template, valid when Kind is
// KindFromTemplate.
func (m Message) SignalPrefix() string { return m.signalPrefix }
