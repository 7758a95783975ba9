// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"regexp"

	"github.com/opencan/opencan/can/errors"
	"github.com/opencan/opencan/can/signal"
)

var validNameChar = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Builder incrementally constructs a Message, validating as it goes the way
// signal.Builder does (spec.md §4.2).
type Builder struct {
	name      string
	id        uint32
	cycletime *uint32
	txNode    string
	rxNodes   []string

	kind           Kind
	originTemplate string
	signalPrefix   string

	signals []SignalWithPosition
	sigMap  map[string]int
}

// NewBuilder returns a Builder for a message with the given name and ID.
func NewBuilder(name string, id uint32) *Builder {
	return &Builder{
		name:   name,
		id:     id,
		sigMap: make(map[string]int),
	}
}

// Cycletime sets the message's periodic TX interval in milliseconds.
func (b *Builder) Cycletime(ms uint32) *Builder {
	b.cycletime = &ms
	return b
}

// TXNode sets the name of the node that transmits this message.
func (b *Builder) TXNode(name string) *Builder {
	b.txNode = name
	return b
}

// RXNode appends a node name to this message's receiver list.
func (b *Builder) RXNode(name string) *Builder {
	b.rxNodes = append(b.rxNodes, name)
	return b
}

// Raw marks this message as a raw message: codegen passes its payload bytes
// through untouched, with no structs, getters, or unpack/pack code
// (SPEC_FULL.md §11.1).
func (b *Builder) Raw() *Builder {
	b.kind = KindRaw
	return b
}

// AsTemplate marks this message as a template definition's representative
// message, owning the struct/enum definitions its instances will reuse.
func (b *Builder) AsTemplate(templateName string) *Builder {
	b.kind = KindTemplate
	b.originTemplate = templateName
	return b
}

// AsTemplateInstance marks this message as instantiated from templateName,
// with signal names already carrying signalPrefix.
func (b *Builder) AsTemplateInstance(templateName, signalPrefix string) *Builder {
	b.kind = KindFromTemplate
	b.originTemplate = templateName
	b.signalPrefix = signalPrefix
	return b
}

// AddSignal adds a signal at the next available start bit, immediately
// after the last added signal (or bit 0 if this is the first).
func (b *Builder) AddSignal(sig signal.Signal) (*Builder, error) {
	bit := uint32(0)
	if n := len(b.signals); n > 0 {
		bit = b.signals[n-1].End() + 1
	}
	return b.AddSignalFixed(bit, sig)
}

// AddSignalFixed adds a signal at a specific start bit.
//
// Checks, in order: the signal's name does not repeat in this message; the
// signal starts after the previous signal's start bit; the signal's range
// does not overlap the previous signal's; the signal fits within the
// message's 64-bit payload.
func (b *Builder) AddSignalFixed(bit uint32, sig signal.Signal) (*Builder, error) {
	if _, ok := b.sigMap[sig.Name()]; ok {
		return nil, errors.SignalNameAlreadyExists(sig.Name())
	}

	if n := len(b.signals); n > 0 {
		last := b.signals[n-1]

		if bit <= last.Start() {
			return nil, errors.MessageSignalsOutOfOrder(sig.Name(), bit, last.Signal().Name(), last.Start())
		}
		if bit <= last.End() {
			return nil, errors.SignalsOverlap(last.Signal().Name(), sig.Name(), bit)
		}
	}

	new := SignalWithPosition{bit: bit, sig: sig}
	if new.End() > maxMessageBit {
		return nil, errors.SignalWillNotFitInMessage(sig.Name(), new.End(), maxMessageBit)
	}

	b.sigMap[sig.Name()] = len(b.signals)
	b.signals = append(b.signals, new)

	return b, nil
}

// AddSignals adds multiple signals back-to-back via AddSignal.
func (b *Builder) AddSignals(sigs ...signal.Signal) (*Builder, error) {
	var err error
	for _, s := range sigs {
		b, err = b.AddSignal(s)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

// FixedSignal pairs a start bit with a Signal, for use with AddSignalsFixed.
type FixedSignal struct {
	Bit    uint32
	Signal signal.Signal
}

// AddSignalsFixed adds multiple signals at specified start bits via
// AddSignalFixed.
func (b *Builder) AddSignalsFixed(sigs ...FixedSignal) (*Builder, error) {
	var err error
	for _, fs := range sigs {
		b, err = b.AddSignalFixed(fs.Bit, fs.Signal)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Build seals the builder into a Message.
//
// Message length in bytes is computed as the ceiling of (last signal's end
// bit + 1) / 8. Message names must be non-empty and contain only
// [A-Za-z0-9_].
func (b *Builder) Build() (Message, error) {
	if err := checkNameValidity(b.name); err != nil {
		return Message{}, err
	}

	length := uint32(0)
	if n := len(b.signals); n > 0 {
		bitsUsed := b.signals[n-1].End() + 1
		length = bitsUsed / 8
		if bitsUsed%8 != 0 {
			length++
		}
	}

	signals := make([]SignalWithPosition, len(b.signals))
	copy(signals, b.signals)
	sigMap := make(map[string]int, len(b.sigMap))
	for k, v := range b.sigMap {
		sigMap[k] = v
	}
	rxNodes := make([]string, len(b.rxNodes))
	copy(rxNodes, b.rxNodes)

	return Message{
		name:           b.name,
		id:             b.id,
		cycletime:      b.cycletime,
		length:         length,
		txNode:         b.txNode,
		rxNodes:        rxNodes,
		kind:           b.kind,
		originTemplate: b.originTemplate,
		signalPrefix:   b.signalPrefix,
		signals:        signals,
		sigMap:         sigMap,
	}, nil
}

func checkNameValidity(name string) error {
	if name == "" {
		return errors.MessageNameEmpty()
	}
	for _, c := range name {
		if !validNameChar.MatchString(string(c)) {
			return errors.MessageNameInvalidChar(name, c)
		}
	}
	return nil
}
