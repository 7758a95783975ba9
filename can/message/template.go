// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package message

import "github.com/opencan/opencan/can/signal"

// Template is a reusable message shape: a set of signals that multiple
// concrete messages can instantiate, each with its own name, ID, cycle
// time, and signal-name prefix (SPEC_FULL.md §11.1, grounded on
// original_source/core/src/template.rs).
//
// A Template is sealed via TemplateBuilder.Build the same way a Message is;
// Instance derives new Messages from it without mutating the template.
type Template struct {
	name string
	msg  Message
}

// Name returns the template's name.
func (t Template) Name() string { return t.name }

// Instance derives a concrete Message from this template: name and id
// become the new message's identity, every signal name gains signalPrefix,
// and cycletime/txNode are applied if given.
func (t Template) Instance(name string, id uint32, cycletime *uint32, signalPrefix string, txNode string) (Message, error) {
	b := NewBuilder(name, id).AsTemplateInstance(t.name, signalPrefix)

	if cycletime != nil {
		b = b.Cycletime(*cycletime)
	}
	if txNode != "" {
		b = b.TXNode(txNode)
	}

	built, err := b.Build()
	if err != nil {
		return Message{}, err
	}

	// Signals keep the template's layout (already validated); only their
	// names gain the prefix. The position bookkeeping was already enforced
	// when the template itself was built.
	signals := make([]SignalWithPosition, len(t.msg.signals))
	sigMap := make(map[string]int, len(t.msg.sigMap))
	for i, swp := range t.msg.signals {
		old := swp.sig
		sb := signal.NewBuilder(signalPrefix + old.Name()).Width(old.Width()).TwosComplement(old.TwosComplement()).Description(old.Description())
		if s, ok := old.Scale(); ok {
			sb = sb.Scale(s)
		}
		if o, ok := old.Offset(); ok {
			sb = sb.Offset(o)
		}
		for _, en := range old.EnumeratedValueNames() {
			v, _ := old.EnumeratedValue(en)
			if sb, err = sb.AddEnumeratedValue(en, v); err != nil {
				return Message{}, err
			}
		}
		renamed, err := sb.Build()
		if err != nil {
			return Message{}, err
		}
		signals[i] = SignalWithPosition{bit: swp.bit, sig: renamed}
		sigMap[renamed.Name()] = i
	}

	built.signals = signals
	built.sigMap = sigMap
	built.length = t.msg.length

	return built, nil
}

// TemplateBuilder constructs a Template by delegating signal layout to an
// embedded message Builder.
type TemplateBuilder struct {
	name string
	msg  *Builder
}

// NewTemplateBuilder returns a TemplateBuilder for a template with the
// given name.
func NewTemplateBuilder(name string) *TemplateBuilder {
	return &TemplateBuilder{
		name: name,
		msg:  NewBuilder("__template_"+name, 0).AsTemplate(name),
	}
}

// AddSignal adds a signal at the next available start bit.
func (tb *TemplateBuilder) AddSignal(sig signal.Signal) (*TemplateBuilder, error) {
	b, err := tb.msg.AddSignal(sig)
	if err != nil {
		return nil, err
	}
	tb.msg = b
	return tb, nil
}

// AddSignalFixed adds a signal at a specific start bit.
func (tb *TemplateBuilder) AddSignalFixed(bit uint32, sig signal.Signal) (*TemplateBuilder, error) {
	b, err := tb.msg.AddSignalFixed(bit, sig)
	if err != nil {
		return nil, err
	}
	tb.msg = b
	return tb, nil
}

// AddSignals adds multiple signals back-to-back.
func (tb *TemplateBuilder) AddSignals(sigs ...signal.Signal) (*TemplateBuilder, error) {
	b, err := tb.msg.AddSignals(sigs...)
	if err != nil {
		return nil, err
	}
	tb.msg = b
	return tb, nil
}

// Build seals the builder into a Template.
func (tb *TemplateBuilder) Build() (Template, error) {
	msg, err := tb.msg.Build()
	if err != nil {
		return Template{}, err
	}
	return Template{name: tb.name, msg: msg}, nil
}
