// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package errors

import "fmt"

// The construction errors below are the closed tagged set described by the
// validated-model builders: signal.Builder, message.Builder, and
// network.Network. Every one carries the offending name(s)/value(s) so the
// rendered chain (see Chain) is self-describing without extra context.

// SignalNameAlreadyExists reports a duplicate signal name within a message.
func SignalNameAlreadyExists(name string) Error {
	return New(fmt.Sprintf("signal with name `%s` already exists in this message", name))
}

// SignalHasZeroWidth reports a signal built with width == 0.
func SignalHasZeroWidth(name string) Error {
	return New(fmt.Sprintf("signal with name `%s` cannot have zero width", name))
}

// SignalWidthInferenceFailed reports that no lower bound was available to
// infer a signal's width from.
func SignalWidthInferenceFailed(name string) Error {
	if name == "" {
		return New("unable to infer width of signal")
	}
	return New(fmt.Sprintf("unable to infer width of signal `%s`", name))
}

// SignalWidthAlreadySpecified reports a strict width-inference request on a
// signal whose width was already set.
func SignalWidthAlreadySpecified(name string) Error {
	if name == "" {
		return New("refusing to infer width when width already specified of signal")
	}
	return New(fmt.Sprintf("refusing to infer width when width already specified of signal `%s`", name))
}

// EnumeratedValueNameAlreadyExists reports a duplicate enum name for a signal.
func EnumeratedValueNameAlreadyExists(name string, previous uint64) Error {
	return New(fmt.Sprintf("enumerated value name `%s` already exists for signal (previous value = %d)", name, previous))
}

// EnumeratedValueValueAlreadyNamed reports a raw value already bound to a
// different enum name.
func EnumeratedValueValueAlreadyNamed(existingName string, val uint64) Error {
	return New(fmt.Sprintf("enumerated value `%d` already named as `%s`; values can only be named once", val, existingName))
}

// MessageNameAlreadyExists reports a duplicate message name within a network.
func MessageNameAlreadyExists(name string) Error {
	return New(fmt.Sprintf("message with name `%s` already exists in network", name))
}

// MessageIDAlreadyExists reports a duplicate message ID within a network.
func MessageIDAlreadyExists(id uint32) Error {
	return New(fmt.Sprintf("message with id 0x%x already exists in network", id))
}

// MessageNameInvalidChar reports a message name with a character outside
// [A-Za-z0-9_].
func MessageNameInvalidChar(name string, c rune) Error {
	return New(fmt.Sprintf("message name `%s` includes invalid character `%c`", name, c))
}

// MessageNameEmpty reports an empty message name.
func MessageNameEmpty() Error {
	return New("message name is empty")
}

// NodeAlreadyExists reports a duplicate node name within a network.
func NodeAlreadyExists(name string) Error {
	return New(fmt.Sprintf("node with name `%s` already exists in network", name))
}

// NodeDoesNotExist reports a message's tx-node referencing an unknown node.
func NodeDoesNotExist(name string) Error {
	return New(fmt.Sprintf("node with name `%s` does not exist in network", name))
}

// MessageSignalsOutOfOrder reports a fixed-position signal add whose start
// bit does not come after the previous signal's start bit.
func MessageSignalsOutOfOrder(name string, bit uint32, lastName string, lastBit uint32) Error {
	return New(fmt.Sprintf(
		"signal `%s` has start bit %d, which precedes previous signal `%s`'s start bit of %d; signals must be added to message in order",
		name, bit, lastName, lastBit,
	))
}

// SignalsOverlap reports two signals whose bit ranges overlap.
func SignalsOverlap(lastName, name string, bit uint32) Error {
	return New(fmt.Sprintf("signals `%s` and `%s` overlap at bit %d", lastName, name, bit))
}

// SignalWillNotFitInMessage reports a signal whose end bit would exceed the
// message's maximum addressable bit.
func SignalWillNotFitInMessage(name string, end, max uint32) Error {
	return New(fmt.Sprintf("signal `%s` does not fit in message and would end at bit %d; max is %d", name, end, max))
}

// UninitializedFieldError reports a required builder field left unset.
func UninitializedFieldError(field string) Error {
	return New(fmt.Sprintf("missing required field `%s`", field))
}

// InvalidEnumeratedValueDirective reports an enumerated-value directive
// string that is neither an exact integer nor the literal "auto".
func InvalidEnumeratedValueDirective(directive, name string) Error {
	return New(fmt.Sprintf("invalid directive `%s` for enumerated value `%s`", directive, name))
}

// NodeNotFound reports a codegen request for an unknown target node.
func NodeNotFound(name string) Error {
	return New(fmt.Sprintf("node `%s` not found in network", name))
}

// MessageNotFound reports an `rx:` entry naming a message that does not
// (yet) exist in the network. This is a supplemental error (see
// SPEC_FULL.md §11.1) for the rx-list feature the distilled spec's error
// list doesn't separately name; unknown `from_template:` references use
// TemplateNotFound instead.
func MessageNotFound(name string) Error {
	return New(fmt.Sprintf("message `%s` not found in network", name))
}

// TemplateNotFound reports a `from_template:` reference naming an unknown
// template.
func TemplateNotFound(name string) Error {
	return New(fmt.Sprintf("template `%s` not found", name))
}
