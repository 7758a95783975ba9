// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package signal

import (
	"math/bits"

	"github.com/opencan/opencan/can/errors"
)

// Builder incrementally constructs a Signal, validating as it goes rather
// than deferring everything to Build (spec.md §4.1). A Builder is not safe
// for concurrent use.
type Builder struct {
	name           string
	width          *uint32
	twosComplement bool
	scale          *float64
	offset         *float64
	description    string

	enumValues map[string]uint64
	enumNames  map[uint64]string

	highestEnum    uint64
	highestEnumSet bool
}

// NewBuilder returns a Builder for a signal with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:       name,
		enumValues: make(map[string]uint64),
		enumNames:  make(map[uint64]string),
	}
}

// Width sets the signal's width in bits.
func (b *Builder) Width(w uint32) *Builder {
	b.width = &w
	return b
}

// TwosComplement sets whether the signal is signed.
func (b *Builder) TwosComplement(tc bool) *Builder {
	b.twosComplement = tc
	return b
}

// Scale sets the signal's scale factor.
func (b *Builder) Scale(s float64) *Builder {
	b.scale = &s
	return b
}

// Offset sets the signal's numerical offset.
func (b *Builder) Offset(o float64) *Builder {
	b.offset = &o
	return b
}

// Description sets the signal's human-readable description.
func (b *Builder) Description(d string) *Builder {
	b.description = d
	return b
}

// AddEnumeratedValue binds name to the given raw value.
//
// Fails with errors.EnumeratedValueNameAlreadyExists if name is already
// bound, and errors.EnumeratedValueValueAlreadyNamed if val is already bound
// to a different name.
func (b *Builder) AddEnumeratedValue(name string, val uint64) (*Builder, error) {
	if v, ok := b.enumValues[name]; ok {
		return nil, errors.EnumeratedValueNameAlreadyExists(name, v)
	}
	if n, ok := b.enumNames[val]; ok {
		return nil, errors.EnumeratedValueValueAlreadyNamed(n, val)
	}

	if !b.highestEnumSet || val > b.highestEnum {
		b.highestEnum = val
	}
	b.highestEnumSet = true

	b.enumValues[name] = val
	b.enumNames[val] = name

	return b, nil
}

// AddEnumeratedValueInferred binds name to the next available raw value:
// one past the highest raw value added so far, or 0 if none has been added.
func (b *Builder) AddEnumeratedValueInferred(name string) (*Builder, error) {
	val := uint64(0)
	if b.highestEnumSet {
		val = b.highestEnum + 1
	}
	return b.AddEnumeratedValue(name, val)
}

// InferWidth sets the signal's width from the highest enumerated value
// added so far, if width has not already been set. It is a no-op if width
// is already set.
//
// Fails with errors.SignalWidthInferenceFailed if no lower bound is available
// (no width, no enumerated values).
func (b *Builder) InferWidth() (*Builder, error) {
	if b.width != nil {
		return b, nil
	}

	minWidth := b.minWidthForEnumeratedValues()
	if minWidth == 0 {
		return nil, errors.SignalWidthInferenceFailed(b.name)
	}

	b.width = &minWidth
	return b, nil
}

// InferWidthStrict behaves like InferWidth, but fails with
// errors.SignalWidthAlreadySpecified if width was already set.
func (b *Builder) InferWidthStrict() (*Builder, error) {
	if b.width != nil {
		return nil, errors.SignalWidthAlreadySpecified(b.name)
	}
	return b.InferWidth()
}

func (b *Builder) minWidthForEnumeratedValues() uint32 {
	if !b.highestEnumSet {
		return 0
	}
	if b.highestEnum == 0 {
		// A lone raw value of 0 still needs one bit.
		return 1
	}
	return uint32(bits.Len64(nextPowerOfTwo(b.highestEnum+1))) - 1
}

// nextPowerOfTwo returns the smallest power of two >= n, for n >= 1.
func nextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}

// Build seals the builder into a Signal.
//
// Fails with errors.UninitializedFieldError("width") if width was never set
// or inferred, and errors.SignalHasZeroWidth if width is 0.
func (b *Builder) Build() (Signal, error) {
	if b.width == nil {
		return Signal{}, errors.UninitializedFieldError("width")
	}
	if *b.width == 0 {
		return Signal{}, errors.SignalHasZeroWidth(b.name)
	}

	enumValues := make(map[string]uint64, len(b.enumValues))
	for k, v := range b.enumValues {
		enumValues[k] = v
	}
	enumNames := make(map[uint64]string, len(b.enumNames))
	for k, v := range b.enumNames {
		enumNames[k] = v
	}

	return Signal{
		name:           b.name,
		width:          *b.width,
		twosComplement: b.twosComplement,
		scale:          b.scale,
		offset:         b.offset,
		description:    b.description,
		enumValues:     enumValues,
		enumNames:      enumNames,
	}, nil
}
