// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package signal implements the validated Signal model (spec.md §3, §4.1):
// a sealed, checking Builder produces immutable Signal values with no
// setters afterward, the same "validate on construction" discipline the
// rest of the can/ packages follow.
package signal

// Signal is a validated description of a CAN signal: its width, sign,
// optional scale/offset, optional description, and its bijective
// enumerated-value map. Signal is immutable once built.
type Signal struct {
	name           string
	width          uint32
	twosComplement bool
	scale          *float64
	offset         *float64
	description    string

	// enumValues/enumNames form a bijective map: name <-> raw value.
	enumValues map[string]uint64
	enumNames  map[uint64]string
}

// Name returns this signal's name.
func (s Signal) Name() string { return s.name }

// Width returns this signal's width in bits, 1..=64.
func (s Signal) Width() uint32 { return s.width }

// TwosComplement reports whether this signal is transmitted as
// twos-complement (signed).
func (s Signal) TwosComplement() bool { return s.twosComplement }

// Scale returns the signal's scale factor, if any.
func (s Signal) Scale() (float64, bool) {
	if s.scale == nil {
		return 0, false
	}
	return *s.scale, true
}

// Offset returns the signal's numerical offset, if any.
func (s Signal) Offset() (float64, bool) {
	if s.offset == nil {
		return 0, false
	}
	return *s.offset, true
}

// Description returns the signal's human-readable description, if any.
func (s Signal) Description() string { return s.description }

// HasEnumeratedValues reports whether this signal carries any enumerated
// value mappings.
func (s Signal) HasEnumeratedValues() bool { return len(s.enumValues) > 0 }

// EnumeratedValueNames returns the signal's enumerated value names, in an
// order deterministically sorted by raw value (ascending) - the order
// codegen emits them in.
func (s Signal) EnumeratedValueNames() []string {
	names := make([]string, 0, len(s.enumNames))
	values := make([]uint64, 0, len(s.enumNames))
	for v := range s.enumNames {
		values = append(values, v)
	}
	sortUint64s(values)
	for _, v := range values {
		names = append(names, s.enumNames[v])
	}
	return names
}

// EnumeratedValue returns the raw value named by name, if any.
func (s Signal) EnumeratedValue(name string) (uint64, bool) {
	v, ok := s.enumValues[name]
	return v, ok
}

// EnumeratedName returns the name bound to raw value v, if any.
func (s Signal) EnumeratedName(v uint64) (string, bool) {
	n, ok := s.enumNames[v]
	return n, ok
}

func sortUint64s(vs []uint64) {
	// Small insertion sort - enumerated-value sets are tiny, and this keeps
	// the package free of an unneeded sort.Slice closure allocation at every
	// call site.
	for i := 1; i < len(vs); i++ {
		for j := i; j > 0 && vs[j-1] > vs[j]; j-- {
			vs[j-1], vs[j] = vs[j], vs[j-1]
		}
	}
}
