// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package codegen turns a validated network.Network into a bundle of
// generated C source files for one target node (spec.md §4.5-§4.10),
// grounded on original_source/codegen/src/{signal,message,c_rx,c_tx,
// message_ok,node_ok}.rs. Generation is pure and synchronous: given the
// same Network and node name it always emits the same bundle, with no I/O
// and no global state.
package codegen

import (
	"fmt"

	"github.com/opencan/opencan/can/signal"
)

// cIntTy names an integer width's C standard-library type, unsigned and
// signed variants alike.
type cIntTy int

const (
	cU8 cIntTy = iota
	cU16
	cU32
	cU64
	cI8
	cI16
	cI32
	cI64
	cBool
	cFloat
)

func (t cIntTy) String() string {
	switch t {
	case cU8:
		return "uint8_t"
	case cU16:
		return "uint16_t"
	case cU32:
		return "uint32_t"
	case cU64:
		return "uint64_t"
	case cI8:
		return "int8_t"
	case cI16:
		return "int16_t"
	case cI32:
		return "int32_t"
	case cI64:
		return "int64_t"
	case cBool:
		return "bool"
	case cFloat:
		return "float"
	default:
		panic(fmt.Sprintf("unknown cIntTy %d", int(t)))
	}
}

// unsignedForWidth returns the narrowest standard unsigned type that can
// hold width bits, width in 1..=64.
func unsignedForWidth(width uint32) cIntTy {
	switch {
	case width <= 8:
		return cU8
	case width <= 16:
		return cU16
	case width <= 32:
		return cU32
	case width <= 64:
		return cU64
	default:
		panic(fmt.Sprintf("unexpectedly wide signal: %d bits", width))
	}
}

func signedForWidth(width uint32) cIntTy {
	switch {
	case width <= 8:
		return cI8
	case width <= 16:
		return cI16
	case width <= 32:
		return cI32
	case width <= 64:
		return cI64
	default:
		panic(fmt.Sprintf("unexpectedly wide signal: %d bits", width))
	}
}

// rawTypeBeforeSignExtension is the type the byte-walking unpack loop
// accumulates into, always unsigned regardless of signedness: sign
// extension is applied afterward via the bitfield trick in
// signExtensionBlock.
func rawTypeBeforeSignExtension(width uint32) cIntTy {
	return unsignedForWidth(width)
}

// rawType is the signal's raw (undecoded) C type: unsigned by default, a
// signed integer when twos-complement, and bool for a single-bit
// twos-complement signal (it can only ever be 0 or -1, i.e. true/false in
// the two's-complement sense collapses to a flag).
func rawType(s signal.Signal) cIntTy {
	if !s.TwosComplement() {
		return unsignedForWidth(s.Width())
	}
	if s.Width() == 1 {
		return cBool
	}
	return signedForWidth(s.Width())
}

// decodedType is the signal's decoded C type: float whenever a scale or
// offset is present (the decode expression is then necessarily
// floating-point), else the same as rawType.
func decodedType(s signal.Signal) cIntTy {
	_, hasScale := s.Scale()
	_, hasOffset := s.Offset()
	if hasScale || hasOffset {
		return cFloat
	}
	return rawType(s)
}

func needsSignExtension(s signal.Signal) bool {
	return s.TwosComplement() && s.Width() > 1
}
