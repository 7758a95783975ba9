// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package compose ingests the YAML description of a CAN network (spec.md
// §4.4, §6) and translates it into a validated network.Network, grounded
// on original_source/compose/src/{translation,ymlfmt}.rs.
//
// Every relevant YAML construct here is a SEQUENCE of single-key mappings
// (`- Name:\n    ...`) rather than a genuine multi-key ordered map, so
// ordinary YAML sequence decoding already preserves declaration order -
// unlike the Rust original, which needed a custom serde adapter
// (tuple_vec_map) to keep its HashMap-backed fields in file order.
package compose

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// entry is one (name, value) pair from a sequence of single-key mappings.
type entry[T any] struct {
	Name  string
	Value T
}

// orderedList decodes a YAML sequence of single-key mappings into a
// slice of entries, preserving file order.
type orderedList[T any] []entry[T]

func (o *orderedList[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a sequence of single-key mappings", node.Line)
	}

	out := make(orderedList[T], 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return fmt.Errorf("line %d: expected exactly one key in this mapping", item.Line)
		}

		var name string
		if err := item.Content[0].Decode(&name); err != nil {
			return err
		}

		var val T
		if err := item.Content[1].Decode(&val); err != nil {
			return err
		}

		out = append(out, entry[T]{Name: name, Value: val})
	}

	*o = out
	return nil
}

// Desc is the root of a network description file.
type Desc struct {
	// Templates declares reusable message shapes (SPEC_FULL.md §11.1),
	// instantiated by node messages via FromTemplate.
	Templates orderedList[YTemplate] `yaml:"templates"`
	Nodes     orderedList[YNode]     `yaml:"nodes"`
}

// YTemplate describes a message template: a signal layout multiple
// concrete messages can instantiate.
type YTemplate struct {
	Signals orderedList[YSignal] `yaml:"signals"`
}

// YNode describes one node's messages and which already-declared messages
// (by full name) it additionally receives.
type YNode struct {
	Messages orderedList[YMessage] `yaml:"messages"`
	// RX names messages - already declared by an earlier node in this file
	// - that this node also receives (SPEC_FULL.md §11.1).
	RX []string `yaml:"rx"`
}

// YMessage describes one message, either defined directly, instantiated
// from a template, or marked raw.
type YMessage struct {
	ID          uint32 `yaml:"id"`
	CycletimeMs *uint32 `yaml:"cycletime_ms"`

	// Raw marks this message as carrying no decoded struct/getters
	// (SPEC_FULL.md §11.1).
	Raw bool `yaml:"raw"`

	// FromTemplate instantiates a named template; SignalPrefix is applied
	// to every one of the template's signal names.
	FromTemplate string `yaml:"from_template"`
	SignalPrefix string `yaml:"signal_prefix"`

	Signals orderedList[YSignal] `yaml:"signals"`
}

// YSignal describes one signal.
type YSignal struct {
	Width    *uint32 `yaml:"width"`
	StartBit *uint32 `yaml:"start_bit"`

	Description string `yaml:"description"`

	Scale  *float64 `yaml:"scale"`
	Offset *float64 `yaml:"offset"`
	Unit   string   `yaml:"unit"`

	TwosComplement bool `yaml:"twos_complement"`

	EnumeratedValues orderedList[YEnumeratedValue] `yaml:"enumerated_values"`
}

// YEnumeratedValue is either an exact raw value or the literal directive
// string "auto" (inferred from the highest value added so far).
type YEnumeratedValue struct {
	isExact bool
	exact   uint64
	literal string
}

func (e *YEnumeratedValue) UnmarshalYAML(node *yaml.Node) error {
	var asInt uint64
	if err := node.Decode(&asInt); err == nil {
		e.isExact = true
		e.exact = asInt
		return nil
	}

	var asStr string
	if err := node.Decode(&asStr); err != nil {
		return fmt.Errorf("line %d: enumerated value must be an integer or a directive string", node.Line)
	}
	e.literal = asStr
	return nil
}
