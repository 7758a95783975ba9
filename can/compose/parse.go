// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package compose

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/opencan/opencan/can/network"
)

// Parse reads a network description from YAML bytes and translates it into
// a validated network.Network in one step.
//
// Decoding is strict (KnownFields) at the document root: an unrecognized
// top-level key (a typo'd "tempaltes:", say) is a parse error rather than
// a silently-ignored field.
func Parse(data []byte) (*network.Network, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var desc Desc
	if err := dec.Decode(&desc); err != nil {
		return nil, err
	}

	return desc.IntoNetwork()
}
