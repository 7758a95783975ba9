// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package network

// Node is a named participant in a Network: a transmitter/receiver of
// messages, grounded on original_source/core/src/node.rs.
type Node struct {
	name string
}

// Name returns the node's name.
func (n Node) Name() string { return n.name }
