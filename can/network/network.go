// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package network implements the validated Network model (spec.md §3,
// §4.3): the owning collection of a CAN bus's nodes and messages, with
// name/ID indices for lookup, grounded on
// original_source/core/src/network.rs and original_source/core/src/node.rs.
package network

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opencan/opencan/can/errors"
	"github.com/opencan/opencan/can/message"
)

// Network owns every node and message on a CAN bus, insertion-ordered, with
// indices for lookup by name and ID.
type Network struct {
	nodes    []Node
	messages []message.Message

	messagesByName map[string]int
	messagesByID   map[uint32]int
	nodesByName    map[string]int

	// txByNode maps a node name to indices of messages it transmits.
	txByNode map[string][]int
	// rxByNode maps a node name to indices of messages it receives.
	rxByNode map[string][]int
}

// New returns an empty Network.
func New() *Network {
	return &Network{
		messagesByName: make(map[string]int),
		messagesByID:   make(map[uint32]int),
		nodesByName:    make(map[string]int),
		txByNode:       make(map[string][]int),
		rxByNode:       make(map[string][]int),
	}
}

// AddNode adds a new node to the network.
//
// Fails with errors.NodeAlreadyExists if a node with this name already exists.
func (n *Network) AddNode(name string) error {
	if _, ok := n.nodesByName[name]; ok {
		return errors.NodeAlreadyExists(name)
	}

	idx := len(n.nodes)
	n.nodesByName[name] = idx
	n.nodes = append(n.nodes, Node{name: name})

	return nil
}

// InsertMsg inserts a message into the network.
//
// Fails with errors.MessageNameAlreadyExists or errors.MessageIDAlreadyExists
// on a collision, and errors.NodeDoesNotExist if the message names a TX node
// that has not been added yet. Insertion is all-or-nothing: on failure, the
// network is left exactly as it was before the call.
func (n *Network) InsertMsg(msg message.Message) error {
	if _, ok := n.messagesByName[msg.Name()]; ok {
		return errors.MessageNameAlreadyExists(msg.Name())
	}
	if _, ok := n.messagesByID[msg.ID()]; ok {
		return errors.MessageIDAlreadyExists(msg.ID())
	}

	if txNode, ok := msg.TXNode(); ok {
		if _, ok := n.nodesByName[txNode]; !ok {
			return errors.NodeDoesNotExist(txNode)
		}
	}

	for _, rxNode := range msg.RXNodes() {
		if _, ok := n.nodesByName[rxNode]; !ok {
			return errors.NodeDoesNotExist(rxNode)
		}
	}

	idx := len(n.messages)

	if txNode, ok := msg.TXNode(); ok {
		n.txByNode[txNode] = append(n.txByNode[txNode], idx)
	}
	for _, rxNode := range msg.RXNodes() {
		n.rxByNode[rxNode] = append(n.rxByNode[rxNode], idx)
	}

	n.messagesByName[msg.Name()] = idx
	n.messagesByID[msg.ID()] = idx
	n.messages = append(n.messages, msg)

	return nil
}

// AddRX records that node receives the already-inserted message named
// msgName, without altering the message's own transmitting relationship.
// This supports the rx: declaration (SPEC_FULL.md §11.1): a node can
// receive a message owned by a node declared earlier in the same network,
// without that message having been built with this node in its RX list.
//
// Fails with errors.MessageNotFound if msgName has not been inserted yet,
// and errors.NodeDoesNotExist if node has not been added yet.
func (n *Network) AddRX(msgName, node string) error {
	idx, ok := n.messagesByName[msgName]
	if !ok {
		return errors.MessageNotFound(msgName)
	}
	if _, ok := n.nodesByName[node]; !ok {
		return errors.NodeDoesNotExist(node)
	}

	n.rxByNode[node] = append(n.rxByNode[node], idx)
	return nil
}

// MessageByName looks up a message by name.
func (n *Network) MessageByName(name string) (message.Message, bool) {
	idx, ok := n.messagesByName[name]
	if !ok {
		return message.Message{}, false
	}
	return n.messages[idx], true
}

// MessageByID looks up a message by numeric ID.
func (n *Network) MessageByID(id uint32) (message.Message, bool) {
	idx, ok := n.messagesByID[id]
	if !ok {
		return message.Message{}, false
	}
	return n.messages[idx], true
}

// NodeByName looks up a node by name.
func (n *Network) NodeByName(name string) (Node, bool) {
	idx, ok := n.nodesByName[name]
	if !ok {
		return Node{}, false
	}
	return n.nodes[idx], true
}

// MessagesByNode returns the messages transmitted by the named node, in
// insertion order.
func (n *Network) MessagesByNode(name string) []message.Message {
	idxs := n.txByNode[name]
	out := make([]message.Message, len(idxs))
	for i, idx := range idxs {
		out[i] = n.messages[idx]
	}
	return out
}

// RXMessagesByNode returns the messages received by the named node, in
// insertion order.
func (n *Network) RXMessagesByNode(name string) []message.Message {
	idxs := n.rxByNode[name]
	out := make([]message.Message, len(idxs))
	for i, idx := range idxs {
		out[i] = n.messages[idx]
	}
	return out
}

// IterMessages returns every message in the network, in insertion order.
func (n *Network) IterMessages() []message.Message {
	out := make([]message.Message, len(n.messages))
	copy(out, n.messages)
	return out
}

// IterNodes returns every node in the network, in insertion order.
func (n *Network) IterNodes() []Node {
	out := make([]Node, len(n.nodes))
	copy(out, n.nodes)
	return out
}

// Describe renders a human-readable diagnostic dump of the network: its
// nodes and, for each, the messages it transmits and receives. Describe is
// a supplemental debugging aid (SPEC_FULL.md §11.1) used by the compose CLI
// subcommand; it does not implement any DBC/cantools translation.
func (n *Network) Describe() string {
	var b strings.Builder

	names := make([]string, 0, len(n.nodes))
	for _, node := range n.nodes {
		names = append(names, node.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&b, "node %s:\n", name)

		for _, msg := range n.MessagesByNode(name) {
			fmt.Fprintf(&b, "  tx 0x%03x %s (%d bytes, %d signals)\n", msg.ID(), msg.Name(), msg.Length(), len(msg.Signals()))
		}
		for _, msg := range n.RXMessagesByNode(name) {
			fmt.Fprintf(&b, "  rx 0x%03x %s\n", msg.ID(), msg.Name())
		}
	}

	return b.String()
}
