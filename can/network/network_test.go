// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencan/opencan/can/message"
	"github.com/opencan/opencan/can/network"
)

func TestNodeNameUnique(t *testing.T) {
	net := network.New()

	require.NoError(t, net.AddNode("TEST"))
	require.NoError(t, net.AddNode("test"))

	err := net.AddNode("TEST")
	assert.Error(t, err)
}

func TestInsertMsgRequiresExistingTXNode(t *testing.T) {
	net := network.New()

	msg, err := message.NewBuilder("M", 0x10).TXNode("ECU").Build()
	require.NoError(t, err)

	err = net.InsertMsg(msg)
	assert.Error(t, err)

	require.NoError(t, net.AddNode("ECU"))
	require.NoError(t, net.InsertMsg(msg))
}

func TestInsertMsgNameAndIDUniqueness(t *testing.T) {
	net := network.New()
	require.NoError(t, net.AddNode("ECU"))

	m1, err := message.NewBuilder("M1", 0x10).TXNode("ECU").Build()
	require.NoError(t, err)
	require.NoError(t, net.InsertMsg(m1))

	dupName, err := message.NewBuilder("M1", 0x11).TXNode("ECU").Build()
	require.NoError(t, err)
	assert.Error(t, net.InsertMsg(dupName))

	dupID, err := message.NewBuilder("M2", 0x10).TXNode("ECU").Build()
	require.NoError(t, err)
	assert.Error(t, net.InsertMsg(dupID))
}

func TestMessagesByNode(t *testing.T) {
	net := network.New()
	require.NoError(t, net.AddNode("ECU"))
	require.NoError(t, net.AddNode("Gateway"))

	m1, err := message.NewBuilder("M1", 0x10).TXNode("ECU").RXNode("Gateway").Build()
	require.NoError(t, err)
	require.NoError(t, net.InsertMsg(m1))

	tx := net.MessagesByNode("ECU")
	require.Len(t, tx, 1)
	assert.Equal(t, "M1", tx[0].Name())

	rx := net.RXMessagesByNode("Gateway")
	require.Len(t, rx, 1)
	assert.Equal(t, "M1", rx[0].Name())
}

func TestMessageByNameAndID(t *testing.T) {
	net := network.New()
	require.NoError(t, net.AddNode("ECU"))

	m1, err := message.NewBuilder("M1", 0x10).TXNode("ECU").Build()
	require.NoError(t, err)
	require.NoError(t, net.InsertMsg(m1))

	_, ok := net.MessageByName("M1")
	assert.True(t, ok)
	_, ok = net.MessageByID(0x10)
	assert.True(t, ok)
	_, ok = net.MessageByName("nope")
	assert.False(t, ok)
}

func TestAddRXAfterInsertion(t *testing.T) {
	net := network.New()
	require.NoError(t, net.AddNode("ECU"))
	require.NoError(t, net.AddNode("Gateway"))

	m1, err := message.NewBuilder("M1", 0x10).TXNode("ECU").Build()
	require.NoError(t, err)
	require.NoError(t, net.InsertMsg(m1))

	assert.Error(t, net.AddRX("nonexistent", "Gateway"))
	assert.Error(t, net.AddRX("M1", "nonexistent"))

	require.NoError(t, net.AddRX("M1", "Gateway"))
	rx := net.RXMessagesByNode("Gateway")
	require.Len(t, rx, 1)
	assert.Equal(t, "M1", rx[0].Name())
}

func TestDescribeListsTXAndRX(t *testing.T) {
	net := network.New()
	require.NoError(t, net.AddNode("ECU"))
	require.NoError(t, net.AddNode("Gateway"))

	m1, err := message.NewBuilder("M1", 0x10).TXNode("ECU").RXNode("Gateway").Build()
	require.NoError(t, err)
	require.NoError(t, net.InsertMsg(m1))

	out := net.Describe()
	assert.Contains(t, out, "node ECU:")
	assert.Contains(t, out, "tx 0x010 M1")
	assert.Contains(t, out, "node Gateway:")
	assert.Contains(t, out, "rx 0x010 M1")
}
