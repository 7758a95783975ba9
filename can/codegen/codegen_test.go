// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencan/opencan/can/codegen"
	"github.com/opencan/opencan/can/message"
	"github.com/opencan/opencan/can/network"
	"github.com/opencan/opencan/can/signal"
)

func buildNet(t *testing.T) *network.Network {
	t.Helper()

	net := network.New()
	require.NoError(t, net.AddNode("Motor"))
	require.NoError(t, net.AddNode("Gateway"))

	sigA, err := signal.NewBuilder("rpm").Width(16).Build()
	require.NoError(t, err)
	sigB, err := signal.NewBuilder("temp_c").Width(8).TwosComplement(true).Scale(0.5).Offset(-40).Build()
	require.NoError(t, err)

	mb := message.NewBuilder("Motor_Status", 0x100).Cycletime(10).TXNode("Motor").RXNode("Gateway")
	mb, err = mb.AddSignals(sigA, sigB)
	require.NoError(t, err)
	msg, err := mb.Build()
	require.NoError(t, err)
	require.NoError(t, net.InsertMsg(msg))

	m2b := message.NewBuilder("Gateway_Heartbeat", 0x200).Cycletime(100).TXNode("Gateway").RXNode("Motor")
	beat, err := signal.NewBuilder("beat").Width(1).Build()
	require.NoError(t, err)
	m2b, err = m2b.AddSignal(beat)
	require.NoError(t, err)
	m2, err := m2b.Build()
	require.NoError(t, err)
	require.NoError(t, net.InsertMsg(m2))

	return net
}

func TestGenerateUnknownNode(t *testing.T) {
	net := buildNet(t)
	_, err := codegen.Generate(net, "Nonexistent", codegen.Options{})
	assert.Error(t, err)
}

func TestGenerateFileSet(t *testing.T) {
	net := buildNet(t)
	files, err := codegen.Generate(net, "Motor", codegen.Options{RXCallbackStubs: true, TXPopulateStubs: true})
	require.NoError(t, err)

	names := make(map[string]string)
	for _, f := range files {
		names[f.Name] = f.Contents
	}

	assert.Contains(t, names, "opencan_rx.h")
	assert.Contains(t, names, "opencan_rx.c")
	assert.Contains(t, names, "opencan_tx.h")
	assert.Contains(t, names, "opencan_tx.c")
	assert.Contains(t, names, "opencan_templates.h")
	assert.Contains(t, names, "opencan_callbacks.h")

	assert.Contains(t, names["opencan_tx.c"], "CANTX_doTx_Motor_Status")
	assert.Contains(t, names["opencan_tx.c"], "(ms + 0U) % 10U")

	assert.Contains(t, names["opencan_rx.c"], "CANRX_doRx_Gateway_Heartbeat")
	assert.Contains(t, names["opencan_rx.c"], "CANRX_is_node_Gateway_ok")
	assert.Contains(t, names["opencan_rx.c"], "CANRX_is_message_Gateway_Heartbeat_ok")
}

func TestSignExtensionEmittedForSignedSignal(t *testing.T) {
	net := buildNet(t)
	files, err := codegen.Generate(net, "Gateway", codegen.Options{})
	require.NoError(t, err)

	var rxC string
	for _, f := range files {
		if f.Name == "opencan_rx.c" {
			rxC = f.Contents
		}
	}

	assert.Contains(t, rxC, "unpack_ext__temp_c")
	assert.Contains(t, rxC, "int8_t x : 8")
}

func TestPhaseShiftSpreadsCycletimeCollisions(t *testing.T) {
	net := network.New()
	require.NoError(t, net.AddNode("ECU"))

	for i := 0; i < 2; i++ {
		name := []string{"A", "B"}[i]
		b := message.NewBuilder("M_"+name, uint32(0x10+i)).Cycletime(10).TXNode("ECU")
		msg, err := b.Build()
		require.NoError(t, err)
		require.NoError(t, net.InsertMsg(msg))
	}

	files, err := codegen.Generate(net, "ECU", codegen.Options{})
	require.NoError(t, err)

	var txC string
	for _, f := range files {
		if f.Name == "opencan_tx.c" {
			txC = f.Contents
		}
	}

	assert.Contains(t, txC, "(ms + 0U) % 10U")
	assert.Contains(t, txC, "(ms + 1U) % 10U")
}
