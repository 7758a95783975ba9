// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package message_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencan/opencan/can/message"
	"github.com/opencan/opencan/can/signal"
)

func sig(t *testing.T, name string, width uint32) signal.Signal {
	t.Helper()
	s, err := signal.NewBuilder(name).Width(width).Build()
	require.NoError(t, err)
	return s
}

func TestAddSignalBackToBack(t *testing.T) {
	b := message.NewBuilder("TestMessage", 0x10)
	b, err := b.AddSignals(sig(t, "sigA", 8), sig(t, "sigB", 8))
	require.NoError(t, err)

	msg, err := b.Build()
	require.NoError(t, err)

	swp, ok := msg.Signal("sigA")
	require.True(t, ok)
	assert.Equal(t, uint32(0), swp.Start())

	swp2, ok := msg.Signal("sigB")
	require.True(t, ok)
	assert.Equal(t, uint32(8), swp2.Start())

	assert.Equal(t, uint32(2), msg.Length())
}

func TestAddSignalDuplicateName(t *testing.T) {
	b := message.NewBuilder("M", 0)
	b, err := b.AddSignal(sig(t, "sigA", 8))
	require.NoError(t, err)

	_, err = b.AddSignal(sig(t, "sigA", 8))
	assert.Error(t, err)
}

func TestAddSignalOutOfOrder(t *testing.T) {
	b := message.NewBuilder("M", 0)
	b, err := b.AddSignalFixed(8, sig(t, "sigA", 8))
	require.NoError(t, err)

	_, err = b.AddSignalFixed(4, sig(t, "sigB", 4))
	assert.Error(t, err)
}

func TestAddSignalOverlap(t *testing.T) {
	b := message.NewBuilder("M", 0)
	b, err := b.AddSignalFixed(0, sig(t, "sigA", 8))
	require.NoError(t, err)

	_, err = b.AddSignalFixed(4, sig(t, "sigB", 8))
	assert.Error(t, err)
}

func TestSignalDoesNotFit(t *testing.T) {
	b := message.NewBuilder("M", 0)
	_, err := b.AddSignalFixed(60, sig(t, "sigA", 8))
	assert.Error(t, err)
}

func TestMessageNameValidity(t *testing.T) {
	invalid := []string{"test!", "!!!", "test.", ".test", "."}
	for _, name := range invalid {
		_, err := message.NewBuilder(name, 0x10).Build()
		assert.Error(t, err, name)
	}

	_, err := message.NewBuilder("", 0x10).Build()
	assert.Error(t, err)

	_, err = message.NewBuilder("valid_Name123", 0x10).Build()
	assert.NoError(t, err)
}

func TestEmptyMessageHasZeroLength(t *testing.T) {
	msg, err := message.NewBuilder("M", 0).Build()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), msg.Length())
}

func TestRawMessageKind(t *testing.T) {
	msg, err := message.NewBuilder("M", 0).Raw().Build()
	require.NoError(t, err)
	assert.Equal(t, message.KindRaw, msg.Kind())
}
