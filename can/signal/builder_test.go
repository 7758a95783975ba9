// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package signal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencan/opencan/can/signal"
)

func TestBuilderBasic(t *testing.T) {
	s, err := signal.NewBuilder("wheel_speed").
		Width(16).
		Scale(0.1).
		Offset(0).
		Description("wheel speed in km/h").
		Build()

	require.NoError(t, err)
	assert.Equal(t, "wheel_speed", s.Name())
	assert.Equal(t, uint32(16), s.Width())
	assert.False(t, s.TwosComplement())

	scale, ok := s.Scale()
	assert.True(t, ok)
	assert.Equal(t, 0.1, scale)
}

func TestBuilderZeroWidthRejected(t *testing.T) {
	_, err := signal.NewBuilder("bad").Width(0).Build()
	assert.Error(t, err)
}

func TestBuilderMissingWidthRejected(t *testing.T) {
	_, err := signal.NewBuilder("bad").Build()
	assert.Error(t, err)
}

func TestBuilderEnumeratedValueNameCollision(t *testing.T) {
	b := signal.NewBuilder("state")
	b, err := b.AddEnumeratedValue("OK", 0)
	require.NoError(t, err)

	_, err = b.AddEnumeratedValue("OK", 1)
	assert.Error(t, err)
}

func TestBuilderEnumeratedValueValueCollision(t *testing.T) {
	b := signal.NewBuilder("state")
	b, err := b.AddEnumeratedValue("OK", 0)
	require.NoError(t, err)

	_, err = b.AddEnumeratedValue("FINE", 0)
	assert.Error(t, err)
}

func TestBuilderEnumeratedValueInferred(t *testing.T) {
	b := signal.NewBuilder("state")
	b, err := b.AddEnumeratedValue("OK", 2)
	require.NoError(t, err)

	b, err = b.AddEnumeratedValueInferred("WARN")
	require.NoError(t, err)

	s, err := b.InferWidth()
	require.NoError(t, err)
	built, err := s.Build()
	require.NoError(t, err)

	v, ok := built.EnumeratedValue("WARN")
	require.True(t, ok)
	assert.Equal(t, uint64(3), v)
}

func TestInferWidthBoundary(t *testing.T) {
	// highest value 7 -> width 3
	b := signal.NewBuilder("a")
	b, err := b.AddEnumeratedValue("V7", 7)
	require.NoError(t, err)
	b, err = b.InferWidth()
	require.NoError(t, err)
	s, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), s.Width())

	// highest value 8 -> width 4
	b2 := signal.NewBuilder("b")
	b2, err = b2.AddEnumeratedValue("V8", 8)
	require.NoError(t, err)
	b2, err = b2.InferWidth()
	require.NoError(t, err)
	s2, err := b2.Build()
	require.NoError(t, err)
	assert.Equal(t, uint32(4), s2.Width())
}

func TestInferWidthFailsWithNoEnumeratedValues(t *testing.T) {
	_, err := signal.NewBuilder("a").InferWidth()
	assert.Error(t, err)
}

func TestInferWidthStrictConflict(t *testing.T) {
	b := signal.NewBuilder("a").Width(8)
	_, err := b.InferWidthStrict()
	assert.Error(t, err)
}

func TestInferWidthIsNoopWhenAlreadySet(t *testing.T) {
	b := signal.NewBuilder("a").Width(12)
	b, err := b.InferWidth()
	require.NoError(t, err)
	s, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, uint32(12), s.Width())
}
