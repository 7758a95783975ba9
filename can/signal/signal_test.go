// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package signal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencan/opencan/can/signal"
)

func TestEnumeratedValueNamesSortedByRawValue(t *testing.T) {
	b := signal.NewBuilder("state")
	b, err := b.AddEnumeratedValue("WARN", 3)
	require.NoError(t, err)
	b, err = b.AddEnumeratedValue("OK", 0)
	require.NoError(t, err)
	b, err = b.AddEnumeratedValue("FAULT", 7)
	require.NoError(t, err)
	b = b.Width(3)

	s, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"OK", "WARN", "FAULT"}, s.EnumeratedValueNames())
}

func TestHasEnumeratedValues(t *testing.T) {
	s, err := signal.NewBuilder("a").Width(8).Build()
	require.NoError(t, err)
	assert.False(t, s.HasEnumeratedValues())

	b := signal.NewBuilder("b").Width(8)
	b, err = b.AddEnumeratedValue("X", 0)
	require.NoError(t, err)
	s2, err := b.Build()
	require.NoError(t, err)
	assert.True(t, s2.HasEnumeratedValues())
}

func TestScaleOffsetUnset(t *testing.T) {
	s, err := signal.NewBuilder("a").Width(8).Build()
	require.NoError(t, err)

	_, ok := s.Scale()
	assert.False(t, ok)
	_, ok = s.Offset()
	assert.False(t, ok)
}
