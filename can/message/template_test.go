// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package message_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencan/opencan/can/message"
)

func TestTemplateInstancePrefixesSignals(t *testing.T) {
	tb := message.NewTemplateBuilder("MotorStatus")
	tb, err := tb.AddSignals(sig(t, "rpm", 16), sig(t, "temp", 8))
	require.NoError(t, err)

	tmpl, err := tb.Build()
	require.NoError(t, err)

	front, err := tmpl.Instance("Motor_Front_Status", 0x100, nil, "front_", "Motor_Front")
	require.NoError(t, err)

	_, ok := front.Signal("front_rpm")
	assert.True(t, ok)
	_, ok = front.Signal("rpm")
	assert.False(t, ok)
	assert.Equal(t, message.KindFromTemplate, front.Kind())
	assert.Equal(t, "MotorStatus", front.OriginTemplate())

	rear, err := tmpl.Instance("Motor_Rear_Status", 0x101, nil, "rear_", "Motor_Rear")
	require.NoError(t, err)

	_, ok = rear.Signal("rear_rpm")
	assert.True(t, ok)
	assert.Equal(t, front.Length(), rear.Length())
}

func TestTemplateInstanceCycletime(t *testing.T) {
	tb := message.NewTemplateBuilder("Heartbeat")
	tb, err := tb.AddSignal(sig(t, "beat", 1))
	require.NoError(t, err)
	tmpl, err := tb.Build()
	require.NoError(t, err)

	cycletime := uint32(100)
	inst, err := tmpl.Instance("NodeA_Heartbeat", 0x200, &cycletime, "", "NodeA")
	require.NoError(t, err)

	ct, ok := inst.Cycletime()
	require.True(t, ok)
	assert.Equal(t, uint32(100), ct)
}
