// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencan/opencan/can/compose"
)

const basicYAML = `
nodes:
  - Motor:
      messages:
        - Status:
            id: 0x100
            cycletime_ms: 10
            signals:
              - rpm:
                  width: 16
              - temp_c:
                  width: 8
                  twos_complement: true
                  scale: 0.5
                  offset: -40
  - Gateway:
      rx:
        - Motor_Status
`

func TestParseBasicNetwork(t *testing.T) {
	net, err := compose.Parse([]byte(basicYAML))
	require.NoError(t, err)

	msg, ok := net.MessageByName("Motor_Status")
	require.True(t, ok)
	assert.Equal(t, uint32(0x100), msg.ID())

	_, ok = msg.Signal("Motor_rpm")
	assert.True(t, ok)

	rx := net.RXMessagesByNode("Gateway")
	require.Len(t, rx, 1)
	assert.Equal(t, "Motor_Status", rx[0].Name())
}

const templateYAML = `
templates:
  - MotorStatus:
      signals:
        - rpm:
            width: 16
nodes:
  - Front:
      messages:
        - Status:
            from_template: MotorStatus
            signal_prefix: "front_"
            id: 0x10
            cycletime_ms: 20
`

func TestParseTemplateInstantiation(t *testing.T) {
	net, err := compose.Parse([]byte(templateYAML))
	require.NoError(t, err)

	msg, ok := net.MessageByName("Front_Status")
	require.True(t, ok)

	_, ok = msg.Signal("front_rpm")
	assert.True(t, ok)
}

const autoEnumYAML = `
nodes:
  - ECU:
      messages:
        - State:
            id: 0x20
            signals:
              - mode:
                  width: 2
                  enumerated_values:
                    - OK: 0
                    - WARN: auto
                    - FAULT: auto
`

func TestParseAutoEnumeratedValues(t *testing.T) {
	net, err := compose.Parse([]byte(autoEnumYAML))
	require.NoError(t, err)

	msg, ok := net.MessageByName("ECU_State")
	require.True(t, ok)

	swp, ok := msg.Signal("ECU_mode")
	require.True(t, ok)

	v, ok := swp.Signal().EnumeratedValue("WARN")
	require.True(t, ok)
	assert.Equal(t, uint64(1), v)

	v, ok = swp.Signal().EnumeratedValue("FAULT")
	require.True(t, ok)
	assert.Equal(t, uint64(2), v)
}

func TestParseUnknownTopLevelKeyRejected(t *testing.T) {
	_, err := compose.Parse([]byte("nodez:\n  - Foo: {}\n"))
	assert.Error(t, err)
}

func TestParseInvalidEnumeratedValueDirective(t *testing.T) {
	const bad = `
nodes:
  - ECU:
      messages:
        - State:
            id: 0x20
            signals:
              - mode:
                  width: 2
                  enumerated_values:
                    - OK: notauto
`
	_, err := compose.Parse([]byte(bad))
	assert.Error(t, err)
}
