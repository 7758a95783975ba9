// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opencan/opencan/can/errors"
)

func TestWrapChain(t *testing.T) {
	inner := errors.SignalNameAlreadyExists("A_sigA")
	wrapped := errors.Wrap(errors.New("could not add signal `sigA` to message `A_M`"), inner)

	assert.Equal(t, "could not add signal `sigA` to message `A_M`: signal with name `A_sigA` already exists in this message", wrapped.Error())
	assert.True(t, errors.Contains(wrapped, inner))
}

func TestWrapNilCause(t *testing.T) {
	assert.Nil(t, errors.Wrap(errors.New("context"), nil))
}

func TestChainRendering(t *testing.T) {
	e := errors.Wrap(errors.New("outer"), errors.Wrap(errors.New("middle"), errors.New("inner")))

	lines := errors.Chain(e)
	assert.Equal(t, []string{"outer", "- middle", "-- inner"}, lines)
}
