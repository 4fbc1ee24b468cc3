// go-glimmer
// Copyright (c) 2026 The Glimmer Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-glimmer.
//
// go-glimmer is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-glimmer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-glimmer; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package glimmer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitError(t *testing.T) {
	t.Parallel()

	t.Run("Exceeds_Message", func(t *testing.T) {
		t.Parallel()
		err := &LimitError{Field: "firmware size", Value: 70000, Limit: 65535}
		assert.Equal(t, "firmware size 70000 exceeds protocol limit 65535", err.Error())
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("Below_Minimum_Message", func(t *testing.T) {
		t.Parallel()
		err := &LimitError{Field: "payload size", Value: 0, Limit: 1}
		assert.Equal(t, "payload size 0 below protocol minimum 1", err.Error())
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("Not_Other_Sentinels", func(t *testing.T) {
		t.Parallel()
		err := &LimitError{Field: "firmware size", Value: 70000, Limit: 65535}
		assert.NotErrorIs(t, err, ErrTransferAborted)
		assert.NotErrorIs(t, err, ErrFinalizeFailed)
	})
}

func TestTransferError(t *testing.T) {
	t.Parallel()

	cause := errors.New("write timed out")
	err := &TransferError{Offset: 340, Err: cause}

	assert.Equal(t, "transfer aborted at offset 340: write timed out", err.Error())
	assert.ErrorIs(t, err, ErrTransferAborted)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrReloadFailed)

	var te *TransferError
	require.ErrorAs(t, error(err), &te)
	assert.Equal(t, 340, te.Offset)
}

func TestFinalizeError(t *testing.T) {
	t.Parallel()

	cause := errors.New("characteristic gone")
	err := &FinalizeError{Err: cause}

	assert.Equal(t, "program frame rejected: characteristic gone", err.Error())
	assert.ErrorIs(t, err, ErrFinalizeFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrTransferAborted)
}

func TestReloadError(t *testing.T) {
	t.Parallel()

	cause := errors.New("no response")
	err := &ReloadError{Err: cause}

	assert.Equal(t, "reload rejected: no response", err.Error())
	assert.ErrorIs(t, err, ErrReloadFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrFinalizeFailed)
}

// TestSentinelsDistinct guards against two conditions collapsing into
// one another through careless wrapping.
func TestSentinelsDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrSessionBusy,
		ErrNegotiationFailed,
		ErrLimitExceeded,
		ErrTransferAborted,
		ErrFinalizeFailed,
		ErrReloadFailed,
		ErrChannelClosed,
		ErrNilChannel,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b, "%v must not match %v", a, b)
		}
	}
}
