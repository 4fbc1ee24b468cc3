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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mtuRequestChannel is a mock channel with an active MTU request.
type mtuRequestChannel struct {
	*MockChannel
	err      error
	grant    int
	requests int
	asked    int
}

func (c *mtuRequestChannel) RequestMTU(_ context.Context, upperBound int) (int, error) {
	c.requests++
	c.asked = upperBound
	if c.err != nil {
		return 0, c.err
	}
	return c.grant, nil
}

// mtuReadChannel is a mock channel with a device-reported MTU value.
type mtuReadChannel struct {
	*MockChannel
	err      error
	reported int
	reads    int
}

func (c *mtuReadChannel) NegotiatedMTU(_ context.Context) (int, error) {
	c.reads++
	if c.err != nil {
		return 0, c.err
	}
	return c.reported, nil
}

// dualChannel offers both MTU capabilities so the strategy order is
// observable.
type dualChannel struct {
	*MockChannel
	request mtuRequestChannel
	read    mtuReadChannel
}

func (c *dualChannel) RequestMTU(ctx context.Context, upperBound int) (int, error) {
	return c.request.RequestMTU(ctx, upperBound)
}

func (c *dualChannel) NegotiatedMTU(ctx context.Context) (int, error) {
	return c.read.NegotiatedMTU(ctx)
}

func TestSession_NegotiateMTU_Request(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err   error
		name  string
		grant int
		want  int
	}{
		{
			name:  "Adopts_Granted_Value",
			grant: 247,
			want:  247,
		},
		{
			name:  "Adopts_Minimum_Viable_Grant",
			grant: MinimumMTU,
			want:  MinimumMTU,
		},
		{
			name:  "Request_Error_Falls_Back",
			err:   errors.New("gatt refused"),
			grant: 500,
			want:  DefaultMTU,
		},
		{
			name:  "Grant_Below_Minimum_Falls_Back",
			grant: MinimumMTU - 1,
			want:  DefaultMTU,
		},
		{
			name:  "Zero_Grant_Falls_Back",
			grant: 0,
			want:  DefaultMTU,
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ch := &mtuRequestChannel{MockChannel: NewMockChannel(), grant: tt.grant, err: tt.err}
			session, err := NewSession(ch)
			require.NoError(t, err)

			got := session.negotiateMTU(context.Background())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, ch.requests)
			assert.Equal(t, RequestedMTU, ch.asked)
		})
	}
}

func TestSession_NegotiateMTU_Read(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		name     string
		reported int
		want     int
	}{
		{
			name:     "Subtracts_Header_Overhead",
			reported: 512,
			want:     509,
		},
		{
			name:     "Usable_Exactly_Minimum",
			reported: MinimumMTU + 3,
			want:     MinimumMTU,
		},
		{
			name:     "Read_Error_Keeps_Default",
			err:      errors.New("attribute not readable"),
			reported: 256,
			want:     DefaultMTU,
		},
		{
			name:     "Reported_Too_Small_Keeps_Default",
			reported: 9, // 9 - 3 = 6, below the viable minimum
			want:     DefaultMTU,
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ch := &mtuReadChannel{MockChannel: NewMockChannel(), reported: tt.reported, err: tt.err}
			session, err := NewSession(ch)
			require.NoError(t, err)

			got := session.negotiateMTU(context.Background())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, ch.reads)
		})
	}
}

func TestSession_NegotiateMTU_NoCapabilities(t *testing.T) {
	t.Parallel()

	session, err := NewSession(NewMockChannel())
	require.NoError(t, err)
	assert.Equal(t, DefaultMTU, session.negotiateMTU(context.Background()))
}

// TestSession_NegotiateMTU_StrategiesExclusive verifies the active
// request wins over the readable value, and that a failed request does
// not fall through to the read strategy.
func TestSession_NegotiateMTU_StrategiesExclusive(t *testing.T) {
	t.Parallel()

	t.Run("Request_Wins", func(t *testing.T) {
		t.Parallel()
		ch := &dualChannel{MockChannel: NewMockChannel()}
		ch.request.grant = 64
		ch.read.reported = 512

		session, err := NewSession(ch)
		require.NoError(t, err)
		assert.Equal(t, 64, session.negotiateMTU(context.Background()))
		assert.Equal(t, 1, ch.request.requests)
		assert.Zero(t, ch.read.reads)
	})

	t.Run("Failed_Request_Skips_Read", func(t *testing.T) {
		t.Parallel()
		ch := &dualChannel{MockChannel: NewMockChannel()}
		ch.request.err = errors.New("not supported after all")
		ch.read.reported = 512

		session, err := NewSession(ch)
		require.NoError(t, err)
		assert.Equal(t, DefaultMTU, session.negotiateMTU(context.Background()))
		assert.Zero(t, ch.read.reads, "read strategy must not run after a failed request")
	})
}

func TestSession_NegotiateMTU_ConfiguredUpperBound(t *testing.T) {
	t.Parallel()

	ch := &mtuRequestChannel{MockChannel: NewMockChannel(), grant: 100}
	session, err := NewSession(ch, WithMTURequest(185))
	require.NoError(t, err)

	session.negotiateMTU(context.Background())
	assert.Equal(t, 185, ch.asked)
}

// TestSession_Deploy_NegotiationFallback runs the full fallback
// scenario: the MTU request fails, the default budget applies, and the
// transfer proceeds with 14 byte payloads.
func TestSession_Deploy_NegotiationFallback(t *testing.T) {
	t.Parallel()

	fw := patternFirmware(100)
	ch := &mtuRequestChannel{MockChannel: NewMockChannel(), err: errors.New("gatt timeout")}
	session, err := NewSession(ch)
	require.NoError(t, err)

	result, err := session.Deploy(fw, 2)
	require.NoError(t, err)

	assert.Equal(t, DefaultMTU, result.MTU)
	assert.Equal(t, 14, result.PayloadSize)
	assert.Equal(t, 8, result.Chunks) // ceil(100/14)

	first := decodeDataFrame(t, ch.Frames()[0])
	assert.Len(t, first.payload, 14)
}
