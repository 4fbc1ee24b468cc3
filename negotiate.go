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
	"fmt"

	"github.com/glimmerkit/go-glimmer/internal/frame"
)

// MTU negotiation constants
const (
	// DefaultMTU is the conservative frame budget used when a channel
	// offers no negotiation or negotiation fails.
	DefaultMTU = 20

	// RequestedMTU is the upper bound asked of channels that accept an
	// active MTU request.
	RequestedMTU = 512

	// MinimumMTU is the smallest frame budget that still carries
	// payload: the fixed Data header plus one byte.
	MinimumMTU = frame.DataHeaderSize + 1

	// attHeaderOverhead is the per-write header the transport spends out
	// of a device-reported MTU before payload bytes.
	attHeaderOverhead = 3
)

// negotiateMTU determines the frame budget for one deployment. Two
// mutually exclusive strategies are tried in order: an active MTU
// request if the channel supports one, otherwise a read of the
// device-reported negotiated value minus the transport header overhead.
// Failures are recoverable; the default budget is substituted and the
// condition reported through the session logger. The result is always
// at least MinimumMTU.
func (s *Session) negotiateMTU(ctx context.Context) int {
	if req, ok := s.channel.(MTURequester); ok {
		granted, err := req.RequestMTU(ctx, s.config.MTURequest)
		if err == nil && granted < MinimumMTU {
			err = fmt.Errorf("%w: granted %d below minimum %d", ErrNegotiationFailed, granted, MinimumMTU)
		}
		if err != nil {
			s.logError("mtu request failed, using default", "error", err, "default", DefaultMTU)
			return DefaultMTU
		}
		s.logDebug("mtu granted by channel", "mtu", granted)
		return granted
	}

	if rd, ok := s.channel.(MTUReader); ok {
		reported, err := rd.NegotiatedMTU(ctx)
		usable := reported - attHeaderOverhead
		if err == nil && usable < MinimumMTU {
			err = fmt.Errorf("%w: reported %d leaves %d below minimum %d", ErrNegotiationFailed, reported, usable, MinimumMTU)
		}
		if err != nil {
			s.logError("mtu read failed, using default", "error", err, "default", DefaultMTU)
			return DefaultMTU
		}
		s.logDebug("mtu read from channel", "reported", reported, "usable", usable)
		return usable
	}

	s.logDebug("channel offers no mtu negotiation, using default", "default", DefaultMTU)
	return DefaultMTU
}
