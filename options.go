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

import "fmt"

// Option is a functional option for configuring a Session
type Option func(*Session) error

// WithLogger sets a logger for session operations. Every state
// transition and failure is reported through it.
func WithLogger(logger Logger) Option {
	return func(s *Session) error {
		s.config.Logger = logger
		return nil
	}
}

// WithProgress sets a callback that receives a snapshot after every
// state change and every chunk.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Session) error {
		s.config.Progress = fn
		return nil
	}
}

// WithConsole sets a sink for board console bytes. The bytes are
// forwarded exactly as the channel delivers them. Channels that cannot
// deliver notifications ignore the sink.
func WithConsole(fn func(p []byte)) Option {
	return func(s *Session) error {
		s.config.Console = fn
		return nil
	}
}

// WithMTURequest sets the upper bound asked of a channel that accepts
// an active MTU request. Values below the minimum viable frame size are
// rejected.
func WithMTURequest(upperBound int) Option {
	return func(s *Session) error {
		if upperBound < MinimumMTU {
			return fmt.Errorf("mtu request %d below minimum %d", upperBound, MinimumMTU)
		}
		s.config.MTURequest = upperBound
		return nil
	}
}
