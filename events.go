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

// State identifies where a deployment is in its lifecycle.
type State int32

const (
	// StateIdle means no deployment has started on the session.
	StateIdle State = iota
	// StateNegotiatingMTU means the session is determining the frame budget.
	StateNegotiatingMTU
	// StateTransferring means firmware chunks are being written.
	StateTransferring
	// StateFinalizing means the Program frame is being written.
	StateFinalizing
	// StateReloading means the board is being told to apply and restart.
	StateReloading
	// StateComplete means the deployment finished and the board restarted.
	StateComplete
	// StateFailed means the deployment stopped with an error; reachable
	// from every state except StateComplete.
	StateFailed
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiatingMTU:
		return "negotiating-mtu"
	case StateTransferring:
		return "transferring"
	case StateFinalizing:
		return "finalizing"
	case StateReloading:
		return "reloading"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress is a snapshot of a running deployment, passed to the
// session's ProgressFunc after every state change and every chunk.
type Progress struct {
	// State is the deployment state at the time of the snapshot.
	State State

	// Offset is the number of firmware bytes the channel has accepted.
	Offset int

	// Total is the firmware length in bytes.
	Total int

	// Chunk is the number of Data frames written so far.
	Chunk int

	// Chunks is the number of Data frames this deployment will write.
	Chunks int

	// MTU is the negotiated frame budget, 0 until negotiation finishes.
	MTU int
}

// ProgressFunc receives Progress snapshots during a deployment.
// Implementations should return quickly; the transfer does not continue
// until the callback returns.
type ProgressFunc func(Progress)

// Logger is an optional logging interface that can be provided to a
// Session. Every state transition and failure is reported through it
// with numeric offsets and sizes, which allows integration with any
// logging framework.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
