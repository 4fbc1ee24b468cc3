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

import "context"

// Channel is the byte-oriented link a Session deploys firmware over.
// This can be implemented by BLE, UART, or I2C backends.
//
// The channel is owned by the caller. A Session borrows it for the
// duration of a deployment and never closes or outlives it. Callers
// sharing one channel across sessions must serialize access to it.
type Channel interface {
	// Write sends one complete frame over the link. A nil return means
	// the transport accepted the bytes; device-side success is inferred
	// from the write not failing, as the boards send no acknowledgment
	// body. Write must not retain frame after returning.
	Write(ctx context.Context, frame []byte) error

	// Close releases the underlying link.
	Close() error

	// Kind returns the channel kind.
	Kind() Kind
}

// Kind represents the kind of channel
type Kind string

const (
	// KindBLE represents a Bluetooth Low Energy channel.
	KindBLE Kind = "ble"
	// KindUART represents a UART/serial channel.
	KindUART Kind = "uart"
	// KindI2C represents an I2C bus channel.
	KindI2C Kind = "i2c"
	// KindMock represents a mock channel for testing
	KindMock Kind = "mock"
)

// MTURequester is an optional Channel capability: an active MTU-increase
// request. RequestMTU asks the transport for an MTU of at most upperBound
// and returns the usable frame size the transport actually granted.
// Channels without a native limit may grant a configured budget instead.
type MTURequester interface {
	RequestMTU(ctx context.Context, upperBound int) (int, error)
}

// MTUReader is an optional Channel capability: a read of the
// device-reported negotiated MTU. The reported value still includes the
// transport's own per-write header overhead; the negotiator subtracts it.
type MTUReader interface {
	NegotiatedMTU(ctx context.Context) (int, error)
}

// Notifier is an optional Channel capability: asynchronous delivery of
// console bytes emitted by the board. Subscribe registers fn for every
// notification until the channel is closed. fn is called from the
// channel's delivery goroutine and must not block.
type Notifier interface {
	Subscribe(fn func(p []byte)) error
}
