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

// Package i2c provides an I2C channel for Glimmer boards
package i2c

import (
	"context"
	"fmt"
	"sync"

	glimmer "github.com/glimmerkit/go-glimmer"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	// DefaultAddr is the 7-bit address the Glimmer bootloader
	// responds at when the address straps are left open.
	DefaultAddr = 0x4C

	// DefaultFrameBudget matches the bootloader's I2C receive
	// buffer. Frames larger than this are truncated by the board,
	// so the channel never grants more.
	DefaultFrameBudget = 32

	// Max clock frequency (400 kHz).
	maxClockFreq = 400 * physic.KiloHertz
)

// Channel implements glimmer.Channel over an I2C bus. The bus carries
// deployment frames only; boards do not expose their console on I2C.
type Channel struct {
	dev     *i2c.Dev
	busName string
	addr    uint16

	frameBudget int

	mu     sync.Mutex
	closed bool
}

// Option configures a Channel before the bus is opened.
type Option func(*Channel) error

// WithAddr overrides the board address for boards with strapped
// address pins.
func WithAddr(addr uint16) Option {
	return func(c *Channel) error {
		if addr == 0 || addr > 0x7F {
			return fmt.Errorf("address %#x outside 7-bit range", addr)
		}
		c.addr = addr
		return nil
	}
}

// WithFrameBudget overrides the largest frame the channel grants
// during negotiation.
func WithFrameBudget(budget int) Option {
	return func(c *Channel) error {
		if budget < glimmer.MinimumMTU {
			return fmt.Errorf("frame budget %d below minimum %d", budget, glimmer.MinimumMTU)
		}
		c.frameBudget = budget
		return nil
	}
}

// New opens the named I2C bus and returns a channel addressing a
// Glimmer board. An empty busName selects the first available bus.
func New(busName string, opts ...Option) (*Channel, error) {
	c := &Channel{
		busName:     busName,
		addr:        DefaultAddr,
		frameBudget: DefaultFrameBudget,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open I2C bus %q: %w", busName, err)
	}

	// Ignore error, continue with the bus default speed.
	_ = bus.SetSpeed(maxClockFreq)

	c.dev = &i2c.Dev{Addr: c.addr, Bus: bus}
	return c, nil
}

// Write sends a single protocol frame as one I2C transaction.
func (c *Channel) Write(ctx context.Context, frame []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return glimmer.ErrChannelClosed
	}

	if err := c.dev.Tx(frame, nil); err != nil {
		return fmt.Errorf("write to %#x on %q: %w", c.addr, c.busName, err)
	}
	return nil
}

// RequestMTU grants the smaller of the requested upper bound and the
// board's receive buffer size.
func (c *Channel) RequestMTU(ctx context.Context, upperBound int) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	if upperBound <= 0 || upperBound > c.frameBudget {
		return c.frameBudget, nil
	}
	return upperBound, nil
}

// Close marks the channel closed. periph.io handles bus cleanup
// automatically.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Kind returns the channel kind.
func (*Channel) Kind() glimmer.Kind {
	return glimmer.KindI2C
}

// BusName returns the I2C bus the channel was opened on.
func (c *Channel) BusName() string {
	return c.busName
}

// Ensure Channel implements the glimmer interfaces.
var (
	_ glimmer.Channel      = (*Channel)(nil)
	_ glimmer.MTURequester = (*Channel)(nil)
)
