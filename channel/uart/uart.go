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

// Package uart provides a serial port channel for Glimmer boards
package uart

import (
	"context"
	"fmt"
	"sync"
	"time"

	glimmer "github.com/glimmerkit/go-glimmer"
	"github.com/glimmerkit/go-glimmer/internal/retry"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate matches the rate the stock Glimmer bootloader
	// listens at.
	DefaultBaudRate = 115200

	// DefaultFrameBudget is the largest frame the channel grants
	// during negotiation. Serial links have no transport-level MTU,
	// so the budget only bounds how much the board's UART ring
	// buffer receives per frame.
	DefaultFrameBudget = 244

	// readPollInterval bounds how long the console pump blocks in a
	// single read, so Close is observed promptly.
	readPollInterval = 100 * time.Millisecond

	consoleBufferSize = 512
)

// Channel implements glimmer.Channel over a serial port.
type Channel struct {
	port        serial.Port
	portName    string
	baudRate    int
	frameBudget int

	mu     sync.Mutex
	closed bool

	consoleMu sync.Mutex
	console   func(p []byte)

	pumpOnce sync.Once
	done     chan struct{}
}

// Option configures a Channel before the port is opened.
type Option func(*Channel) error

// WithBaudRate overrides the default baud rate.
func WithBaudRate(rate int) Option {
	return func(c *Channel) error {
		if rate <= 0 {
			return fmt.Errorf("baud rate must be positive, got %d", rate)
		}
		c.baudRate = rate
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

// Open opens the named serial port and returns a channel ready for a
// deployment session. Opening is retried briefly, as USB serial
// adapters re-enumerate when a board resets.
func Open(portName string, opts ...Option) (*Channel, error) {
	if portName == "" {
		return nil, fmt.Errorf("port name is required")
	}

	c := &Channel{
		portName:    portName,
		baudRate:    DefaultBaudRate,
		frameBudget: DefaultFrameBudget,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	mode := &serial.Mode{
		BaudRate: c.baudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	cfg := retry.DefaultConfig()
	cfg.Description = "open " + portName
	port, err := retry.Do(context.Background(), cfg, func() (serial.Port, error) {
		return serial.Open(portName, mode)
	})
	if err != nil {
		return nil, err
	}

	// Bounded reads keep the console pump responsive to Close.
	if err := port.SetReadTimeout(readPollInterval); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", portName, err)
	}

	c.port = port
	return c, nil
}

// Write sends a single protocol frame over the serial port.
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

	for written := 0; written < len(frame); {
		n, err := c.port.Write(frame[written:])
		if err != nil {
			return fmt.Errorf("write to %s: %w", c.portName, err)
		}
		written += n
	}
	return nil
}

// RequestMTU grants the smaller of the requested upper bound and the
// channel's frame budget. Serial links carry no ATT layer, so the
// grant is a local policy rather than a negotiation with the board.
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

// Subscribe registers fn to receive console bytes the board prints
// between deployments. The first subscription starts the read pump.
func (c *Channel) Subscribe(fn func(p []byte)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return glimmer.ErrChannelClosed
	}
	c.mu.Unlock()

	c.consoleMu.Lock()
	c.console = fn
	c.consoleMu.Unlock()

	c.pumpOnce.Do(func() {
		go c.pump()
	})
	return nil
}

// pump forwards serial input to the console subscriber until the
// channel closes. Timeout reads return zero bytes without an error
// and only re-check the done channel.
func (c *Channel) pump() {
	buf := make([]byte, consoleBufferSize)
	for {
		select {
		case <-c.done:
			return
		default:
		}

		n, err := c.port.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}

		c.consoleMu.Lock()
		fn := c.console
		c.consoleMu.Unlock()
		if fn == nil {
			continue
		}

		out := make([]byte, n)
		copy(out, buf[:n])
		fn(out)
	}
}

// Close stops the console pump and releases the serial port.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.done)
	if err := c.port.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.portName, err)
	}
	return nil
}

// Kind returns the channel kind.
func (*Channel) Kind() glimmer.Kind {
	return glimmer.KindUART
}

// PortName returns the serial port path the channel was opened on.
func (c *Channel) PortName() string {
	return c.portName
}

// Ensure Channel implements the glimmer interfaces.
var (
	_ glimmer.Channel      = (*Channel)(nil)
	_ glimmer.MTURequester = (*Channel)(nil)
	_ glimmer.Notifier     = (*Channel)(nil)
)
