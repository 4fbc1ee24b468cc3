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

// Package ble provides a Bluetooth Low Energy channel for Glimmer boards
package ble

import (
	"context"
	"fmt"
	"strings"
	"sync"

	glimmer "github.com/glimmerkit/go-glimmer"
	"github.com/glimmerkit/go-glimmer/internal/retry"
	"tinygo.org/x/bluetooth"
)

const (
	// ServiceUUID identifies the Glimmer deployment service.
	ServiceUUID = "f27a0100-5c1e-4e9b-9d20-3a94c2b7d1f4"
	// CommandCharUUID receives deployment frames, written without
	// response.
	CommandCharUUID = "f27a0101-5c1e-4e9b-9d20-3a94c2b7d1f4"
	// ConsoleCharUUID notifies console output from the running
	// program.
	ConsoleCharUUID = "f27a0102-5c1e-4e9b-9d20-3a94c2b7d1f4"

	// DefaultNamePrefix is how stock firmware advertises itself.
	DefaultNamePrefix = "GLM-"
)

// Channel implements glimmer.Channel over a BLE connection.
type Channel struct {
	device  bluetooth.Device
	command bluetooth.DeviceCharacteristic
	console bluetooth.DeviceCharacteristic

	hasConsole bool
	localName  string
	address    string

	mu     sync.Mutex
	closed bool
}

// config collects Connect settings before any radio work happens.
type config struct {
	adapter     *bluetooth.Adapter
	serviceUUID string
	commandUUID string
	consoleUUID string
	connect     retry.Config
}

// Option configures a BLE connection attempt.
type Option func(*config) error

// WithAdapter selects a radio other than the system default.
func WithAdapter(adapter *bluetooth.Adapter) Option {
	return func(c *config) error {
		if adapter == nil {
			return fmt.Errorf("adapter is nil")
		}
		c.adapter = adapter
		return nil
	}
}

// WithServiceUUIDs overrides the GATT identifiers, for boards running
// forked firmware that relocates the deployment service. console may be
// empty for boards that expose no console characteristic.
func WithServiceUUIDs(service, command, console string) Option {
	return func(c *config) error {
		for _, raw := range []string{service, command} {
			if _, err := bluetooth.ParseUUID(raw); err != nil {
				return fmt.Errorf("parse UUID %q: %w", raw, err)
			}
		}
		if console != "" {
			if _, err := bluetooth.ParseUUID(console); err != nil {
				return fmt.Errorf("parse UUID %q: %w", console, err)
			}
		}
		c.serviceUUID = service
		c.commandUUID = command
		c.consoleUUID = console
		return nil
	}
}

// WithConnectRetry overrides how connection attempts are retried.
func WithConnectRetry(cfg retry.Config) Option {
	return func(c *config) error {
		if cfg.Attempts < 1 {
			return fmt.Errorf("retry attempts must be at least 1, got %d", cfg.Attempts)
		}
		c.connect = cfg
		return nil
	}
}

// Connect scans for a board and establishes a connection. The target
// matches a board's advertised name or its address; an empty target
// takes the first board advertising the deployment service.
//
// Scanning runs until a match or until ctx is done. Connection
// attempts after a successful scan are retried, as boards drop the
// link while rebooting out of a freshly flashed program.
func Connect(ctx context.Context, target string, opts ...Option) (*Channel, error) {
	cfg := &config{
		adapter:     bluetooth.DefaultAdapter,
		serviceUUID: ServiceUUID,
		commandUUID: CommandCharUUID,
		consoleUUID: ConsoleCharUUID,
		connect:     retry.DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if err := cfg.adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable BLE adapter: %w", err)
	}

	svcUUID, err := bluetooth.ParseUUID(cfg.serviceUUID)
	if err != nil {
		return nil, fmt.Errorf("parse service UUID: %w", err)
	}

	result, err := scanForTarget(ctx, cfg.adapter, svcUUID, target)
	if err != nil {
		return nil, err
	}

	cfg.connect.Description = "connect to " + result.Address.String()
	device, err := retry.Do(ctx, cfg.connect, func() (bluetooth.Device, error) {
		return cfg.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	})
	if err != nil {
		return nil, err
	}

	ch := &Channel{
		device:    device,
		localName: result.LocalName(),
		address:   result.Address.String(),
	}
	if err := ch.discover(cfg); err != nil {
		_ = device.Disconnect()
		return nil, err
	}
	return ch, nil
}

// scanForTarget scans until a matching advertisement arrives or ctx
// is done. The adapter's scan callback runs on its own goroutine, so
// results are handed over on a channel.
func scanForTarget(
	ctx context.Context, adapter *bluetooth.Adapter, svcUUID bluetooth.UUID, target string,
) (bluetooth.ScanResult, error) {
	found := make(chan bluetooth.ScanResult, 1)
	scanErr := make(chan error, 1)

	go func() {
		err := adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !matchesTarget(target, result.LocalName(), result.Address.String(), result.HasServiceUUID(svcUUID)) {
				return
			}
			select {
			case found <- result:
			default:
			}
			_ = adapter.StopScan()
		})
		if err != nil {
			scanErr <- err
		}
	}()

	select {
	case result := <-found:
		return result, nil
	case err := <-scanErr:
		return bluetooth.ScanResult{}, fmt.Errorf("scan for board: %w", err)
	case <-ctx.Done():
		_ = adapter.StopScan()
		return bluetooth.ScanResult{}, ctx.Err()
	}
}

// matchesTarget decides whether an advertisement is the board the
// caller asked for. An empty target accepts any board advertising the
// deployment service or carrying the stock name prefix.
func matchesTarget(target, name, address string, hasService bool) bool {
	if target == "" {
		return hasService || strings.HasPrefix(name, DefaultNamePrefix)
	}
	if strings.EqualFold(address, target) {
		return true
	}
	return name == target
}

// discover walks the GATT table for the deployment service. A missing
// console characteristic is tolerated; bootloader-only firmware does
// not expose one.
func (c *Channel) discover(cfg *config) error {
	svcUUID, _ := bluetooth.ParseUUID(cfg.serviceUUID)

	srvs, err := c.device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil {
		return fmt.Errorf("discover deployment service: %w", err)
	}
	if len(srvs) == 0 {
		return fmt.Errorf("device does not expose service %s", cfg.serviceUUID)
	}

	// Ask for the whole table. Requesting a fixed set errors out on
	// backends when one of the requested characteristics is absent, and
	// the console one is optional.
	chars, err := srvs[0].DiscoverCharacteristics(nil)
	if err != nil {
		return fmt.Errorf("discover characteristics: %w", err)
	}

	var haveCommand bool
	for _, char := range chars {
		uuid := char.UUID().String()
		switch {
		case strings.EqualFold(uuid, cfg.commandUUID):
			c.command = char
			haveCommand = true
		case cfg.consoleUUID != "" && strings.EqualFold(uuid, cfg.consoleUUID):
			c.console = char
			c.hasConsole = true
		}
	}
	if !haveCommand {
		return fmt.Errorf("device does not expose characteristic %s", cfg.commandUUID)
	}
	return nil
}

// Write sends a single protocol frame to the command characteristic.
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

	if _, err := c.command.WriteWithoutResponse(frame); err != nil {
		return fmt.Errorf("write to %s: %w", c.address, err)
	}
	return nil
}

// NegotiatedMTU reports the ATT MTU the link settled on. The usable
// frame size is smaller by the ATT write header.
func (c *Channel) NegotiatedMTU(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	mtu, err := c.command.GetMTU()
	if err != nil {
		return 0, fmt.Errorf("read ATT MTU: %w", err)
	}
	return int(mtu), nil
}

// Subscribe registers fn to receive console notifications.
func (c *Channel) Subscribe(fn func(p []byte)) error {
	if !c.hasConsole {
		return fmt.Errorf("device does not expose a console characteristic")
	}
	if err := c.console.EnableNotifications(fn); err != nil {
		return fmt.Errorf("enable console notifications: %w", err)
	}
	return nil
}

// Close disconnects from the board.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if err := c.device.Disconnect(); err != nil {
		return fmt.Errorf("disconnect from %s: %w", c.address, err)
	}
	return nil
}

// Kind returns the channel kind.
func (*Channel) Kind() glimmer.Kind {
	return glimmer.KindBLE
}

// LocalName returns the name the board advertised while scanning.
func (c *Channel) LocalName() string {
	return c.localName
}

// Address returns the board's BLE address.
func (c *Channel) Address() string {
	return c.address
}

// Ensure Channel implements the glimmer interfaces.
var (
	_ glimmer.Channel   = (*Channel)(nil)
	_ glimmer.MTUReader = (*Channel)(nil)
	_ glimmer.Notifier  = (*Channel)(nil)
)
