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

package main

import (
	"context"
	"fmt"

	glimmer "github.com/glimmerkit/go-glimmer"
	"github.com/glimmerkit/go-glimmer/boards"
	"github.com/glimmerkit/go-glimmer/channel/ble"
	"github.com/glimmerkit/go-glimmer/channel/i2c"
	"github.com/glimmerkit/go-glimmer/channel/uart"
)

// loadCatalog builds the board profile catalog, extended by the user's
// boards file when one is configured.
func loadCatalog(cfg settings) (*boards.Catalog, error) {
	catalog := boards.Default()
	if cfg.BoardsFile == "" {
		return catalog, nil
	}

	profiles, err := boards.LoadFile(cfg.BoardsFile)
	if err != nil {
		return nil, err
	}
	catalog.Add(profiles...)
	return catalog, nil
}

// resolveProfile looks up the configured board model, or returns nil
// when no model was configured.
func resolveProfile(catalog *boards.Catalog, cfg settings) (*boards.Profile, error) {
	if cfg.Board == "" {
		return nil, nil
	}
	profile, ok := catalog.Find(cfg.Board)
	if !ok {
		return nil, fmt.Errorf("unknown board model %q", cfg.Board)
	}
	return &profile, nil
}

// openChannel opens the configured channel. The returned channel is
// owned by the caller and must be closed.
func openChannel(ctx context.Context, cfg settings, profile *boards.Profile) (glimmer.Channel, error) {
	switch cfg.Channel {
	case "ble":
		var opts []ble.Option
		if profile != nil && profile.ServiceUUID != "" {
			opts = append(opts, ble.WithServiceUUIDs(
				profile.ServiceUUID, profile.CommandUUID, profile.ConsoleUUID))
		}
		return ble.Connect(ctx, cfg.Target, opts...)

	case "uart":
		if cfg.Port == "" {
			return nil, fmt.Errorf("uart channel requires --port")
		}
		opts := []uart.Option{uart.WithBaudRate(cfg.BaudRate)}
		if profile != nil && profile.MTUCeiling > 0 {
			opts = append(opts, uart.WithFrameBudget(profile.MTUCeiling))
		}
		return uart.Open(cfg.Port, opts...)

	case "i2c":
		if cfg.Bus == "" {
			return nil, fmt.Errorf("i2c channel requires --bus")
		}
		return i2c.New(cfg.Bus)

	default:
		return nil, fmt.Errorf("unknown channel %q (expected ble, uart, or i2c)", cfg.Channel)
	}
}
