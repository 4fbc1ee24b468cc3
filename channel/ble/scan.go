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

package ble

import (
	"context"
	"fmt"

	"tinygo.org/x/bluetooth"
)

// Board describes a Glimmer board seen while scanning.
type Board struct {
	// Address is the BLE address to pass to Connect.
	Address string
	// Name is the advertised local name.
	Name string
	// RSSI is the received signal strength in dBm.
	RSSI int16
}

// Scan reports Glimmer boards as their advertisements arrive, until
// ctx is done. A board is reported once per scan even when it
// advertises repeatedly. Running to the context deadline is normal
// completion for a scan, not an error.
func Scan(ctx context.Context, found func(Board), opts ...Option) error {
	cfg := &config{
		adapter:     bluetooth.DefaultAdapter,
		serviceUUID: ServiceUUID,
		commandUUID: CommandCharUUID,
		consoleUUID: ConsoleCharUUID,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return fmt.Errorf("apply option: %w", err)
		}
	}

	if err := cfg.adapter.Enable(); err != nil {
		return fmt.Errorf("enable BLE adapter: %w", err)
	}
	svcUUID, err := bluetooth.ParseUUID(cfg.serviceUUID)
	if err != nil {
		return fmt.Errorf("parse service UUID: %w", err)
	}

	seen := make(map[string]bool)
	scanDone := make(chan error, 1)

	go func() {
		scanDone <- cfg.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !matchesTarget("", result.LocalName(), result.Address.String(), result.HasServiceUUID(svcUUID)) {
				return
			}
			addr := result.Address.String()
			if seen[addr] {
				return
			}
			seen[addr] = true
			found(Board{
				Address: addr,
				Name:    result.LocalName(),
				RSSI:    result.RSSI,
			})
		})
	}()

	select {
	case <-ctx.Done():
		_ = cfg.adapter.StopScan()
		<-scanDone
		return nil
	case err := <-scanDone:
		if err != nil {
			return fmt.Errorf("scan for boards: %w", err)
		}
		return nil
	}
}
