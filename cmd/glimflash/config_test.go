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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	cfg := defaultSettings()

	if cfg.Channel != "ble" {
		t.Errorf("Channel = %q, want %q", cfg.Channel, "ble")
	}
	if cfg.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want 115200", cfg.BaudRate)
	}
	if cfg.Slot != -1 {
		t.Errorf("Slot = %d, want -1", cfg.Slot)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Plain {
		t.Error("Plain = true, want false")
	}
}

func TestMergeFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
channel = "uart"
port = "/dev/ttyUSB0"
baud_rate = 230400
board = "S2"
journal = "/var/log/glimflash.journal"
log_level = "debug"
plain = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := defaultSettings()
	if err := mergeFile(&cfg, path); err != nil {
		t.Fatalf("mergeFile: %v", err)
	}

	if cfg.Channel != "uart" {
		t.Errorf("Channel = %q, want %q", cfg.Channel, "uart")
	}
	if cfg.Port != "/dev/ttyUSB0" {
		t.Errorf("Port = %q, want %q", cfg.Port, "/dev/ttyUSB0")
	}
	if cfg.BaudRate != 230400 {
		t.Errorf("BaudRate = %d, want 230400", cfg.BaudRate)
	}
	if cfg.Board != "S2" {
		t.Errorf("Board = %q, want %q", cfg.Board, "S2")
	}
	if cfg.Journal != "/var/log/glimflash.journal" {
		t.Errorf("Journal = %q, want %q", cfg.Journal, "/var/log/glimflash.journal")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if !cfg.Plain {
		t.Error("Plain = false, want true")
	}
}

// A key set to its type's zero value must still override the default.
func TestMergeFileZeroValueOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("slot = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := defaultSettings()
	if err := mergeFile(&cfg, path); err != nil {
		t.Fatalf("mergeFile: %v", err)
	}

	if cfg.Slot != 0 {
		t.Errorf("Slot = %d, want 0", cfg.Slot)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Channel != "ble" {
		t.Errorf("Channel = %q, want %q", cfg.Channel, "ble")
	}
	if cfg.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want 115200", cfg.BaudRate)
	}
}

func TestMergeFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("channel = [broken\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := defaultSettings()
	err := mergeFile(&cfg, path)
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
	if !strings.Contains(err.Error(), "load glimflash config") {
		t.Errorf("error = %q, want mention of config load", err)
	}
}
