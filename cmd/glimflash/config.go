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
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"

	"github.com/glimmerkit/go-glimmer/channel/uart"
)

// settings holds the resolved configuration for a glimflash run.
// Values come from built-in defaults, then the config file, then
// command-line flags, each layer overriding the one before it.
type settings struct {
	Channel    string
	Target     string
	Port       string
	BaudRate   int
	Bus        string
	Board      string
	Slot       int // -1 means use the board profile's default
	Journal    string
	LogLevel   string
	Plain      bool
	BoardsFile string
}

// fileConfig mirrors the config file layout. Pointer-free on purpose:
// toml.MetaData tells us which keys were actually present.
type fileConfig struct {
	Channel    string `toml:"channel"`
	Target     string `toml:"target"`
	Port       string `toml:"port"`
	BaudRate   int    `toml:"baud_rate"`
	Bus        string `toml:"bus"`
	Board      string `toml:"board"`
	Slot       int    `toml:"slot"`
	Journal    string `toml:"journal"`
	LogLevel   string `toml:"log_level"`
	Plain      bool   `toml:"plain"`
	BoardsFile string `toml:"boards_file"`
}

func defaultSettings() settings {
	return settings{
		Channel:  "ble",
		BaudRate: uart.DefaultBaudRate,
		Slot:     -1,
		LogLevel: "info",
	}
}

// defaultConfigPath returns the per-user config file location, or ""
// when the user config directory cannot be determined.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "glimflash", "config.toml")
}

// loadSettings resolves settings for a command invocation. An explicit
// --config path must exist; the default path is loaded only when
// present.
func loadSettings(c *cli.Context) (settings, error) {
	cfg := defaultSettings()

	path := c.String("config")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := mergeFile(&cfg, path); err != nil {
				return settings{}, err
			}
		} else if explicit {
			return settings{}, fmt.Errorf("config file not found: %s", path)
		}
	}

	mergeFlags(&cfg, c)
	return cfg, nil
}

// mergeFile overlays values from a TOML file onto cfg. Only keys that
// are present in the file override the current values.
func mergeFile(cfg *settings, path string) error {
	var file fileConfig
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return fmt.Errorf("load glimflash config: %w", err)
	}

	if meta.IsDefined("channel") {
		cfg.Channel = file.Channel
	}
	if meta.IsDefined("target") {
		cfg.Target = file.Target
	}
	if meta.IsDefined("port") {
		cfg.Port = file.Port
	}
	if meta.IsDefined("baud_rate") {
		cfg.BaudRate = file.BaudRate
	}
	if meta.IsDefined("bus") {
		cfg.Bus = file.Bus
	}
	if meta.IsDefined("board") {
		cfg.Board = file.Board
	}
	if meta.IsDefined("slot") {
		cfg.Slot = file.Slot
	}
	if meta.IsDefined("journal") {
		cfg.Journal = file.Journal
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = file.LogLevel
	}
	if meta.IsDefined("plain") {
		cfg.Plain = file.Plain
	}
	if meta.IsDefined("boards_file") {
		cfg.BoardsFile = file.BoardsFile
	}
	return nil
}

// mergeFlags overlays command-line flags onto cfg. Flags win over the
// config file, but only when the user actually set them.
func mergeFlags(cfg *settings, c *cli.Context) {
	for _, name := range c.FlagNames() {
		if !c.IsSet(name) {
			continue
		}
		switch name {
		case "channel":
			cfg.Channel = c.String(name)
		case "target":
			cfg.Target = c.String(name)
		case "port":
			cfg.Port = c.String(name)
		case "baud-rate":
			cfg.BaudRate = c.Int(name)
		case "bus":
			cfg.Bus = c.String(name)
		case "board":
			cfg.Board = c.String(name)
		case "slot":
			cfg.Slot = c.Int(name)
		case "journal":
			cfg.Journal = c.String(name)
		case "log-level":
			cfg.LogLevel = c.String(name)
		case "plain":
			cfg.Plain = c.Bool(name)
		case "boards-file":
			cfg.BoardsFile = c.String(name)
		}
	}
}

// channelFlags are shared by every command that talks to a board.
func channelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "channel",
			Usage: "Channel to reach the board: ble, uart, i2c",
		},
		&cli.StringFlag{
			Name:  "target",
			Usage: "BLE board name or address (default: first Glimmer board found)",
		},
		&cli.StringFlag{
			Name:  "port",
			Usage: "Serial port for the uart channel (e.g. /dev/ttyUSB0)",
		},
		&cli.IntFlag{
			Name:  "baud-rate",
			Usage: "Baud rate for the uart channel",
		},
		&cli.StringFlag{
			Name:  "bus",
			Usage: "Bus name for the i2c channel (e.g. /dev/i2c-1)",
		},
		&cli.StringFlag{
			Name:  "board",
			Usage: "Board model the profile catalog should use (e.g. S2)",
		},
		&cli.StringFlag{
			Name:  "boards-file",
			Usage: "YAML file with additional board profiles",
		},
	}
}
