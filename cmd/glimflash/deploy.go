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
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	glimmer "github.com/glimmerkit/go-glimmer"
	"github.com/glimmerkit/go-glimmer/boards"
	"github.com/glimmerkit/go-glimmer/journal"
)

func deployCommand() *cli.Command {
	flags := append(channelFlags(),
		&cli.IntFlag{
			Name:  "slot",
			Usage: "Board storage slot to flash (default: the board profile's slot)",
			Value: -1,
		},
		&cli.StringFlag{
			Name:  "journal",
			Usage: "Append the deployment outcome to this journal file",
		},
		&cli.StringFlag{
			Name:  "compile",
			Usage: "Compiler command to build the file before flashing (image read from its stdout)",
		},
		&cli.BoolFlag{
			Name:  "plain",
			Usage: "Log progress line by line instead of drawing the progress screen",
		},
	)

	return &cli.Command{
		Name:      "deploy",
		Usage:     "Compile (optionally) and flash a program to a board",
		ArgsUsage: "<file>",
		Flags:     flags,
		Action:    runDeploy,
	}
}

func runDeploy(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: glimflash deploy [options] <file>", 2)
	}

	cfg, err := loadSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	log := newLogger(cfg.LogLevel)

	ctx, cancel := signalContext()
	defer cancel()

	firmware, err := loadFirmware(ctx, c.Args().First(), c.String("compile"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	// Reject oversized or empty images before any radio work.
	if err := glimmer.ValidateFirmware(firmware); err != nil {
		return cli.Exit(fmt.Sprintf("firmware: %v", err), 1)
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	profile, err := resolveProfile(catalog, cfg)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	slot, err := resolveSlot(cfg, profile)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	log.Info().
		Str("channel", cfg.Channel).
		Int("bytes", len(firmware)).
		Uint8("slot", slot).
		Msg("starting deployment")

	ch, err := openChannel(ctx, cfg, profile)
	if err != nil {
		return cli.Exit(fmt.Sprintf("open %s channel: %v", cfg.Channel, err), 1)
	}
	defer ch.Close()

	result, deployErr := runDeployment(ctx, ch, firmware, slot, cfg, log)

	if cfg.Journal != "" {
		if err := appendJournal(cfg.Journal, result, ch.Kind(), cfg.Board, deployErr); err != nil {
			log.Error().Err(err).Str("journal", cfg.Journal).Msg("journal append failed")
		}
	}

	if deployErr != nil {
		if result != nil && result.Applied {
			// The image landed; only the restart command was lost.
			fmt.Fprintln(os.Stderr, "firmware stored on the board; power-cycle it to start the new program")
		}
		return cli.Exit(fmt.Sprintf("deploy: %v", deployErr), 1)
	}

	fmt.Println(renderSummary(result))
	return nil
}

// runDeployment drives the session, either behind the progress screen
// or with plain logging.
func runDeployment(
	ctx context.Context,
	ch glimmer.Channel,
	firmware []byte,
	slot byte,
	cfg settings,
	log zerolog.Logger,
) (*glimmer.DeploymentResult, error) {
	if cfg.Plain {
		session, err := glimmer.NewSession(ch,
			glimmer.WithLogger(sessionLogger{log: log}),
			glimmer.WithProgress(logProgress(log)),
		)
		if err != nil {
			return nil, err
		}
		return session.DeployContext(ctx, firmware, slot)
	}
	return deployWithScreen(ctx, ch, firmware, slot, log)
}

// logProgress reports transfer progress as log lines, roughly one per
// five percent so slow serial links do not flood the output.
func logProgress(log zerolog.Logger) glimmer.ProgressFunc {
	lastPercent := -1
	return func(p glimmer.Progress) {
		if p.State != glimmer.StateTransferring || p.Total == 0 {
			return
		}
		percent := p.Offset * 100 / p.Total
		if percent/5 == lastPercent/5 && lastPercent >= 0 {
			return
		}
		lastPercent = percent
		log.Info().
			Int("offset", p.Offset).
			Int("total", p.Total).
			Int("percent", percent).
			Msg("transferring")
	}
}

// resolveSlot applies the precedence: explicit --slot, then the board
// profile's default, then the library default.
func resolveSlot(cfg settings, profile *boards.Profile) (byte, error) {
	slot := int(glimmer.DefaultSlot)
	if profile != nil {
		slot = int(profile.DefaultSlot)
	}
	if cfg.Slot >= 0 {
		slot = cfg.Slot
	}

	if slot > 0xFF {
		return 0, fmt.Errorf("slot %d out of range", slot)
	}
	if profile != nil && slot >= profile.Slots {
		return 0, fmt.Errorf("slot %d out of range for %s (%d slots)",
			slot, profile.Name, profile.Slots)
	}
	return byte(slot), nil
}

func appendJournal(
	path string,
	result *glimmer.DeploymentResult,
	kind glimmer.Kind,
	board string,
	deployErr error,
) error {
	w, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Append(journal.FromResult(result, kind, board, deployErr))
}
