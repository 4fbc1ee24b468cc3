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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	glimmer "github.com/glimmerkit/go-glimmer"
	"github.com/glimmerkit/go-glimmer/channel/ble"
	"github.com/glimmerkit/go-glimmer/channel/uart"
)

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:   "reset",
		Usage:  "Restart whatever program a board is running",
		Flags:  channelFlags(),
		Action: runReset,
	}
}

func runReset(c *cli.Context) error {
	cfg, err := loadSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	log := newLogger(cfg.LogLevel)

	ctx, cancel := signalContext()
	defer cancel()

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	profile, err := resolveProfile(catalog, cfg)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ch, err := openChannel(ctx, cfg, profile)
	if err != nil {
		return cli.Exit(fmt.Sprintf("open %s channel: %v", cfg.Channel, err), 1)
	}
	defer ch.Close()

	session, err := glimmer.NewSession(ch, glimmer.WithLogger(sessionLogger{log: log}))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := session.ResetContext(ctx); err != nil {
		return cli.Exit(fmt.Sprintf("reset: %v", err), 1)
	}

	fmt.Println("board reset")
	return nil
}

func consoleCommand() *cli.Command {
	return &cli.Command{
		Name:   "console",
		Usage:  "Stream a board's console output until interrupted",
		Flags:  channelFlags(),
		Action: runConsole,
	}
}

func runConsole(c *cli.Context) error {
	cfg, err := loadSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctx, cancel := signalContext()
	defer cancel()

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	profile, err := resolveProfile(catalog, cfg)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ch, err := openChannel(ctx, cfg, profile)
	if err != nil {
		return cli.Exit(fmt.Sprintf("open %s channel: %v", cfg.Channel, err), 1)
	}
	defer ch.Close()

	notifier, ok := ch.(glimmer.Notifier)
	if !ok {
		return cli.Exit(fmt.Sprintf("the %s channel cannot stream console output", cfg.Channel), 1)
	}
	if err := notifier.Subscribe(func(p []byte) {
		_, _ = os.Stdout.Write(p)
	}); err != nil {
		return cli.Exit(fmt.Sprintf("console: %v", err), 1)
	}

	fmt.Fprintln(os.Stderr, "streaming console output, Ctrl-C to stop")
	<-ctx.Done()
	return nil
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "List boards advertising over BLE",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Stop scanning after this long",
				Value: 10 * time.Second,
			},
		},
		Action: runScan,
	}
}

func runScan(c *cli.Context) error {
	ctx, cancel := signalContext()
	defer cancel()

	scanCtx, stop := context.WithTimeout(ctx, c.Duration("timeout"))
	defer stop()

	fmt.Fprintln(os.Stderr, "scanning for boards, Ctrl-C to stop")

	count := 0
	err := ble.Scan(scanCtx, func(b ble.Board) {
		count++
		fmt.Println(renderBoard(b))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return cli.Exit(fmt.Sprintf("scan: %v", err), 1)
	}

	if count == 0 {
		fmt.Println("no boards found")
	}
	return nil
}

func portsCommand() *cli.Command {
	return &cli.Command{
		Name:   "ports",
		Usage:  "List serial ports a board may be attached to",
		Action: runPorts,
	}
}

func runPorts(_ *cli.Context) error {
	ports, err := uart.Ports()
	if err != nil {
		return cli.Exit(fmt.Sprintf("list ports: %v", err), 1)
	}
	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return nil
	}

	for _, p := range ports {
		if p.Name != "" && p.Name != p.Path {
			fmt.Printf("%s\t%s\n", p.Path, p.Name)
			continue
		}
		fmt.Println(p.Path)
	}
	return nil
}
