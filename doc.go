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

/*
Package glimmer deploys compiled bytecode to Glimmer LED-badge boards.

Glimmer boards run a small bytecode VM with numbered firmware slots. This
library implements the host side of their deployment wire protocol: MTU
negotiation, chunked transfer of the firmware buffer as Data frames, a
finalizing Program frame carrying length and CRC16, and the Reload command
that makes the board apply and run the staged program. The protocol is the
same over every link; channels for BLE, UART and I2C live in subpackages.

Features:
  - Multiple channel support: BLE, UART, I2C
  - MTU negotiation with a conservative fallback for fixed-budget links
  - Ordered chunked transfer with fail-fast abort on any write error
  - End-to-end CRC16 integrity over the exact deployed buffer
  - Structured progress callbacks and pluggable logging
  - Board console forwarding for channels that deliver notifications

Basic Usage:

	import (
	    "github.com/glimmerkit/go-glimmer"
	    "github.com/glimmerkit/go-glimmer/channel/uart"
	)

	// Open a serial channel to the board
	ch, err := uart.Open("/dev/ttyACM0")
	if err != nil {
	    log.Fatal(err)
	}
	defer ch.Close()

	// Create a session with progress reporting
	session, err := glimmer.NewSession(ch,
	    glimmer.WithProgress(func(p glimmer.Progress) {
	        fmt.Printf("%s %d/%d bytes\n", p.State, p.Offset, p.Total)
	    }),
	)
	if err != nil {
	    log.Fatal(err)
	}

	// Deploy a compiled program into slot 2 and restart the board
	result, err := session.Deploy(firmware, 2)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Printf("deployed %d bytes in %d chunks\n", result.BytesSent, result.Chunks)

Channel Selection:

The library supports multiple channel kinds:

  - BLE: the boards' native link; MTU is read from the connection
  - UART: wired deployment and debugging over USB serial adapters
  - I2C: bench rigs driving badges over the expansion header

Deployment Semantics:

A failed chunk write aborts the whole deployment; chunks are never
retried individually because a partial upload would leave the slot in an
indeterminate state. Retry means a fresh deployment, which renegotiates
the MTU. A Reload failure is reported but the staged program was already
accepted; see DeploymentResult.Applied.

Error Handling:

All operations return meaningful errors that can be inspected:

	if errors.Is(err, glimmer.ErrTransferAborted) {
	    // Reset the board and redeploy
	}

Thread Safety:

A session runs one deployment at a time; a concurrent Deploy call
returns ErrSessionBusy. Sessions sharing one channel must be serialized
by the caller.
*/
package glimmer
