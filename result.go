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

package glimmer

import "time"

// DeploymentResult summarizes a finished deployment.
type DeploymentResult struct {
	// BytesSent is the number of firmware bytes streamed in Data frames.
	BytesSent int

	// Chunks is the number of Data frames written.
	Chunks int

	// MTU is the frame budget negotiated for this deployment.
	MTU int

	// PayloadSize is the usable bytes per Data frame (MTU minus the
	// fixed header).
	PayloadSize int

	// Checksum is the CRC16 carried by the Program frame, computed over
	// the exact firmware buffer before chunking.
	Checksum uint16

	// Slot is the board storage slot the deployment targeted.
	Slot byte

	// Applied reports whether the board accepted the Program frame. A
	// result with Applied set but a non-nil ErrReloadFailed means only
	// the restart command failed.
	Applied bool

	// Elapsed is the wall-clock duration of the deployment.
	Elapsed time.Duration
}
