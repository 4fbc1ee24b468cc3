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

import "github.com/glimmerkit/go-glimmer/internal/frame"

// MaxFirmwareSize is the largest firmware buffer the wire format can
// carry; offsets and lengths travel in 16-bit fields.
const MaxFirmwareSize = frame.MaxFirmwareSize

// ValidateFirmware checks fw against the wire format's limits without
// touching a channel. Deploy performs the same check; calling this
// first lets tooling reject an oversized build before connecting to a
// board.
func ValidateFirmware(fw []byte) error {
	if len(fw) > MaxFirmwareSize {
		return &LimitError{Field: "firmware size", Value: len(fw), Limit: MaxFirmwareSize}
	}
	return nil
}

// PayloadSize returns the usable bytes per Data frame at a given frame
// budget. It is negative or zero for budgets below the minimum viable
// frame size.
func PayloadSize(mtu int) int {
	return mtu - frame.DataHeaderSize
}
