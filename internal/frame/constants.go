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

// Package frame provides wire-format encoding and protocol constants for Glimmer board communication
package frame

// Version is the protocol revision byte carried as the first byte of every frame.
const Version = 0x01

// Command tags - the second byte of every frame selects the command
const (
	TagReset   = 'R' // Drop VM state and return the board to its boot program
	TagReload  = 'L' // Apply the staged program and restart the VM
	TagData    = 'D' // Carry one firmware chunk at an explicit offset
	TagProgram = 'P' // Finalize: total length, checksum and target slot
)

// Frame sizes
const (
	ControlFrameSize = 2 // version + tag (Reset and Reload carry no body)
	DataHeaderSize   = 6 // version + tag + offset(2) + length(2), fixed regardless of MTU
	ProgramFrameSize = 8 // version + tag + totalLength(2) + crc16(2) + slot + reserved
)

// Protocol limits
const (
	MaxFirmwareSize = 0xFFFF // offsets and lengths travel in 16-bit fields
)

// Checksum parameters for firmware integrity verification
const (
	ChecksumPoly = 0xD175 // reflected CRC16 polynomial
	ChecksumSeed = 0xFFFF // initial accumulator value
)
