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

package frame

import "encoding/binary"

// Every encoder returns a freshly allocated, exact-length buffer.
// Encoding is total for inputs within declared ranges; range checks
// (firmware size, chunk budget) belong to the caller, which must reject
// out-of-range values before encoding rather than truncate here.

// Reset encodes the fire-and-forget reset command.
func Reset() []byte {
	return []byte{Version, TagReset}
}

// Reload encodes the command that applies the staged program and restarts the VM.
func Reload() []byte {
	return []byte{Version, TagReload}
}

// Data encodes one firmware chunk. offset is the chunk's position within
// the original firmware buffer. The caller guarantees len(chunk) fits in
// 16 bits and respects the negotiated payload budget.
func Data(offset uint16, chunk []byte) []byte {
	buf := make([]byte, DataHeaderSize, DataHeaderSize+len(chunk))
	buf[0] = Version
	buf[1] = TagData
	binary.LittleEndian.PutUint16(buf[2:4], offset)
	binary.LittleEndian.PutUint16(buf[4:6], uint16(len(chunk)))
	return append(buf, chunk...)
}

// Program encodes the finalize command. totalLength and checksum describe
// the exact buffer that was chunked, computed before chunking began, so
// the board can detect a substituted or torn transfer. slot selects the
// board-side storage location for the staged program.
func Program(totalLength, checksum uint16, slot byte) []byte {
	buf := make([]byte, ProgramFrameSize)
	buf[0] = Version
	buf[1] = TagProgram
	binary.LittleEndian.PutUint16(buf[2:4], totalLength)
	binary.LittleEndian.PutUint16(buf[4:6], checksum)
	buf[6] = slot
	buf[7] = 0x00 // reserved
	return buf
}
