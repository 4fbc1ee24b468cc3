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

import (
	"context"

	"github.com/glimmerkit/go-glimmer/internal/frame"
)

// sendChunks streams the firmware buffer as Data frames. The checksum
// and total length are fixed from the exact buffer before the first
// chunk goes out, so a later substitution or torn transfer is
// detectable by the board. Chunks leave in strictly increasing offset
// order covering the buffer contiguously; a failed write aborts the
// whole transfer because a partial upload is never acceptable.
func (s *Session) sendChunks(ctx context.Context, d *deployment) error {
	d.crc = frame.Checksum16(frame.ChecksumPoly, frame.ChecksumSeed, d.firmware)
	d.payloadSize = d.mtu - frame.DataHeaderSize
	if d.payloadSize < 1 {
		return &LimitError{Field: "payload size", Value: d.payloadSize, Limit: 1}
	}
	d.chunks = chunkCount(len(d.firmware), d.payloadSize)

	total := len(d.firmware)
	for offset := 0; offset < total; offset += d.payloadSize {
		if err := ctx.Err(); err != nil {
			return &TransferError{Offset: offset, Err: err}
		}
		end := offset + d.payloadSize
		if end > total {
			end = total
		}
		if err := s.channel.Write(ctx, frame.Data(uint16(offset), d.firmware[offset:end])); err != nil {
			return &TransferError{Offset: offset, Err: err}
		}
		d.sent++
		d.offset = end
		s.logDebug("chunk written",
			"offset", offset, "size", end-offset, "chunk", d.sent, "chunks", d.chunks)
		s.report(StateTransferring, d)
	}
	return nil
}

// sendProgram finalizes the transfer with the Program frame carrying
// the precomputed length, checksum and target slot.
func (s *Session) sendProgram(ctx context.Context, d *deployment) error {
	f := frame.Program(uint16(len(d.firmware)), d.crc, d.slot)
	if err := s.channel.Write(ctx, f); err != nil {
		return &FinalizeError{Err: err}
	}
	s.logDebug("program frame written",
		"length", len(d.firmware), "checksum", d.crc, "slot", d.slot)
	return nil
}

// sendReload asks the board to apply the staged program and restart its
// VM. By this point the board has accepted all bytes and metadata, so a
// failure here does not roll anything back; the board owns atomicity of
// the apply.
func (s *Session) sendReload(ctx context.Context, d *deployment) error {
	if err := s.channel.Write(ctx, frame.Reload()); err != nil {
		return &ReloadError{Err: err}
	}
	s.logDebug("reload written", "slot", d.slot)
	return nil
}

// chunkCount returns the number of Data frames a buffer of length total
// needs at the given payload budget. An empty buffer needs none.
func chunkCount(total, payloadSize int) int {
	if total == 0 {
		return 0
	}
	return (total + payloadSize - 1) / payloadSize
}
