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
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/glimmerkit/go-glimmer/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// patternFirmware builds a deterministic test buffer.
func patternFirmware(n int) []byte {
	fw := make([]byte, n)
	for i := range fw {
		fw[i] = byte(i*7 + 3)
	}
	return fw
}

type dataFrame struct {
	payload []byte
	offset  int
}

// decodeDataFrame validates the fixed Data header and returns the
// decoded offset and payload.
func decodeDataFrame(t *testing.T, raw []byte) dataFrame {
	t.Helper()
	require.GreaterOrEqual(t, len(raw), frame.DataHeaderSize)
	require.Equal(t, byte(frame.Version), raw[0])
	require.Equal(t, byte('D'), raw[1])
	offset := int(binary.LittleEndian.Uint16(raw[2:4]))
	length := int(binary.LittleEndian.Uint16(raw[4:6]))
	require.Len(t, raw, frame.DataHeaderSize+length, "length field must match payload")
	return dataFrame{offset: offset, payload: raw[frame.DataHeaderSize:]}
}

// dataFrameOffset decodes just the offset field of a Data frame.
func dataFrameOffset(raw []byte) int {
	return int(binary.LittleEndian.Uint16(raw[2:4]))
}

// decodeProgramFrame validates the Program layout and returns its fields.
func decodeProgramFrame(t *testing.T, raw []byte) (totalLength int, checksum uint16, slot, reserved byte) {
	t.Helper()
	require.Len(t, raw, frame.ProgramFrameSize)
	require.Equal(t, byte(frame.Version), raw[0])
	require.Equal(t, byte('P'), raw[1])
	totalLength = int(binary.LittleEndian.Uint16(raw[2:4]))
	checksum = binary.LittleEndian.Uint16(raw[4:6])
	return totalLength, checksum, raw[6], raw[7]
}

// TestTransfer_ChunkCoverage verifies, across firmware sizes and frame
// budgets, that chunk offsets start at zero, increase strictly,
// leave no gaps, and that reassembling the payloads in order
// reproduces the deployed buffer exactly.
func TestTransfer_ChunkCoverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		mtu  int
	}{
		{name: "Empty_Buffer", size: 0, mtu: 23},
		{name: "Single_Byte", size: 1, mtu: 7},
		{name: "Minimum_Budget", size: 50, mtu: 7},
		{name: "Payload_Boundary_Exact", size: 68, mtu: 23}, // 4 full chunks of 17
		{name: "Payload_Boundary_Plus_One", size: 69, mtu: 23},
		{name: "Reference_Scenario", size: 1000, mtu: 23},
		{name: "Default_Budget", size: 333, mtu: 20},
		{name: "Large_Budget", size: 4096, mtu: 512},
		{name: "Maximum_Firmware", size: 65535, mtu: 512},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fw := patternFirmware(tt.size)
			ch := &mtuRequestChannel{MockChannel: NewMockChannel(), grant: tt.mtu}
			session, err := NewSession(ch)
			require.NoError(t, err)

			result, err := session.Deploy(fw, 2)
			require.NoError(t, err)

			frames := ch.Frames()
			require.GreaterOrEqual(t, len(frames), 2)
			dataFrames := frames[:len(frames)-2]

			payloadSize := tt.mtu - frame.DataHeaderSize
			var reassembled []byte
			next := 0
			for i, raw := range dataFrames {
				df := decodeDataFrame(t, raw)
				require.Equal(t, next, df.offset, "chunk %d must continue where the last ended", i)
				require.NotEmpty(t, df.payload)
				require.LessOrEqual(t, len(df.payload), payloadSize)
				reassembled = append(reassembled, df.payload...)
				next = df.offset + len(df.payload)
			}
			assert.True(t, bytes.Equal(fw, reassembled), "reassembled payloads must reproduce the firmware")
			assert.Equal(t, len(fw), result.BytesSent)
			assert.Equal(t, len(dataFrames), result.Chunks)
			assert.Equal(t, chunkCount(tt.size, payloadSize), len(dataFrames))

			length, crc, slot, reserved := decodeProgramFrame(t, frames[len(frames)-2])
			assert.Equal(t, len(fw), length)
			assert.Equal(t, frame.Checksum16(frame.ChecksumPoly, frame.ChecksumSeed, fw), crc)
			assert.Equal(t, byte(2), slot)
			assert.Equal(t, byte(0), reserved)

			assert.Equal(t, []byte{0x01, 'L'}, frames[len(frames)-1])
		})
	}
}

// TestTransfer_ProgramCoversOriginalBuffer verifies the Program frame
// reflects the exact buffer handed to Deploy even when a chunk-sized
// view of it would differ, by checking the checksum is computed before
// chunking across several budgets.
func TestTransfer_ProgramCoversOriginalBuffer(t *testing.T) {
	t.Parallel()

	fw := patternFirmware(500)
	wantCRC := frame.Checksum16(frame.ChecksumPoly, frame.ChecksumSeed, fw)

	for _, mtu := range []int{7, 20, 23, 64, 512} {
		mtu := mtu // capture loop variable
		t.Run(fmt.Sprintf("mtu_%d", mtu), func(t *testing.T) {
			t.Parallel()
			ch := &mtuRequestChannel{MockChannel: NewMockChannel(), grant: mtu}
			session, err := NewSession(ch)
			require.NoError(t, err)

			result, err := session.Deploy(fw, 2)
			require.NoError(t, err)
			assert.Equal(t, wantCRC, result.Checksum, "checksum independent of chunking at mtu %d", mtu)

			frames := ch.Frames()
			_, crc, _, _ := decodeProgramFrame(t, frames[len(frames)-2])
			assert.Equal(t, wantCRC, crc)
		})
	}
}

func TestChunkCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		total       int
		payloadSize int
		want        int
	}{
		{name: "empty", total: 0, payloadSize: 17, want: 0},
		{name: "single partial", total: 10, payloadSize: 17, want: 1},
		{name: "exact fit", total: 34, payloadSize: 17, want: 2},
		{name: "one over", total: 35, payloadSize: 17, want: 3},
		{name: "reference scenario", total: 1000, payloadSize: 17, want: 59},
		{name: "byte at a time", total: 5, payloadSize: 1, want: 5},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := chunkCount(tt.total, tt.payloadSize); got != tt.want {
				t.Errorf("chunkCount(%d, %d) = %d, want %d", tt.total, tt.payloadSize, got, tt.want)
			}
		})
	}
}
