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

import (
	"bytes"
	"testing"
)

func TestControlFrames(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{
			name: "reset",
			got:  Reset(),
			want: []byte{0x01, 'R'},
		},
		{
			name: "reload",
			got:  Reload(),
			want: []byte{0x01, 'L'},
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !bytes.Equal(tt.got, tt.want) {
				t.Errorf("frame = % X, want % X", tt.got, tt.want)
			}
			if len(tt.got) != ControlFrameSize {
				t.Errorf("frame length = %d, want %d", len(tt.got), ControlFrameSize)
			}
		})
	}
}

func TestDataFrame(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		offset uint16
		chunk  []byte
		want   []byte
	}{
		{
			name:   "start of buffer",
			offset: 0,
			chunk:  []byte{0xAA, 0xBB, 0xCC},
			want:   []byte{0x01, 'D', 0x00, 0x00, 0x03, 0x00, 0xAA, 0xBB, 0xCC},
		},
		{
			name:   "little endian offset",
			offset: 0x0302,
			chunk:  []byte{0x7F},
			want:   []byte{0x01, 'D', 0x02, 0x03, 0x01, 0x00, 0x7F},
		},
		{
			name:   "empty chunk is header only",
			offset: 512,
			chunk:  nil,
			want:   []byte{0x01, 'D', 0x00, 0x02, 0x00, 0x00},
		},
		{
			name:   "maximum offset",
			offset: 0xFFFF,
			chunk:  []byte{0x01},
			want:   []byte{0x01, 'D', 0xFF, 0xFF, 0x01, 0x00, 0x01},
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Data(tt.offset, tt.chunk)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Data() = % X, want % X", got, tt.want)
			}
			if len(got) != DataHeaderSize+len(tt.chunk) {
				t.Errorf("Data() length = %d, want %d", len(got), DataHeaderSize+len(tt.chunk))
			}
		})
	}
}

func TestProgramFrame(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		totalLength uint16
		checksum    uint16
		slot        byte
		want        []byte
	}{
		{
			name:        "reference deployment",
			totalLength: 1000,
			checksum:    0x21DD,
			slot:        2,
			want:        []byte{0x01, 'P', 0xE8, 0x03, 0xDD, 0x21, 0x02, 0x00},
		},
		{
			name:        "empty firmware",
			totalLength: 0,
			checksum:    0xFFFF,
			slot:        2,
			want:        []byte{0x01, 'P', 0x00, 0x00, 0xFF, 0xFF, 0x02, 0x00},
		},
		{
			name:        "maximum length",
			totalLength: 0xFFFF,
			checksum:    0x0001,
			slot:        0,
			want:        []byte{0x01, 'P', 0xFF, 0xFF, 0x01, 0x00, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Program(tt.totalLength, tt.checksum, tt.slot)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Program() = % X, want % X", got, tt.want)
			}
			if len(got) != ProgramFrameSize {
				t.Errorf("Program() length = %d, want %d", len(got), ProgramFrameSize)
			}
		})
	}
}

// TestDataFrameFreshBuffer verifies each call allocates a new frame, so a
// frame already handed to a channel can never be mutated by a later build.
func TestDataFrameFreshBuffer(t *testing.T) {
	t.Parallel()
	chunk := []byte{0x11, 0x22}
	first := Data(0, chunk)
	first[len(first)-1] = 0x99

	second := Data(0, chunk)
	if second[len(second)-1] != 0x22 {
		t.Errorf("Data() reused a buffer across calls: % X", second)
	}
	if chunk[1] != 0x22 {
		t.Errorf("Data() mutated the caller's chunk: % X", chunk)
	}
}

// TestDataFrameDoesNotAliasChunk verifies the encoded frame owns its
// payload bytes independently of the caller's buffer.
func TestDataFrameDoesNotAliasChunk(t *testing.T) {
	t.Parallel()
	chunk := []byte{0x5A, 0x5B}
	got := Data(4, chunk)
	chunk[0] = 0x00
	if got[DataHeaderSize] != 0x5A {
		t.Errorf("Data() aliases the caller's chunk: % X", got)
	}
}
