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

package journal

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	glimmer "github.com/glimmerkit/go-glimmer"
)

func sampleEntry() Entry {
	return Entry{
		Time:      time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Board:     "GLM-S2-4F2A",
		Channel:   "ble",
		Slot:      2,
		BytesSent: 1000,
		Chunks:    59,
		MTU:       23,
		Checksum:  0x21DD,
		Applied:   true,
		Elapsed:   1400 * time.Millisecond,
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)

	first := sampleEntry()
	second := sampleEntry()
	second.Board = "GLM-C1-0B11"
	second.Applied = false
	second.Error = "reload rejected: link lost"

	require.NoError(t, w.Append(first))
	require.NoError(t, w.Append(second))

	entries, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, first.Board, entries[0].Board)
	assert.Equal(t, first.Checksum, entries[0].Checksum)
	assert.Equal(t, first.Chunks, entries[0].Chunks)
	assert.Equal(t, first.Elapsed, entries[0].Elapsed)
	assert.True(t, entries[0].Applied)
	assert.Empty(t, entries[0].Error)

	assert.Equal(t, "GLM-C1-0B11", entries[1].Board)
	assert.False(t, entries[1].Applied)
	assert.Equal(t, "reload rejected: link lost", entries[1].Error)
}

func TestReaderTruncatedRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Append(sampleEntry()))
	require.NoError(t, w.Append(sampleEntry()))

	// Cut the final record short, as a crash mid-append would.
	data := buf.Bytes()[:buf.Len()-5]

	entries, err := ReadAll(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrTruncated)
	assert.Len(t, entries, 1, "records before the truncation point survive")
}

func TestReaderTruncatedPrefix(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Append(sampleEntry()))
	buf.Write([]byte{0x00, 0x00}) // half a length prefix

	entries, err := ReadAll(&buf)
	require.ErrorIs(t, err, ErrTruncated)
	assert.Len(t, entries, 1)
}

func TestReaderOversizeRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	_, err := NewReader(&buf).Next()
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestOpenAppendsAcrossRuns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deployments.journal")

	w, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(sampleEntry()))
	require.NoError(t, w.Close())

	// A second run appends rather than overwrites.
	w, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(sampleEntry()))
	require.NoError(t, w.Close())

	entries, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFromResult(t *testing.T) {
	t.Parallel()

	t.Run("successful deployment", func(t *testing.T) {
		t.Parallel()
		result := &glimmer.DeploymentResult{
			BytesSent:   1000,
			Chunks:      59,
			MTU:         23,
			PayloadSize: 17,
			Checksum:    0x21DD,
			Slot:        2,
			Applied:     true,
			Elapsed:     2 * time.Second,
		}

		e := FromResult(result, glimmer.KindBLE, "GLM-S2-4F2A", nil)
		assert.Equal(t, "ble", e.Channel)
		assert.Equal(t, "GLM-S2-4F2A", e.Board)
		assert.Equal(t, 1000, e.BytesSent)
		assert.Equal(t, 59, e.Chunks)
		assert.Equal(t, uint16(0x21DD), e.Checksum)
		assert.True(t, e.Applied)
		assert.Empty(t, e.Error)
		assert.False(t, e.Time.IsZero())
	})

	t.Run("failed before result", func(t *testing.T) {
		t.Parallel()
		e := FromResult(nil, glimmer.KindUART, "/dev/ttyUSB0", errors.New("transfer aborted at offset 340"))
		assert.Equal(t, "uart", e.Channel)
		assert.Zero(t, e.BytesSent)
		assert.False(t, e.Applied)
		assert.Equal(t, "transfer aborted at offset 340", e.Error)
	})
}
