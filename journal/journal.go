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

// Package journal records deployment outcomes to an append-only log.
//
// Each record is a msgpack document behind a 4-byte big-endian length
// prefix, so a journal survives interleaved appends from sequential
// runs and can be scanned without parsing records it skips. A record
// cut short by a crash is reported as ErrTruncated rather than
// silently dropped.
package journal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	glimmer "github.com/glimmerkit/go-glimmer"
)

const (
	// MaxRecordSize bounds a single record, including its prefix.
	// Deployment records are tiny; anything near this limit is a
	// corrupt journal.
	MaxRecordSize = 64 * 1024

	lengthPrefixSize = 4
)

var (
	// ErrTruncated reports a record cut short, usually by a crash
	// mid-append.
	ErrTruncated = errors.New("journal record truncated")
	// ErrTooLarge reports a length prefix beyond MaxRecordSize.
	ErrTooLarge = errors.New("journal record too large")
)

// Entry is one deployment outcome.
type Entry struct {
	// Time is when the deployment finished.
	Time time.Time `msgpack:"time"`
	// Board identifies the target: an advertised name, serial port,
	// or bus address.
	Board string `msgpack:"board,omitempty"`
	// Channel is the channel kind the deployment ran over.
	Channel string `msgpack:"channel"`
	// Slot is the firmware slot written.
	Slot byte `msgpack:"slot"`
	// BytesSent counts firmware bytes delivered.
	BytesSent int `msgpack:"bytes_sent"`
	// Chunks counts data frames delivered.
	Chunks int `msgpack:"chunks"`
	// MTU is the negotiated frame size.
	MTU int `msgpack:"mtu"`
	// Checksum is the firmware checksum sent in the program frame.
	Checksum uint16 `msgpack:"checksum"`
	// Applied reports whether the board accepted the program frame.
	Applied bool `msgpack:"applied"`
	// Elapsed is the wall-clock deployment duration.
	Elapsed time.Duration `msgpack:"elapsed"`
	// Error holds the failure text; empty for a clean deployment.
	Error string `msgpack:"error,omitempty"`
}

// FromResult builds an entry from a finished deployment. The result
// may be nil when the deployment failed before producing one.
func FromResult(result *glimmer.DeploymentResult, kind glimmer.Kind, board string, deployErr error) Entry {
	e := Entry{
		Time:    time.Now(),
		Board:   board,
		Channel: string(kind),
	}
	if result != nil {
		e.Slot = result.Slot
		e.BytesSent = result.BytesSent
		e.Chunks = result.Chunks
		e.MTU = result.MTU
		e.Checksum = result.Checksum
		e.Applied = result.Applied
		e.Elapsed = result.Elapsed
	}
	if deployErr != nil {
		e.Error = deployErr.Error()
	}
	return e
}

// Writer appends records to a journal stream.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewWriter returns a writer appending to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Open opens or creates a journal file for appending.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &Writer{w: f, closer: f}, nil
}

// Append writes one record. The prefix and payload go out in a single
// write so concurrent appenders on O_APPEND files do not interleave.
func (w *Writer) Append(e Entry) error {
	payload, err := msgpack.Marshal(&e)
	if err != nil {
		return fmt.Errorf("encode journal record: %w", err)
	}
	if lengthPrefixSize+len(payload) > MaxRecordSize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, lengthPrefixSize+len(payload))
	}

	record := make([]byte, lengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(record[:lengthPrefixSize], uint32(len(payload)))
	copy(record[lengthPrefixSize:], payload)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(record); err != nil {
		return fmt.Errorf("append journal record: %w", err)
	}
	return nil
}

// Close closes the underlying file, if the writer owns one.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// Reader scans records from a journal stream.
type Reader struct {
	r io.Reader
}

// NewReader returns a reader scanning r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next record. It returns io.EOF at a clean end of
// the journal and ErrTruncated when the final record was cut short.
func (r *Reader) Next() (Entry, error) {
	var lengthBuf [lengthPrefixSize]byte
	if _, err := io.ReadFull(r.r, lengthBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Entry{}, io.EOF
		}
		return Entry{}, fmt.Errorf("%w: length prefix cut short", ErrTruncated)
	}

	size := binary.BigEndian.Uint32(lengthBuf[:])
	if int(size) > MaxRecordSize-lengthPrefixSize {
		return Entry{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return Entry{}, fmt.Errorf("%w: payload cut short", ErrTruncated)
	}

	var e Entry
	if err := msgpack.Unmarshal(payload, &e); err != nil {
		return Entry{}, fmt.Errorf("decode journal record: %w", err)
	}
	return e, nil
}

// ReadAll scans every record until the end of the stream. Records
// before a truncation point are returned along with the error.
func ReadAll(r io.Reader) ([]Entry, error) {
	var entries []Entry
	reader := NewReader(r)
	for {
		e, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
}

// ReadFile scans every record in a journal file.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	defer f.Close()
	return ReadAll(f)
}
