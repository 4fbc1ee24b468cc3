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
	"sync"
)

// MockChannel is an in-memory Channel that records every frame written
// to it. WriteFunc, when set, decides the outcome of each write before
// the frame is recorded; a failed write is not recorded.
type MockChannel struct {
	// WriteFunc receives the index this write would get and the frame
	// bytes; returning an error fails the write.
	WriteFunc func(index int, frame []byte) error

	mu     sync.Mutex
	frames [][]byte
	notify func(p []byte)
	closed bool
}

// NewMockChannel creates an empty mock channel.
func NewMockChannel() *MockChannel {
	return &MockChannel{}
}

// Write records a copy of frame, or fails per WriteFunc.
func (m *MockChannel) Write(ctx context.Context, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrChannelClosed
	}
	if m.WriteFunc != nil {
		if err := m.WriteFunc(len(m.frames), frame); err != nil {
			return err
		}
	}
	m.frames = append(m.frames, append([]byte(nil), frame...))
	return nil
}

// Frames returns copies of the recorded frames in write order.
func (m *MockChannel) Frames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.frames))
	for i, f := range m.frames {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// Close marks the channel closed; further writes fail.
func (m *MockChannel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Kind returns KindMock
func (*MockChannel) Kind() Kind {
	return KindMock
}

// Subscribe registers fn as the console sink.
func (m *MockChannel) Subscribe(fn func(p []byte)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrChannelClosed
	}
	m.notify = fn
	return nil
}

// EmitConsole delivers p to the subscribed console sink, simulating a
// board-side notification.
func (m *MockChannel) EmitConsole(p []byte) {
	m.mu.Lock()
	fn := m.notify
	m.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}

// BlockingMockChannel is a mock channel whose writes block until
// Unblock or Close is called or the write context ends. This is used
// for testing busy rejection and context cancellation.
type BlockingMockChannel struct {
	blockChan chan struct{}
	mu        sync.Mutex
	frames    [][]byte
	closed    bool
	released  bool
}

// NewBlockingMockChannel creates a new blocking mock channel.
func NewBlockingMockChannel() *BlockingMockChannel {
	return &BlockingMockChannel{
		blockChan: make(chan struct{}),
	}
}

// Write blocks until Unblock() or Close() is called or ctx ends, then
// records a copy of frame.
func (m *BlockingMockChannel) Write(ctx context.Context, frame []byte) error {
	m.mu.Lock()
	blockChan := m.blockChan
	closed := m.closed
	m.mu.Unlock()

	if closed {
		return ErrChannelClosed
	}

	select {
	case <-blockChan:
		// Write was unblocked, proceed normally
	case <-ctx.Done():
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrChannelClosed
	}
	m.frames = append(m.frames, append([]byte(nil), frame...))
	return nil
}

// Unblock releases the writes currently blocked; later writes block again.
func (m *BlockingMockChannel) Unblock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.released {
		return
	}
	close(m.blockChan)
	m.blockChan = make(chan struct{})
}

// Release unblocks all current and future writes.
func (m *BlockingMockChannel) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.released {
		return
	}
	m.released = true
	close(m.blockChan)
}

// Frames returns copies of the recorded frames in write order.
func (m *BlockingMockChannel) Frames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.frames))
	for i, f := range m.frames {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// Close unblocks all writes and marks the channel closed.
func (m *BlockingMockChannel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		if !m.released {
			close(m.blockChan)
		}
	}
	return nil
}

// Kind returns KindMock
func (*BlockingMockChannel) Kind() Kind {
	return KindMock
}
