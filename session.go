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
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/glimmerkit/go-glimmer/internal/frame"
)

// DefaultSlot is the board storage slot deployments target unless the
// caller picks another.
const DefaultSlot byte = 2

// SessionConfig holds tunables for a Session.
type SessionConfig struct {
	// Logger receives state transitions and failures (optional)
	Logger Logger

	// Progress is called with deployment snapshots (optional)
	Progress ProgressFunc

	// Console receives board console bytes, forwarded unmodified, when
	// the channel can deliver notifications (optional)
	Console func(p []byte)

	// MTURequest is the upper bound asked of a channel that accepts an
	// active MTU request
	MTURequest int
}

// DefaultSessionConfig returns the configuration used when no options are given.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		MTURequest: RequestedMTU,
	}
}

// Session owns one deployment at a time over a borrowed Channel.
// Construct one per deployment target; a Session never shares state
// with other sessions and never closes its channel.
type Session struct {
	channel Channel
	config  *SessionConfig
	state   atomic.Int32
	busy    atomic.Bool
}

// NewSession creates a session over ch with the given options. If a
// console sink is configured and the channel can deliver notifications,
// the sink is subscribed for the life of the channel.
func NewSession(ch Channel, opts ...Option) (*Session, error) {
	if ch == nil {
		return nil, ErrNilChannel
	}
	s := &Session{
		channel: ch,
		config:  DefaultSessionConfig(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.config.Console != nil {
		if n, ok := ch.(Notifier); ok {
			if err := n.Subscribe(s.config.Console); err != nil {
				return nil, fmt.Errorf("subscribe console notifications: %w", err)
			}
		} else {
			s.logDebug("channel cannot deliver console notifications", "channel", string(ch.Kind()))
		}
	}
	return s, nil
}

// State returns the current deployment state. Safe to call from any
// goroutine, including progress and console callbacks.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Channel returns the channel the session deploys over.
func (s *Session) Channel() Channel {
	return s.channel
}

// deployment carries the per-run values shared by the transfer steps.
type deployment struct {
	firmware    []byte
	crc         uint16
	slot        byte
	mtu         int
	payloadSize int
	chunks      int
	sent        int
	offset      int
}

// Deploy transfers firmware into slot and restarts the board.
// See DeployContext.
func (s *Session) Deploy(firmware []byte, slot byte) (*DeploymentResult, error) {
	return s.DeployContext(context.Background(), firmware, slot)
}

// DeployContext drives a full deployment: negotiate the frame budget,
// stream the firmware as ordered Data frames, finalize with a Program
// frame carrying the length and checksum of the exact buffer given, and
// issue a Reload so the board applies it. Any failure stops the
// deployment; the session does not retry. Cancellation via ctx is
// honored between chunks, never inside one.
//
// A second call while a deployment is in flight returns ErrSessionBusy
// without touching the running deployment. If the error matches
// ErrReloadFailed the returned result is non-nil with Applied set: the
// board accepted every byte and the program metadata, only the restart
// command failed.
func (s *Session) DeployContext(ctx context.Context, firmware []byte, slot byte) (*DeploymentResult, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrSessionBusy
	}
	defer s.busy.Store(false)

	start := time.Now()
	s.state.Store(int32(StateIdle))
	s.logInfo("deployment starting",
		"bytes", len(firmware), "slot", slot, "channel", string(s.channel.Kind()))

	d := &deployment{firmware: firmware, slot: slot}

	if err := ValidateFirmware(firmware); err != nil {
		s.fail(d, StateIdle, err)
		return nil, err
	}

	s.transition(StateNegotiatingMTU, d)
	d.mtu = s.negotiateMTU(ctx)

	s.transition(StateTransferring, d)
	if err := s.sendChunks(ctx, d); err != nil {
		s.fail(d, StateTransferring, err)
		return nil, err
	}

	s.transition(StateFinalizing, d)
	if err := s.sendProgram(ctx, d); err != nil {
		s.fail(d, StateFinalizing, err)
		return nil, err
	}

	result := &DeploymentResult{
		BytesSent:   d.offset,
		Chunks:      d.sent,
		MTU:         d.mtu,
		PayloadSize: d.payloadSize,
		Checksum:    d.crc,
		Slot:        d.slot,
		Applied:     true,
	}

	s.transition(StateReloading, d)
	if err := s.sendReload(ctx, d); err != nil {
		s.fail(d, StateReloading, err)
		result.Elapsed = time.Since(start)
		return result, err
	}

	s.transition(StateComplete, d)
	result.Elapsed = time.Since(start)
	s.logInfo("deployment complete",
		"bytes", result.BytesSent, "chunks", result.Chunks, "mtu", result.MTU,
		"checksum", fmt.Sprintf("0x%04X", result.Checksum), "elapsed", result.Elapsed.String())
	return result, nil
}

// Reset commands the board to drop VM state and return to its boot
// program. See ResetContext.
func (s *Session) Reset() error {
	return s.ResetContext(context.Background())
}

// ResetContext writes the Reset frame. It is fire-and-forget and
// participates in no deployment state machine; it may be issued at any
// time, including before a first deployment or after a failed one.
// Callers sharing the channel with an in-flight deployment must accept
// that the frames interleave.
func (s *Session) ResetContext(ctx context.Context) error {
	s.logInfo("reset issued", "channel", string(s.channel.Kind()))
	if err := s.channel.Write(ctx, frame.Reset()); err != nil {
		return fmt.Errorf("write reset frame: %w", err)
	}
	return nil
}

// transition stores the new state and reports it through the logger and
// progress sink.
func (s *Session) transition(st State, d *deployment) {
	s.state.Store(int32(st))
	s.logDebug("deployment state changed", "state", st.String())
	s.report(st, d)
}

// fail stores StateFailed and reports the originating error together
// with the state it happened in and, for chunk failures, the offset.
func (s *Session) fail(d *deployment, from State, err error) {
	s.state.Store(int32(StateFailed))
	var te *TransferError
	if errors.As(err, &te) {
		s.logError("deployment failed", "from", from.String(), "offset", te.Offset, "error", err)
	} else {
		s.logError("deployment failed", "from", from.String(), "error", err)
	}
	s.report(StateFailed, d)
}

func (s *Session) report(st State, d *deployment) {
	if s.config.Progress == nil {
		return
	}
	s.config.Progress(Progress{
		State:  st,
		Offset: d.offset,
		Total:  len(d.firmware),
		Chunk:  d.sent,
		Chunks: d.chunks,
		MTU:    d.mtu,
	})
}

func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (s *Session) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, keysAndValues...)
	}
}

func (s *Session) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, keysAndValues...)
	}
}
