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
	"errors"
	"fmt"
)

// Deployment errors
var (
	// ErrSessionBusy is returned when Deploy is called while another
	// deployment is in flight on the same session. The call is rejected
	// synchronously and the running deployment is not disturbed.
	ErrSessionBusy = errors.New("deployment already in flight")

	// ErrNegotiationFailed marks a failed MTU negotiation. It is
	// recoverable: the session substitutes the default MTU and carries
	// on, reporting the condition through the configured logger.
	ErrNegotiationFailed = errors.New("mtu negotiation failed")

	// ErrLimitExceeded is returned when a firmware buffer or chunk
	// cannot be represented in the wire format's 16-bit fields.
	ErrLimitExceeded = errors.New("protocol limit exceeded")

	// ErrTransferAborted is returned when a chunk write fails. The
	// board now holds a partial upload; a Reset and a fresh deployment
	// are required before the staged slot can be trusted.
	ErrTransferAborted = errors.New("transfer aborted")

	// ErrFinalizeFailed is returned when the Program frame is rejected
	// or its write fails.
	ErrFinalizeFailed = errors.New("finalize failed")

	// ErrReloadFailed is returned when the Reload command fails after a
	// fully transferred and finalized deployment. The staged program
	// was accepted; only the restart did not go through.
	ErrReloadFailed = errors.New("reload failed")
)

// Channel errors
var (
	// ErrChannelClosed is returned by writes on a closed channel.
	ErrChannelClosed = errors.New("channel closed")

	// ErrNilChannel is returned when a session is constructed without a channel.
	ErrNilChannel = errors.New("nil channel")
)

// LimitError reports a quantity that cannot travel in the protocol's
// 16-bit fields. It matches ErrLimitExceeded with errors.Is.
type LimitError struct {
	Field string // which quantity broke the limit
	Value int
	Limit int // inclusive bound that was violated
}

// Error returns a human-readable description of the violated limit.
func (e *LimitError) Error() string {
	if e.Value > e.Limit {
		return fmt.Sprintf("%s %d exceeds protocol limit %d", e.Field, e.Value, e.Limit)
	}
	return fmt.Sprintf("%s %d below protocol minimum %d", e.Field, e.Value, e.Limit)
}

// Is reports whether target is ErrLimitExceeded.
func (e *LimitError) Is(target error) bool {
	return target == ErrLimitExceeded
}

// TransferError reports the chunk write that aborted a transfer.
// Offset is the position of the failed chunk within the firmware
// buffer. It matches ErrTransferAborted with errors.Is.
type TransferError struct {
	Err    error
	Offset int
}

// Error returns a human-readable description including the failing offset.
func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer aborted at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying channel write error.
func (e *TransferError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransferAborted.
func (e *TransferError) Is(target error) bool {
	return target == ErrTransferAborted
}

// FinalizeError reports a failed Program frame write.
// It matches ErrFinalizeFailed with errors.Is.
type FinalizeError struct {
	Err error
}

// Error returns a human-readable description of the finalize failure.
func (e *FinalizeError) Error() string {
	return fmt.Sprintf("program frame rejected: %v", e.Err)
}

// Unwrap returns the underlying channel write error.
func (e *FinalizeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFinalizeFailed.
func (e *FinalizeError) Is(target error) bool {
	return target == ErrFinalizeFailed
}

// ReloadError reports a failed Reload command after a completed
// transfer. It matches ErrReloadFailed with errors.Is.
type ReloadError struct {
	Err error
}

// Error returns a human-readable description of the reload failure.
func (e *ReloadError) Error() string {
	return fmt.Sprintf("reload rejected: %v", e.Err)
}

// Unwrap returns the underlying channel write error.
func (e *ReloadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrReloadFailed.
func (e *ReloadError) Is(target error) bool {
	return target == ErrReloadFailed
}
