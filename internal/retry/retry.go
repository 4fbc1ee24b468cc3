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

// Package retry provides connect-time retry utilities for channel backends
package retry

import (
	"context"
	"fmt"
	"time"
)

// Config configures retry behavior for an operation.
type Config struct {
	// Description names the operation in the exhausted-retries error.
	Description string
	// Attempts is the total number of tries, minimum 1.
	Attempts int
	// Delay is the wait before the second attempt.
	Delay time.Duration
	// Multiplier grows the delay after every failed attempt; values
	// of 1 or less keep it constant.
	Multiplier float64
}

// DefaultConfig returns the retry behavior channel backends use while
// establishing a link.
func DefaultConfig() Config {
	return Config{
		Attempts:   3,
		Delay:      250 * time.Millisecond,
		Multiplier: 2,
	}
}

// Do runs operation up to cfg.Attempts times, waiting between attempts
// and honoring ctx during the waits. The last attempt's error is
// returned when every attempt fails.
//
// Do is for establishing links only. Deployment chunk writes never go
// through here: a deployment aborts on its first failed write.
func Do[T any](ctx context.Context, cfg Config, operation func() (T, error)) (T, error) {
	var zero T

	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := cfg.Delay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := operation()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
		if cfg.Multiplier > 1 {
			delay = time.Duration(float64(delay) * cfg.Multiplier)
		}
	}

	if cfg.Description != "" {
		return zero, fmt.Errorf("%s: %w", cfg.Description, lastErr)
	}
	return zero, lastErr
}
