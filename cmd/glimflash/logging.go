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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	glimmer "github.com/glimmerkit/go-glimmer"
)

// newLogger builds the process logger. Output goes to stderr so that
// command output (scan results, console streams) stays clean on stdout.
func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Str("app", "glimflash").
		Logger()
}

// sessionLogger adapts a zerolog.Logger to the glimmer.Logger
// interface used by deployment sessions.
type sessionLogger struct {
	log zerolog.Logger
}

func (l sessionLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.emit(l.log.Debug(), msg, keysAndValues)
}

func (l sessionLogger) Info(msg string, keysAndValues ...interface{}) {
	l.emit(l.log.Info(), msg, keysAndValues)
}

func (l sessionLogger) Error(msg string, keysAndValues ...interface{}) {
	l.emit(l.log.Error(), msg, keysAndValues)
}

// emit folds alternating key/value pairs into a zerolog event. A
// trailing key without a value is kept rather than dropped.
func (l sessionLogger) emit(event *zerolog.Event, msg string, keysAndValues []interface{}) {
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 >= len(keysAndValues) {
			event = event.Str(key, "(missing)")
			break
		}
		switch v := keysAndValues[i+1].(type) {
		case string:
			event = event.Str(key, v)
		case int:
			event = event.Int(key, v)
		case uint16:
			event = event.Uint16(key, v)
		case byte:
			event = event.Uint8(key, v)
		case bool:
			event = event.Bool(key, v)
		case time.Duration:
			event = event.Dur(key, v)
		case error:
			event = event.AnErr(key, v)
		default:
			event = event.Interface(key, v)
		}
	}
	event.Msg(msg)
}

var _ glimmer.Logger = sessionLogger{}
