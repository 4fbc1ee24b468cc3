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
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// loadFirmware produces the bytes to deploy. With a compiler command
// configured the source file is run through it; otherwise the file is
// treated as an already-built image and read as-is.
func loadFirmware(ctx context.Context, path, compiler string) ([]byte, error) {
	if compiler != "" {
		return compileFirmware(ctx, path, compiler)
	}

	firmware, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read firmware image: %w", err)
	}
	return firmware, nil
}

// compileFirmware invokes an external compiler and captures the built
// image from its stdout. The source path is appended as the final
// argument, and the compiler's stderr passes through for diagnostics.
func compileFirmware(ctx context.Context, path, compiler string) ([]byte, error) {
	parts := strings.Fields(compiler)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty compiler command")
	}
	args := append(parts[1:], path)

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, parts[0], args...)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("compile %s: compiler produced no output", path)
	}
	return stdout.Bytes(), nil
}
