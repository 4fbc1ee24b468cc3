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

package uart

import "sort"

// Port describes a serial port a Glimmer board may be attached to.
type Port struct {
	// Path is the value to pass to Open.
	Path string
	// Name is a short human-readable label, usually the base name
	// of the device node.
	Name string
}

// Ports returns the serial ports visible on this machine, sorted by
// path. Boards are not probed; the listing only reflects what the
// operating system enumerates.
func Ports() ([]Port, error) {
	ports, err := systemPorts()
	if err != nil {
		return nil, err
	}
	return dedupePorts(ports), nil
}

// dedupePorts drops duplicate paths and sorts the result. Platform
// enumerators can report the same device through more than one source.
func dedupePorts(ports []Port) []Port {
	seen := make(map[string]bool, len(ports))
	out := make([]Port, 0, len(ports))
	for _, p := range ports {
		if p.Path == "" || seen[p.Path] {
			continue
		}
		seen[p.Path] = true
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}
