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

//go:build darwin

package uart

import (
	"path/filepath"
	"strings"
)

// systemPorts returns serial devices on macOS. Callout devices
// (/dev/cu.*) are preferred over their /dev/tty.* twins because they
// open without waiting for carrier detect.
func systemPorts() ([]Port, error) {
	var ports []Port

	cuMatches, err := filepath.Glob("/dev/cu.*")
	if err != nil {
		return nil, err
	}
	for _, path := range cuMatches {
		name := filepath.Base(path)
		if includeDarwinDevice(name) {
			ports = append(ports, Port{Path: path, Name: name})
		}
	}

	ttyMatches, err := filepath.Glob("/dev/tty.*")
	if err != nil {
		return ports, nil
	}
	for _, path := range ttyMatches {
		name := filepath.Base(path)
		if !includeDarwinDevice(name) {
			continue
		}
		if hasCalloutTwin(path, ports) {
			continue
		}
		ports = append(ports, Port{Path: path, Name: name})
	}

	return ports, nil
}

// hasCalloutTwin reports whether the cu.* equivalent of a tty.* path
// is already listed.
func hasCalloutTwin(ttyPath string, ports []Port) bool {
	cuPath := strings.Replace(ttyPath, "/dev/tty.", "/dev/cu.", 1)
	for _, p := range ports {
		if p.Path == cuPath {
			return true
		}
	}
	return false
}

// includeDarwinDevice filters out devices that cannot be a board.
func includeDarwinDevice(deviceName string) bool {
	lowerName := strings.ToLower(deviceName)

	// The built-in Bluetooth bridge ports hang on open.
	if strings.Contains(lowerName, "bluetooth") {
		return false
	}

	// USB-serial adapter families the boards ship with.
	adapterPatterns := []string{
		"usbserial",      // FTDI
		"usbmodem",       // CDC ACM
		"slab_usbtouart", // Silicon Labs CP210x
		"wchusbserial",   // WinChipHead CH340/CH341
	}
	for _, pattern := range adapterPatterns {
		if strings.Contains(lowerName, pattern) {
			return true
		}
	}

	// Keep unknown devices, but never obvious system consoles.
	systemPatterns := []string{"console", "debug", "system", "kernel"}
	for _, pattern := range systemPatterns {
		if strings.Contains(lowerName, pattern) {
			return false
		}
	}
	return true
}
