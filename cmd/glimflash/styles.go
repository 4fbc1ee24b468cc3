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
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	glimmer "github.com/glimmerkit/go-glimmer"
	"github.com/glimmerkit/go-glimmer/channel/ble"
)

// Color palette.
var (
	primaryColor = lipgloss.Color("#2DD4BF") // Teal
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#EF4444") // Red
	mutedColor   = lipgloss.Color("#6B7280") // Gray
)

// Styles for rendered output.
var (
	// titleStyle for headers.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// labelStyle for field labels.
	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(12)

	// valueStyle for field values.
	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// successStyle for completed deployments.
	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// errorStyle for failed deployments.
	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// boxStyle for the deploy screen container.
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	// helpStyle for key hints.
	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	// dimStyle for secondary detail on listing lines.
	dimStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// stateStyle returns the style for a deployment state.
func stateStyle(state glimmer.State) lipgloss.Style {
	switch state {
	case glimmer.StateComplete:
		return successStyle
	case glimmer.StateFailed:
		return errorStyle
	case glimmer.StateIdle:
		return valueStyle
	default:
		return lipgloss.NewStyle().Foreground(warningColor)
	}
}

// renderSummary renders the post-deployment report printed on stdout.
func renderSummary(result *glimmer.DeploymentResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Deployment complete"))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("Bytes", fmt.Sprintf("%d", result.BytesSent))
	row("Chunks", fmt.Sprintf("%d", result.Chunks))
	row("MTU", fmt.Sprintf("%d", result.MTU))
	row("Checksum", fmt.Sprintf("0x%04X", result.Checksum))
	row("Slot", fmt.Sprintf("%d", result.Slot))
	row("Elapsed", result.Elapsed.Round(time.Millisecond).String())

	return b.String()
}

// renderBoard renders one scan result line.
func renderBoard(b ble.Board) string {
	name := b.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s  %s  %s",
		valueStyle.Render(name),
		dimStyle.Render(b.Address),
		dimStyle.Render(fmt.Sprintf("%d dBm", b.RSSI)))
}
