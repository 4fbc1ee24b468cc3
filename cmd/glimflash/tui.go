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
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	glimmer "github.com/glimmerkit/go-glimmer"
)

// progressMsg carries a deployment snapshot into the screen.
type progressMsg glimmer.Progress

// deployDoneMsg carries the deployment outcome into the screen.
type deployDoneMsg struct {
	result *glimmer.DeploymentResult
	err    error
}

// deployModel is the Bubble Tea model for the deploy screen.
type deployModel struct {
	channel string
	total   int
	slot    byte

	bar      progress.Model
	state    glimmer.State
	offset   int
	chunk    int
	chunks   int
	mtu      int
	result   *glimmer.DeploymentResult
	err      error
	done     bool
	quitting bool
	width    int

	cancel context.CancelFunc
}

func newDeployModel(channel string, total int, slot byte, cancel context.CancelFunc) deployModel {
	return deployModel{
		channel: channel,
		total:   total,
		slot:    slot,
		bar:     progress.New(progress.WithDefaultGradient()),
		state:   glimmer.StateIdle,
		cancel:  cancel,
	}
}

// Init implements tea.Model.
func (m deployModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m deployModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 12
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}
		return m, nil

	case progressMsg:
		m.state = msg.State
		m.offset = msg.Offset
		m.chunk = msg.Chunk
		m.chunks = msg.Chunks
		m.mtu = msg.MTU
		return m, nil

	case deployDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, deployKeys.Quit) {
			if m.done {
				return m, tea.Quit
			}
			// The deployment stops at the next chunk boundary and
			// reports through deployDoneMsg.
			m.quitting = true
			m.cancel()
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m deployModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Deploying"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render(label+":"),
			valueStyle.Render(value)))
	}
	row("Channel", m.channel)
	row("Slot", fmt.Sprintf("%d", m.slot))
	row("MTU", fmt.Sprintf("%d", m.mtu))

	state := m.state.String()
	if m.quitting {
		state = "cancelling"
	}
	b.WriteString(fmt.Sprintf("%s %s\n\n",
		labelStyle.Render("State:"),
		stateStyle(m.state).Render(state)))

	b.WriteString(m.bar.ViewAs(m.percent()))
	b.WriteString(fmt.Sprintf("\n%s\n",
		dimStyle.Render(fmt.Sprintf("%d / %d bytes  chunk %d of %d",
			m.offset, m.total, m.chunk, m.chunks))))

	help := helpStyle.Render("Press q or Ctrl+C to cancel")
	return boxStyle.Render(b.String()) + "\n" + help
}

func (m deployModel) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.offset) / float64(m.total)
}

// deployKeys defines key bindings for the deploy screen.
var deployKeys = struct {
	Quit key.Binding
}{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "cancel"),
	),
}

// deployWithScreen runs a deployment behind the progress screen. The
// screen owns the terminal, so session logging stays off; failures
// surface through the returned error.
func deployWithScreen(
	ctx context.Context,
	ch glimmer.Channel,
	firmware []byte,
	slot byte,
	_ zerolog.Logger,
) (*glimmer.DeploymentResult, error) {
	deployCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newDeployModel(string(ch.Kind()), len(firmware), slot, cancel)
	p := tea.NewProgram(model, tea.WithAltScreen())

	session, err := glimmer.NewSession(ch,
		glimmer.WithProgress(func(prog glimmer.Progress) {
			p.Send(progressMsg(prog))
		}),
	)
	if err != nil {
		return nil, err
	}

	go func() {
		result, deployErr := session.DeployContext(deployCtx, firmware, slot)
		p.Send(deployDoneMsg{result: result, err: deployErr})
	}()

	final, runErr := p.Run()
	if runErr != nil {
		return nil, fmt.Errorf("progress screen: %w", runErr)
	}

	m, ok := final.(deployModel)
	if !ok {
		return nil, fmt.Errorf("progress screen returned unexpected model")
	}
	return m.result, m.err
}
