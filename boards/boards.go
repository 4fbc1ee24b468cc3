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

// Package boards describes the known Glimmer board models.
//
// A Profile captures the facts a deployment tool needs about a model:
// how many firmware slots it has, which slot the bootloader runs at
// power-on, how large a frame its radio accepts, and where its GATT
// service lives. The built-in catalog covers the boards the project
// ships; fleets with custom firmware can layer their own profiles on
// top from a YAML file.
package boards

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile describes one Glimmer board model.
type Profile struct {
	// Model is the short identifier boards advertise, such as "S2".
	Model string `yaml:"model"`
	// Name is the marketing name.
	Name string `yaml:"name"`
	// ServiceUUID is the GATT service carrying deployment traffic.
	ServiceUUID string `yaml:"service_uuid"`
	// CommandUUID is the characteristic deployment frames are
	// written to.
	CommandUUID string `yaml:"command_uuid"`
	// ConsoleUUID is the characteristic console output notifies
	// on. Empty for bootloader-only firmware.
	ConsoleUUID string `yaml:"console_uuid"`
	// Slots is the number of firmware slots the board's flash is
	// partitioned into.
	Slots int `yaml:"slots"`
	// DefaultSlot is the slot the bootloader boots from.
	DefaultSlot byte `yaml:"default_slot"`
	// MTUCeiling is the largest frame the board's link layer
	// accepts, regardless of what a channel negotiates.
	MTUCeiling int `yaml:"mtu_ceiling"`
}

// Validate reports whether the profile is internally consistent.
func (p Profile) Validate() error {
	if p.Model == "" {
		return fmt.Errorf("profile missing model")
	}
	if p.Slots < 1 {
		return fmt.Errorf("profile %s: slots must be at least 1, got %d", p.Model, p.Slots)
	}
	if int(p.DefaultSlot) >= p.Slots {
		return fmt.Errorf("profile %s: default slot %d outside %d slots", p.Model, p.DefaultSlot, p.Slots)
	}
	if p.MTUCeiling < 7 {
		return fmt.Errorf("profile %s: MTU ceiling %d too small for a data frame", p.Model, p.MTUCeiling)
	}
	for _, uuid := range []string{p.ServiceUUID, p.CommandUUID, p.ConsoleUUID} {
		if uuid == "" {
			continue
		}
		if !validUUID(uuid) {
			return fmt.Errorf("profile %s: malformed UUID %q", p.Model, uuid)
		}
	}
	return nil
}

// validUUID checks the 8-4-4-4-12 text form. The check is structural
// only, so this package stays independent of any radio stack.
func validUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i, r := range s {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return false
			}
		default:
			hex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
			if !hex {
				return false
			}
		}
	}
	return true
}

// Builtin returns the profiles for the board models the project
// ships. The slice is fresh on every call.
func Builtin() []Profile {
	return []Profile{
		{
			Model:       "S2",
			Name:        "Glimmer Sprite S2",
			ServiceUUID: "f27a0100-5c1e-4e9b-9d20-3a94c2b7d1f4",
			CommandUUID: "f27a0101-5c1e-4e9b-9d20-3a94c2b7d1f4",
			ConsoleUUID: "f27a0102-5c1e-4e9b-9d20-3a94c2b7d1f4",
			Slots:       4,
			DefaultSlot: 2,
			MTUCeiling:  247,
		},
		{
			Model:       "C1",
			Name:        "Glimmer Charm C1",
			ServiceUUID: "f27a0100-5c1e-4e9b-9d20-3a94c2b7d1f4",
			CommandUUID: "f27a0101-5c1e-4e9b-9d20-3a94c2b7d1f4",
			ConsoleUUID: "",
			Slots:       2,
			DefaultSlot: 0,
			MTUCeiling:  185,
		},
		{
			Model:       "P4",
			Name:        "Glimmer Prism P4",
			ServiceUUID: "f27a0100-5c1e-4e9b-9d20-3a94c2b7d1f4",
			CommandUUID: "f27a0101-5c1e-4e9b-9d20-3a94c2b7d1f4",
			ConsoleUUID: "f27a0102-5c1e-4e9b-9d20-3a94c2b7d1f4",
			Slots:       8,
			DefaultSlot: 2,
			MTUCeiling:  512,
		},
	}
}

// Catalog resolves model identifiers to profiles. User-supplied
// profiles shadow built-ins with the same model.
type Catalog struct {
	profiles []Profile
}

// Default returns a catalog holding the built-in profiles.
func Default() *Catalog {
	return &Catalog{profiles: Builtin()}
}

// Add layers profiles onto the catalog, replacing any existing entry
// with the same model.
func (c *Catalog) Add(profiles ...Profile) {
	for _, p := range profiles {
		replaced := false
		for i := range c.profiles {
			if strings.EqualFold(c.profiles[i].Model, p.Model) {
				c.profiles[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			c.profiles = append(c.profiles, p)
		}
	}
}

// Find returns the profile for a model, matched case-insensitively.
func (c *Catalog) Find(model string) (Profile, bool) {
	for _, p := range c.profiles {
		if strings.EqualFold(p.Model, model) {
			return p, true
		}
	}
	return Profile{}, false
}

// Profiles returns the catalog contents in registration order.
func (c *Catalog) Profiles() []Profile {
	out := make([]Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// profileFile is the YAML document layout for user profile files.
type profileFile struct {
	Boards []Profile `yaml:"boards"`
}

// LoadFile reads board profiles from a YAML file.
func LoadFile(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profile file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read profile file %q: %w", path, err)
	}

	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	for _, p := range file.Boards {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return file.Boards, nil
}
