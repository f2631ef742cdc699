// This file is part of gba.
//
// gba is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// gba is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with gba.  If not, see <https://www.gnu.org/licenses/>.

// Package instance defines those parts of the emulation that might change
// from instance to instance of the GBA type, but is not actually the GBA
// itself.
//
// Particularly useful when running more than one instance of the emulation
// in parallel, or under a snapshot/rewind system that clones state.
package instance

import (
	"github.com/jetsetilly/gba/hardware/preferences"
	"github.com/jetsetilly/gba/random"
)

// Label indicates the context of the instance.
type Label string

// List of valid Label values.
const (
	Main  Label = ""
	Child Label = "child"
)

// Instance defines those parts of the emulation that might change between
// different instantiations of the GBA type, but is not actually the GBA
// itself.
type Instance struct {
	Label Label

	Random *random.Random

	// the preferences of the running instance. can be shared with other
	// running instances of the emulation.
	Prefs *preferences.Preferences
}

// NewInstance is the preferred method of initialisation for the Instance
// type.
//
// coords must be supplied. prefs may be nil, in which case a new
// preferences instance is created; passing a non-nil value allows the
// preferences of more than one GBA instance to be synchronised.
func NewInstance(coords random.CoordsProvider, prefs *preferences.Preferences) (*Instance, error) {
	ins := &Instance{
		Random: random.NewRandom(coords),
	}

	var err error

	if prefs == nil {
		prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}

	ins.Prefs = prefs

	return ins, nil
}

// Normalise ensures the instance is in a known default state. Useful for
// regression testing where the initial state must be the same for every run
// of the test.
func (ins *Instance) Normalise() {
	ins.Random.ZeroSeed = true
	ins.Prefs.SetDefaults()
}
