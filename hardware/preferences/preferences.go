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

// Package preferences collates the handful of persisted knobs the core
// exposes. It follows the load/save-to-disk shape of the prefs package
// (dotted key strings, prefs.NewDisk) without pulling in a GUI to edit any
// of it.
package preferences

import (
	"os"
	"path/filepath"

	"github.com/jetsetilly/gba/prefs"
)

// DefaultPrefsFile is the name of the file preferences are persisted to,
// relative to the directory returned by resourcePath.
const DefaultPrefsFile = "gba_prefs"

// resourcePath returns the directory preferences should be stored in,
// creating it if necessary.
func resourcePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	dir = filepath.Join(dir, "gba")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	return dir, nil
}

// Preferences collates the preference values used by the emulation core.
type Preferences struct {
	dsk *prefs.Disk

	// initialise ARM7TDMI registers and EWRAM/IWRAM to random content on
	// power-on rather than to zero. mirrors real hardware, which does not
	// clear memory at reset.
	RandomState prefs.Bool

	// whether skip_bios() installs the IRQ handler trampoline used to
	// emulate the effect of the BIOS's HLE-friendly startup, rather than
	// leaving IRQ handling entirely up to the loaded ROM.
	Model struct {
		HLE prefs.Bool
	}

	// whether the audio mixer produces samples at all. disabling this skips
	// the PSG/FIFO mixing work entirely, useful for running many instances
	// headlessly.
	Audio struct {
		Enabled prefs.Bool
	}
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	dir, err := resourcePath()
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(filepath.Join(dir, DefaultPrefsFile))
	if err != nil {
		return nil, err
	}

	if err := p.dsk.Add("hardware.randomstate", &p.RandomState); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("hardware.model.hle", &p.Model.HLE); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("audio.enabled", &p.Audio.Enabled); err != nil {
		return nil, err
	}

	// a missing prefs file just means defaults are used; Load's strict=false
	// silently skips anything it can't find.
	if err := p.dsk.Load(false); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preference values to their defaults.
func (p *Preferences) SetDefaults() {
	p.RandomState.Set(false)
	p.Model.HLE.Set(true)
	p.Audio.Enabled.Set(true)
}

// Load current preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
