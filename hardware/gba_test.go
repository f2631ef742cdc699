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

package hardware_test

import (
	"testing"

	"github.com/jetsetilly/gba/hardware"
	"github.com/jetsetilly/gba/hardware/cpu/registers"
	"github.com/jetsetilly/gba/hardware/input"
	"github.com/jetsetilly/gba/hardware/memory/cartridge"
	"github.com/jetsetilly/gba/hardware/preferences"
)

func TestSkipBIOSSetsSystemModeAndEntryPoint(t *testing.T) {
	g, err := hardware.NewGBA(nil)
	if err != nil {
		t.Fatalf("NewGBA: %v", err)
	}
	g.Instance.Normalise()

	g.SkipBIOS()

	if g.CPU.CPSR.Mode != registers.System {
		t.Errorf("expected System mode after skip_bios, got %s", g.CPU.CPSR.Mode)
	}
	if g.CPU.R[13] != 0x03007f00 {
		t.Errorf("expected SP 0x03007f00, got %#08x", g.CPU.R[13])
	}
}

func TestSkipBIOSInstallsTrampolineInHLEMode(t *testing.T) {
	g, err := hardware.NewGBA(nil)
	if err != nil {
		t.Fatalf("NewGBA: %v", err)
	}
	g.Instance.Prefs.Model.HLE.Set(true)

	g.SkipBIOS()

	if g.Bus.BIOS[0x128] == 0 && g.Bus.BIOS[0x129] == 0 {
		t.Errorf("expected a trampoline instruction written at 0x128")
	}
}

func TestSkipBIOSOmitsTrampolineWhenHLEDisabled(t *testing.T) {
	prefs, err := preferences.NewPreferences()
	if err != nil {
		t.Fatalf("NewPreferences: %v", err)
	}
	prefs.Model.HLE.Set(false)

	g, err := hardware.NewGBA(prefs)
	if err != nil {
		t.Fatalf("NewGBA: %v", err)
	}

	g.SkipBIOS()

	for i := 0; i < 4; i++ {
		if g.Bus.BIOS[0x128+i] != 0 {
			t.Errorf("expected BIOS region to stay untouched with HLE disabled")
			break
		}
	}
}

func TestLoadROMReportsSaveType(t *testing.T) {
	g, err := hardware.NewGBA(nil)
	if err != nil {
		t.Fatalf("NewGBA: %v", err)
	}

	rom := make([]byte, 0x200)
	copy(rom[0x100:], "SRAM_V110")

	if got := g.LoadROM(rom); got != cartridge.SaveSRAM {
		t.Errorf("expected SaveSRAM, got %q", got)
	}
}

func TestPressReleaseRoundTrip(t *testing.T) {
	g, err := hardware.NewGBA(nil)
	if err != nil {
		t.Fatalf("NewGBA: %v", err)
	}

	before := g.Bus.Keypad.Strobe()
	g.Press(input.A)
	pressed := g.Bus.Keypad.Strobe()
	g.Release(input.A)
	released := g.Bus.Keypad.Strobe()

	if pressed == before {
		t.Errorf("expected Press to change the keypad strobe")
	}
	if released != before {
		t.Errorf("expected Release to restore the original strobe, got %#04x want %#04x", released, before)
	}
}

func TestRunFrameProducesAFramebuffer(t *testing.T) {
	g, err := hardware.NewGBA(nil)
	if err != nil {
		t.Fatalf("NewGBA: %v", err)
	}
	g.SkipBIOS()

	g.RunFrame()

	fb := g.Framebuffer()
	if len(fb) == 0 {
		t.Fatalf("expected a non-empty framebuffer")
	}
}
