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

package hardware

import (
	"github.com/jetsetilly/gba/cartridgeloader"
	"github.com/jetsetilly/gba/curated"
	"github.com/jetsetilly/gba/hardware/cpu"
	"github.com/jetsetilly/gba/hardware/instance"
	"github.com/jetsetilly/gba/hardware/memory"
	"github.com/jetsetilly/gba/hardware/memory/cartridge"
	"github.com/jetsetilly/gba/hardware/preferences"
	"github.com/jetsetilly/gba/hardware/scheduler"
)

// GBA is the root of the emulation. It owns the bus and every subsystem the
// bus wires together, the CPU that drives them, and the scheduler that
// paces one frame at a time. There is no free-running Run(): a host calls
// RunFrame() at its own pace.
type GBA struct {
	Bus       *memory.Bus
	CPU       *cpu.CPU
	Scheduler *scheduler.Scheduler
	Instance  *instance.Instance
}

// NewGBA constructs a fully wired but unloaded machine: no BIOS, no
// cartridge, CPU at the reset vector. prefs may be nil, in which case
// default preferences are created.
func NewGBA(prefs *preferences.Preferences) (*GBA, error) {
	bus := memory.NewBus()
	c := cpu.NewCPU(bus)
	sched := scheduler.New(c, bus)

	ins, err := instance.NewInstance(sched, prefs)
	if err != nil {
		return nil, curated.Errorf("hardware: %v", err)
	}

	g := &GBA{
		Bus:       bus,
		CPU:       c,
		Scheduler: sched,
		Instance:  ins,
	}

	if ins.Prefs.RandomState.Get().(bool) {
		g.randomizeWorkRAM()
	}

	return g, nil
}

// randomizeWorkRAM fills EWRAM and IWRAM with the instance's deterministic
// RNG, mirroring real hardware's failure to clear memory on power-on.
// Guarded by Preferences.RandomState; the default is a clean zeroed reset,
// which most test ROMs and games assume even though real silicon doesn't
// guarantee it.
func (g *GBA) randomizeWorkRAM() {
	g.Instance.Random.Fill(g.Bus.EWRAM)
	g.Instance.Random.Fill(g.Bus.IWRAM)
}

// LoadBIOS installs bios as the BIOS region.
func (g *GBA) LoadBIOS(bios []byte) {
	g.Bus.LoadBIOS(bios)
}

// LoadBIOSFromFile reads path via a cartridgeloader.Loader and installs the
// result as the BIOS region.
func (g *GBA) LoadBIOSFromFile(path string) error {
	ld := cartridgeloader.NewLoader(path)
	if err := ld.Load(); err != nil {
		return curated.Errorf("hardware: %v", err)
	}
	g.LoadBIOS(ld.Data)
	return nil
}

// LoadROM installs rom as the cartridge and reports the save type detected
// from its header.
func (g *GBA) LoadROM(rom []byte) cartridge.SaveType {
	return g.Bus.LoadROM(rom)
}

// LoadROMFromFile reads path via a cartridgeloader.Loader and installs the
// result as the cartridge.
func (g *GBA) LoadROMFromFile(path string) (cartridge.SaveType, error) {
	ld := cartridgeloader.NewLoader(path)
	if err := ld.Load(); err != nil {
		return cartridge.SaveNone, curated.Errorf("hardware: %v", err)
	}
	return g.LoadROM(ld.Data), nil
}
