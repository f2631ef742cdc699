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

// Package scheduler drives one frame at a time: 228 scanlines of 1232
// cycles each, interleaving the CPU, timers and audio mixer in
// scanline-sized chunks and calling into the PPU and DMA at the fixed
// points real hardware does. It has no concurrency of its own — the whole
// emulator runs on this one cooperative loop.
package scheduler

import (
	"github.com/jetsetilly/gba/hardware/cpu"
	"github.com/jetsetilly/gba/hardware/dma"
	"github.com/jetsetilly/gba/hardware/irq"
	"github.com/jetsetilly/gba/hardware/memory"
	"github.com/jetsetilly/gba/random"
)

const (
	scanlines  = 228
	hdrawCycles = 960
	hblankCycles = 272
	visibleLines = 160
)

// Scheduler owns no hardware state of its own beyond the CPU and bus it
// drives, only its frame/scanline/cycle position; VCOUNT, DISPSTAT and
// every other register live where software expects to find them.
type Scheduler struct {
	CPU *cpu.CPU
	Bus *memory.Bus

	// OnFrameComplete is invoked once per RunFrame, at the point real
	// hardware enters VBlank, so a host can present the framebuffer.
	OnFrameComplete func()

	frame       int
	line        int
	cycleInLine int
}

// New returns a Scheduler driving cpu against bus.
func New(c *cpu.CPU, bus *memory.Bus) *Scheduler {
	return &Scheduler{CPU: c, Bus: bus}
}

// GetCoords implements random.CoordsProvider, so the emulation's random
// number generator can be seeded deterministically from frame position.
func (s *Scheduler) GetCoords() random.Coords {
	return random.Coords{Frame: s.frame, Scanline: s.line, Cycle: s.cycleInLine}
}

// RunFrame advances the system by exactly one 228-scanline frame,
// following the frame protocol step by step.
func (s *Scheduler) RunFrame() {
	defer func() { s.frame++ }()

	for line := 0; line < scanlines; line++ {
		s.line = line
		s.cycleInLine = 0
		s.runCPU(hdrawCycles)

		s.Bus.PPU.Regs.DispStat.HBlank = true
		if int(s.Bus.PPU.Regs.VCount) < visibleLines {
			s.Bus.PPU.RenderScanline(int(s.Bus.PPU.Regs.VCount))
			s.Bus.DMA.Trigger(dma.HBlank)
		}
		if s.Bus.PPU.Regs.DispStat.HBlankIRQ {
			s.Bus.IRQ.Raise(irq.HBlank)
		}

		s.runCPU(hblankCycles)
		s.Bus.PPU.Regs.DispStat.HBlank = false

		s.Bus.PPU.Regs.VCount = uint8((int(s.Bus.PPU.Regs.VCount) + 1) % scanlines)

		s.Bus.PPU.Regs.DispStat.VCountHit = s.Bus.PPU.Regs.VCount == s.Bus.PPU.Regs.DispStat.VCountLine
		if s.Bus.PPU.Regs.DispStat.VCountHit && s.Bus.PPU.Regs.DispStat.VCountIRQ {
			s.Bus.IRQ.Raise(irq.VCount)
		}

		if int(s.Bus.PPU.Regs.VCount) == visibleLines {
			s.Bus.PPU.Regs.DispStat.VBlank = true
			if s.Bus.PPU.Regs.DispStat.VBlankIRQ {
				s.Bus.IRQ.Raise(irq.VBlank)
			}
			s.Bus.DMA.Trigger(dma.VBlank)
			s.Bus.PPU.OnVBlank()
			if s.OnFrameComplete != nil {
				s.OnFrameComplete()
			}
		}

		if s.Bus.PPU.Regs.VCount == 0 {
			s.Bus.PPU.Regs.DispStat.VBlank = false
		}
	}
}

// runCPU advances the CPU, timers and APU together by at least cycles CPU
// cycles. An instruction that straddles the boundary simply overshoots it
// by a few cycles rather than being split; the overrun is not deducted
// from the next phase, which runs for its full budget.
func (s *Scheduler) runCPU(cycles int) {
	remaining := cycles
	for remaining > 0 {
		if s.Bus.Halted() {
			s.CPU.Halted = true
			s.Bus.ClearHalt()
		}

		used := s.CPU.Step(s.Bus.IRQ.Pending())
		s.Bus.Timers.Step(used)
		s.Bus.APU.Step(used)
		remaining -= used
		s.cycleInLine += used
	}
}
