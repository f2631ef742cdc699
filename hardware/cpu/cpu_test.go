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

package cpu

import (
	"testing"

	"github.com/jetsetilly/gba/hardware/cpu/registers"
)

// flatBus is a minimal Bus backed by a single byte slice, large enough for
// unit tests that only ever touch a handful of addresses.
type flatBus struct {
	mem [0x10000]byte
}

func (b *flatBus) Read8(pc, addr uint32) uint8   { return b.mem[addr&0xffff] }
func (b *flatBus) Read16(pc, addr uint32) uint16 { return uint16(b.mem[addr&0xffff]) | uint16(b.mem[(addr+1)&0xffff])<<8 }
func (b *flatBus) Read32(pc, addr uint32) uint32 {
	return uint32(b.Read16(pc, addr)) | uint32(b.Read16(pc, addr+2))<<16
}
func (b *flatBus) Write8(pc, addr uint32, v uint8) { b.mem[addr&0xffff] = v }
func (b *flatBus) Write16(pc, addr uint32, v uint16) {
	b.mem[addr&0xffff] = uint8(v)
	b.mem[(addr+1)&0xffff] = uint8(v >> 8)
}
func (b *flatBus) Write32(pc, addr uint32, v uint32) {
	b.Write16(pc, addr, uint16(v))
	b.Write16(pc, addr+2, uint16(v>>16))
}

func TestModeSwitchRoundTripIsIdentityOnFIQBanks(t *testing.T) {
	c := NewCPU(&flatBus{})

	for i := 8; i < 15; i++ {
		c.R[i] = uint32(i) * 0x1111
	}
	saved := c.R

	c.switchMode(registers.FIQ)
	for i := 8; i < 15; i++ {
		c.R[i] = 0xdeadbeef
	}
	c.switchMode(registers.Supervisor)

	c.switchMode(registers.System)
	for i := 8; i < 13; i++ {
		if c.R[i] != saved[i] {
			t.Errorf("R%d: expected %#x after FIQ round trip, got %#x", i, saved[i], c.R[i])
		}
	}
}

func TestModeSwitchBanksSVCStackSeparately(t *testing.T) {
	c := NewCPU(&flatBus{})
	c.CPSR.Mode = registers.System
	c.R[13] = 0x03007f00

	c.switchMode(registers.Supervisor)
	c.R[13] = 0x03007fe0

	c.switchMode(registers.System)
	if c.R[13] != 0x03007f00 {
		t.Fatalf("expected System SP to be restored to 0x03007f00, got %#x", c.R[13])
	}

	c.switchMode(registers.Supervisor)
	if c.R[13] != 0x03007fe0 {
		t.Fatalf("expected Supervisor SP to be restored to 0x03007fe0, got %#x", c.R[13])
	}
}

func TestIRQEntryAndReturn(t *testing.T) {
	bus := &flatBus{}
	c := NewCPU(bus)
	c.CPSR.Mode = registers.System
	c.CPSR.I = false
	c.R[15] = 0x08000010
	c.refill() // fill the pipeline so pc() and Step()'s IRQ check both see valid state

	priorCPSR := c.CPSR
	interruptedPC := c.pc()

	c.enterIRQ()

	if c.CPSR.Mode != registers.IRQ {
		t.Fatalf("expected IRQ mode after entry, got %s", c.CPSR.Mode)
	}
	if !c.CPSR.I {
		t.Fatal("expected IRQ entry to set I")
	}
	if c.CPSR.T {
		t.Fatal("expected IRQ entry to clear T")
	}
	if c.bank.SPSR(registers.IRQ).Value() != priorCPSR.Value() {
		t.Fatalf("expected SPSR_irq to hold the prior CPSR")
	}

	wantLR := interruptedPC + 4
	if c.R[14] != wantLR {
		t.Fatalf("expected LR_irq %#x, got %#x", wantLR, c.R[14])
	}

	// SUBS PC,LR,#4 emulated directly: subtract 4 from LR, write to PC with
	// S set, restoring CPSR from SPSR.
	returnAddr := c.subtract(c.R[14], 4, false)
	c.exceptionReturn()
	c.writePC(returnAddr)

	if c.CPSR.Mode != registers.System {
		t.Fatalf("expected mode restored to System, got %s", c.CPSR.Mode)
	}
	if c.R[15] != interruptedPC {
		t.Fatalf("expected PC to return exactly to the interrupted instruction %#x, got %#x", interruptedPC, c.R[15])
	}
}
