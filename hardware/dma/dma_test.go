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

package dma_test

import (
	"testing"

	"github.com/jetsetilly/gba/hardware/dma"
	"github.com/jetsetilly/gba/hardware/irq"
)

type flatBus struct {
	mem [0x1000]byte
}

func (b *flatBus) Read8(pc, addr uint32) uint8   { return b.mem[addr&0xfff] }
func (b *flatBus) Read16(pc, addr uint32) uint16 { return uint16(b.mem[addr&0xfff]) | uint16(b.mem[(addr+1)&0xfff])<<8 }
func (b *flatBus) Read32(pc, addr uint32) uint32 {
	return uint32(b.Read16(pc, addr)) | uint32(b.Read16(pc, addr+2))<<16
}
func (b *flatBus) Write8(pc, addr uint32, v uint8) { b.mem[addr&0xfff] = v }
func (b *flatBus) Write16(pc, addr uint32, v uint16) {
	b.mem[addr&0xfff] = uint8(v)
	b.mem[(addr+1)&0xfff] = uint8(v >> 8)
}
func (b *flatBus) Write32(pc, addr uint32, v uint32) {
	b.Write16(pc, addr, uint16(v))
	b.Write16(pc, addr+2, uint16(v>>16))
}

func TestImmediateTransferClearsEnableWhenNotRepeating(t *testing.T) {
	bus := &flatBus{}
	bus.Write32(0, 0x100, 0xcafebabe)

	bank := dma.NewBank(bus, irq.NewController())
	ch := bank.Channels[0]
	ch.SrcAddr = 0x100
	ch.DstAddr = 0x200
	ch.Count = 1
	ch.Word32 = true
	ch.Timing = dma.Immediate

	bank.WriteControl(0, true)

	if got := bus.Read32(0, 0x200); got != 0xcafebabe {
		t.Fatalf("expected transfer to have moved the word, got %#x", got)
	}
	if ch.Enable {
		t.Fatal("expected enable to clear after a non-repeat immediate transfer")
	}
}

func TestRepeatChannelStaysEnabled(t *testing.T) {
	bus := &flatBus{}
	bank := dma.NewBank(bus, irq.NewController())
	ch := bank.Channels[1]
	ch.SrcAddr = 0x100
	ch.DstAddr = 0x200
	ch.Count = 1
	ch.Repeat = true
	ch.Timing = dma.Immediate

	bank.WriteControl(1, true)

	if !ch.Enable {
		t.Fatal("expected a repeat channel to remain enabled after transfer")
	}
}
