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

// Package dma implements the GBA's four DMA channels.
package dma

import "github.com/jetsetilly/gba/hardware/irq"

// notCPU is the pc value DMA passes to Bus accesses. It never falls inside
// the BIOS region, so a DMA attempt to read BIOS correctly sees the
// open-bus value rather than real BIOS content — DMA cannot execute code
// and has no legitimate reason to read it.
const notCPU = 0xffffffff

// Bus is the memory interface DMA transfers move data through. It mirrors
// hardware/cpu.Bus exactly, structurally, without importing that package.
type Bus interface {
	Read8(pc, addr uint32) uint8
	Read16(pc, addr uint32) uint16
	Read32(pc, addr uint32) uint32
	Write8(pc, addr uint32, v uint8)
	Write16(pc, addr uint32, v uint16)
	Write32(pc, addr uint32, v uint32)
}

// Timing names when a channel's transfer fires.
type Timing int

const (
	Immediate Timing = iota
	VBlank
	HBlank
	Special
)

// DestAdjust names how the destination pointer moves after each unit.
type DestAdjust int

const (
	DestIncrement DestAdjust = iota
	DestDecrement
	DestFixed
	DestIncrementReload
)

// SrcAdjust names how the source pointer moves after each unit.
type SrcAdjust int

const (
	SrcIncrement SrcAdjust = iota
	SrcDecrement
	SrcFixed
)

var srcMask = [4]uint32{1<<27 - 1, 1<<28 - 1, 1<<28 - 1, 1<<28 - 1}
var dstMask = [4]uint32{1<<27 - 1, 1<<27 - 1, 1<<27 - 1, 1<<28 - 1}

// Channel is one of the four DMA channels.
type Channel struct {
	index int

	// live registers, as software sees them.
	SrcAddr  uint32
	DstAddr  uint32
	Count    uint32
	DestAdj  DestAdjust
	SrcAdj   SrcAdjust
	Repeat   bool
	Word32   bool
	Timing   Timing
	IRQ      bool
	Enable   bool
	prevWord bool // previous Enable, to detect the rising edge

	// latches, captured when the channel is armed.
	srcLatch   uint32
	dstLatch   uint32
	countLatch uint32
}

// Bank holds all four DMA channels.
type Bank struct {
	Channels [4]*Channel
	bus      Bus
	irqc     *irq.Controller
}

// NewBank returns four DMA channels wired to bus and irqc.
func NewBank(bus Bus, irqc *irq.Controller) *Bank {
	b := &Bank{bus: bus, irqc: irqc}
	for i := range b.Channels {
		b.Channels[i] = &Channel{index: i}
	}
	return b
}

// WriteControl writes a channel's control fields and, on the rising edge of
// Enable with Immediate timing, performs the transfer synchronously — the
// bus calls this from its IO write path, so the transfer
// completes before the instruction that armed it retires.
func (b *Bank) WriteControl(index int, enable bool) {
	ch := b.Channels[index]
	rising := enable && !ch.prevWord
	ch.prevWord = enable
	ch.Enable = enable

	if rising {
		ch.srcLatch = ch.SrcAddr & srcMask[index]
		ch.dstLatch = ch.DstAddr & dstMask[index]
		ch.countLatch = ch.Count
		if ch.countLatch == 0 {
			if index == 3 {
				ch.countLatch = 0x10000
			} else {
				ch.countLatch = 0x4000
			}
		}

		if ch.Timing == Immediate {
			b.transfer(ch)
		}
	}
}

// Trigger fires every channel with the given timing whose enable bit is
// set — used by the scheduler at VBlank/HBlank, and by the APU at a FIFO
// timer overflow for Special-timing channels.
func (b *Bank) Trigger(t Timing) {
	for _, ch := range b.Channels {
		if ch.Enable && ch.Timing == t {
			b.transfer(ch)
		}
	}
}

func (b *Bank) transfer(ch *Channel) {
	fifoForced := ch.Timing == Special && (ch.index == 1 || ch.index == 2)

	word32 := ch.Word32
	count := ch.countLatch
	destAdj := ch.DestAdj
	if fifoForced {
		word32 = true
		count = 4
		destAdj = DestFixed
	}

	src := ch.srcLatch
	dst := ch.dstLatch

	for i := uint32(0); i < count; i++ {
		if word32 {
			b.bus.Write32(notCPU, dst, b.bus.Read32(notCPU, src))
		} else {
			b.bus.Write16(notCPU, dst, b.bus.Read16(notCPU, src))
		}

		unit := uint32(2)
		if word32 {
			unit = 4
		}

		switch ch.SrcAdj {
		case SrcIncrement:
			src += unit
		case SrcDecrement:
			src -= unit
		case SrcFixed:
		}

		switch destAdj {
		case DestIncrement, DestIncrementReload:
			dst += unit
		case DestDecrement:
			dst -= unit
		case DestFixed:
		}
	}

	ch.srcLatch = src
	if destAdj == DestIncrementReload {
		ch.dstLatch = ch.DstAddr & dstMask[ch.index]
	} else {
		ch.dstLatch = dst
	}

	if ch.IRQ && b.irqc != nil {
		b.irqc.Raise(irq.Source(int(irq.DMA0) + ch.index))
	}

	if !ch.Repeat {
		ch.Enable = false
		ch.prevWord = false
	}
}
