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

// Package memory presents the GBA's flat 32-bit address space to the CPU as
// a single Bus, routing every access to the region memorymap.Decode names:
// BIOS, EWRAM, IWRAM, IO, Palette, VRAM, OAM, ROM and SRAM. Every other
// subsystem — PPU, APU, DMA, timers, IRQ controller, keypad, cartridge —
// is reached exclusively through this Bus; nothing outside it walks into
// another subsystem's internals.
package memory

import (
	"github.com/jetsetilly/gba/hardware/apu"
	"github.com/jetsetilly/gba/hardware/dma"
	"github.com/jetsetilly/gba/hardware/input"
	"github.com/jetsetilly/gba/hardware/irq"
	"github.com/jetsetilly/gba/hardware/memory/cartridge"
	"github.com/jetsetilly/gba/hardware/memory/memorymap"
	"github.com/jetsetilly/gba/hardware/ppu"
	"github.com/jetsetilly/gba/hardware/timer"
	"github.com/jetsetilly/gba/logger"
)

// Bus is the CPU's, and every other subsystem's, gateway to memory. It
// implements hardware/cpu.Bus and hardware/dma.Bus structurally, without
// importing either package.
type Bus struct {
	BIOS    []byte
	EWRAM   []byte
	IWRAM   []byte
	Palette []byte
	VRAM    []byte
	OAM     []byte
	io      [memorymap.IOSize]byte

	Cart *cartridge.Cartridge

	PPU    *ppu.PPU
	APU    *apu.APU
	Timers *timer.Bank
	DMA    *dma.Bank
	IRQ    *irq.Controller
	Keypad *input.Keypad

	// lastBIOSWord caches the most recent aligned word read while PC was
	// legitimately inside the BIOS region, per the open-bus protection
	// rule: a BIOS access while PC has left the region returns this value,
	// sliced/rotated to the request, rather than real BIOS content.
	lastBIOSWord uint32
	haveBIOSWord bool

	// openBus caches the last value driven on the bus by any mapped
	// access, byte-replicated to fill a word. A read of an unmapped
	// address returns this, sliced to the request, rather than zero.
	openBus uint32

	haltRequested bool
	waitcnt       uint16
}

// NewBus allocates every RAM-backed region and wires the subsystems that
// own their own state (PPU/APU/timers/DMA/IRQ/keypad). Cart is set
// separately once a ROM is loaded.
func NewBus() *Bus {
	b := &Bus{
		BIOS:    make([]byte, memorymap.BIOSSize),
		EWRAM:   make([]byte, memorymap.EWRAMSize),
		IWRAM:   make([]byte, memorymap.IWRAMSize),
		Palette: make([]byte, memorymap.PaletteSize),
		VRAM:    make([]byte, memorymap.VRAMSize),
		OAM:     make([]byte, memorymap.OAMSize),
	}

	b.IRQ = irq.NewController()
	b.DMA = dma.NewBank(b, b.IRQ)
	b.PPU = ppu.NewPPU(b.VRAM, b.Palette, b.OAM)
	b.APU = apu.NewAPU(b.DMA)
	b.Timers = timer.NewBank(b.IRQ)
	for _, t := range b.Timers.Timers {
		t.OnOverflow = func(index int) { b.APU.OnTimerOverflow(index) }
	}
	b.Keypad = input.NewKeypad()

	return b
}

// LoadROM installs rom as the cartridge and reports the save type its
// header scan detected.
func (b *Bus) LoadROM(rom []byte) cartridge.SaveType {
	b.Cart = cartridge.NewCartridge(rom)
	return b.Cart.SaveType
}

// LoadBIOS copies bios into the BIOS region, truncated or zero-padded to
// BIOSSize.
func (b *Bus) LoadBIOS(bios []byte) {
	n := copy(b.BIOS, bios)
	for i := n; i < len(b.BIOS); i++ {
		b.BIOS[i] = 0
	}
}

// Halted reports whether HALTCNT has requested the CPU halt. The scheduler
// hands the request to the CPU's own Halted flag and clears it here via
// ClearHalt in the same step.
func (b *Bus) Halted() bool {
	return b.haltRequested
}

// ClearHalt cancels a pending halt request, called once the CPU observes it.
func (b *Bus) ClearHalt() {
	b.haltRequested = false
}

func alignHalf(addr uint32) uint32 { return addr &^ 1 }
func alignWord(addr uint32) uint32 { return addr &^ 3 }

// recordBus caches v as the most recent value driven on the bus by a
// mapped access. width is the access width in bytes (1, 2 or 4); narrower
// values are replicated to fill the cached word so a later unmapped access
// of any width can be sliced out of it.
func (b *Bus) recordBus(v uint32, width int) {
	switch width {
	case 1:
		v &= 0xff
		v |= v<<8 | v<<16 | v<<24
	case 2:
		v &= 0xffff
		v |= v << 16
	}
	b.openBus = v
}

// openBusByte returns the cached open-bus value sliced to the byte at addr.
func (b *Bus) openBusByte(addr uint32) uint8 {
	return uint8(b.openBus >> ((addr & 3) * 8))
}

// Read8 reads one byte from addr. pc is the CPU's current program counter,
// used only to enforce the BIOS protection rule.
func (b *Bus) Read8(pc, addr uint32) uint8 {
	area, off := memorymap.Decode(addr)
	switch area {
	case memorymap.BIOS:
		return b.readBIOSByte(pc, off)
	case memorymap.EWRAM:
		v := b.EWRAM[off]
		b.recordBus(uint32(v), 1)
		return v
	case memorymap.IWRAM:
		v := b.IWRAM[off]
		b.recordBus(uint32(v), 1)
		return v
	case memorymap.IO:
		v := b.ioRead8(off)
		b.recordBus(uint32(v), 1)
		return v
	case memorymap.Palette:
		v := b.Palette[off]
		b.recordBus(uint32(v), 1)
		return v
	case memorymap.VRAM:
		v := b.VRAM[off]
		b.recordBus(uint32(v), 1)
		return v
	case memorymap.OAM:
		v := b.OAM[off]
		b.recordBus(uint32(v), 1)
		return v
	case memorymap.ROM, memorymap.SRAM:
		if b.Cart != nil {
			v := b.Cart.Read8(addr)
			b.recordBus(uint32(v), 1)
			return v
		}
		return b.openBusByte(addr)
	}
	return b.openBusByte(addr)
}

// Read16 reads a halfword, force-aligning the address and rotating a
// misaligned request's result by 8 bits per the bus invariant.
func (b *Bus) Read16(pc, addr uint32) uint16 {
	misaligned := addr&1 != 0
	a := alignHalf(addr)

	area, off := memorymap.Decode(a)
	var v uint16
	switch area {
	case memorymap.BIOS:
		word := b.readBIOSWord(pc, off&^3)
		v = uint16(word >> ((off & 3) * 8))
	case memorymap.IO:
		v = b.ioRead16(off)
		b.recordBus(uint32(v), 2)
	default:
		v = uint16(b.Read8(pc, a)) | uint16(b.Read8(pc, a+1))<<8
		b.recordBus(uint32(v), 2)
	}

	if misaligned {
		v = v>>8 | v<<8
	}
	return v
}

// Read32 reads a word, rotating a misaligned request's aligned result right
// by (addr&3)*8 bits per the bus invariant.
func (b *Bus) Read32(pc, addr uint32) uint32 {
	rot := (addr & 3) * 8
	a := alignWord(addr)

	area, off := memorymap.Decode(a)
	var v uint32
	switch area {
	case memorymap.BIOS:
		v = b.readBIOSWord(pc, off)
	case memorymap.IO:
		v = b.ioRead32(off)
		b.recordBus(v, 4)
	default:
		v = uint32(b.Read8(pc, a)) |
			uint32(b.Read8(pc, a+1))<<8 |
			uint32(b.Read8(pc, a+2))<<16 |
			uint32(b.Read8(pc, a+3))<<24
		b.recordBus(v, 4)
	}

	if rot != 0 {
		v = v>>rot | v<<(32-rot)
	}
	return v
}

// readBIOSByte implements the byte-granular half of the BIOS protection
// rule: direct access only while pc is itself inside BIOS, else the cached
// last-good word is sliced to the requested byte.
func (b *Bus) readBIOSByte(pc, off uint32) uint8 {
	if pc < memorymap.BIOSSize {
		return b.BIOS[off]
	}
	return b.openBusBIOSByte(off)
}

func (b *Bus) openBusBIOSByte(off uint32) uint8 {
	if !b.haveBIOSWord {
		return 0
	}
	shift := (off & 3) * 8
	return uint8(b.lastBIOSWord >> shift)
}

// readBIOSWord implements the word-granular half: a legitimate fetch
// updates the cache, an illegitimate one returns it untouched.
func (b *Bus) readBIOSWord(pc, off uint32) uint32 {
	if pc < memorymap.BIOSSize {
		v := uint32(b.BIOS[off]) |
			uint32(b.BIOS[off+1])<<8 |
			uint32(b.BIOS[off+2])<<16 |
			uint32(b.BIOS[off+3])<<24
		b.lastBIOSWord = v
		b.haveBIOSWord = true
		return v
	}
	if !b.haveBIOSWord {
		return 0
	}
	return b.lastBIOSWord
}

// Write8 writes one byte. Palette, VRAM and OAM have hardware-specific
// byte-write quirks handled here, so Write16/Write32 never decompose a
// wider write into single-byte calls for those regions.
func (b *Bus) Write8(pc, addr uint32, v uint8) {
	area, off := memorymap.Decode(addr)
	switch area {
	case memorymap.BIOS:
		// BIOS is read-only from the bus's perspective.
	case memorymap.EWRAM:
		b.EWRAM[off] = v
		b.recordBus(uint32(v), 1)
	case memorymap.IWRAM:
		b.IWRAM[off] = v
		b.recordBus(uint32(v), 1)
	case memorymap.IO:
		b.ioWrite8(off, v)
		b.recordBus(uint32(v), 1)
	case memorymap.Palette:
		// An 8-bit write duplicates into both bytes of the aligned
		// halfword; there is no true byte-write path to palette RAM.
		half := off &^ 1
		b.Palette[half] = v
		b.Palette[half+1] = v
		b.recordBus(uint32(v), 1)
	case memorymap.VRAM:
		// As with palette RAM, an 8-bit write duplicates into both bytes
		// of the aligned halfword.
		half := off &^ 1
		b.VRAM[half] = v
		b.VRAM[half+1] = v
		b.recordBus(uint32(v), 1)
	case memorymap.OAM:
		// An 8-bit write to OAM is ignored outright.
	case memorymap.ROM:
		// ROM is read-only; cartridge control writes (bank switches, save
		// chip commands) are out of scope per the cartridge interface.
	case memorymap.SRAM:
		if b.Cart != nil {
			b.Cart.Write8(addr, v)
			b.recordBus(uint32(v), 1)
		}
	}
}

// Write16 writes a halfword at the force-aligned address; a misaligned
// request writes to the aligned address with no rotation.
func (b *Bus) Write16(pc, addr uint32, v uint16) {
	a := alignHalf(addr)
	area, off := memorymap.Decode(a)
	switch area {
	case memorymap.Palette, memorymap.VRAM, memorymap.OAM:
		b.writeWideDirect(a, uint32(v), 2)
		b.recordBus(uint32(v), 2)
	case memorymap.IO:
		b.ioWrite16(off, v)
		b.recordBus(uint32(v), 2)
	default:
		b.Write8(pc, a, uint8(v))
		b.Write8(pc, a+1, uint8(v>>8))
	}
}

// Write32 writes a word at the force-aligned address; a misaligned request
// writes to the aligned address with no rotation.
func (b *Bus) Write32(pc, addr uint32, v uint32) {
	a := alignWord(addr)
	area, off := memorymap.Decode(a)
	switch area {
	case memorymap.Palette, memorymap.VRAM, memorymap.OAM:
		b.writeWideDirect(a, v, 4)
		b.recordBus(v, 4)
	case memorymap.IO:
		b.ioWrite32(off, v)
		b.recordBus(v, 4)
	default:
		b.Write8(pc, a, uint8(v))
		b.Write8(pc, a+1, uint8(v>>8))
		b.Write8(pc, a+2, uint8(v>>16))
		b.Write8(pc, a+3, uint8(v>>24))
	}
}

// writeWideDirect writes n bytes of v directly into palette/VRAM/OAM
// backing storage. Palette and VRAM take halfword/word writes verbatim;
// this bypasses Write8's byte-write special-casing, which only applies to
// genuine 8-bit accesses.
func (b *Bus) writeWideDirect(addr uint32, v uint32, n int) {
	area, off := memorymap.Decode(addr)
	var dst []byte
	switch area {
	case memorymap.Palette:
		dst = b.Palette
	case memorymap.VRAM:
		dst = b.VRAM
	case memorymap.OAM:
		dst = b.OAM
	default:
		logger.Logf("bus", "writeWideDirect called for non-wide-backed area %s", area)
		return
	}
	for i := 0; i < n; i++ {
		if int(off)+i >= len(dst) {
			break
		}
		dst[int(off)+i] = uint8(v >> uint(i*8))
	}
}
