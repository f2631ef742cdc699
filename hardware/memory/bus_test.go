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

package memory_test

import (
	"testing"

	"github.com/jetsetilly/gba/hardware/memory"
)

func TestEWRAMReadWrite(t *testing.T) {
	b := memory.NewBus()
	b.Write8(0, 0x02000010, 0x42)
	if got := b.Read8(0, 0x02000010); got != 0x42 {
		t.Errorf("expected 0x42, got %#x", got)
	}
}

func TestRead16Misaligned(t *testing.T) {
	b := memory.NewBus()
	b.Write8(0, 0x03000000, 0x11)
	b.Write8(0, 0x03000001, 0x22)
	b.Write8(0, 0x03000002, 0x33)

	// aligned read sees the natural halfword
	if got := b.Read16(0, 0x03000000); got != 0x2211 {
		t.Errorf("expected 0x2211, got %#04x", got)
	}

	// misaligned read: aligns down, then rotates the result by 8 bits
	if got := b.Read16(0, 0x03000001); got != 0x1122 {
		t.Errorf("expected 0x1122 (rotated), got %#04x", got)
	}
}

func TestRead32Misaligned(t *testing.T) {
	b := memory.NewBus()
	b.Write32(0, 0x03000000, 0x44332211)

	if got := b.Read32(0, 0x03000001); got != 0x11443322 {
		t.Errorf("expected 0x11443322 (rotated by 8), got %#08x", got)
	}
	if got := b.Read32(0, 0x03000002); got != 0x22114433 {
		t.Errorf("expected 0x22114433 (rotated by 16), got %#08x", got)
	}
}

func TestWrite16Misaligned(t *testing.T) {
	b := memory.NewBus()
	b.Write8(0, 0x03000000, 0xff)
	b.Write8(0, 0x03000001, 0xff)
	b.Write8(0, 0x03000002, 0xff)

	// a misaligned halfword write lands on the aligned address, unrotated
	b.Write16(0, 0x03000001, 0xabcd)

	if got := b.Read16(0, 0x03000000); got != 0xabcd {
		t.Errorf("expected 0xabcd written to aligned address, got %#04x", got)
	}
}

func TestPaletteByteWriteDuplicatesIntoHalfword(t *testing.T) {
	b := memory.NewBus()
	b.Write8(0, 0x05000000, 0x3c)

	if got := b.Read16(0, 0x05000000); got != 0x3c3c {
		t.Errorf("expected byte write to duplicate into both halfword bytes, got %#04x", got)
	}
}

func TestOAMByteWriteIgnored(t *testing.T) {
	b := memory.NewBus()
	b.Write16(0, 0x07000000, 0x1234)
	b.Write8(0, 0x07000000, 0xff)

	if got := b.Read16(0, 0x07000000); got != 0x1234 {
		t.Errorf("expected 8-bit OAM write to be ignored, got %#04x", got)
	}
}

func TestBIOSOpenBusReturnsLastFetchedWord(t *testing.T) {
	b := memory.NewBus()
	bios := make([]byte, 0x4000)
	bios[0] = 0x11
	bios[1] = 0x22
	bios[2] = 0x33
	bios[3] = 0x44
	b.LoadBIOS(bios)

	// pc inside BIOS: legitimate read, also primes the open-bus cache
	if got := b.Read32(0, 0x00000000); got != 0x44332211 {
		t.Errorf("expected 0x44332211, got %#08x", got)
	}

	// pc outside BIOS: the read is redirected to the cached word regardless
	// of the address requested
	if got := b.Read8(0x08000000, 0x00000002); got != 0x33 {
		t.Errorf("expected open-bus byte 0x33 from cached word, got %#x", got)
	}
}

func TestKeypadStrobeThroughIO(t *testing.T) {
	b := memory.NewBus()
	if got := b.Read16(0, 0x04000130); got != 0x03ff {
		t.Errorf("expected KEYINPUT reset value 0x03ff, got %#04x", got)
	}
}

func TestIMEWriteReadRoundTrip(t *testing.T) {
	b := memory.NewBus()
	b.Write16(0, 0x04000208, 1)
	if got := b.Read16(0, 0x04000208); got != 1 {
		t.Errorf("expected IME to read back as 1, got %#04x", got)
	}
}

func TestDMAEnableRisingEdgeTriggersOnFullRegisterWrite(t *testing.T) {
	b := memory.NewBus()

	// arrange a small immediate transfer: one 16-bit unit, source and
	// dest increment, between two otherwise unused IWRAM addresses.
	b.Write16(0, 0x03000000, 0xbeef)
	b.Write32(0, 0x040000b0, 0x03000000) // DMA0SAD (safe, unused region)
	b.Write32(0, 0x040000b4, 0x03000100) // DMA0DAD
	b.Write16(0, 0x040000b8, 1)          // DMA0CNT_L: 1 unit

	// writing CNT_H with the enable bit set (bit 15) and immediate timing
	// performs the transfer at once; the channel does not repeat, so the
	// enable bit reads back clear afterwards.
	b.Write16(0, 0x040000ba, 0x8000)
	if got := b.Read16(0, 0x03000100); got != 0xbeef {
		t.Errorf("expected the immediate transfer to copy 0xbeef to the dest, got %#04x", got)
	}
	if got := b.Read16(0, 0x040000ba); got&0x8000 != 0 {
		t.Errorf("expected the enable bit to clear after a non-repeat transfer, got %#04x", got)
	}
}
