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

package memorymap_test

import (
	"testing"

	"github.com/jetsetilly/gba/hardware/memory/memorymap"
)

func TestDecodeRegions(t *testing.T) {
	cases := []struct {
		addr   uint32
		area   memorymap.Area
		offset uint32
	}{
		{0x00000010, memorymap.BIOS, 0x10},
		{0x02001234, memorymap.EWRAM, 0x1234},
		{0x02040000, memorymap.EWRAM, 0}, // mirrors every 256 KiB
		{0x03000010, memorymap.IWRAM, 0x10},
		{0x03008000, memorymap.IWRAM, 0}, // mirrors every 32 KiB
		{0x04000000, memorymap.IO, 0},
		{0x040000ba, memorymap.IO, 0xba},
		{0x05000010, memorymap.Palette, 0x10},
		{0x06000010, memorymap.VRAM, 0x10},
		{0x06010010, memorymap.VRAM, 0x8010},
		{0x06018010, memorymap.VRAM, 0x10010}, // second mirror folds back down
		{0x07000010, memorymap.OAM, 0x10},
		{0x08000010, memorymap.ROM, 0x10},
		{0x0a000010, memorymap.ROM, 0x10},
		{0x0e000010, memorymap.SRAM, 0x10},
	}

	for _, c := range cases {
		area, offset := memorymap.Decode(c.addr)
		if area != c.area {
			t.Errorf("addr %#08x: expected area %s, got %s", c.addr, c.area, area)
		}
		if offset != c.offset {
			t.Errorf("addr %#08x: expected offset %#x, got %#x", c.addr, c.offset, offset)
		}
	}
}

func TestDecodeUnmapped(t *testing.T) {
	area, _ := memorymap.Decode(0x04000500)
	if area != memorymap.Unmapped {
		t.Fatalf("expected address beyond the 1 KiB IO window to be unmapped, got %s", area)
	}
}
