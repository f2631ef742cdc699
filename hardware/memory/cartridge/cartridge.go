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

// Package cartridge implements the small external-collaborator interface
// the bus uses to reach ROM and SRAM/Flash: read8/write8 over
// 0x08000000..0x0FFFFFFF. Save-type chip state machines (Flash sector
// erase, EEPROM serial protocol) are out of scope; save memory is modelled
// as a flat byte array that a host can persist verbatim.
package cartridge

import "github.com/jetsetilly/gba/hardware/memory/memorymap"

// SaveType names what kind of save memory a cartridge header suggests, by
// the same convention as GBA developer tooling: scan the ROM image for one
// of a handful of ASCII ID strings and take the longest/most specific hit.
type SaveType string

const (
	SaveNone     SaveType = ""
	SaveEEPROM   SaveType = "EEPROM_V"
	SaveSRAM     SaveType = "SRAM_V"
	SaveFlash    SaveType = "FLASH_V"
	SaveFlash512 SaveType = "FLASH512_V"
	SaveFlash1M  SaveType = "FLASH1M_V"
)

var saveIDStrings = []SaveType{SaveFlash1M, SaveFlash512, SaveFlash, SaveSRAM, SaveEEPROM}

// detectSaveType scans rom for the save-ID strings in saveIDStrings order
// (FLASH1M_V, FLASH512_V, FLASH_V, SRAM_V, EEPROM_V) and returns the first
// one found. Real carts embed exactly one; none of the IDs contains
// another, so the order only matters for a ROM that embeds several.
func detectSaveType(rom []byte) SaveType {
	for _, id := range saveIDStrings {
		if containsASCII(rom, string(id)) {
			return id
		}
	}
	return SaveNone
}

func containsASCII(haystack []byte, needle string) bool {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := 0; j < len(needle); j++ {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func defaultSaveSize(t SaveType) int {
	switch t {
	case SaveEEPROM:
		return 0x2000 // 8 KiB, the larger of the two EEPROM variants
	case SaveSRAM:
		return 0x8000 // 32 KiB
	case SaveFlash, SaveFlash512:
		return 0x10000 // 64 KiB
	case SaveFlash1M:
		return 0x20000 // 128 KiB
	}
	return 0
}

// Cartridge is a loaded GBA ROM plus its save memory.
type Cartridge struct {
	rom      []byte
	save     []byte
	SaveType SaveType
}

// NewCartridge wraps rom, masked/mirrored to memorymap.ROMMaxSize, and
// allocates save memory sized according to the detected save type.
func NewCartridge(rom []byte) *Cartridge {
	c := &Cartridge{
		rom:      rom,
		SaveType: detectSaveType(rom),
	}
	if size := defaultSaveSize(c.SaveType); size > 0 {
		c.save = make([]byte, size)
		for i := range c.save {
			c.save[i] = 0xff
		}
	}
	return c
}

// Read8 implements the bus's ROM/SRAM external-collaborator read. addr is
// the full bus address (0x08000000..0x0FFFFFFF); the ROM region mirrors
// across its three wait-state-select windows and wraps any offset beyond
// the actual image size modulo that size.
func (c *Cartridge) Read8(addr uint32) uint8 {
	area, off := memorymap.Decode(addr)

	if area == memorymap.SRAM {
		if len(c.save) == 0 {
			return 0xff
		}
		return c.save[int(off)%len(c.save)]
	}

	if len(c.rom) == 0 {
		return 0
	}
	if int(off) >= len(c.rom) {
		off = off % uint32(len(c.rom))
	}
	return c.rom[off]
}

// Write8 handles SRAM writes. ROM is read-only; writes to it are dropped.
func (c *Cartridge) Write8(addr uint32, v uint8) {
	area, off := memorymap.Decode(addr)
	if area != memorymap.SRAM || len(c.save) == 0 {
		return
	}
	c.save[int(off)%len(c.save)] = v
}

// Save returns the current save memory contents for the host to persist.
func (c *Cartridge) Save() []byte {
	return c.save
}

// LoadSave replaces the save memory contents with data previously returned
// by Save, e.g. from a host-side save file.
func (c *Cartridge) LoadSave(data []byte) {
	if len(c.save) == 0 {
		return
	}
	n := copy(c.save, data)
	for i := n; i < len(c.save); i++ {
		c.save[i] = 0xff
	}
}
