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

// Bus is the CPU's view of the memory system. Every method takes pc, the
// address of the instruction currently in pipe[0], because BIOS protection
// needs to know whether the fetch/access originates from BIOS code without
// the bus holding a back-reference to the CPU.
//
// Bus accesses never fail: an out-of-range address is handled by masking or
// substitution inside the implementation, never by returning an error.
type Bus interface {
	Read8(pc, addr uint32) uint8
	Read16(pc, addr uint32) uint16
	Read32(pc, addr uint32) uint32

	Write8(pc, addr uint32, v uint8)
	Write16(pc, addr uint32, v uint16)
	Write32(pc, addr uint32, v uint32)
}
