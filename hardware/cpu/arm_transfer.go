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

import "github.com/jetsetilly/gba/hardware/cpu/registers"

// armSingleTransfer implements LDR/STR, byte and word, with either a 12-bit
// immediate offset or a shifted register offset (shifted by immediate
// amount only — this encoding never allows a register-specified shift).
func (cpu *CPU) armSingleTransfer(op uint32) int {
	immediateOffset := op&0x02000000 == 0
	pre := op&0x01000000 != 0
	up := op&0x00800000 != 0
	byteAccess := op&0x00400000 != 0
	writeback := op&0x00200000 != 0
	load := op&0x00100000 != 0
	rn := (op >> 16) & 0xf
	rd := (op >> 12) & 0xf

	var offset uint32
	if immediateOffset {
		offset = op & 0xfff
	} else {
		rm := op & 0xf
		st := shiftType((op >> 5) & 3)
		amount := (op >> 7) & 0x1f
		offset, _ = barrelShift(st, cpu.readReg(rm), amount, true, cpu.CPSR.C)
	}

	base := cpu.readReg(rn)
	addr := base
	if pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	pc := cpu.pc()

	if load {
		var v uint32
		if byteAccess {
			v = uint32(cpu.bus.Read8(pc, addr))
		} else {
			v = readWordRotated(cpu.bus, pc, addr)
		}
		if rd == 15 {
			cpu.writePC(v &^ 3)
		} else {
			cpu.R[rd] = v
		}
	} else {
		v := cpu.readReg(rd)
		if rd == 15 {
			v = pc + 8
		}
		if byteAccess {
			cpu.bus.Write8(pc, addr, uint8(v))
		} else {
			cpu.bus.Write32(pc, addr&^3, v)
		}
	}

	if !pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		cpu.R[rn] = addr
	} else if writeback {
		cpu.R[rn] = addr
	}

	if load {
		return 3
	}
	return 2
}

// armHalfwordTransfer implements LDRH/STRH/LDRSB/LDRSH, with either an
// immediate split-nibble offset or a register offset.
func (cpu *CPU) armHalfwordTransfer(op uint32) int {
	pre := op&0x01000000 != 0
	up := op&0x00800000 != 0
	immediateOffset := op&0x00400000 != 0
	writeback := op&0x00200000 != 0
	load := op&0x00100000 != 0
	rn := (op >> 16) & 0xf
	rd := (op >> 12) & 0xf
	sh := (op >> 5) & 3

	var offset uint32
	if immediateOffset {
		offset = ((op >> 4) & 0xf0) | (op & 0xf)
	} else {
		rm := op & 0xf
		offset = cpu.readReg(rm)
	}

	base := cpu.readReg(rn)
	addr := base
	if pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	pc := cpu.pc()

	if load {
		var v uint32
		switch sh {
		case 1: // unsigned halfword
			v = uint32(cpu.bus.Read16(pc, addr&^1))
		case 2: // signed byte
			v = uint32(int32(int8(cpu.bus.Read8(pc, addr))))
		case 3: // signed halfword
			half := cpu.bus.Read16(pc, addr&^1)
			v = uint32(int32(int16(half)))
		}
		cpu.R[rd] = v
	} else {
		cpu.bus.Write16(pc, addr&^1, uint16(cpu.readReg(rd)))
	}

	if !pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		cpu.R[rn] = addr
	} else if writeback {
		cpu.R[rn] = addr
	}

	return 3
}

// armBlockTransfer implements LDM/STM across all four addressing modes,
// the S-bit's user-bank/exception-return behaviour, the base-in-list
// writeback suppression rule, and the ARM7TDMI empty-list quirk.
func (cpu *CPU) armBlockTransfer(op uint32) int {
	pre := op&0x01000000 != 0
	up := op&0x00800000 != 0
	sBit := op&0x00400000 != 0
	writeback := op&0x00200000 != 0
	load := op&0x00100000 != 0
	rn := (op >> 16) & 0xf
	list := op & 0xffff

	base := cpu.readReg(rn)
	pc := cpu.pc()

	if list == 0 {
		// ARM7TDMI quirk: an empty register list transfers R15 only and
		// adjusts the base by 0x40.
		addr := base
		if !up {
			addr -= 0x40
		}
		if pre == up {
			addr += 0x10 // land on the single slot within the 0x40 window
		}
		if load {
			cpu.writePC(cpu.bus.Read32(pc, addr) &^ 3)
		} else {
			cpu.bus.Write32(pc, addr, pc+12)
		}
		if up {
			cpu.R[rn] = base + 0x40
		} else {
			cpu.R[rn] = base - 0x40
		}
		return 3
	}

	count := 0
	for i := 0; i < 16; i++ {
		if list&(1<<i) != 0 {
			count++
		}
	}

	startAddr := base
	if !up {
		startAddr -= uint32(count) * 4
	}
	if pre == up {
		startAddr += 4
	}

	loadedPC := false
	forceUserBank := sBit && !(load && list&0x8000 != 0)

	addr := startAddr
	firstReg := -1
	for i := 0; i < 16; i++ {
		if list&(1<<i) == 0 {
			continue
		}
		if firstReg == -1 {
			firstReg = i
		}

		if load {
			v := cpu.bus.Read32(pc, addr)
			if forceUserBank && i >= 8 && i <= 14 {
				cpu.writeUserReg(uint32(i), v)
			} else if uint32(i) == 15 {
				loadedPC = true
				cpu.writePC(v &^ 3)
			} else {
				cpu.R[i] = v
			}
		} else {
			var v uint32
			if forceUserBank && i >= 8 && i <= 14 {
				v = cpu.readUserReg(uint32(i))
			} else {
				v = cpu.readReg(uint32(i))
				if uint32(i) == 15 {
					v = pc + 12
				}
			}
			// STM writeback quirk: if Rn is in the list and is not the
			// first register stored, the post-writeback base is what gets
			// stored for it.
			if uint32(i) == rn && i != firstReg && writeback {
				if up {
					v = base + uint32(count)*4
				} else {
					v = base - uint32(count)*4
				}
			}
			cpu.bus.Write32(pc, addr, v)
		}

		addr += 4
	}

	if writeback {
		// LDM: writeback is suppressed when the base register was itself
		// loaded — the loaded value wins.
		if !(load && list&(1<<rn) != 0) {
			if up {
				cpu.R[rn] = base + uint32(count)*4
			} else {
				cpu.R[rn] = base - uint32(count)*4
			}
		}
	}

	if sBit && load && loadedPC {
		cpu.exceptionReturn()
	}

	return 2 + count
}

func (cpu *CPU) readUserReg(r uint32) uint32 {
	if cpu.CPSR.Mode == registers.User || cpu.CPSR.Mode == registers.System {
		return cpu.R[r]
	}
	if r >= 8 && r <= 12 {
		if cpu.CPSR.Mode == registers.FIQ {
			return cpu.bank.Low(registers.User, int(r-8))
		}
		return cpu.R[r]
	}
	if r == 13 {
		return cpu.bank.SP(registers.User)
	}
	if r == 14 {
		return cpu.bank.LR(registers.User)
	}
	return cpu.R[r]
}

func (cpu *CPU) writeUserReg(r uint32, v uint32) {
	if cpu.CPSR.Mode == registers.User || cpu.CPSR.Mode == registers.System {
		cpu.R[r] = v
		return
	}
	if r >= 8 && r <= 12 {
		if cpu.CPSR.Mode == registers.FIQ {
			cpu.bank.SetLow(registers.User, int(r-8), v)
			return
		}
		cpu.R[r] = v
		return
	}
	if r == 13 {
		cpu.bank.SetSP(registers.User, v)
		return
	}
	if r == 14 {
		cpu.bank.SetLR(registers.User, v)
		return
	}
	cpu.R[r] = v
}
