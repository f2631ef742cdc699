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

// executeThumb decodes and executes one 16-bit Thumb instruction. Formats
// are checked in the priority order the encoding requires: a long branch
// (F19) and SWI (F17) are checked ahead of the plain conditional/
// unconditional branches because their top nibbles otherwise collide with
// looser format masks further down the list.
func (cpu *CPU) executeThumb(op uint16) int {
	switch {
	case op&0xf800 == 0xf000 || op&0xf800 == 0xf800:
		return cpu.thumbLongBranchLink(op)
	case op&0xff00 == 0xdf00:
		return cpu.armSWI(uint32(op))
	case op&0xf000 == 0xd000:
		return cpu.thumbConditionalBranch(op)
	case op&0xf800 == 0xe000:
		return cpu.thumbUnconditionalBranch(op)
	case op&0xf600 == 0xb400:
		return cpu.thumbPushPop(op)
	case op&0xff00 == 0xb000:
		return cpu.thumbAddSP(op)
	case op&0xf000 == 0xc000:
		return cpu.thumbMultipleLoadStore(op)
	case op&0xf000 == 0xa000:
		return cpu.thumbLoadAddress(op)
	case op&0xf000 == 0x9000:
		return cpu.thumbSPRelativeLoadStore(op)
	case op&0xf000 == 0x8000:
		return cpu.thumbLoadStoreHalfword(op)
	case op&0xe000 == 0x6000:
		return cpu.thumbLoadStoreImmediateOffset(op)
	case op&0xf200 == 0x5200:
		return cpu.thumbLoadStoreSignExtended(op)
	case op&0xf200 == 0x5000:
		return cpu.thumbLoadStoreRegisterOffset(op)
	case op&0xf800 == 0x4800:
		return cpu.thumbPCRelativeLoad(op)
	case op&0xfc00 == 0x4400:
		return cpu.thumbHiRegisterOpsBX(op)
	case op&0xfc00 == 0x4000:
		return cpu.thumbALU(op)
	case op&0xe000 == 0x2000:
		return cpu.thumbMovCmpAddSubImmediate(op)
	case op&0xf800 == 0x1800:
		return cpu.thumbAddSubtract(op)
	case op&0xe000 == 0x0000:
		return cpu.thumbShiftImmediate(op)
	}

	return cpu.unimplemented("Thumb", uint32(op))
}

// F1: LSL/LSR/ASR Rd, Rs, #imm5.
func (cpu *CPU) thumbShiftImmediate(op uint16) int {
	st := shiftType((op >> 11) & 3)
	amount := uint32((op >> 6) & 0x1f)
	rs := (op >> 3) & 7
	rd := op & 7

	v, carry := barrelShift(st, cpu.R[rs], amount, true, cpu.CPSR.C)
	cpu.R[rd] = v
	cpu.CPSR.SetNZ(v)
	cpu.CPSR.C = carry
	return 1
}

// F2: ADD/SUB Rd, Rs, Rn|#imm3.
func (cpu *CPU) thumbAddSubtract(op uint16) int {
	immediate := op&0x0400 != 0
	subtract := op&0x0200 != 0
	rnOrImm := uint32((op >> 6) & 7)
	rs := (op >> 3) & 7
	rd := op & 7

	var operand uint32
	if immediate {
		operand = rnOrImm
	} else {
		operand = cpu.R[rnOrImm]
	}

	if subtract {
		cpu.R[rd] = cpu.subtract(cpu.R[rs], operand, true)
	} else {
		cpu.R[rd] = cpu.add(cpu.R[rs], operand, true)
	}
	return 1
}

// F3: MOV/CMP/ADD/SUB Rd, #imm8.
func (cpu *CPU) thumbMovCmpAddSubImmediate(op uint16) int {
	opc := (op >> 11) & 3
	rd := (op >> 8) & 7
	imm := uint32(op & 0xff)

	switch opc {
	case 0: // MOV
		cpu.R[rd] = imm
		cpu.CPSR.SetNZ(imm)
	case 1: // CMP
		cpu.subtract(cpu.R[rd], imm, true)
	case 2: // ADD
		cpu.R[rd] = cpu.add(cpu.R[rd], imm, true)
	case 3: // SUB
		cpu.R[rd] = cpu.subtract(cpu.R[rd], imm, true)
	}
	return 1
}

// F4: two-register ALU operations.
func (cpu *CPU) thumbALU(op uint16) int {
	opc := (op >> 6) & 0xf
	rs := (op >> 3) & 7
	rd := op & 7

	a := cpu.R[rd]
	b := cpu.R[rs]

	switch opc {
	case 0x0: // AND
		cpu.R[rd] = a & b
		cpu.CPSR.SetNZ(cpu.R[rd])
	case 0x1: // EOR
		cpu.R[rd] = a ^ b
		cpu.CPSR.SetNZ(cpu.R[rd])
	case 0x2: // LSL
		v, c := shiftLSLOp(a, b&0xff, cpu.CPSR.C)
		cpu.R[rd] = v
		cpu.CPSR.SetNZ(v)
		cpu.CPSR.C = c
	case 0x3: // LSR
		v, c := shiftLSROp(a, b&0xff, cpu.CPSR.C)
		cpu.R[rd] = v
		cpu.CPSR.SetNZ(v)
		cpu.CPSR.C = c
	case 0x4: // ASR
		v, c := shiftASROp(a, b&0xff, cpu.CPSR.C)
		cpu.R[rd] = v
		cpu.CPSR.SetNZ(v)
		cpu.CPSR.C = c
	case 0x5: // ADC
		cpu.R[rd] = cpu.addCarry(a, b, boolToBit(cpu.CPSR.C), true)
	case 0x6: // SBC
		cpu.R[rd] = cpu.subtractCarry(a, b, boolToBit(cpu.CPSR.C), true)
	case 0x7: // ROR
		v, c := shiftROROp(a, b&0xff, cpu.CPSR.C)
		cpu.R[rd] = v
		cpu.CPSR.SetNZ(v)
		cpu.CPSR.C = c
	case 0x8: // TST
		cpu.CPSR.SetNZ(a & b)
	case 0x9: // NEG
		cpu.R[rd] = cpu.subtract(0, b, true)
	case 0xa: // CMP
		cpu.subtract(a, b, true)
	case 0xb: // CMN
		cpu.add(a, b, true)
	case 0xc: // ORR
		cpu.R[rd] = a | b
		cpu.CPSR.SetNZ(cpu.R[rd])
	case 0xd: // MUL
		cpu.R[rd] = a * b
		cpu.CPSR.SetNZ(cpu.R[rd])
	case 0xe: // BIC
		cpu.R[rd] = a &^ b
		cpu.CPSR.SetNZ(cpu.R[rd])
	case 0xf: // MVN
		cpu.R[rd] = ^b
		cpu.CPSR.SetNZ(cpu.R[rd])
	}
	return 1
}

// F5: hi-register operations and BX.
func (cpu *CPU) thumbHiRegisterOpsBX(op uint16) int {
	opc := (op >> 8) & 3
	h1 := op&0x0080 != 0
	h2 := op&0x0040 != 0
	rs := uint32((op >> 3) & 7)
	if h2 {
		rs += 8
	}
	rd := uint32(op & 7)
	if h1 {
		rd += 8
	}

	switch opc {
	case 0: // ADD
		cpu.writeReg(rd, cpu.readReg(rd)+cpu.readReg(rs))
	case 1: // CMP
		cpu.subtract(cpu.readReg(rd), cpu.readReg(rs), true)
	case 2: // MOV
		cpu.writeReg(rd, cpu.readReg(rs))
	case 3: // BX
		target := cpu.readReg(rs)
		cpu.CPSR.T = target&1 != 0
		cpu.writePC(target)
	}
	return 3
}

// F6: PC-relative load, word-aligning PC first.
func (cpu *CPU) thumbPCRelativeLoad(op uint16) int {
	rd := (op >> 8) & 7
	imm := uint32(op&0xff) << 2
	base := (cpu.R[15] &^ 3) + imm
	cpu.R[rd] = cpu.bus.Read32(cpu.pc(), base)
	return 3
}

// F7: register-offset load/store, byte or word.
func (cpu *CPU) thumbLoadStoreRegisterOffset(op uint16) int {
	load := op&0x0800 != 0
	byteAccess := op&0x0400 != 0
	ro := (op >> 6) & 7
	rb := (op >> 3) & 7
	rd := op & 7

	addr := cpu.R[rb] + cpu.R[ro]
	pc := cpu.pc()

	if load {
		if byteAccess {
			cpu.R[rd] = uint32(cpu.bus.Read8(pc, addr))
		} else {
			cpu.R[rd] = readWordRotated(cpu.bus, pc, addr)
		}
	} else {
		if byteAccess {
			cpu.bus.Write8(pc, addr, uint8(cpu.R[rd]))
		} else {
			cpu.bus.Write32(pc, addr&^3, cpu.R[rd])
		}
	}
	return 3
}

// F8: sign-extended byte/halfword load, and plain halfword store.
func (cpu *CPU) thumbLoadStoreSignExtended(op uint16) int {
	hFlag := op&0x0800 != 0
	signExtend := op&0x0400 != 0
	ro := (op >> 6) & 7
	rb := (op >> 3) & 7
	rd := op & 7

	addr := cpu.R[rb] + cpu.R[ro]
	pc := cpu.pc()

	switch {
	case !signExtend && !hFlag: // STRH
		cpu.bus.Write16(pc, addr&^1, uint16(cpu.R[rd]))
	case !signExtend && hFlag: // LDRH
		cpu.R[rd] = uint32(cpu.bus.Read16(pc, addr&^1))
	case signExtend && !hFlag: // LDSB
		cpu.R[rd] = uint32(int32(int8(cpu.bus.Read8(pc, addr))))
	case signExtend && hFlag: // LDSH
		cpu.R[rd] = uint32(int32(int16(cpu.bus.Read16(pc, addr&^1))))
	}
	return 3
}

// F9: immediate-offset load/store, byte or word.
func (cpu *CPU) thumbLoadStoreImmediateOffset(op uint16) int {
	byteAccess := op&0x1000 != 0
	load := op&0x0800 != 0
	imm := uint32((op >> 6) & 0x1f)
	rb := (op >> 3) & 7
	rd := op & 7

	if !byteAccess {
		imm <<= 2
	}
	addr := cpu.R[rb] + imm
	pc := cpu.pc()

	if load {
		if byteAccess {
			cpu.R[rd] = uint32(cpu.bus.Read8(pc, addr))
		} else {
			cpu.R[rd] = readWordRotated(cpu.bus, pc, addr)
		}
	} else {
		if byteAccess {
			cpu.bus.Write8(pc, addr, uint8(cpu.R[rd]))
		} else {
			cpu.bus.Write32(pc, addr&^3, cpu.R[rd])
		}
	}
	return 3
}

// F10: halfword load/store with a 5-bit immediate offset, scaled by 2.
func (cpu *CPU) thumbLoadStoreHalfword(op uint16) int {
	load := op&0x0800 != 0
	imm := uint32((op>>6)&0x1f) << 1
	rb := (op >> 3) & 7
	rd := op & 7

	addr := cpu.R[rb] + imm
	pc := cpu.pc()

	if load {
		cpu.R[rd] = uint32(cpu.bus.Read16(pc, addr&^1))
	} else {
		cpu.bus.Write16(pc, addr&^1, uint16(cpu.R[rd]))
	}
	return 3
}

// F11: SP-relative load/store.
func (cpu *CPU) thumbSPRelativeLoadStore(op uint16) int {
	load := op&0x0800 != 0
	rd := (op >> 8) & 7
	imm := uint32(op&0xff) << 2

	addr := cpu.R[13] + imm
	pc := cpu.pc()

	if load {
		cpu.R[rd] = readWordRotated(cpu.bus, pc, addr)
	} else {
		cpu.bus.Write32(pc, addr&^3, cpu.R[rd])
	}
	return 3
}

// F12: ADD Rd, PC|SP, #imm8<<2.
func (cpu *CPU) thumbLoadAddress(op uint16) int {
	usePC := op&0x0800 == 0
	rd := (op >> 8) & 7
	imm := uint32(op&0xff) << 2

	if usePC {
		cpu.R[rd] = (cpu.R[15] &^ 3) + imm
	} else {
		cpu.R[rd] = cpu.R[13] + imm
	}
	return 1
}

// F13: ADD/SUB SP, #imm7<<2.
func (cpu *CPU) thumbAddSP(op uint16) int {
	negative := op&0x0080 != 0
	imm := uint32(op&0x7f) << 2

	if negative {
		cpu.R[13] -= imm
	} else {
		cpu.R[13] += imm
	}
	return 1
}

// F14: PUSH/POP, with the LR/PC extension bit.
func (cpu *CPU) thumbPushPop(op uint16) int {
	pop := op&0x0800 != 0
	rBit := op&0x0100 != 0
	list := op & 0xff
	pc := cpu.pc()

	count := rBit2count(list, rBit)

	if pop {
		addr := cpu.R[13]
		for i := 0; i < 8; i++ {
			if list&(1<<i) != 0 {
				cpu.R[i] = cpu.bus.Read32(pc, addr)
				addr += 4
			}
		}
		if rBit {
			v := cpu.bus.Read32(pc, addr)
			cpu.writePC(v &^ 1)
			addr += 4
		}
		cpu.R[13] = addr
	} else {
		addr := cpu.R[13] - uint32(count)*4
		cpu.R[13] = addr
		for i := 0; i < 8; i++ {
			if list&(1<<i) != 0 {
				cpu.bus.Write32(pc, addr, cpu.R[i])
				addr += 4
			}
		}
		if rBit {
			cpu.bus.Write32(pc, addr, cpu.R[14])
		}
	}
	return 3
}

func rBit2count(list uint16, rBit bool) int {
	count := 0
	for i := 0; i < 8; i++ {
		if list&(1<<i) != 0 {
			count++
		}
	}
	if rBit {
		count++
	}
	return count
}

// F15: STMIA/LDMIA Rb!, {list}.
func (cpu *CPU) thumbMultipleLoadStore(op uint16) int {
	load := op&0x0800 != 0
	rb := uint32((op >> 8) & 7)
	list := op & 0xff
	pc := cpu.pc()
	base := cpu.R[rb]

	count := 0
	for i := 0; i < 8; i++ {
		if list&(1<<i) != 0 {
			count++
		}
	}

	addr := base
	firstReg := -1
	for i := 0; i < 8; i++ {
		if list&(1<<i) == 0 {
			continue
		}
		if firstReg == -1 {
			firstReg = i
		}

		if load {
			cpu.R[i] = cpu.bus.Read32(pc, addr)
		} else {
			v := cpu.R[i]
			// STMIA writeback quirk, parallel to the ARM rule: if Rb is in
			// the list and is not the first register stored, the
			// post-writeback base is what gets stored for it.
			if uint32(i) == rb && i != firstReg {
				v = base + uint32(count)*4
			}
			cpu.bus.Write32(pc, addr, v)
		}

		addr += 4
	}

	// LDMIA: writeback is suppressed when the base register was itself
	// loaded — the loaded value wins.
	if !(load && list&(1<<rb) != 0) {
		cpu.R[rb] = base + uint32(count)*4
	}
	return 2
}

// F16: conditional branch.
func (cpu *CPU) thumbConditionalBranch(op uint16) int {
	cond := uint32((op >> 8) & 0xf)
	if !cpu.checkCondition(cond) {
		return 1
	}
	offset := int32(int8(op & 0xff)) * 2
	cpu.writePC(uint32(int32(cpu.R[15]) + offset))
	return 3
}

// F17: SWI is handled ahead of this dispatch by executeThumb.

// F18: unconditional branch.
func (cpu *CPU) thumbUnconditionalBranch(op uint16) int {
	offset := op & 0x07ff
	signed := int32(uint32(offset)<<21) >> 20 // sign-extend an 11-bit value, pre-scaled by 2
	cpu.writePC(uint32(int32(cpu.R[15]) + signed))
	return 3
}

// F19: BL, delivered as a pair of halfwords. The high half stashes
// PC+(offset<<12) into LR; the low half computes the final target from LR
// and sets LR to the return address with bit 0 set (Thumb marker).
func (cpu *CPU) thumbLongBranchLink(op uint16) int {
	low := op&0x0800 != 0
	offset := uint32(op & 0x07ff)

	if !low {
		signed := int32(offset<<21) >> 9 // sign-extend 11 bits, pre-scaled by 12
		cpu.R[14] = uint32(int32(cpu.R[15]) + signed)
		return 1
	}

	next := cpu.R[15] &^ 1
	target := cpu.R[14] + (offset << 1)
	cpu.R[14] = (next - 2) | 1
	cpu.writePC(target)
	return 3
}
