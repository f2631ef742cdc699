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

// Package cpu implements the ARM7TDMI interpreter: the ARMv4T instruction
// set (32-bit ARM and 16-bit Thumb), seven processor modes with banked
// registers, exception entry, and a two-stage prefetch model.
//
// The interpreter is a pure state machine driven by Step. It knows nothing
// about scanlines or frames; the scheduler is responsible for calling Step
// until a cycle budget is exhausted and for delivering IRQ lines.
package cpu

import (
	"github.com/jetsetilly/gba/hardware/cpu/registers"
	"github.com/jetsetilly/gba/logger"
)

// PSR reset addresses for the two exception types this interpreter
// implements directly (IRQ and SWI). Abort and Undefined entry are not
// exercised by the GBA's own software but their vectors are defined for
// completeness; no FIQ vector is defined.
const (
	VectorReset     = 0x00
	VectorUndefined = 0x04
	VectorSWI       = 0x08
	VectorAbort     = 0x10
	VectorIRQ       = 0x18
)

// CPU is an ARM7TDMI core: 16 general registers (R13/R14 are the active
// mode's SP/LR), a current program status register, and banked storage for
// every register private to an inactive mode.
type CPU struct {
	bus Bus

	R    [16]uint32
	CPSR registers.StatusRegister
	bank *registers.Banks

	// pipe[0] is the instruction about to execute, pipe[1] the prefetched
	// next. pipeValid is false immediately after any PC write or mode/state
	// transition that redirects execution, forcing a two-fetch refill
	// before the next instruction runs.
	pipe      [2]uint32
	pipeValid bool

	Halted bool

	// Cycles accumulates the S/N/I cycle approximation returned by
	// instruction handlers, across calls to Step, until the scheduler
	// resets it.
	Cycles int
}

// NewCPU returns a CPU wired to bus. The CPU starts in the reset state; the
// caller should follow with Reset() or the emulator's skip_bios path.
func NewCPU(bus Bus) *CPU {
	cpu := &CPU{
		bus:  bus,
		bank: registers.NewBanks(),
	}
	cpu.Reset()
	return cpu
}

// Reset puts the CPU into the ARM7TDMI's power-on state: Supervisor mode,
// ARM state, IRQ and FIQ disabled, PC at the reset vector.
func (cpu *CPU) Reset() {
	cpu.R = [16]uint32{}
	cpu.CPSR.Reset()
	cpu.bank = registers.NewBanks()
	cpu.R[15] = VectorReset
	cpu.pipeValid = false
	cpu.Halted = false
}

// pc returns the address of the instruction in pipe[0] — the value the Bus
// interface calls "pc" for BIOS-protection purposes. It is R15 minus the
// pipeline's look-ahead (8 in ARM state, 4 in Thumb).
func (cpu *CPU) pc() uint32 {
	if cpu.CPSR.T {
		return cpu.R[15] - 4
	}
	return cpu.R[15] - 8
}

// invalidatePipeline marks the prefetch queue empty, forcing a full refill
// before the next instruction executes. Every write to PC, and every
// mode/state transition that redirects execution, must call this.
func (cpu *CPU) invalidatePipeline() {
	cpu.pipeValid = false
}

func (cpu *CPU) instructionSize() uint32 {
	if cpu.CPSR.T {
		return 2
	}
	return 4
}

// refill performs the fixed two-fetch pipeline reload, costing 2 cycles as
// specified. After this call pipe[0] and pipe[1] are both valid and R15
// points to the address of the next fetch (executing_addr+8 in ARM,
// executing_addr+4 in Thumb).
func (cpu *CPU) refill() int {
	sz := cpu.instructionSize()

	if cpu.CPSR.T {
		cpu.pipe[0] = uint32(cpu.bus.Read16(cpu.R[15], cpu.R[15]))
		cpu.R[15] += sz
		cpu.pipe[1] = uint32(cpu.bus.Read16(cpu.R[15], cpu.R[15]))
		cpu.R[15] += sz
	} else {
		cpu.pipe[0] = cpu.bus.Read32(cpu.R[15], cpu.R[15])
		cpu.R[15] += sz
		cpu.pipe[1] = cpu.bus.Read32(cpu.R[15], cpu.R[15])
		cpu.R[15] += sz
	}

	cpu.pipeValid = true
	return 2
}

// Step executes one instruction and returns the number of cycles it took
// (the scheduler's S/N/I approximation). It first services a pending IRQ,
// if any, checked only at this instruction boundary.
func (cpu *CPU) Step(irqLine bool) int {
	if cpu.Halted {
		if irqLine {
			cpu.Halted = false
		} else {
			return 1
		}
	}

	if !cpu.pipeValid {
		return cpu.refill()
	}

	if irqLine && !cpu.CPSR.I {
		return cpu.enterIRQ()
	}

	opcode := cpu.pipe[0]

	var cycles int
	if cpu.CPSR.T {
		cycles = cpu.executeThumb(uint16(opcode))
	} else {
		cycles = cpu.executeARM(opcode)
	}

	if cpu.pipeValid {
		sz := cpu.instructionSize()
		cpu.pipe[0] = cpu.pipe[1]
		if cpu.CPSR.T {
			cpu.pipe[1] = uint32(cpu.bus.Read16(cpu.R[15], cpu.R[15]))
		} else {
			cpu.pipe[1] = cpu.bus.Read32(cpu.R[15], cpu.R[15])
		}
		cpu.R[15] += sz
	}

	cpu.Cycles += cycles
	return cycles
}

// switchMode banks the outgoing mode's private registers and loads the
// incoming mode's, per the spec's mode-switching contract. A no-op if the
// mode is unchanged.
func (cpu *CPU) switchMode(to registers.Mode) {
	from := cpu.CPSR.Mode
	if from == to {
		return
	}

	cpu.bank.SetSP(from, cpu.R[13])
	cpu.bank.SetLR(from, cpu.R[14])
	if from == registers.FIQ || to == registers.FIQ {
		for i := 0; i < 5; i++ {
			cpu.bank.SetLow(from, i, cpu.R[8+i])
		}
	}

	cpu.R[13] = cpu.bank.SP(to)
	cpu.R[14] = cpu.bank.LR(to)
	if from == registers.FIQ || to == registers.FIQ {
		for i := 0; i < 5; i++ {
			cpu.R[8+i] = cpu.bank.Low(to, i)
		}
	}

	cpu.CPSR.Mode = to
}

// enterIRQ implements the IRQ entry sequence: switch to IRQ mode, bank the
// prior CPSR, point LR at the interrupted instruction's re-entry address,
// disable further IRQs, force ARM state, and redirect to the IRQ vector.
//
// IRQs are only taken between instructions, with pipe[0] holding the next
// (interrupted) instruction; its address is cpu.pc(). The IRQ handler
// returns via an ARM SUBS PC,LR,#4, so LR must be cpu.pc()+4 regardless of
// whether the interrupted instruction was ARM or Thumb.
func (cpu *CPU) enterIRQ() int {
	prior := cpu.CPSR
	retAddr := cpu.pc() + 4

	cpu.switchMode(registers.IRQ)
	cpu.bank.SetSPSR(registers.IRQ, prior)
	cpu.R[14] = retAddr
	cpu.CPSR.I = true
	cpu.CPSR.T = false
	cpu.R[15] = VectorIRQ

	cpu.invalidatePipeline()
	return cpu.refill()
}

// enterSWI implements the software interrupt entry sequence.
func (cpu *CPU) enterSWI() int {
	prior := cpu.CPSR
	retAddr := cpu.pc() + cpu.instructionSize()

	cpu.switchMode(registers.Supervisor)
	cpu.bank.SetSPSR(registers.Supervisor, prior)
	cpu.R[14] = retAddr
	cpu.CPSR.I = true
	cpu.CPSR.T = false
	cpu.R[15] = VectorSWI

	cpu.invalidatePipeline()
	return cpu.refill()
}

// exceptionReturn restores CPSR from the current mode's SPSR, honouring the
// mode change the restored CPSR implies. Used by the tail of LDM^, SUBS
// PC,LR and MOVS PC,LR when S is set and PC is the destination.
func (cpu *CPU) exceptionReturn() {
	if !cpu.CPSR.Mode.HasSPSR() {
		logger.Logf("cpu", "exception return attempted with no SPSR (mode %s)", cpu.CPSR.Mode)
		return
	}
	spsr := cpu.bank.SPSR(cpu.CPSR.Mode)
	cpu.switchMode(spsr.Mode)
	cpu.CPSR = spsr
}

// writePC writes v to R15, aligns it to the current instruction size and
// invalidates the pipeline. Every ARM/Thumb handler that can redirect
// execution funnels through here.
func (cpu *CPU) writePC(v uint32) {
	if cpu.CPSR.T {
		cpu.R[15] = v &^ 1
	} else {
		cpu.R[15] = v &^ 3
	}
	cpu.invalidatePipeline()
}

// SkipBIOS installs the register state the real BIOS's startup code leaves
// behind, for a host that wants to boot straight into cartridge code:
// System mode, ARM state, the three privileged modes' stack pointers set to
// their post-boot defaults, and PC at the cartridge entry point.
func (cpu *CPU) SkipBIOS() {
	cpu.bank.SetSP(registers.User, 0x03007f00)
	cpu.bank.SetSP(registers.Supervisor, 0x03007fe0)
	cpu.bank.SetSP(registers.IRQ, 0x03007fa0)

	cpu.CPSR.Mode = registers.System
	cpu.CPSR.T = false
	cpu.CPSR.I = false
	cpu.CPSR.F = false
	cpu.R[13] = cpu.bank.SP(registers.System)
	cpu.R[14] = 0

	cpu.R[15] = 0x08000000
	cpu.invalidatePipeline()
}

// unimplemented logs and treats the encoding as a no-op, per the spec's
// "unimplemented instruction encoding" recoverable-error kind.
func (cpu *CPU) unimplemented(kind string, encoding uint32) int {
	logger.Logf("cpu", "unimplemented %s encoding %#08x", kind, encoding)
	return 1
}
