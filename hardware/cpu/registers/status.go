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

package registers

// bit positions within a packed program status word.
const (
	bitT = 5  // Thumb state
	bitF = 6  // FIQ disable
	bitI = 7  // IRQ disable
	bitV = 28 // overflow
	bitC = 29 // carry
	bitZ = 30 // zero
	bitN = 31 // negative
)

// StatusRegister is the ARM7TDMI's CPSR/SPSR: four condition flags, three
// control bits and a five bit mode field, which pack into a single 32 bit
// word. The typed fields hold the state; Value() packs them into the word
// on demand, so it always reflects whatever was last written to a field,
// and FromValue() unpacks a raw write (from MSR, or from restoring a banked
// SPSR) into the fields.
type StatusRegister struct {
	N bool
	Z bool
	C bool
	V bool

	I bool // IRQ disabled
	F bool // FIQ disabled
	T bool // Thumb state

	Mode Mode
}

// Reset puts the status register into the state the ARM7TDMI powers on
// with: ARM state, IRQ and FIQ both disabled, Supervisor mode.
func (sr *StatusRegister) Reset() {
	*sr = StatusRegister{
		I:    true,
		F:    true,
		Mode: Supervisor,
	}
}

// Value packs the typed fields into a raw 32 bit program status word.
func (sr StatusRegister) Value() uint32 {
	v := uint32(sr.Mode) & 0x1f

	if sr.T {
		v |= 1 << bitT
	}
	if sr.F {
		v |= 1 << bitF
	}
	if sr.I {
		v |= 1 << bitI
	}
	if sr.V {
		v |= 1 << bitV
	}
	if sr.C {
		v |= 1 << bitC
	}
	if sr.Z {
		v |= 1 << bitZ
	}
	if sr.N {
		v |= 1 << bitN
	}

	return v
}

// FromValue unpacks a raw 32 bit program status word into the typed fields,
// overwriting whatever was there before.
func (sr *StatusRegister) FromValue(v uint32) {
	sr.Mode = Mode(v & 0x1f)
	sr.T = v&(1<<bitT) != 0
	sr.F = v&(1<<bitF) != 0
	sr.I = v&(1<<bitI) != 0
	sr.V = v&(1<<bitV) != 0
	sr.C = v&(1<<bitC) != 0
	sr.Z = v&(1<<bitZ) != 0
	sr.N = v&(1<<bitN) != 0
}

// FromValueFlagsOnly unpacks only the flag bits (N/Z/C/V) from v, leaving
// mode and control bits untouched. Used by MSR when the mask selects only
// the flags field.
func (sr *StatusRegister) FromValueFlagsOnly(v uint32) {
	sr.V = v&(1<<bitV) != 0
	sr.C = v&(1<<bitC) != 0
	sr.Z = v&(1<<bitZ) != 0
	sr.N = v&(1<<bitN) != 0
}

// SetNZ sets the N and Z flags from the given result, as almost every data
// processing opcode does when its S bit is set.
func (sr *StatusRegister) SetNZ(result uint32) {
	sr.N = result&0x80000000 != 0
	sr.Z = result == 0
}
