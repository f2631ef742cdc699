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

// Banks holds the private register copies of every mode other than the one
// currently active. Only the active mode's SP/LR (and, for FIQ, R8-R12)
// live in the CPU's main register file; everyone else's are parked here
// until a mode switch brings them back.
type Banks struct {
	// R13 (SP) and R14 (LR), banked per privileged mode plus a shared
	// User/System slot.
	sp map[Mode]uint32
	lr map[Mode]uint32

	// R8-R12, banked for FIQ only; every other mode shares the User slot.
	fiqLow  [5]uint32
	userLow [5]uint32

	// saved program status registers, one per mode capable of holding one.
	spsr map[Mode]StatusRegister
}

// NewBanks returns a Banks with every slot zeroed.
func NewBanks() *Banks {
	return &Banks{
		sp:   make(map[Mode]uint32),
		lr:   make(map[Mode]uint32),
		spsr: make(map[Mode]StatusRegister),
	}
}

func bankKey(m Mode) Mode {
	if m == System {
		return User
	}
	return m
}

// SP returns the banked stack pointer for m.
func (b *Banks) SP(m Mode) uint32 { return b.sp[bankKey(m)] }

// SetSP stores the banked stack pointer for m.
func (b *Banks) SetSP(m Mode, v uint32) { b.sp[bankKey(m)] = v }

// LR returns the banked link register for m.
func (b *Banks) LR(m Mode) uint32 { return b.lr[bankKey(m)] }

// SetLR stores the banked link register for m.
func (b *Banks) SetLR(m Mode, v uint32) { b.lr[bankKey(m)] = v }

// Low returns the banked R8-R12 (index 0-4) for m: the FIQ-private copy if
// m is FIQ, otherwise the shared User/System copy.
func (b *Banks) Low(m Mode, index int) uint32 {
	if m == FIQ {
		return b.fiqLow[index]
	}
	return b.userLow[index]
}

// SetLow stores the banked R8-R12 for m.
func (b *Banks) SetLow(m Mode, index int, v uint32) {
	if m == FIQ {
		b.fiqLow[index] = v
	} else {
		b.userLow[index] = v
	}
}

// SPSR returns the saved program status register for m. Callers must check
// m.HasSPSR() first; User and System modes have none.
func (b *Banks) SPSR(m Mode) StatusRegister { return b.spsr[m] }

// SetSPSR stores the saved program status register for m.
func (b *Banks) SetSPSR(m Mode, sr StatusRegister) { b.spsr[m] = sr }
