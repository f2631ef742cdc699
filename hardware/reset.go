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

package hardware

// hleTrampoline is the fixed ARM code skip_bios() installs at 0x128 when
// running in HLE mode, plus the branch at the IRQ vector (0x18) that
// reaches it. Real software's IRQ handler is entered through the BIOS's own
// interrupt dispatcher; without a BIOS image this trampoline stands in for
// it so that IRQ return (SUBS PC,LR,#4) always has somewhere real to land.
//
//	0x18: B 0x128
//	0x128: STMFD SP!,{R0-R3,R12,LR}
//	       MOV   R0,#0x04000000
//	       ADD   LR,PC,#0
//	       LDR   PC,[R0,#-4]
//	       LDMFD SP!,{R0-R3,R12,LR}
//	       SUBS  PC,LR,#4
var hleTrampoline = []uint32{
	0xe92d500f, // STMFD SP!,{R0-R3,R12,LR}
	0xe3a00404, // MOV   R0,#0x04000000
	0xe28fe000, // ADD   LR,PC,#0
	0xe510f004, // LDR   PC,[R0,#-4]
	0xe8bd500f, // LDMFD SP!,{R0-R3,R12,LR}
	0xe25ef004, // SUBS  PC,LR,#4
}

const (
	vectorIRQOffset  = 0x18
	trampolineOffset = 0x128
)

// SkipBIOS puts the machine into the state real BIOS startup code leaves
// behind: System mode, the three privileged stack pointers at their
// documented defaults, and PC at the cartridge entry point. In HLE mode
// (Instance.Prefs.Model.HLE) it also writes a trampoline into the BIOS
// region so a real interrupt-return sequence has somewhere to land, since
// no actual BIOS image need be loaded.
func (g *GBA) SkipBIOS() {
	g.CPU.SkipBIOS()

	if g.Instance.Prefs.Model.HLE.Get().(bool) {
		g.installHLETrampoline()
	}
}

func (g *GBA) installHLETrampoline() {
	branch := uint32(0xea000000) | ((uint32(trampolineOffset-vectorIRQOffset-8) >> 2) & 0x00ffffff)
	g.writeBIOSWord(vectorIRQOffset, branch)

	for i, op := range hleTrampoline {
		g.writeBIOSWord(uint32(trampolineOffset+i*4), op)
	}
}

// writeBIOSWord pokes directly into the BIOS backing array. It bypasses the
// bus's read-only BIOS write path deliberately: this is host-side
// initialisation, not a guest memory access.
func (g *GBA) writeBIOSWord(off uint32, v uint32) {
	g.Bus.BIOS[off] = uint8(v)
	g.Bus.BIOS[off+1] = uint8(v >> 8)
	g.Bus.BIOS[off+2] = uint8(v >> 16)
	g.Bus.BIOS[off+3] = uint8(v >> 24)
}
