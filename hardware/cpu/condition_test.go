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

import "testing"

func TestConditionTruthTable(t *testing.T) {
	type flags struct{ n, z, c, v bool }

	want := map[uint32]func(f flags) bool{
		0x0: func(f flags) bool { return f.z },
		0x1: func(f flags) bool { return !f.z },
		0x2: func(f flags) bool { return f.c },
		0x3: func(f flags) bool { return !f.c },
		0x4: func(f flags) bool { return f.n },
		0x5: func(f flags) bool { return !f.n },
		0x6: func(f flags) bool { return f.v },
		0x7: func(f flags) bool { return !f.v },
		0x8: func(f flags) bool { return f.c && !f.z },
		0x9: func(f flags) bool { return !f.c || f.z },
		0xa: func(f flags) bool { return f.n == f.v },
		0xb: func(f flags) bool { return f.n != f.v },
		0xc: func(f flags) bool { return !f.z && f.n == f.v },
		0xd: func(f flags) bool { return f.z || f.n != f.v },
		0xe: func(f flags) bool { return true },
		0xf: func(f flags) bool { return true },
	}

	cpu := &CPU{}

	for _, n := range []bool{false, true} {
		for _, z := range []bool{false, true} {
			for _, c := range []bool{false, true} {
				for _, v := range []bool{false, true} {
					f := flags{n, z, c, v}
					cpu.CPSR.N, cpu.CPSR.Z, cpu.CPSR.C, cpu.CPSR.V = n, z, c, v

					for cond, fn := range want {
						got := cpu.checkCondition(cond)
						if got != fn(f) {
							t.Errorf("cond %#x with flags %+v: expected %v, got %v", cond, f, fn(f), got)
						}
					}
				}
			}
		}
	}
}
