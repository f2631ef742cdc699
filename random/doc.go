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

// Package random should be used in preference to the math/rand package
// whenever a random number is required inside the emulation.
//
// Numbers are seeded from the scheduler's current position (frame, scanline
// and cycle-within-scanline) rather than from the host clock, so that two
// runs which reach the same point in the frame produce the same sequence of
// "random" numbers. This is required for snapshot/replay determinism and for
// running two instances of the emulation in lockstep.
//
// If ZeroSeed is set, the host-supplied base seed is not mixed in, and the
// generator becomes fully deterministic from the scheduler coordinates
// alone. This is useful in tests.
package random
