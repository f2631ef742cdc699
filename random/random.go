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

package random

import (
	"math/rand"
	"time"
)

// ScanlinesPerFrame and CyclesPerScanline mirror the scheduler's frame grid
// (228 scanlines of 1232 cycles each) without importing the scheduler
// package, so that random has no dependency on the rest of the hardware
// tree.
const (
	ScanlinesPerFrame = 228
	CyclesPerScanline = 1232
)

// Coords identifies a position within the emulation's frame grid. It is
// deliberately a plain value type rather than an interface into the
// scheduler, so that random stays a leaf package.
type Coords struct {
	Frame    int
	Scanline int
	Cycle    int
}

// CoordsProvider is implemented by anything that can report the current
// scheduler position. hardware/scheduler.Scheduler satisfies this.
type CoordsProvider interface {
	GetCoords() Coords
}

// the base seed for all random numbers, fixed once per process
var baseSeed int64

func init() {
	baseSeed = int64(time.Now().Nanosecond())
}

// Random is a random number generator that is sensitive to the emulation's
// position within the frame grid. Required so that snapshots and
// lockstepped parallel emulations produce identical sequences.
type Random struct {
	coords CoordsProvider

	// ZeroSeed disables the host-supplied base seed, making the sequence
	// depend only on the scheduler coordinates. Useful for testing.
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(coords CoordsProvider) *Random {
	return &Random{
		coords: coords,
	}
}

// translate scheduler coordinates into a single value
func coordsSum(c Coords) int64 {
	return int64(c.Frame*ScanlinesPerFrame*CyclesPerScanline + c.Scanline*CyclesPerScanline + c.Cycle)
}

// new RNG from the standard library
func (rnd *Random) rand() *rand.Rand {
	if rnd.ZeroSeed {
		return rand.New(rand.NewSource(coordsSum(rnd.coords.GetCoords())))
	}
	return rand.New(rand.NewSource(baseSeed + coordsSum(rnd.coords.GetCoords())))
}

// Intn returns a non-negative random number in the half-open interval [0,n).
func (rnd *Random) Intn(n int) int {
	return rnd.rand().Intn(n)
}

// Fill writes len(buf) random bytes into buf, drawn from a single
// generator seeded once from the current coordinates. Used for bulk
// initialisation (e.g. randomizing work RAM on power-on) where calling
// Intn once per byte would reseed on the same coordinates every time and
// produce the same byte repeated throughout.
func (rnd *Random) Fill(buf []byte) {
	r := rnd.rand()
	for i := range buf {
		buf[i] = byte(r.Intn(256))
	}
}
