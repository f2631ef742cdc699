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

package apu

import "testing"

func TestFIFOWritePopOrder(t *testing.T) {
	var f SampleFIFO
	f.Write(0x04030201)

	for _, want := range []int8{1, 2, 3, 4} {
		if got := f.Pop(); got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
}

func TestFIFOResetsWhenFullOnWrite(t *testing.T) {
	var f SampleFIFO
	for i := 0; i < 8; i++ {
		f.Write(0x01010101)
	}
	if f.size != fifoCapacity {
		t.Fatalf("expected FIFO full at %d, got %d", fifoCapacity, f.size)
	}

	f.Write(0x02020202)
	if f.size != 4 {
		t.Fatalf("expected a full FIFO to reset before the next write, got size %d", f.size)
	}
}

func TestFIFOBelowHalf(t *testing.T) {
	var f SampleFIFO
	if !f.BelowHalf() {
		t.Fatal("expected an empty FIFO to be below half capacity")
	}
	for i := 0; i < 5; i++ {
		f.Write(0x01010101)
	}
	if f.BelowHalf() {
		t.Fatal("expected 20 samples to be at or above half of 32")
	}
}
