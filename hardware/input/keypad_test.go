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

package input_test

import (
	"testing"

	"github.com/jetsetilly/gba/hardware/input"
)

func TestInitialStateIsAllReleased(t *testing.T) {
	k := input.NewKeypad()
	if k.Strobe() != 0x03ff {
		t.Fatalf("expected initial KEYINPUT 0x03ff, got %#04x", k.Strobe())
	}
}

func TestPressClearsBitReleaseSetsIt(t *testing.T) {
	k := input.NewKeypad()

	k.Press(input.A)
	if k.Strobe()&1 != 0 {
		t.Fatal("expected bit 0 clear once A is pressed")
	}

	k.Release(input.A)
	if k.Strobe()&1 == 0 {
		t.Fatal("expected bit 0 set once A is released")
	}
}
