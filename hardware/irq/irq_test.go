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

package irq_test

import (
	"testing"

	"github.com/jetsetilly/gba/hardware/irq"
)

func TestPendingRequiresIMEAndEnable(t *testing.T) {
	c := irq.NewController()
	c.Raise(irq.VBlank)
	if c.Pending() {
		t.Fatal("expected no pending IRQ without IME")
	}

	c.IME = true
	if c.Pending() {
		t.Fatal("expected no pending IRQ without the source enabled in IE")
	}

	c.IE = 1 << uint(irq.VBlank)
	if !c.Pending() {
		t.Fatal("expected pending IRQ once IME and IE both admit it")
	}
}

func TestWriteIFClearsOnlySetBits(t *testing.T) {
	c := irq.NewController()
	c.Raise(irq.VBlank)
	c.Raise(irq.Timer0)

	c.WriteIF(1 << uint(irq.VBlank))

	if c.IF&(1<<uint(irq.VBlank)) != 0 {
		t.Fatal("expected VBlank bit cleared")
	}
	if c.IF&(1<<uint(irq.Timer0)) == 0 {
		t.Fatal("expected Timer0 bit to remain set")
	}
}
