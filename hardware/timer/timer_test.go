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

package timer_test

import (
	"testing"

	"github.com/jetsetilly/gba/hardware/irq"
	"github.com/jetsetilly/gba/hardware/timer"
)

func TestCascadeIncrementsOnOverflow(t *testing.T) {
	bank := timer.NewBank(irq.NewController())

	bank.Timers[0].Prescaler = 0
	bank.Timers[0].Reload = 0xfffe
	bank.Timers[0].Enable = true

	bank.Timers[1].Cascade = true
	bank.Timers[1].Enable = true

	bank.Step(4)

	if bank.Timers[1].Counter != 2 {
		t.Fatalf("expected timer1 counter to have incremented by 2 after 4 cycles, got %d", bank.Timers[1].Counter)
	}
}

func TestNonCascadeTimerIgnoresOverflowOfOthers(t *testing.T) {
	bank := timer.NewBank(irq.NewController())

	bank.Timers[0].Prescaler = 0
	bank.Timers[0].Reload = 0xfffe
	bank.Timers[0].Enable = true
	bank.Timers[1].Enable = true // not cascading

	bank.Step(4)

	if bank.Timers[1].Counter != 4 {
		t.Fatalf("expected free-running timer1 to have advanced by its own 4 cycles, got %d", bank.Timers[1].Counter)
	}
}
