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

// Package timer implements the GBA's four cascadable 16-bit timers.
package timer

import "github.com/jetsetilly/gba/hardware/irq"

var prescalers = [4]int{1, 64, 256, 1024}

// Timer is one of the four hardware timer channels.
type Timer struct {
	index int

	Enable    bool
	Cascade   bool
	IRQEnable bool
	Prescaler int // index into prescalers, 0-3

	Reload  uint16
	Counter uint16

	accumulator int
	prevEnable  bool

	// OnOverflow is invoked whenever the counter wraps, before the cascade
	// chain is walked, so the audio mixer's FIFO channels can resample.
	OnOverflow func(index int)
}

// Bank holds all four timers wired into their cascade chain.
type Bank struct {
	Timers [4]*Timer
	irqc   *irq.Controller
}

// NewBank returns four timers, cascade-chained 0->1->2->3, reporting
// overflow IRQs to irqc.
func NewBank(irqc *irq.Controller) *Bank {
	b := &Bank{irqc: irqc}
	for i := range b.Timers {
		b.Timers[i] = &Timer{index: i}
	}
	return b
}

// Step delivers cycles CPU cycles to every non-cascade timer. Cascade
// timers only advance when the timer feeding them overflows.
func (b *Bank) Step(cycles int) {
	// Rising-edge reloads are applied to every timer before any counting or
	// cascading happens this Step, so a cascade timer enabled in the same
	// Step as its feeder sees its cascaded increments, not a reload that
	// clobbers them.
	for i := range b.Timers {
		t := b.Timers[i]
		if t.Enable && !t.prevEnable {
			t.Counter = t.Reload
			t.accumulator = 0
		}
		t.prevEnable = t.Enable
	}

	for i := range b.Timers {
		t := b.Timers[i]

		if !t.Enable || t.Cascade {
			continue
		}

		t.accumulator += cycles
		divisor := prescalers[t.Prescaler]
		for t.accumulator >= divisor {
			t.accumulator -= divisor
			b.tick(i)
		}
	}
}

// tick increments timer i's counter by one, handling overflow: reload,
// raise the IRQ if enabled, notify OnOverflow, then walk the cascade chain.
func (b *Bank) tick(i int) {
	t := b.Timers[i]
	t.Counter++
	if t.Counter != 0 {
		return
	}

	t.Counter = t.Reload

	if t.IRQEnable && b.irqc != nil {
		b.irqc.Raise(irq.Source(int(irq.Timer0) + i))
	}
	if t.OnOverflow != nil {
		t.OnOverflow(i)
	}

	next := i + 1
	if next < 4 && b.Timers[next].Enable && b.Timers[next].Cascade {
		b.tick(next)
	}
}
