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

// Package input implements the GBA keypad: a single active-low 10-bit
// register, one bit per button.
package input

// Key names one of the keypad's ten buttons, and doubles as its bit index
// in the KEYINPUT register.
type Key int

const (
	A Key = iota
	B
	Select
	Start
	Right
	Left
	Up
	Down
	R
	L
)

// allKeysReleased is the KEYINPUT reset value: every bit set, since 0 means
// pressed.
const allKeysReleased = 0x03ff

// Keypad tracks the current state of all ten buttons.
type Keypad struct {
	state uint16
}

// NewKeypad returns a Keypad with every button released.
func NewKeypad() *Keypad {
	return &Keypad{state: allKeysReleased}
}

// Press clears key's bit, marking it held down.
func (k *Keypad) Press(key Key) {
	k.state &^= 1 << uint(key)
}

// Release sets key's bit, marking it released.
func (k *Keypad) Release(key Key) {
	k.state |= 1 << uint(key)
}

// Strobe returns the raw KEYINPUT value for the IO region to expose.
func (k *Keypad) Strobe() uint16 {
	return k.state
}
