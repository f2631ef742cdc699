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

import (
	"github.com/jetsetilly/gba/hardware/apu"
	"github.com/jetsetilly/gba/hardware/input"
)

// RunFrame advances the emulation by exactly one 228-scanline frame.
func (g *GBA) RunFrame() {
	g.Scheduler.RunFrame()
}

// Press marks key held down.
func (g *GBA) Press(key input.Key) {
	g.Bus.Keypad.Press(key)
}

// Release marks key released.
func (g *GBA) Release(key input.Key) {
	g.Bus.Keypad.Release(key)
}

// Framebuffer returns the current 240x160 15-bit BGR pixel array, valid
// from the point OnFrameComplete fires until the next RunFrame call.
func (g *GBA) Framebuffer() *[240 * 160]uint16 {
	return &g.Bus.PPU.Framebuffer
}

// PopSample drains one stereo sample from the audio ring, for a host sink
// pulling at its own output rate.
func (g *GBA) PopSample() (apu.StereoSample, bool) {
	return g.Bus.APU.PopSample()
}
