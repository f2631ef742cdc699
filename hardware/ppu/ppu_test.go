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

package ppu_test

import (
	"testing"

	"github.com/jetsetilly/gba/hardware/ppu"
)

func TestForcedBlankFillsWhite(t *testing.T) {
	p := ppu.NewPPU(make([]byte, 0x18000), make([]byte, 0x400), make([]byte, 0x400))
	p.Regs.DispCnt.ForcedBlank = true

	p.RenderScanline(0)

	for x := 0; x < ppu.ScreenWidth; x++ {
		if got := p.Framebuffer[x]; got != 0x7fff {
			t.Fatalf("column %d: expected forced-blank white 0x7fff, got %#04x", x, got)
		}
	}
}

func TestBackdropFillsWhenNothingElseDraws(t *testing.T) {
	palette := make([]byte, 0x400)
	palette[0] = 0x1f // backdrop = pure red (low 5 bits)

	p := ppu.NewPPU(make([]byte, 0x18000), palette, make([]byte, 0x400))
	p.Regs.DispCnt.Mode = 0

	p.RenderScanline(0)

	for x := 0; x < ppu.ScreenWidth; x++ {
		if got := p.Framebuffer[x]; got != 0x001f {
			t.Fatalf("column %d: expected backdrop color 0x001f, got %#04x", x, got)
		}
	}
}

func TestMode3BitmapReadsVRAMDirectly(t *testing.T) {
	vram := make([]byte, 0x18000)
	vram[0] = 0xff
	vram[1] = 0x7f // 0x7fff at column 0, row 0

	p := ppu.NewPPU(vram, make([]byte, 0x400), make([]byte, 0x400))
	p.Regs.DispCnt.Mode = 3

	p.RenderScanline(0)

	if got := p.Framebuffer[0]; got != 0x7fff {
		t.Fatalf("expected column 0 to read the mode 3 bitmap pixel 0x7fff, got %#04x", got)
	}
}

func TestWindow0ClipsBitmapLayerToItsRect(t *testing.T) {
	vram := make([]byte, 0x18000)
	for x := 0; x < ppu.ScreenWidth; x++ {
		off := x * 2
		vram[off] = 0xff
		vram[off+1] = 0x7f // solid white everywhere in the mode 3 framebuffer
	}

	p := ppu.NewPPU(vram, make([]byte, 0x400), make([]byte, 0x400))
	p.Regs.DispCnt.Mode = 3
	p.Regs.DispCnt.Win0 = true

	p.Regs.Win0Left, p.Regs.Win0Right = 10, 20
	p.Regs.Win0Top, p.Regs.Win0Bottom = 0, ppu.ScreenHeight
	p.Regs.WinIn = 0x001f // window 0 admits every BG + OBJ layer, effects off
	p.Regs.WinOut = 0x0000

	p.RenderScanline(0)

	for x := 0; x < ppu.ScreenWidth; x++ {
		inside := x >= 10 && x < 20
		got := p.Framebuffer[x]
		if inside && got != 0x7fff {
			t.Fatalf("column %d: inside WIN0, expected bitmap pixel 0x7fff, got %#04x", x, got)
		}
		if !inside && got == 0x7fff {
			t.Fatalf("column %d: outside WIN0 with WINOUT admitting nothing, expected backdrop, got %#04x", x, got)
		}
	}
}
