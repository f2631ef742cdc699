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

// Package ppu implements the GBA's scanline-based picture processing unit:
// six graphics modes, regular and affine backgrounds, sprites, and the
// alpha/brighten/darken blend stage.
//
// The PPU is driven one scanline at a time by RenderScanline; it does not
// know about cycle budgets or the frame protocol, which is the
// scheduler's job.
package ppu

const (
	ScreenWidth  = 240
	ScreenHeight = 160
)

// transparent is the sentinel pixel value used internally to mean "no
// opaque pixel was written here" — it never collides with a real 15-bit
// BGR color because those top out at 0x7fff.
const transparent = 0xffff

// PPU owns the display registers and renders into a persistent
// framebuffer. VRAM, palette RAM and OAM are the same backing arrays the
// bus exposes to the CPU; the PPU is handed direct slices into them at
// construction so scanline rendering doesn't pay per-pixel MMIO dispatch
// overhead.
type PPU struct {
	Regs Registers

	vram    []byte
	palette []byte
	oam     []byte

	Framebuffer [ScreenWidth * ScreenHeight]uint16

	// per-scanline work buffers, reused every line.
	colorBuf    [ScreenWidth]uint16
	topLayer    [ScreenWidth]layer
	secondLayer [ScreenWidth]layer
	secondColor [ScreenWidth]uint16

	// winLayers/winEffect hold, per column, which layers the active window
	// set admits and whether blend effects are allowed there. Recomputed at
	// the top of every RenderScanline by computeWindows.
	winLayers [ScreenWidth]layer
	winEffect [ScreenWidth]bool

	// objWindow is scratch space for the OBJ window mask: true at columns
	// covered by an opaque pixel of a mode-2 (window) sprite this scanline.
	objWindow [ScreenWidth]bool
}

// NewPPU returns a PPU backed by the given memory regions. vram must be at
// least 0x18000 bytes, palette and oam at least 0x400.
func NewPPU(vram, palette, oam []byte) *PPU {
	return &PPU{
		vram:    vram,
		palette: palette,
		oam:     oam,
	}
}

func (p *PPU) paletteColor(index int) uint16 {
	if index <= 0 || index >= 256 {
		return 0
	}
	return uint16(p.palette[index*2]) | uint16(p.palette[index*2+1])<<8
}

func (p *PPU) objPaletteColor(index int) uint16 {
	off := 0x200 + index*2
	if index <= 0 || off+1 >= len(p.palette) {
		return 0
	}
	return uint16(p.palette[off]) | uint16(p.palette[off+1])<<8
}

// backdropColor is palette entry 0, used to fill the scanline before any
// layer is composited.
func (p *PPU) backdropColor() uint16 {
	return uint16(p.palette[0]) | uint16(p.palette[1])<<8
}

// RenderScanline composites one visible scanline (VCOUNT in [0,160)) into
// Framebuffer[y]. The scheduler calls this at the HBlank boundary, as
// specified by the frame protocol.
func (p *PPU) RenderScanline(y int) {
	if p.Regs.DispCnt.ForcedBlank {
		for x := 0; x < ScreenWidth; x++ {
			p.Framebuffer[y*ScreenWidth+x] = 0x7fff
		}
		return
	}

	backdrop := p.backdropColor()
	for x := 0; x < ScreenWidth; x++ {
		p.colorBuf[x] = backdrop
		p.topLayer[x] = layerBD
		p.secondLayer[x] = layerBD
		p.secondColor[x] = backdrop
	}

	p.computeWindows(y)

	switch p.Regs.DispCnt.Mode {
	case 0:
		p.renderTiledMode(y, [4]bool{true, true, true, true}, [4]bool{})
	case 1:
		p.renderTiledMode(y, [4]bool{true, true, false, false}, [4]bool{false, false, true, false})
	case 2:
		p.renderTiledMode(y, [4]bool{false, false, false, false}, [4]bool{false, false, true, true})
	case 3:
		p.renderBitmapMode3(y)
	case 4:
		p.renderBitmapMode4(y)
	case 5:
		p.renderBitmapMode5(y)
	}

	p.blendScanline(y)

	for x := 0; x < ScreenWidth; x++ {
		p.Framebuffer[y*ScreenWidth+x] = p.colorBuf[x]
	}
}

// putPixel records a newly composited opaque pixel at column x, pushing
// whatever was there down into the "second layer" slot so blending can
// reference it.
func (p *PPU) putPixel(x int, l layer, color uint16) {
	p.secondLayer[x] = p.topLayer[x]
	p.secondColor[x] = p.colorBuf[x]
	p.topLayer[x] = l
	p.colorBuf[x] = color
}

// windowAdmits reports whether the active window set lets layer l draw at
// column x. computeWindows fills winLayers with every layer bit when no
// window is enabled, so this is a no-op check in the common case.
func (p *PPU) windowAdmits(x int, l layer) bool {
	return p.winLayers[x]&l != 0
}

// renderTiledMode walks priority 3 down to 0; at each priority level it
// draws the BGs enabled at that priority, regular or affine as the mode
// assigns them, high-index-first (so lower indices paint last and win),
// then sprites of that priority on top.
func (p *PPU) renderTiledMode(y int, regular, affine [4]bool) {
	for priority := 3; priority >= 0; priority-- {
		for bg := 3; bg >= 0; bg-- {
			if !p.Regs.DispCnt.BG[bg] || p.Regs.BG[bg].Priority != priority {
				continue
			}
			if regular[bg] {
				p.renderRegularBG(y, bg)
			} else if affine[bg] {
				p.renderAffineBG(y, bg)
			}
		}
		if p.Regs.DispCnt.OBJ {
			p.renderSprites(y, priority)
		}
	}
}

func (p *PPU) renderBitmapMode3(y int) {
	if p.Regs.DispCnt.OBJ {
		defer p.renderSpritesAll(y)
	}
	base := y * ScreenWidth * 2
	for x := 0; x < ScreenWidth; x++ {
		off := base + x*2
		if off+1 >= len(p.vram) {
			continue
		}
		if !p.windowAdmits(x, layerBG2) {
			continue
		}
		color := uint16(p.vram[off]) | uint16(p.vram[off+1])<<8
		p.putPixel(x, layerBG2, color)
	}
}

func (p *PPU) renderBitmapMode4(y int) {
	frameOffset := 0
	if p.Regs.DispCnt.FrameSelect != 0 {
		frameOffset = 0xa000
	}
	base := frameOffset + y*ScreenWidth
	for x := 0; x < ScreenWidth; x++ {
		off := base + x
		if off >= len(p.vram) {
			continue
		}
		idx := int(p.vram[off])
		if idx == 0 || !p.windowAdmits(x, layerBG2) {
			continue
		}
		p.putPixel(x, layerBG2, p.paletteColor(idx))
	}
	if p.Regs.DispCnt.OBJ {
		p.renderSpritesAll(y)
	}
}

func (p *PPU) renderBitmapMode5(y int) {
	const w, h = 160, 128
	frameOffset := 0
	if p.Regs.DispCnt.FrameSelect != 0 {
		frameOffset = 0xa000
	}
	if y >= h {
		if p.Regs.DispCnt.OBJ {
			p.renderSpritesAll(y)
		}
		return
	}
	base := frameOffset + y*w*2
	for x := 0; x < w; x++ {
		off := base + x*2
		if off+1 >= len(p.vram) {
			continue
		}
		if !p.windowAdmits(x, layerBG2) {
			continue
		}
		color := uint16(p.vram[off]) | uint16(p.vram[off+1])<<8
		p.putPixel(x, layerBG2, color)
	}
	if p.Regs.DispCnt.OBJ {
		p.renderSpritesAll(y)
	}
}

// renderSpritesAll is used by the bitmap modes, which have no BG priority
// levels to interleave sprites with.
func (p *PPU) renderSpritesAll(y int) {
	for priority := 3; priority >= 0; priority-- {
		p.renderSprites(y, priority)
	}
}

// OnVBlank reloads every affine background's accumulator from its written
// latch, per the invariant that the accumulator only tracks the latch
// across VBlank boundaries.
func (p *PPU) OnVBlank() {
	for bg := 0; bg < 2; bg++ {
		p.Regs.Ref[bg][0].ReloadFromLatch()
		p.Regs.Ref[bg][1].ReloadFromLatch()
	}
}
