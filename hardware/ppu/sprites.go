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

package ppu

// spriteDims is the (shape,size) -> (width,height in pixels) table.
var spriteDims = [4][4][2]int{
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}},   // square
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}},   // wide
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}},   // tall
	{{8, 8}, {8, 8}, {8, 8}, {8, 8}},         // reserved, unused
}

// OBJ Mode, attr0 bits 10-11.
const (
	objModeNormal = 0
	objModeAlpha  = 1
	objModeWindow = 2
)

type spriteAttrs struct {
	y, x       int
	disabled   bool
	mode       int
	hFlip      bool
	vFlip      bool
	palette256 bool
	priority   int
	tileIndex  int
	subPalette int
	w, h       int
}

func decodeSprite(oam []byte, index int) spriteAttrs {
	base := index * 8
	attr0 := uint16(oam[base]) | uint16(oam[base+1])<<8
	attr1 := uint16(oam[base+2]) | uint16(oam[base+3])<<8
	attr2 := uint16(oam[base+4]) | uint16(oam[base+5])<<8

	shape := int((attr0 >> 14) & 3)
	size := int((attr1 >> 14) & 3)
	dims := spriteDims[shape][size]

	y := int(attr0 & 0xff)
	if y >= 160 {
		y -= 256
	}

	x := int(attr1 & 0x1ff)
	if x >= 512 {
		x -= 512
	}

	affine := attr0&(1<<8) != 0

	return spriteAttrs{
		y:          y,
		x:          x,
		disabled:   !affine && attr0&(1<<9) != 0,
		mode:       int((attr0 >> 10) & 3),
		hFlip:      attr1&(1<<12) != 0,
		vFlip:      attr1&(1<<13) != 0,
		palette256: attr0&(1<<13) != 0,
		priority:   int((attr2 >> 10) & 3),
		tileIndex:  int(attr2 & 0x3ff),
		subPalette: int((attr2 >> 12) & 0xf),
		w:          dims[0],
		h:          dims[1],
	}
}

// spriteColorIndex looks up the palette index of sprite s at its local
// column/row, honouring flip and 1D/2D tile mapping. Returns 0 (transparent)
// if the pixel is out of bounds or maps to palette index 0.
func (p *PPU) spriteColorIndex(s spriteAttrs, oneD bool, col, row int) int {
	if s.vFlip {
		row = s.h - 1 - row
	}
	tileRow := row / 8
	rowInTile := row % 8

	tilesWide := s.w / 8
	c := col
	if s.hFlip {
		c = s.w - 1 - c
	}
	tileCol := c / 8
	colInTile := c % 8

	var tileIndex int
	if oneD {
		tileIndex = s.tileIndex + (tileRow*tilesWide+tileCol)*tileUnits(s.palette256)
	} else {
		tileIndex = s.tileIndex + tileRow*32 + tileCol*tileUnits(s.palette256)
	}

	base := 0x10000 + tileIndex*32
	if s.palette256 {
		addr := base + rowInTile*8 + colInTile
		if addr >= len(p.vram) {
			return 0
		}
		return int(p.vram[addr])
	}

	addr := base + rowInTile*4 + colInTile/2
	if addr >= len(p.vram) {
		return 0
	}
	b := p.vram[addr]
	var colorIndex int
	if colInTile&1 == 0 {
		colorIndex = int(b & 0xf)
	} else {
		colorIndex = int(b >> 4)
	}
	if colorIndex != 0 {
		colorIndex += s.subPalette * 16
	}
	return colorIndex
}

// renderSprites draws every enabled, non-affine, non-window sprite of the
// given priority that intersects scanline y. OAM is scanned back-to-front
// (entry 127 first) so that entry 0 paints last and wins ties, matching
// hardware sprite priority among equal attr2 priority values.
func (p *PPU) renderSprites(y, priority int) {
	oneD := p.Regs.DispCnt.OBJMapping1D

	for i := 127; i >= 0; i-- {
		s := decodeSprite(p.oam, i)
		if s.disabled || s.mode == objModeWindow || s.priority != priority {
			continue
		}
		if p.oam[i*8+1]&1 != 0 { // attr0 bit 8: affine sprite
			continue
		}
		if y < s.y || y >= s.y+s.h {
			continue
		}

		row := y - s.y
		for col := 0; col < s.w; col++ {
			sx := s.x + col
			if sx < 0 || sx >= ScreenWidth {
				continue
			}

			colorIndex := p.spriteColorIndex(s, oneD, col, row)
			if colorIndex == 0 || !p.windowAdmits(sx, layerOBJ) {
				continue
			}

			p.putPixel(sx, layerOBJ, p.objPaletteColor(colorIndex))
		}
	}
}

// computeObjWindowMask scans mode-2 (OBJ window) sprites intersecting
// scanline y and marks p.objWindow at every column covered by one of their
// opaque pixels. Window sprites contribute no color of their own; they only
// define where the OBJ window's WINOUT-high-byte enable set applies.
func (p *PPU) computeObjWindowMask(y int) {
	for x := range p.objWindow {
		p.objWindow[x] = false
	}
	if !p.Regs.DispCnt.WinOBJ {
		return
	}

	oneD := p.Regs.DispCnt.OBJMapping1D
	for i := 127; i >= 0; i-- {
		s := decodeSprite(p.oam, i)
		if s.disabled || s.mode != objModeWindow {
			continue
		}
		if y < s.y || y >= s.y+s.h {
			continue
		}

		row := y - s.y
		for col := 0; col < s.w; col++ {
			sx := s.x + col
			if sx < 0 || sx >= ScreenWidth {
				continue
			}
			if p.spriteColorIndex(s, oneD, col, row) != 0 {
				p.objWindow[sx] = true
			}
		}
	}
}

func tileUnits(palette256 bool) int {
	if palette256 {
		return 2
	}
	return 1
}
