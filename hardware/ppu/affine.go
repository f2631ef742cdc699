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

// affineMapSize returns the affine BG's square map size in pixels for its
// two-bit size field.
func affineMapSize(size int) int {
	switch size {
	case 0:
		return 128
	case 1:
		return 256
	case 2:
		return 512
	case 3:
		return 1024
	}
	return 128
}

// renderAffineBG renders one scanline of an affine background (BG2 or
// BG3), then advances its row reference by (PB,PD) as the last step, per
// the spec's per-scanline accumulator advance.
func (p *PPU) renderAffineBG(y, bg int) {
	slot := bg - 2
	if slot < 0 || slot > 1 {
		return
	}

	cnt := p.Regs.BG[bg]
	mapSize := affineMapSize(cnt.Size)
	charBase := cnt.CharBase * 0x4000
	screenBase := cnt.ScreenBase * 0x800

	affine := p.Regs.Affine[slot]
	refX := p.Regs.Ref[slot][0].Accumulator
	refY := p.Regs.Ref[slot][1].Accumulator

	for x := 0; x < ScreenWidth; x++ {
		texX := (refX + int32(affine.PA)*int32(x)) >> 8
		texY := (refY + int32(affine.PC)*int32(x)) >> 8

		if cnt.WrapAround {
			texX = wrapCoord(texX, mapSize)
			texY = wrapCoord(texY, mapSize)
		} else if texX < 0 || texX >= int32(mapSize) || texY < 0 || texY >= int32(mapSize) {
			continue
		}

		tileCol := int(texX) / 8
		tileRow := int(texY) / 8
		colInTile := int(texX) % 8
		rowInTile := int(texY) % 8

		mapTilesPerRow := mapSize / 8
		entryAddr := screenBase + tileRow*mapTilesPerRow + tileCol
		if entryAddr >= len(p.vram) {
			continue
		}
		tileIndex := int(p.vram[entryAddr])

		tileAddr := charBase + tileIndex*64 + rowInTile*8 + colInTile
		if tileAddr >= len(p.vram) {
			continue
		}
		colorIndex := int(p.vram[tileAddr])
		if colorIndex == 0 || !p.windowAdmits(x, bgLayer(bg)) {
			continue
		}

		p.putPixel(x, bgLayer(bg), p.paletteColor(colorIndex))
	}

	p.Regs.Ref[slot][0].Accumulator += int32(affine.PB)
	p.Regs.Ref[slot][1].Accumulator += int32(affine.PD)
}

func wrapCoord(v int32, size int) int32 {
	m := v % int32(size)
	if m < 0 {
		m += int32(size)
	}
	return m
}
