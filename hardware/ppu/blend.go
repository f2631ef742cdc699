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

// blendScanline applies BLDCNT's alpha/brighten/darken effect to every
// column, using the top and second-from-top layer recorded during
// compositing.
func (p *PPU) blendScanline(y int) {
	mode := p.Regs.Blend.Mode
	if mode == BlendOff {
		return
	}

	for x := 0; x < ScreenWidth; x++ {
		if !p.winEffect[x] {
			continue
		}

		topIsFirst := uint8(p.topLayer[x])&p.Regs.Blend.FirstTarget != 0
		if !topIsFirst {
			continue
		}

		switch mode {
		case BlendAlpha:
			secondIsSecond := uint8(p.secondLayer[x])&p.Regs.Blend.SecondTarget != 0
			if !secondIsSecond {
				continue
			}
			p.colorBuf[x] = alphaBlend(p.colorBuf[x], p.secondColor[x], p.Regs.EVA, p.Regs.EVB)
		case BlendWhite:
			p.colorBuf[x] = fadeTo(p.colorBuf[x], 0x7fff, p.Regs.EVY)
		case BlendBlack:
			p.colorBuf[x] = fadeTo(p.colorBuf[x], 0x0000, p.Regs.EVY)
		}
	}
}

func clampCoeff(v uint8) int {
	if v > 16 {
		return 16
	}
	return int(v)
}

func alphaBlend(c1, c2 uint16, eva, evb uint8) uint16 {
	a := clampCoeff(eva)
	b := clampCoeff(evb)

	blendChannel := func(x1, x2 uint16) uint16 {
		v := (int(x1)*a + int(x2)*b) / 16
		if v > 31 {
			v = 31
		}
		return uint16(v)
	}

	r := blendChannel(c1&0x1f, c2&0x1f)
	g := blendChannel((c1>>5)&0x1f, (c2>>5)&0x1f)
	b2 := blendChannel((c1>>10)&0x1f, (c2>>10)&0x1f)
	return r | g<<5 | b2<<10
}

func fadeTo(c, target uint16, evy uint8) uint16 {
	y := clampCoeff(evy)

	fadeChannel := func(x, t uint16) uint16 {
		v := int(x) + (int(t)-int(x))*y/16
		if v < 0 {
			v = 0
		}
		if v > 31 {
			v = 31
		}
		return uint16(v)
	}

	r := fadeChannel(c&0x1f, target&0x1f)
	g := fadeChannel((c>>5)&0x1f, (target>>5)&0x1f)
	b := fadeChannel((c>>10)&0x1f, (target>>10)&0x1f)
	return r | g<<5 | b<<10
}
