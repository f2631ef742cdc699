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

// computeWindows fills winLayers/winEffect for the whole scanline, ahead of
// any BG or sprite rendering. When none of WIN0/WIN1/WinOBJ are enabled in
// DISPCNT, every layer and the blend effect are admitted everywhere and the
// rest of the pipeline never has to special-case "no windows".
//
// Priority among overlapping windows is WIN0 > WIN1 > OBJ window > WINOUT,
// matching hardware.
func (p *PPU) computeWindows(y int) {
	d := p.Regs.DispCnt
	if !d.Win0 && !d.Win1 && !d.WinOBJ {
		for x := range p.winLayers {
			p.winLayers[x] = windowLayers
			p.winEffect[x] = true
		}
		return
	}

	p.computeObjWindowMask(y)

	win0Inside := d.Win0 && windowRowInside(p.Regs.Win0Top, p.Regs.Win0Bottom, y)
	win1Inside := d.Win1 && windowRowInside(p.Regs.Win1Top, p.Regs.Win1Bottom, y)

	win0 := p.Regs.Win0Sides()
	win1 := p.Regs.Win1Sides()
	objWin := p.Regs.WinObjSides()
	out := p.Regs.WinOutSides()

	for x := 0; x < ScreenWidth; x++ {
		var sides winSides
		switch {
		case win0Inside && windowColInside(p.Regs.Win0Left, p.Regs.Win0Right, x):
			sides = win0
		case win1Inside && windowColInside(p.Regs.Win1Left, p.Regs.Win1Right, x):
			sides = win1
		case d.WinOBJ && p.objWindow[x]:
			sides = objWin
		default:
			sides = out
		}
		p.winLayers[x] = sides.Layers
		p.winEffect[x] = sides.Effect
	}
}

// windowColInside and windowRowInside implement WIN0/WIN1's coordinate
// range: lo<=v<hi, with hi forced to the screen edge if it describes an
// out-of-range or empty (hi<lo) window, per hardware.
func windowColInside(lo, hi uint8, x int) bool {
	return windowRangeInside(lo, hi, x, ScreenWidth)
}

func windowRowInside(lo, hi uint8, y int) bool {
	return windowRangeInside(lo, hi, y, ScreenHeight)
}

func windowRangeInside(lo, hi uint8, v, screenMax int) bool {
	l, h := int(lo), int(hi)
	if h > screenMax || h < l {
		h = screenMax
	}
	return v >= l && v < h
}
