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

// DispCnt is DISPCNT, the display control word, exposed as typed fields
// backed by the packed value software reads and writes.
type DispCnt struct {
	Mode        int
	FrameSelect int
	OBJMapping1D bool
	ForcedBlank bool
	BG          [4]bool
	OBJ         bool
	Win0        bool
	Win1        bool
	WinOBJ      bool
}

func (d DispCnt) Value() uint16 {
	v := uint16(d.Mode) & 7
	if d.FrameSelect != 0 {
		v |= 1 << 4
	}
	if d.OBJMapping1D {
		v |= 1 << 6
	}
	if d.ForcedBlank {
		v |= 1 << 7
	}
	for i, on := range d.BG {
		if on {
			v |= 1 << uint(8+i)
		}
	}
	if d.OBJ {
		v |= 1 << 12
	}
	if d.Win0 {
		v |= 1 << 13
	}
	if d.Win1 {
		v |= 1 << 14
	}
	if d.WinOBJ {
		v |= 1 << 15
	}
	return v
}

func (d *DispCnt) FromValue(v uint16) {
	d.Mode = int(v & 7)
	d.FrameSelect = int((v >> 4) & 1)
	d.OBJMapping1D = v&(1<<6) != 0
	d.ForcedBlank = v&(1<<7) != 0
	for i := range d.BG {
		d.BG[i] = v&(1<<uint(8+i)) != 0
	}
	d.OBJ = v&(1<<12) != 0
	d.Win0 = v&(1<<13) != 0
	d.Win1 = v&(1<<14) != 0
	d.WinOBJ = v&(1<<15) != 0
}

// DispStat is DISPSTAT. Bits 0-2 are read-only from software's perspective;
// writes must preserve them.
type DispStat struct {
	VBlank    bool
	HBlank    bool
	VCountHit bool

	VBlankIRQ  bool
	HBlankIRQ  bool
	VCountIRQ  bool
	VCountLine uint8
}

func (d DispStat) Value() uint16 {
	v := uint16(0)
	if d.VBlank {
		v |= 1 << 0
	}
	if d.HBlank {
		v |= 1 << 1
	}
	if d.VCountHit {
		v |= 1 << 2
	}
	if d.VBlankIRQ {
		v |= 1 << 3
	}
	if d.HBlankIRQ {
		v |= 1 << 4
	}
	if d.VCountIRQ {
		v |= 1 << 5
	}
	v |= uint16(d.VCountLine) << 8
	return v
}

// FromValue writes only the software-writable bits (3-7 and 8-15); the
// status bits 0-2 are left untouched.
func (d *DispStat) FromValue(v uint16) {
	d.VBlankIRQ = v&(1<<3) != 0
	d.HBlankIRQ = v&(1<<4) != 0
	d.VCountIRQ = v&(1<<5) != 0
	d.VCountLine = uint8(v >> 8)
}

// BGCnt is one background's BGxCNT.
type BGCnt struct {
	Priority       int
	CharBase       int
	Mosaic         bool
	Palette256     bool
	ScreenBase     int
	WrapAround     bool // affine only
	Size           int
}

func (b BGCnt) Value() uint16 {
	v := uint16(b.Priority) & 3
	v |= uint16(b.CharBase&3) << 2
	if b.Mosaic {
		v |= 1 << 6
	}
	if b.Palette256 {
		v |= 1 << 7
	}
	v |= uint16(b.ScreenBase&0x1f) << 8
	if b.WrapAround {
		v |= 1 << 13
	}
	v |= uint16(b.Size&3) << 14
	return v
}

func (b *BGCnt) FromValue(v uint16) {
	b.Priority = int(v & 3)
	b.CharBase = int((v >> 2) & 3)
	b.Mosaic = v&(1<<6) != 0
	b.Palette256 = v&(1<<7) != 0
	b.ScreenBase = int((v >> 8) & 0x1f)
	b.WrapAround = v&(1<<13) != 0
	b.Size = int((v >> 14) & 3)
}

// AffineParams is one affine background or sprite's 2x2 transform matrix,
// in 8.8 fixed point.
type AffineParams struct {
	PA, PB, PC, PD int16
}

// RefPoint is an affine background's reference point: the value software
// last wrote (the latch) and the internal accumulator that actually
// advances scanline to scanline. The accumulator reloads from the latch at
// every VBlank per the spec's invariant.
type RefPoint struct {
	Latch       int32 // 20.8 fixed point, sign-extended from 28 bits
	Accumulator int32
}

func (r *RefPoint) ReloadFromLatch() {
	r.Accumulator = r.Latch
}

// BlendCnt is BLDCNT.
type BlendCnt struct {
	FirstTarget  uint8 // bits 0-5: BG0..BG3, OBJ, BD
	Mode         int
	SecondTarget uint8 // bits 0-5: BG0..BG3, OBJ, BD
}

const (
	BlendOff = iota
	BlendAlpha
	BlendWhite
	BlendBlack
)

func (b BlendCnt) Value() uint16 {
	return uint16(b.FirstTarget&0x3f) | uint16(b.Mode&3)<<6 | uint16(b.SecondTarget&0x3f)<<8
}

func (b *BlendCnt) FromValue(v uint16) {
	b.FirstTarget = uint8(v & 0x3f)
	b.Mode = int((v >> 6) & 3)
	b.SecondTarget = uint8((v >> 8) & 0x3f)
}

// layer identifies which of BG0-3/OBJ/backdrop a composited pixel came
// from, matching BLDCNT's bit layout so target-membership is a bit test.
type layer uint8

const (
	layerBG0 layer = 1 << 0
	layerBG1 layer = 1 << 1
	layerBG2 layer = 1 << 2
	layerBG3 layer = 1 << 3
	layerOBJ layer = 1 << 4
	layerBD  layer = 1 << 5
)

// windowLayers is everything a window can admit: BG0-3 and OBJ. The
// backdrop is never gated by windows.
const windowLayers = layerBG0 | layerBG1 | layerBG2 | layerBG3 | layerOBJ

// winSides is one window/WINOUT/OBJ-window enable byte from WININ or
// WINOUT: which layers it lets through and whether it lets blend effects
// apply. Bits 0-4 line up with the layer bitmask directly.
type winSides struct {
	Layers layer
	Effect bool
}

func winSidesFromByte(b uint8) winSides {
	return winSides{Layers: layer(b) & windowLayers, Effect: b&(1<<5) != 0}
}

func (r Registers) Win0Sides() winSides   { return winSidesFromByte(uint8(r.WinIn)) }
func (r Registers) Win1Sides() winSides   { return winSidesFromByte(uint8(r.WinIn >> 8)) }
func (r Registers) WinOutSides() winSides { return winSidesFromByte(uint8(r.WinOut)) }
func (r Registers) WinObjSides() winSides { return winSidesFromByte(uint8(r.WinOut >> 8)) }

// Registers bundles every PPU register together.
type Registers struct {
	DispCnt  DispCnt
	DispStat DispStat
	VCount   uint8

	BG [4]BGCnt
	HOFS, VOFS [4]uint16

	Affine [2]AffineParams // BG2, BG3
	Ref    [2][2]RefPoint  // [bg][x/y]

	Win0Left, Win0Right, Win0Top, Win0Bottom     uint8
	Win1Left, Win1Right, Win1Top, Win1Bottom     uint8
	WinIn, WinOut                                uint16

	MosaicBG, MosaicOBJ uint8

	Blend      BlendCnt
	EVA, EVB   uint8
	EVY        uint8
}
