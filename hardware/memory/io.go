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

package memory

import (
	"github.com/jetsetilly/gba/hardware/apu"
	"github.com/jetsetilly/gba/hardware/dma"
)

// IO register offsets within the 1 KiB IO page, keyed the way GBA
// developer documentation names them.
const (
	regDISPCNT  = 0x000
	regDISPSTAT = 0x004
	regVCOUNT   = 0x006

	regBG0CNT = 0x008
	regBG1CNT = 0x00a
	regBG2CNT = 0x00c
	regBG3CNT = 0x00e

	regBG0HOFS = 0x010
	regBG0VOFS = 0x012
	regBG1HOFS = 0x014
	regBG1VOFS = 0x016
	regBG2HOFS = 0x018
	regBG2VOFS = 0x01a
	regBG3HOFS = 0x01c
	regBG3VOFS = 0x01e

	regBG2PA = 0x020
	regBG2PB = 0x022
	regBG2PC = 0x024
	regBG2PD = 0x026
	regBG2X  = 0x028
	regBG2Y  = 0x02c
	regBG3PA = 0x030
	regBG3PB = 0x032
	regBG3PC = 0x034
	regBG3PD = 0x036
	regBG3X  = 0x038
	regBG3Y  = 0x03c

	regWIN0H  = 0x040
	regWIN1H  = 0x042
	regWIN0V  = 0x044
	regWIN1V  = 0x046
	regWININ  = 0x048
	regWINOUT = 0x04a
	regMOSAIC = 0x04c

	regBLDCNT   = 0x050
	regBLDALPHA = 0x052
	regBLDY     = 0x054

	regSOUND1CNT_L = 0x060
	regSOUND1CNT_H = 0x062
	regSOUND1CNT_X = 0x064
	regSOUND2CNT_L = 0x068
	regSOUND2CNT_H = 0x06c
	regSOUND3CNT_L = 0x070
	regSOUND3CNT_H = 0x072
	regSOUND3CNT_X = 0x074
	regSOUND4CNT_L = 0x078
	regSOUND4CNT_H = 0x07c
	regSOUNDCNT_L  = 0x080
	regSOUNDCNT_H  = 0x082
	regSOUNDCNT_X  = 0x084
	regSOUNDBIAS   = 0x088
	regWAVE_RAM    = 0x090 // 16 bytes, two nibbles per byte
	regFIFO_A      = 0x0a0
	regFIFO_B      = 0x0a4

	regDMA0SAD   = 0x0b0
	regDMA0DAD   = 0x0b4
	regDMA0CNT_L = 0x0b8
	regDMA0CNT_H = 0x0ba
	regDMA1SAD   = 0x0bc
	regDMA1DAD   = 0x0c0
	regDMA1CNT_L = 0x0c4
	regDMA1CNT_H = 0x0c6
	regDMA2SAD   = 0x0c8
	regDMA2DAD   = 0x0cc
	regDMA2CNT_L = 0x0d0
	regDMA2CNT_H = 0x0d2
	regDMA3SAD   = 0x0d4
	regDMA3DAD   = 0x0d8
	regDMA3CNT_L = 0x0dc
	regDMA3CNT_H = 0x0de

	regTM0CNT_L = 0x100
	regTM0CNT_H = 0x102
	regTM1CNT_L = 0x104
	regTM1CNT_H = 0x106
	regTM2CNT_L = 0x108
	regTM2CNT_H = 0x10a
	regTM3CNT_L = 0x10c
	regTM3CNT_H = 0x10e

	regKEYINPUT = 0x130
	regKEYCNT   = 0x132

	regIE      = 0x200
	regIF      = 0x202
	regWAITCNT = 0x204
	regIME     = 0x208

	regPOSTFLG = 0x300
	regHALTCNT = 0x301
)

// ioRead8 derives a byte from the halfword register it belongs to, so
// registers with side effects on read (none in this set) or write (IF,
// FIFO) stay consistent regardless of access width.
func (b *Bus) ioRead8(off uint32) uint8 {
	if off >= regWAVE_RAM && off < regWAVE_RAM+16 {
		return b.readWaveByte(off - regWAVE_RAM)
	}
	full := b.ioRead16(off &^ 1)
	if off&1 != 0 {
		return uint8(full >> 8)
	}
	return uint8(full)
}

// ioWrite8 merges the byte into the halfword register at off's aligned
// address and re-dispatches the full value, so a single-byte write to
// e.g. DMA CNT_H's high byte still sees the low byte's current bits.
func (b *Bus) ioWrite8(off uint32, v uint8) {
	if off >= regWAVE_RAM && off < regWAVE_RAM+16 {
		b.writeWaveByte(off-regWAVE_RAM, v)
		return
	}
	if off == regHALTCNT {
		b.haltRequested = true
		return
	}

	aligned := off &^ 1
	full := b.ioRead16(aligned)
	if aligned == regIF {
		// IF is write-1-to-clear: the byte not written clears nothing.
		full = 0
	}
	if off&1 == 0 {
		full = full&0xff00 | uint16(v)
	} else {
		full = full&0x00ff | uint16(v)<<8
	}
	b.ioWrite16(aligned, full)
}

func (b *Bus) readWaveByte(i uint32) uint8 {
	lo := b.APU.Wave.Table[i*2]
	hi := b.APU.Wave.Table[i*2+1]
	return lo | hi<<4
}

func (b *Bus) writeWaveByte(i uint32, v uint8) {
	b.APU.Wave.Table[i*2] = v & 0xf
	b.APU.Wave.Table[i*2+1] = v >> 4
}

// ioRead16 returns the current value of the halfword register at off. Any
// offset not named below reads back whatever was last written to the raw
// backing array, matching an undocumented or write-only register.
func (b *Bus) ioRead16(off uint32) uint16 {
	switch off {
	case regDISPCNT:
		return b.PPU.Regs.DispCnt.Value()
	case regDISPSTAT:
		return b.PPU.Regs.DispStat.Value()
	case regVCOUNT:
		return uint16(b.PPU.Regs.VCount)
	case regBG0CNT:
		return b.PPU.Regs.BG[0].Value()
	case regBG1CNT:
		return b.PPU.Regs.BG[1].Value()
	case regBG2CNT:
		return b.PPU.Regs.BG[2].Value()
	case regBG3CNT:
		return b.PPU.Regs.BG[3].Value()
	case regWININ:
		return b.PPU.Regs.WinIn
	case regWINOUT:
		return b.PPU.Regs.WinOut
	case regBLDCNT:
		return b.PPU.Regs.Blend.Value()
	case regBLDALPHA:
		return uint16(b.PPU.Regs.EVA&0x1f) | uint16(b.PPU.Regs.EVB&0x1f)<<8
	case regSOUNDCNT_L:
		return b.soundCntL()
	case regSOUNDCNT_H:
		return b.soundCntH()
	case regSOUNDCNT_X:
		return b.soundCntX()
	case regSOUNDBIAS:
		return b.APU.SoundBias
	case regDMA0CNT_H:
		return b.dmaCntH(0)
	case regDMA1CNT_H:
		return b.dmaCntH(1)
	case regDMA2CNT_H:
		return b.dmaCntH(2)
	case regDMA3CNT_H:
		return b.dmaCntH(3)
	case regTM0CNT_L:
		return b.Timers.Timers[0].Counter
	case regTM1CNT_L:
		return b.Timers.Timers[1].Counter
	case regTM2CNT_L:
		return b.Timers.Timers[2].Counter
	case regTM3CNT_L:
		return b.Timers.Timers[3].Counter
	case regTM0CNT_H:
		return b.timerCntH(0)
	case regTM1CNT_H:
		return b.timerCntH(1)
	case regTM2CNT_H:
		return b.timerCntH(2)
	case regTM3CNT_H:
		return b.timerCntH(3)
	case regKEYINPUT:
		return b.Keypad.Strobe()
	case regIE:
		return b.IRQ.IE
	case regIF:
		return b.IRQ.IF
	case regWAITCNT:
		return b.waitcnt
	case regIME:
		return boolToU16(b.IRQ.IME)
	}
	return uint16(b.io[off]) | uint16(b.io[off+1])<<8
}

// ioWrite16 applies a write to the halfword register at off, dispatching
// to the owning subsystem and recording every write in the raw backing
// array so unmodelled registers still read back what was last written.
func (b *Bus) ioWrite16(off uint32, v uint16) {
	b.io[off] = uint8(v)
	b.io[off+1] = uint8(v >> 8)

	switch off {
	case regDISPCNT:
		b.PPU.Regs.DispCnt.FromValue(v)
	case regDISPSTAT:
		b.PPU.Regs.DispStat.FromValue(v)
	case regBG0CNT:
		b.PPU.Regs.BG[0].FromValue(v)
	case regBG1CNT:
		b.PPU.Regs.BG[1].FromValue(v)
	case regBG2CNT:
		b.PPU.Regs.BG[2].FromValue(v)
	case regBG3CNT:
		b.PPU.Regs.BG[3].FromValue(v)
	case regBG0HOFS:
		b.PPU.Regs.HOFS[0] = v & 0x1ff
	case regBG0VOFS:
		b.PPU.Regs.VOFS[0] = v & 0x1ff
	case regBG1HOFS:
		b.PPU.Regs.HOFS[1] = v & 0x1ff
	case regBG1VOFS:
		b.PPU.Regs.VOFS[1] = v & 0x1ff
	case regBG2HOFS:
		b.PPU.Regs.HOFS[2] = v & 0x1ff
	case regBG2VOFS:
		b.PPU.Regs.VOFS[2] = v & 0x1ff
	case regBG3HOFS:
		b.PPU.Regs.HOFS[3] = v & 0x1ff
	case regBG3VOFS:
		b.PPU.Regs.VOFS[3] = v & 0x1ff
	case regBG2PA:
		b.PPU.Regs.Affine[0].PA = int16(v)
	case regBG2PB:
		b.PPU.Regs.Affine[0].PB = int16(v)
	case regBG2PC:
		b.PPU.Regs.Affine[0].PC = int16(v)
	case regBG2PD:
		b.PPU.Regs.Affine[0].PD = int16(v)
	case regBG3PA:
		b.PPU.Regs.Affine[1].PA = int16(v)
	case regBG3PB:
		b.PPU.Regs.Affine[1].PB = int16(v)
	case regBG3PC:
		b.PPU.Regs.Affine[1].PC = int16(v)
	case regBG3PD:
		b.PPU.Regs.Affine[1].PD = int16(v)
	case regWIN0H:
		b.PPU.Regs.Win0Right, b.PPU.Regs.Win0Left = uint8(v), uint8(v>>8)
	case regWIN1H:
		b.PPU.Regs.Win1Right, b.PPU.Regs.Win1Left = uint8(v), uint8(v>>8)
	case regWIN0V:
		b.PPU.Regs.Win0Bottom, b.PPU.Regs.Win0Top = uint8(v), uint8(v>>8)
	case regWIN1V:
		b.PPU.Regs.Win1Bottom, b.PPU.Regs.Win1Top = uint8(v), uint8(v>>8)
	case regWININ:
		b.PPU.Regs.WinIn = v
	case regWINOUT:
		b.PPU.Regs.WinOut = v
	case regMOSAIC:
		b.PPU.Regs.MosaicBG, b.PPU.Regs.MosaicOBJ = uint8(v), uint8(v>>4)
	case regBLDCNT:
		b.PPU.Regs.Blend.FromValue(v)
	case regBLDALPHA:
		b.PPU.Regs.EVA = uint8(v) & 0x1f
		b.PPU.Regs.EVB = uint8(v>>8) & 0x1f
	case regBLDY:
		b.PPU.Regs.EVY = uint8(v) & 0x1f

	case regSOUND1CNT_L:
		b.writeSweep(&b.APU.Square1, v)
	case regSOUND1CNT_H:
		b.writeDutyEnvelope(&b.APU.Square1, v)
	case regSOUND1CNT_X:
		b.writeSquareFreq(&b.APU.Square1, v)
	case regSOUND2CNT_L:
		b.writeDutyEnvelope(&b.APU.Square2, v)
	case regSOUND2CNT_H:
		b.writeSquareFreq(&b.APU.Square2, v)
	case regSOUND3CNT_L:
		b.APU.Wave.Enable = v&0x80 != 0
	case regSOUND3CNT_H:
		b.APU.Wave.Length = 256 - int(v&0xff)
		b.APU.Wave.Volume = int((v >> 13) & 3)
	case regSOUND3CNT_X:
		b.APU.Wave.Freq = v & 0x7ff
		b.APU.Wave.LengthEnable = v&0x4000 != 0
	case regSOUND4CNT_L:
		b.APU.Noise.Length = 64 - int(v&0x3f)
		b.APU.Noise.EnvelopeInitial = int((v >> 12) & 0xf)
		b.APU.Noise.EnvelopeIncreasing = v&0x800 != 0
		b.APU.Noise.EnvelopePeriod = int((v >> 8) & 7)
	case regSOUND4CNT_H:
		b.APU.Noise.Divisor = int(v & 7)
		b.APU.Noise.WidthMode7 = v&8 != 0
		b.APU.Noise.ShiftClock = int((v >> 4) & 0xf)
		b.APU.Noise.LengthEnable = v&0x4000 != 0
	case regSOUNDCNT_L:
		b.writeSoundCntL(v)
	case regSOUNDCNT_H:
		b.writeSoundCntH(v)
	case regSOUNDCNT_X:
		b.APU.MasterEnable = v&0x80 != 0
	case regSOUNDBIAS:
		b.APU.SoundBias = v

	case regDMA0SAD, regDMA1SAD, regDMA2SAD, regDMA3SAD:
		ch := b.DMA.Channels[dmaIndexFromSAD(off)]
		ch.SrcAddr = ch.SrcAddr&0xffff0000 | uint32(v)
	case regDMA0SAD + 2, regDMA1SAD + 2, regDMA2SAD + 2, regDMA3SAD + 2:
		ch := b.DMA.Channels[dmaIndexFromSAD(off-2)]
		ch.SrcAddr = ch.SrcAddr&0xffff | uint32(v)<<16
	case regDMA0DAD, regDMA1DAD, regDMA2DAD, regDMA3DAD:
		ch := b.DMA.Channels[dmaIndexFromDAD(off)]
		ch.DstAddr = ch.DstAddr&0xffff0000 | uint32(v)
	case regDMA0DAD + 2, regDMA1DAD + 2, regDMA2DAD + 2, regDMA3DAD + 2:
		ch := b.DMA.Channels[dmaIndexFromDAD(off-2)]
		ch.DstAddr = ch.DstAddr&0xffff | uint32(v)<<16
	case regDMA0CNT_L:
		b.DMA.Channels[0].Count = uint32(v)
	case regDMA0CNT_H:
		b.writeDmaCntH(0, v)
	case regDMA1CNT_L:
		b.DMA.Channels[1].Count = uint32(v)
	case regDMA1CNT_H:
		b.writeDmaCntH(1, v)
	case regDMA2CNT_L:
		b.DMA.Channels[2].Count = uint32(v)
	case regDMA2CNT_H:
		b.writeDmaCntH(2, v)
	case regDMA3CNT_L:
		b.DMA.Channels[3].Count = uint32(v)
	case regDMA3CNT_H:
		b.writeDmaCntH(3, v)

	case regTM0CNT_L:
		b.Timers.Timers[0].Reload = v
	case regTM1CNT_L:
		b.Timers.Timers[1].Reload = v
	case regTM2CNT_L:
		b.Timers.Timers[2].Reload = v
	case regTM3CNT_L:
		b.Timers.Timers[3].Reload = v
	case regTM0CNT_H:
		b.writeTimerCntH(0, v)
	case regTM1CNT_H:
		b.writeTimerCntH(1, v)
	case regTM2CNT_H:
		b.writeTimerCntH(2, v)
	case regTM3CNT_H:
		b.writeTimerCntH(3, v)

	case regKEYCNT:
		// keypad IRQ selection is stored but not modelled as a trigger.
	case regIE:
		b.IRQ.IE = v
	case regIF:
		b.IRQ.WriteIF(v)
	case regWAITCNT:
		b.waitcnt = v
	case regIME:
		b.IRQ.IME = v&1 != 0
	}
}

// ioRead32/ioWrite32 special-case the handful of genuinely 32-bit
// registers (DMA source/dest, affine reference points, and on write the
// FIFO_A/FIFO_B sample ports); everything else composes from two
// independent halfword registers.
func (b *Bus) ioRead32(off uint32) uint32 {
	switch off {
	case regDMA0SAD, regDMA1SAD, regDMA2SAD, regDMA3SAD:
		return b.DMA.Channels[dmaIndexFromSAD(off)].SrcAddr
	case regDMA0DAD, regDMA1DAD, regDMA2DAD, regDMA3DAD:
		return b.DMA.Channels[dmaIndexFromDAD(off)].DstAddr
	case regBG2X:
		return uint32(b.PPU.Regs.Ref[0][0].Latch)
	case regBG2Y:
		return uint32(b.PPU.Regs.Ref[0][1].Latch)
	case regBG3X:
		return uint32(b.PPU.Regs.Ref[1][0].Latch)
	case regBG3Y:
		return uint32(b.PPU.Regs.Ref[1][1].Latch)
	}
	return uint32(b.ioRead16(off)) | uint32(b.ioRead16(off+2))<<16
}

func (b *Bus) ioWrite32(off uint32, v uint32) {
	switch off {
	case regDMA0SAD, regDMA1SAD, regDMA2SAD, regDMA3SAD:
		b.DMA.Channels[dmaIndexFromSAD(off)].SrcAddr = v
		return
	case regDMA0DAD, regDMA1DAD, regDMA2DAD, regDMA3DAD:
		b.DMA.Channels[dmaIndexFromDAD(off)].DstAddr = v
		return
	case regBG2X:
		b.setRefLatch(0, 0, v)
		return
	case regBG2Y:
		b.setRefLatch(0, 1, v)
		return
	case regBG3X:
		b.setRefLatch(1, 0, v)
		return
	case regBG3Y:
		b.setRefLatch(1, 1, v)
		return
	case regFIFO_A:
		b.APU.FIFOA.Write(v)
		return
	case regFIFO_B:
		b.APU.FIFOB.Write(v)
		return
	}
	b.ioWrite16(off, uint16(v))
	b.ioWrite16(off+2, uint16(v>>16))
}

func dmaIndexFromSAD(off uint32) int {
	return int((off - regDMA0SAD) / 12)
}

func dmaIndexFromDAD(off uint32) int {
	return int((off - regDMA0DAD) / 12)
}

// setRefLatch sign-extends a 28-bit 20.8 fixed point reference value and
// installs it as the new latch, ready to be picked up at the next VBlank.
func (b *Bus) setRefLatch(bg, axis int, v uint32) {
	v &= 0x0fffffff
	signed := int32(v<<4) >> 4
	b.PPU.Regs.Ref[bg][axis].Latch = signed
}

func boolToU16(v bool) uint16 {
	if v {
		return 1
	}
	return 0
}

func (b *Bus) writeSweep(s *apu.SquareChannel, v uint16) {
	s.SweepShift = int(v & 7)
	s.SweepDecrease = v&8 != 0
	s.SweepPeriod = int((v >> 4) & 7)
}

func (b *Bus) writeDutyEnvelope(s *apu.SquareChannel, v uint16) {
	s.Duty = int((v >> 6) & 3)
	s.Length = 64 - int(v&0x3f)
	s.EnvelopeInitial = int((v >> 12) & 0xf)
	s.EnvelopeIncreasing = v&0x800 != 0
	s.EnvelopePeriod = int((v >> 8) & 7)
}

func (b *Bus) writeSquareFreq(s *apu.SquareChannel, v uint16) {
	s.Freq = v & 0x7ff
	s.LengthEnable = v&0x4000 != 0
	if v&0x8000 != 0 {
		s.Enable = true
	}
}

func (b *Bus) writeSoundCntL(v uint16) {
	a := b.APU
	for i := 0; i < 4; i++ {
		a.PSGEnableRight[i] = v&(1<<uint(8+i)) != 0
		a.PSGEnableLeft[i] = v&(1<<uint(12+i)) != 0
	}
	a.PSGVolumeRight = int(v>>0) & 7
	a.PSGVolumeLeft = int(v>>4) & 7
}

func (b *Bus) soundCntL() uint16 {
	a := b.APU
	v := uint16(a.PSGVolumeRight&7) | uint16(a.PSGVolumeLeft&7)<<4
	for i := 0; i < 4; i++ {
		if a.PSGEnableRight[i] {
			v |= 1 << uint(8+i)
		}
		if a.PSGEnableLeft[i] {
			v |= 1 << uint(12+i)
		}
	}
	return v
}

func (b *Bus) writeSoundCntH(v uint16) {
	a := b.APU
	a.PSGRatio = int(v & 3)
	a.FIFOAVolumeFull = v&4 != 0
	a.FIFOBVolumeFull = v&8 != 0
	a.FIFOAEnableRight = v&0x100 != 0
	a.FIFOAEnableLeft = v&0x200 != 0
	a.FIFOBEnableRight = v&0x1000 != 0
	a.FIFOBEnableLeft = v&0x2000 != 0
	if v&0x800 != 0 {
		a.FIFOA.Reset()
	}
	if v&0x8000 != 0 {
		a.FIFOB.Reset()
	}
}

func (b *Bus) soundCntH() uint16 {
	a := b.APU
	v := uint16(a.PSGRatio & 3)
	if a.FIFOAVolumeFull {
		v |= 4
	}
	if a.FIFOBVolumeFull {
		v |= 8
	}
	if a.FIFOAEnableRight {
		v |= 0x100
	}
	if a.FIFOAEnableLeft {
		v |= 0x200
	}
	if a.FIFOBEnableRight {
		v |= 0x1000
	}
	if a.FIFOBEnableLeft {
		v |= 0x2000
	}
	return v
}

func (b *Bus) soundCntX() uint16 {
	a := b.APU
	v := uint16(0)
	if a.MasterEnable {
		v |= 0x80
	}
	if a.Square1.Enable {
		v |= 1
	}
	if a.Square2.Enable {
		v |= 2
	}
	if a.Wave.Enable {
		v |= 4
	}
	if a.Noise.Enable {
		v |= 8
	}
	return v
}

func (b *Bus) dmaCntH(i int) uint16 {
	ch := b.DMA.Channels[i]
	v := uint16(ch.DestAdj&3) << 5
	v |= uint16(ch.SrcAdj&3) << 7
	if ch.Repeat {
		v |= 1 << 9
	}
	if ch.Word32 {
		v |= 1 << 10
	}
	v |= uint16(ch.Timing&3) << 12
	if ch.IRQ {
		v |= 1 << 14
	}
	if ch.Enable {
		v |= 1 << 15
	}
	return v
}

func (b *Bus) writeDmaCntH(i int, v uint16) {
	ch := b.DMA.Channels[i]
	ch.DestAdj = dma.DestAdjust((v >> 5) & 3)
	ch.SrcAdj = dma.SrcAdjust((v >> 7) & 3)
	ch.Repeat = v&(1<<9) != 0
	ch.Word32 = v&(1<<10) != 0
	ch.Timing = dma.Timing((v >> 12) & 3)
	ch.IRQ = v&(1<<14) != 0
	b.DMA.WriteControl(i, v&(1<<15) != 0)
}

func (b *Bus) timerCntH(i int) uint16 {
	t := b.Timers.Timers[i]
	v := uint16(t.Prescaler & 3)
	if t.Cascade {
		v |= 1 << 2
	}
	if t.IRQEnable {
		v |= 1 << 6
	}
	if t.Enable {
		v |= 1 << 7
	}
	return v
}

func (b *Bus) writeTimerCntH(i int, v uint16) {
	t := b.Timers.Timers[i]
	t.Prescaler = int(v & 3)
	t.Cascade = v&(1<<2) != 0
	t.IRQEnable = v&(1<<6) != 0
	t.Enable = v&(1<<7) != 0
}
