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

// Package apu implements a minimal GBA audio mixer: the four PSG channels
// inherited from the Game Boy, and the two direct-sound sample FIFOs that
// make the GBA's own contribution to the audio hardware.
//
// The mixer's own output stage — resampling to the host's device rate and
// handing samples to a sink — is an external collaborator; this package
// only produces a stereo sample ring at a fixed internal rate.
package apu

import "github.com/jetsetilly/gba/hardware/dma"

const (
	cpuClockHz    = 1 << 24
	frameSeqHz    = 512
	frameSeqPeriod = cpuClockHz / frameSeqHz

	sampleRateHz    = 32768
	samplePeriod    = cpuClockHz / sampleRateHz
	ringCapacity    = sampleRateHz / 4 // a quarter second of headroom
)

// StereoSample is one output frame: signed 16-bit left and right.
type StereoSample struct {
	L, R int16
}

// APU owns the four PSG channels, the two direct-sound FIFOs, the mixing
// control registers, and the output ring the host sink drains.
type APU struct {
	Square1 SquareChannel
	Square2 SquareChannel
	Wave    WaveChannel
	Noise   NoiseChannel

	FIFOA, FIFOB SampleFIFO

	// SOUNDCNT_L: per-channel left/right enable and PSG master volumes.
	PSGEnableLeft, PSGEnableRight   [4]bool
	PSGVolumeLeft, PSGVolumeRight   int // 0-7

	// SOUNDCNT_H: PSG master ratio, FIFO volume/routing.
	PSGRatio        int // 0=25%,1=50%,2=100%
	FIFOAVolumeFull bool
	FIFOBVolumeFull bool
	FIFOAEnableLeft, FIFOAEnableRight bool
	FIFOBEnableLeft, FIFOBEnableRight bool

	SoundBias uint16

	MasterEnable bool

	dma *dma.Bank

	frameSeqAccum int
	frameSeqStep  int
	sampleAccum   int

	Ring      [ringCapacity]StereoSample
	ringWrite int
	ringRead  int
	ringCount int
}

// NewAPU returns an APU whose FIFO-refill DMA triggers go through dmaBank.
func NewAPU(dmaBank *dma.Bank) *APU {
	a := &APU{dma: dmaBank}
	a.FIFOA.SourceTimer = 0
	a.FIFOB.SourceTimer = 1
	return a
}

// Step advances every channel and the frame sequencer by cycles CPU
// cycles, and appends mixed samples to the output ring at the internal
// sample rate.
func (a *APU) Step(cycles int) {
	if !a.MasterEnable {
		return
	}

	a.Square1.stepFrequency(cycles)
	a.Square2.stepFrequency(cycles)
	a.Wave.stepFrequency(cycles)
	a.Noise.stepFrequency(cycles)

	a.frameSeqAccum += cycles
	for a.frameSeqAccum >= frameSeqPeriod {
		a.frameSeqAccum -= frameSeqPeriod
		a.tickFrameSequencer()
	}

	a.sampleAccum += cycles
	for a.sampleAccum >= samplePeriod {
		a.sampleAccum -= samplePeriod
		a.pushSample()
	}
}

// tickFrameSequencer runs the 8-step, 512 Hz schedule that clocks length
// counters on every even step, sweep on steps 2 and 6, and the envelope on
// step 7.
func (a *APU) tickFrameSequencer() {
	step := a.frameSeqStep
	a.frameSeqStep = (a.frameSeqStep + 1) % 8

	if step%2 == 0 {
		a.Square1.stepLength()
		a.Square2.stepLength()
		a.Wave.stepLength()
		a.Noise.stepLength()
	}
	if step == 2 || step == 6 {
		a.Square1.stepSweep()
	}
	if step == 7 {
		a.Square1.stepEnvelope()
		a.Square2.stepEnvelope()
		a.Noise.stepEnvelope()
	}
}

// OnTimerOverflow is wired to the timer bank's OnOverflow hook. Whichever
// FIFO is fed by this timer pops one sample; if that leaves it below half
// capacity, the matching DMA channel is asked to refill it.
func (a *APU) OnTimerOverflow(timerIndex int) {
	if a.FIFOA.SourceTimer == timerIndex {
		a.FIFOA.Pop()
		if a.FIFOA.BelowHalf() && a.dma != nil {
			a.dma.Trigger(dma.Special)
		}
	}
	if a.FIFOB.SourceTimer == timerIndex {
		a.FIFOB.Pop()
		if a.FIFOB.BelowHalf() && a.dma != nil {
			a.dma.Trigger(dma.Special)
		}
	}
}

var psgRatioDivisor = [3]int{4, 2, 1}

func (a *APU) mixPSG() (left, right int) {
	samples := [4]int{a.Square1.sample(), a.Square2.sample(), a.Wave.sample(), a.Noise.sample()}

	for i, s := range samples {
		if a.PSGEnableLeft[i] {
			left += s * (a.PSGVolumeLeft + 1)
		}
		if a.PSGEnableRight[i] {
			right += s * (a.PSGVolumeRight + 1)
		}
	}

	div := psgRatioDivisor[a.PSGRatio%3]
	return left / div, right / div
}

func (a *APU) pushSample() {
	psgL, psgR := a.mixPSG()

	fifoAVal := int(a.FIFOA.last)
	fifoBVal := int(a.FIFOB.last)
	if !a.FIFOAVolumeFull {
		fifoAVal /= 2
	}
	if !a.FIFOBVolumeFull {
		fifoBVal /= 2
	}

	left := psgL
	right := psgR
	if a.FIFOAEnableLeft {
		left += fifoAVal
	}
	if a.FIFOAEnableRight {
		right += fifoAVal
	}
	if a.FIFOBEnableLeft {
		left += fifoBVal
	}
	if a.FIFOBEnableRight {
		right += fifoBVal
	}

	bias := int(a.SoundBias)
	left = clamp10(left + bias)
	right = clamp10(right + bias)

	sample := StereoSample{
		L: int16((left - 0x200) * 64),
		R: int16((right - 0x200) * 64),
	}

	if a.ringCount == ringCapacity {
		// drop the oldest sample rather than block; the host sink is
		// expected to drain faster than this fills under normal pacing.
		a.ringRead = (a.ringRead + 1) % ringCapacity
		a.ringCount--
	}
	a.Ring[a.ringWrite] = sample
	a.ringWrite = (a.ringWrite + 1) % ringCapacity
	a.ringCount++
}

func clamp10(v int) int {
	if v < 0 {
		return 0
	}
	if v > 0x3ff {
		return 0x3ff
	}
	return v
}

// PopSample drains one stereo sample from the ring for the host sink.
func (a *APU) PopSample() (StereoSample, bool) {
	if a.ringCount == 0 {
		return StereoSample{}, false
	}
	s := a.Ring[a.ringRead]
	a.ringRead = (a.ringRead + 1) % ringCapacity
	a.ringCount--
	return s, true
}
