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

// Package wavwriter records the APU's stereo sample ring to a WAV file.
// Samples are buffered in memory in their entirety and encoded on Close, so
// this is suitable for short capture sessions, not continuous logging.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jetsetilly/gba/curated"
	apuPkg "github.com/jetsetilly/gba/hardware/apu"
	"github.com/jetsetilly/gba/logger"
)

// sampleRateHz must track hardware/apu's internal output rate.
const sampleRateHz = 32768

// WavWriter accumulates stereo samples drained from an APU's output ring
// and encodes them to filename on Close.
type WavWriter struct {
	filename string
	frames   []int
}

// New is the preferred method of initialisation for WavWriter.
func New(filename string) (*WavWriter, error) {
	return &WavWriter{filename: filename}, nil
}

// Drain pulls every sample currently available from a, appending it to the
// recording. PopSample consumes each sample it returns, so a sample already
// popped for playback is not recorded, and one recorded here is no longer
// available for playback.
func (w *WavWriter) Drain(a *apuPkg.APU) {
	for {
		s, ok := a.PopSample()
		if !ok {
			return
		}
		w.frames = append(w.frames, int(s.L), int(s.R))
	}
}

// Close encodes the accumulated recording to disk as a 16-bit stereo WAV
// file at the APU's internal sample rate.
func (w *WavWriter) Close() (rerr error) {
	f, err := os.Create(w.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, sampleRateHz, 16, 2, 1)
	defer func() {
		if err := enc.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: sampleRateHz},
		Data:   w.frames,
	}

	logger.Logf("wavwriter", "writing %d frames to %s", len(w.frames)/2, w.filename)
	if err := enc.Write(buf); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
