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

// Command gbaplay is a minimal SDL2 host for the emulation core: it opens a
// window, blits the framebuffer, queues audio and forwards keyboard input
// to the keypad. It exists to exercise hardware.GBA end to end, not as a
// full-featured front end.
package main

import (
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/jetsetilly/gba/hardware"
	"github.com/jetsetilly/gba/hardware/input"
	"github.com/jetsetilly/gba/hardware/ppu"
	"github.com/jetsetilly/gba/logger"
)

const windowScale = 3

// keymap associates SDL scancodes with keypad buttons.
var keymap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_Z:      input.A,
	sdl.SCANCODE_X:      input.B,
	sdl.SCANCODE_RSHIFT: input.Select,
	sdl.SCANCODE_RETURN: input.Start,
	sdl.SCANCODE_RIGHT:  input.Right,
	sdl.SCANCODE_LEFT:   input.Left,
	sdl.SCANCODE_UP:     input.Up,
	sdl.SCANCODE_DOWN:   input.Down,
	sdl.SCANCODE_S:      input.R,
	sdl.SCANCODE_A:      input.L,
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: gbaplay <rom> [bios]")
	}

	g, err := hardware.NewGBA(nil)
	if err != nil {
		return err
	}

	if _, err := g.LoadROMFromFile(os.Args[1]); err != nil {
		return err
	}

	if len(os.Args) >= 3 {
		if err := g.LoadBIOSFromFile(os.Args[2]); err != nil {
			return err
		}
		g.CPU.Reset()
	} else {
		g.SkipBIOS()
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return err
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("gbaplay",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		ppu.ScreenWidth*windowScale, ppu.ScreenHeight*windowScale, sdl.WINDOW_SHOWN)
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING,
		ppu.ScreenWidth, ppu.ScreenHeight)
	if err != nil {
		return err
	}
	defer texture.Destroy()

	audioSpec := &sdl.AudioSpec{
		Freq:     32768,
		Format:   sdl.AUDIO_S16SYS,
		Channels: 2,
		Samples:  1024,
	}
	audioDevice, err := sdl.OpenAudioDevice("", false, audioSpec, nil, 0)
	if err != nil {
		return err
	}
	defer sdl.CloseAudioDevice(audioDevice)
	sdl.PauseAudioDevice(audioDevice, false)

	pixels := make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*4)
	audioBuf := make([]int16, 0, 2048)

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				key, ok := keymap[e.Keysym.Scancode]
				if !ok {
					continue
				}
				if e.State == sdl.PRESSED {
					g.Press(key)
				} else {
					g.Release(key)
				}
			}
		}

		g.RunFrame()

		convertFramebuffer(g.Framebuffer(), pixels)
		if err := texture.Update(nil, pixels, ppu.ScreenWidth*4); err != nil {
			logger.Logf("gbaplay", "texture update: %v", err)
		}

		audioBuf = audioBuf[:0]
		for {
			s, ok := g.PopSample()
			if !ok {
				break
			}
			audioBuf = append(audioBuf, s.L, s.R)
		}
		if len(audioBuf) > 0 {
			if err := sdl.QueueAudio(audioDevice, int16SliceToBytes(audioBuf)); err != nil {
				logger.Logf("gbaplay", "queue audio: %v", err)
			}
		}

		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()
	}

	return nil
}

// convertFramebuffer expands the PPU's 15-bit BGR pixels into the
// ARGB8888 bytes the streaming texture expects.
func convertFramebuffer(fb *[ppu.ScreenWidth * ppu.ScreenHeight]uint16, out []byte) {
	for i, px := range fb {
		r := uint8(px&0x1f) << 3
		gr := uint8((px>>5)&0x1f) << 3
		b := uint8((px>>10)&0x1f) << 3

		o := i * 4
		out[o] = b
		out[o+1] = gr
		out[o+2] = r
		out[o+3] = 0xff
	}
}

func int16SliceToBytes(s []int16) []byte {
	b := make([]byte, len(s)*2)
	for i, v := range s {
		b[i*2] = byte(v)
		b[i*2+1] = byte(v >> 8)
	}
	return b
}
