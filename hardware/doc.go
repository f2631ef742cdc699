// Package hardware is the base package for the GBA emulation. It and its
// sub-packages contain everything required for a headless emulation.
//
// The GBA type is the root of the emulation and owns every sub-system:
// CPU, bus, PPU, APU, timers, DMA, interrupt controller, keypad and
// cartridge. From here the emulation is driven one frame at a time with
// RunFrame; there is no free-running Run() because the host is expected to
// pace frame delivery itself (see hardware/scheduler).
package hardware
