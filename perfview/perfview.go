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

//go:build perfview
// +build perfview

// Package perfview exposes a live dashboard of host process metrics
// (goroutines, GC pauses, heap size) for a host running the emulation, via
// the same runtime-stats web viewer the wider ecosystem uses.
package perfview

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address is the host:port the viewer listens on.
const Address = "localhost:12600"
const url = "/debug/statsview"

var framesPerSecond int64

// Launch starts the dashboard's HTTP server in its own goroutine.
func Launch(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(output, "performance dashboard available at %s%s\n", Address, url)
}

// RecordFrame increments a package-level frame counter for a host loop to
// call once per RunFrame. Nothing in this repository calls it, and the
// dashboard shows only the built-in runtime stats, not this counter.
func RecordFrame() {
	atomic.AddInt64(&framesPerSecond, 1)
}

// Available reports whether a dashboard is available to launch.
func Available() bool {
	return true
}
