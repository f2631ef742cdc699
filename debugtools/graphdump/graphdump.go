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

// Package graphdump renders a snapshot of the running machine's state as a
// Graphviz graph, for inspecting register banks and subsystem wiring by eye
// rather than by stepping through a debugger one field at a time.
package graphdump

import (
	"io"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/gba/hardware"
)

// Dump writes a Graphviz DOT representation of g's entire reachable state
// (CPU registers, bus regions, subsystem fields) to w.
func Dump(w io.Writer, g *hardware.GBA) {
	memviz.Map(w, g)
}
