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

package logger_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gba/logger"
)

func TestLoggerTailAndDedup(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	if w.String() != "" {
		t.Fatalf("expected empty log, got %q", w.String())
	}

	log.Log(logger.Allow, "CPU", "unimplemented opcode")
	log.Log(logger.Allow, "CPU", "unimplemented opcode")
	log.Log(logger.Allow, "PPU", "forced blank")

	w.Reset()
	log.Write(w)
	got := w.String()
	if !strings.Contains(got, "repeat x2") {
		t.Fatalf("expected duplicate entry to be collapsed with a repeat count, got %q", got)
	}
	if !strings.Contains(got, "PPU: forced blank") {
		t.Fatalf("expected PPU entry to be present, got %q", got)
	}

	w.Reset()
	log.Tail(w, 1)
	if !strings.Contains(w.String(), "PPU") {
		t.Fatalf("expected tail(1) to return only the most recent entry, got %q", w.String())
	}
}

type denyPermission struct{}

func (denyPermission) AllowLogging() bool { return false }

func TestLoggerPermission(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(denyPermission{}, "DMA", "should not appear")
	log.Write(w)
	if w.String() != "" {
		t.Fatalf("expected denied log entry to be dropped, got %q", w.String())
	}
}

func TestLoggerMaxEntries(t *testing.T) {
	log := logger.NewLogger(2)
	log.Log(logger.Allow, "A", "1")
	log.Log(logger.Allow, "B", "2")
	log.Log(logger.Allow, "C", "3")

	w := &strings.Builder{}
	log.Write(w)
	got := w.String()
	if strings.Contains(got, "A: 1") {
		t.Fatalf("expected oldest entry to be evicted, got %q", got)
	}
}
