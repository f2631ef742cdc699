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

package prefs_test

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/jetsetilly/gba/prefs"
)

const tempFile = "gba_prefs_test"

func getTmpPrefFile(t *testing.T) string {
	t.Helper()
	return path.Join(os.TempDir(), tempFile)
}

func delTmpPrefFile(t *testing.T, fn string) {
	t.Helper()

	if err := os.Remove(fn); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			t.Errorf("error removing tmp pref file: %v", err)
		}
	}
}

func cmpTmpFile(t *testing.T, fn string, expected string) {
	t.Helper()

	f, err := os.Open(fn)
	if err != nil {
		t.Fatalf("error opening tmp file: %v", err)
	}
	defer f.Close()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		t.Fatalf("error reading tmp file: %v", err)
	}

	expected = fmt.Sprintf("%s\n%s", prefs.WarningBoilerPlate, expected)

	if expected != string(data) {
		t.Fatalf("prefs file mismatch\nexpected:\n%s\ngot:\n%s", expected, string(data))
	}
}

func TestBool(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var v, w, x prefs.Bool
	if err := dsk.Add("test", &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := dsk.Add("testB", &w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := dsk.Add("testC", &x); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.Set(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Set("foo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := x.Set("true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := dsk.Save(); err != nil {
		t.Fatalf("error saving disk: %v", err)
	}

	cmpTmpFile(t, fn, "test :: true\ntestB :: false\ntestC :: true\n")
}

func TestString(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var v prefs.String
	if err := dsk.Add("foo", &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.Set("bar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := dsk.Save(); err != nil {
		t.Fatalf("error saving disk: %v", err)
	}

	cmpTmpFile(t, fn, "foo :: bar\n")
}

func TestInt(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var v, w prefs.Int
	if err := dsk.Add("number", &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := dsk.Add("numberB", &w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.Set(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// string conversion to int
	if err := w.Set("99"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := dsk.Save(); err != nil {
		t.Fatalf("error saving disk: %v", err)
	}

	cmpTmpFile(t, fn, "number :: 10\nnumberB :: 99\n")

	// failure conditions
	if err := v.Set("---"); err == nil {
		t.Fatalf("expected error setting an unparseable string")
	}
	if err := v.Set(1.0); err == nil {
		t.Fatalf("expected error setting a float64")
	}
}

func TestGeneric(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var w, h int

	v := prefs.NewGeneric(
		func(s prefs.Value) error {
			_, err := fmt.Sscanf(s.(string), "%d,%d", &w, &h)
			return err
		},
		func() prefs.Value {
			return fmt.Sprintf("%d,%d", w, h)
		},
	)

	if err := dsk.Add("generic", v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w = 1
	h = 2

	if err := dsk.Save(); err != nil {
		t.Fatalf("error saving disk: %v", err)
	}

	cmpTmpFile(t, fn, "generic :: 1,2\n")

	w = 0
	h = 0

	if err := dsk.Load(false); err != nil {
		t.Fatalf("error loading disk: %v", err)
	}

	if w != 1 || h != 2 {
		t.Fatalf("expected values to be restored from disk, got w=%d h=%d", w, h)
	}
}

// write a bool and then a string from a different Disk instance backed by
// the same file. the second write must not clobber the results of the
// first.
func TestBoolAndString(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var v prefs.Bool
	if err := dsk.Add("test", &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Set(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := dsk.Save(); err != nil {
		t.Fatalf("error saving disk: %v", err)
	}

	// new Disk instance, same file
	dsk, err = prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var s prefs.String
	if err := dsk.Add("foo", &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Set("bar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := dsk.Save(); err != nil {
		t.Fatalf("error saving disk: %v", err)
	}

	cmpTmpFile(t, fn, "foo :: bar\ntest :: true\n")
}

func TestMaxStringLength(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var s prefs.String
	if err := dsk.Add("test", &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Set("123456789"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.String() != "123456789" {
		t.Fatalf("expected 123456789, got %s", s.String())
	}

	s.SetMaxLen(5)
	if s.String() != "12345" {
		t.Fatalf("expected string to be cropped to 12345, got %s", s.String())
	}

	s.SetMaxLen(0)
	if s.String() != "12345" {
		t.Fatalf("expected cropped string to remain cropped, got %s", s.String())
	}

	s.SetMaxLen(3)
	if err := s.Set("abcdefghi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.String() != "abc" {
		t.Fatalf("expected abc, got %s", s.String())
	}
}
