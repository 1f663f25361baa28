package teletext

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestParsePage(t *testing.T) {
	full := bytes.Repeat([]byte{'x'}, Size)
	for _, c := range []struct {
		name string
		b    []byte
		ok   bool
		last byte // expected final byte of the page
	}{
		{"full", full, true, 'x'},
		{"1k", append(bytes.Repeat([]byte{'x'}, Size), make([]byte, 24)...), true, 'x'},
		{"24 lines", full[:Size-Cols], true, ' '},
		{"short", full[:500], false, 0},
		{"empty", nil, false, 0},
	} {
		p, err := ParsePage(c.b)
		if (err == nil) != c.ok {
			t.Errorf("%s: err = %v", c.name, err)
			continue
		}
		if !c.ok {
			continue
		}
		if g := p[Size-1]; g != c.last {
			t.Errorf("%s: last byte %q, want %q", c.name, g, c.last)
		}
		if g := p[0]; g != 'x' {
			t.Errorf("%s: first byte %q", c.name, g)
		}
	}
}

func TestPrint(t *testing.T) {
	var p Page
	p.Clear()
	col := p.Print(2, 3, AlphaRed, "ab", byte('c'), []byte("de"))
	if col != 9 {
		t.Errorf("Print returned column %d, want 9", col)
	}
	if g, w := string(p.Line(2)[:10]), "   \x01abcde "; g != w {
		t.Errorf("line 2 = %q, want %q", g, w)
	}
	if g := p.Print(0, 38, "overflow"); g != 46 {
		t.Errorf("Print past the end returned %d", g)
	}
	if g := string(p.Line(0)[38:]); g != "ov" {
		t.Errorf("line 0 ends %q", g)
	}
	if g := p.Line(1)[0]; g != ' ' {
		t.Errorf("overflow spilled into line 1: %q", g)
	}
}

func TestLoadPages(t *testing.T) {
	dir := t.TempDir()
	for i, name := range []string{"b.bin", "a.bin", "c.bin"} {
		b := bytes.Repeat([]byte{byte('a' + i)}, Size)
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	ps, err := LoadPages(dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []byte
	for _, p := range ps {
		got = append(got, p[0])
	}
	if string(got) != "bac" {
		t.Errorf("pages in order %q, want %q", got, "bac")
	}

	ps, err = LoadPages(filepath.Join(dir, "c.bin"))
	if err != nil || len(ps) != 1 || ps[0][0] != 'c' {
		t.Errorf("LoadPages(file) = %v, %v", len(ps), err)
	}

	if _, err := LoadPages(filepath.Join(dir, "sub")); err == nil {
		t.Error("empty directory loaded without error")
	}
	bad := filepath.Join(dir, "sub", "bad")
	if err := os.WriteFile(bad, []byte("short"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPages(bad); err == nil {
		t.Error("short page loaded without error")
	}
}

func TestTestPages(t *testing.T) {
	ps := TestPages()
	if len(ps) != 4 {
		t.Fatalf("%d test pages, want 4", len(ps))
	}
	for i, p := range ps {
		if bytes.Equal(p[:], ps[(i+1)%len(ps)][:]) {
			t.Errorf("test pages %d and %d are the same", i, (i+1)%len(ps))
		}
	}
}
