package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/nf/mode7/teletext"
	"github.com/nf/mode7/video"
)

func TestWatched(t *testing.T) {
	names := []string{"pages", filepath.Join("other", "p1.bin")}
	for _, c := range []struct {
		name string
		want bool
	}{
		{filepath.Join("pages", "a.bin"), true},
		{filepath.Join("pages", "sub", "a.bin"), true},
		{"pages", true},
		{"pagesx", false},
		{filepath.Join("other", "p1.bin"), true},
		{filepath.Join("other", "p2.bin"), false},
	} {
		if got := watched(names, c.name); got != c.want {
			t.Errorf("watched(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEncoderFor(t *testing.T) {
	for _, c := range []struct {
		name string
		ok   bool
	}{
		{"a.png", true},
		{"a.PNG", true},
		{"a.bmp", true},
		{"a.tif", true},
		{"a.tiff", true},
		{"a.gif", false},
		{"a", false},
	} {
		_, err := encoderFor(c.name)
		if ok := err == nil; ok != c.ok {
			t.Errorf("encoderFor(%q) error = %v", c.name, err)
		}
	}
}

func TestCRLFWriter(t *testing.T) {
	var b bytes.Buffer
	n, err := crlfWriter{&b}.Write([]byte("a\nb\n"))
	if err != nil || n != 4 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if got, want := b.String(), "a\r\nb\r\n"; got != want {
		t.Errorf("wrote %q, want %q", got, want)
	}
}

func TestLoadPages(t *testing.T) {
	ps, err := loadPages(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != len(teletext.TestPages()) {
		t.Errorf("got %d pages, want the test pages", len(ps))
	}

	dir := t.TempDir()
	p := &teletext.Page{}
	p.Clear()
	for _, n := range []string{"a", "b"} {
		if err := os.WriteFile(filepath.Join(dir, n), p[:], 0o644); err != nil {
			t.Fatal(err)
		}
	}
	ps, err = loadPages([]string{dir, filepath.Join(dir, "a")})
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 3 {
		t.Errorf("got %d pages, want 3", len(ps))
	}
	if _, err := loadPages([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("loading a missing file succeeded")
	}
}

func TestConsoleKeys(t *testing.T) {
	r, err := video.NewRunner(video.Config{Timing: video.DefaultTiming()}, teletext.TestPages())
	if err != nil {
		t.Fatal(err)
	}
	c := &Console{r: r}
	for _, b := range []byte("npr3") {
		if !c.key(b) {
			t.Errorf("key %q stopped the console", b)
		}
	}
	for _, b := range []byte{'q', 0x03} {
		if c.key(b) {
			t.Errorf("key %q did not stop the console", b)
		}
	}
	c.Stop() // not a terminal, nothing to restore
}

func TestSnapshot(t *testing.T) {
	name := filepath.Join(t.TempDir(), "shot.png")
	cfg := video.Config{Timing: video.DefaultTiming()}
	if err := snapshot(cfg, teletext.TestPages(), 2, name); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Bounds().Size(); got.X != snapshotWidth || got.Y != video.FrameHeight {
		t.Errorf("snapshot is %v, want %dx%d", got, snapshotWidth, video.FrameHeight)
	}
}
