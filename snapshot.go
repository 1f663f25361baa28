package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/nf/mode7/teletext"
	"github.com/nf/mode7/video"
)

// Snapshot pictures are scaled to a 4:3 aspect ratio.
const snapshotWidth = video.FrameHeight * 4 / 3

// snapshot renders fields fields of the first page without a window and
// writes the monitor picture to name. The format follows the extension.
func snapshot(cfg video.Config, pages []*teletext.Page, fields int, name string) error {
	enc, err := encoderFor(name)
	if err != nil {
		return err
	}
	if fields < 2 {
		fields = 2
	}
	r, err := video.NewRunner(cfg, pages)
	if err != nil {
		return err
	}
	if err := r.Start(); err != nil {
		return err
	}
	// The field after the last one wanted has been drawn once the loop
	// is rendering the one after it.
	ok := r.WaitFields(int64(fields) + 1)
	r.Stop()
	if !ok {
		return fmt.Errorf("snapshot: render loop stopped after %d fields", r.Fields())
	}

	frame := r.Monitor().Frame()
	dst := image.NewRGBA(image.Rect(0, 0, snapshotWidth, video.FrameHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := enc(f, dst); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: %v", err)
	}
	return f.Close()
}

func encoderFor(name string) (func(io.Writer, image.Image) error, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("snapshot: unknown image format %q", ext)
	}
}
