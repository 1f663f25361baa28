package video

import (
	"image"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// GUI shows a Runner's monitor in a window. Keys: n or right arrow for
// the next page, p or left arrow for the previous one, 1-9 to select a
// page, r to reveal concealed text, q or escape to quit.
type GUI struct {
	r *Runner

	buf   screen.Buffer
	tex   screen.Texture
	ops   int // monitor ops when buf was last filled
	dirty bool
}

func NewGUI(r *Runner) *GUI {
	return &GUI{r: r, ops: -1}
}

// Run drives the window until it is closed or exit is closed.
func (g *GUI) Run(exit <-chan bool) error {
	var runErr error
	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Title:  "mode7",
			Width:  FrameWidth,
			Height: FrameHeight,
		})
		if err != nil {
			runErr = err
			return
		}
		defer w.Release()
		defer g.release()

		dims := image.Point{FrameWidth, FrameHeight}
		if g.buf, err = s.NewBuffer(dims); err != nil {
			runErr = err
			return
		}
		if g.tex, err = s.NewTexture(dims); err != nil {
			runErr = err
			return
		}

		type update struct{}
		closed := make(chan bool)
		defer close(closed)
		go func() {
			t := time.NewTicker(FieldTime)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-exit:
					w.Send(lifecycle.Event{To: lifecycle.StageDead})
					return
				case <-closed:
					return
				}
			}
		}()

		var sz size.Event
		for {
			switch e := w.NextEvent().(type) {
			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}
				g.dirty = true

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case key.Event:
				if e.Direction != key.DirPress {
					break
				}
				if !g.key(e) {
					return
				}

			case paint.Event:
				g.dirty = true
				g.paint(w, sz)

			case update:
				if o := g.r.Monitor().Ops(); o != g.ops {
					g.ops = o
					g.r.Monitor().CopyTo(g.buf.RGBA())
					g.tex.Upload(image.Point{}, g.buf, g.buf.Bounds())
					g.dirty = true
				}
				g.paint(w, sz)

			case error:
				log.Print(e)
			}
		}
	})
	return runErr
}

func (g *GUI) paint(w screen.Window, sz size.Event) {
	if !g.dirty || sz.WidthPx == 0 {
		return
	}
	w.Scale(sz.Bounds(), g.tex, g.tex.Bounds(), draw.Src, nil)
	w.Publish()
	g.dirty = false
}

// key handles a key press and reports whether the window should stay
// open.
func (g *GUI) key(e key.Event) bool {
	switch {
	case e.Code == key.CodeEscape || e.Rune == 'q':
		return false
	case e.Code == key.CodeRightArrow || e.Rune == 'n':
		g.r.NextPage()
	case e.Code == key.CodeLeftArrow || e.Rune == 'p':
		g.r.PrevPage()
	case e.Rune == 'r':
		g.r.ToggleReveal()
	case e.Rune >= '1' && e.Rune <= '9':
		g.r.SelectPage(int(e.Rune - '1'))
	}
	return true
}

func (g *GUI) release() {
	if g.tex != nil {
		g.tex.Release()
	}
	if g.buf != nil {
		g.buf.Release()
	}
}
