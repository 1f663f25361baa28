package teletext

var colourNames = [8]string{"Black", "Red", "Green", "Yellow", "Blue", "Magenta", "Cyan", "White"}

// TestPages returns the built-in test pages: alphanumeric colours and
// double height, mosaics, the character set, and flash and conceal.
func TestPages() []*Page {
	return []*Page{colourPage(), mosaicPage(), charsetPage(), flashPage()}
}

func header(p *Page, title string) {
	p.Print(0, 0, AlphaYellow, "MODE7", AlphaCyan, title)
	p.Print(1, 0, DoubleHeight, AlphaWhite, title)
	p.Print(2, 0, DoubleHeight, AlphaWhite, title)
}

func colourPage() *Page {
	p := &Page{}
	p.Clear()
	header(p, "Colours")
	for c := 1; c < 8; c++ {
		n := 2 + c
		p.Print(n, 0, AlphaRed+Code(c-1), colourNames[c])
		p.Print(n, 12, AlphaRed+Code(c-1), NewBackground, AlphaBlue+Code(c%4), "on "+colourNames[c])
	}
	p.Print(11, 0, AlphaWhite, NewBackground, AlphaRed, "Red on white", BlackBackground, AlphaWhite, "reset")
	for n := 13; n < 19; n += 2 {
		c := Code((n-13)/2 + 1)
		p.Print(n, 0, DoubleHeight, c, "Double height", NormalHeight, "normal")
		p.Print(n+1, 0, DoubleHeight, c, "Double height", NormalHeight, "hidden")
	}
	p.Print(20, 0, AlphaGreen, "Single", DoubleHeight, "Double", NormalHeight, "Single")
	p.Print(21, 0, AlphaGreen, "Single", DoubleHeight, "Double", NormalHeight, "Single")
	p.Print(24, 0, AlphaBlue, NewBackground, AlphaWhite, "Page 1 of 4")
	return p
}

func mosaicPage() *Page {
	p := &Page{}
	p.Clear()
	header(p, "Mosaics")
	// All 64 sextant combinations, 32 per line.
	for half := 0; half < 2; half++ {
		for _, sep := range []Code{Contiguous, Separated} {
			n := 4 + half*3
			if sep == Separated {
				n++
			}
			col := p.Print(n, 0, MosaicWhite, sep)
			for i := 0; i < 32; i++ {
				c := Code(0x20 + half*0x40 + i)
				col = p.Print(n, col, c)
			}
		}
	}
	for c := 1; c < 8; c++ {
		p.Print(10+c, 0, MosaicRed+Code(c-1), "\x7f\x7f\x7f\x7f", Separated, "\x7f\x7f\x7f\x7f",
			Contiguous, "\x2c\x2c\x2c", AlphaRed+Code(c-1), colourNames[c])
	}
	// Hold graphics: the control codes after the block show as blocks.
	p.Print(19, 0, AlphaWhite, "Hold", MosaicYellow, Hold, "\x7f", MosaicCyan, MosaicGreen, "\x35", Release, MosaicRed, "\x7f")
	p.Print(20, 0, AlphaWhite, "Free", MosaicYellow, "\x7f", MosaicCyan, MosaicGreen, "\x35", MosaicRed, "\x7f")
	p.Print(22, 0, MosaicBlue, "\x7f\x7f", "ABCDE", "\x7f\x7f", AlphaWhite, "blast through")
	p.Print(24, 0, AlphaBlue, NewBackground, AlphaWhite, "Page 2 of 4")
	return p
}

func charsetPage() *Page {
	p := &Page{}
	p.Clear()
	header(p, "Character set")
	for i := 0; i < 96; i++ {
		n := 4 + i/32
		col := 4 + i%32
		if i%32 == 0 {
			p.Print(n, 0, AlphaWhite)
		}
		p.Print(n, col, Code(0x20+i))
	}
	for i := 0; i < 96; i++ {
		n := 8 + i/32
		col := 4 + i%32
		if i%32 == 0 {
			p.Print(n, 0, MosaicWhite)
		}
		p.Print(n, col, Code(0x20+i))
	}
	p.Print(12, 0, AlphaCyan, "The quick brown fox jumps over the")
	p.Print(13, 0, AlphaCyan, "lazy dog. 0123456789 #[]^_`{|}~")
	p.Print(24, 0, AlphaBlue, NewBackground, AlphaWhite, "Page 3 of 4")
	return p
}

func flashPage() *Page {
	p := &Page{}
	p.Clear()
	header(p, "Flash and conceal")
	p.Print(4, 0, AlphaWhite, "Steady", Flash, AlphaRed, "Flashing", Steady, "Steady")
	p.Print(6, 0, Flash, MosaicYellow, "\x7f\x7f\x7f", AlphaGreen, "flashing mosaic")
	p.Print(8, 0, AlphaWhite, "Question: what is 6 x 7?")
	p.Print(9, 0, AlphaWhite, "Answer:", Conceal, AlphaYellow, "42")
	p.Print(11, 0, DoubleHeight, Flash, AlphaMagenta, "Flashing double")
	p.Print(12, 0, DoubleHeight, Flash, AlphaMagenta, "Flashing double")
	p.Print(24, 0, AlphaBlue, NewBackground, AlphaWhite, "Page 4 of 4")
	return p
}
