package teletext

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Page geometry.
const (
	Cols  = 40
	Lines = 25
	Size  = Cols * Lines
)

// Page is a screen of character codes, stored row-major.
type Page [Size]byte

// Line returns character line n of p.
func (p *Page) Line(n int) []byte { return p[n*Cols : (n+1)*Cols] }

// Clear fills p with spaces.
func (p *Page) Clear() {
	for i := range p {
		p[i] = byte(Space)
	}
}

// Print writes items to line n of p starting at column col, and returns
// the column after the last one written. Items may be Codes, strings,
// bytes or runs of bytes. Output that runs past the end of the line is
// dropped.
func (p *Page) Print(n, col int, items ...any) int {
	line := p.Line(n)
	put := func(b byte) {
		if col < Cols {
			line[col] = b
		}
		col++
	}
	for _, it := range items {
		switch it := it.(type) {
		case Code:
			put(byte(it))
		case byte:
			put(it)
		case string:
			for i := 0; i < len(it); i++ {
				put(it[i])
			}
		case []byte:
			for _, b := range it {
				put(b)
			}
		default:
			panic(fmt.Sprintf("teletext: cannot print %T", it))
		}
	}
	return col
}

// ParsePage decodes a page image. A full image is Size bytes; longer
// images, such as a 1K screen memory dump, are truncated and a 24 line
// image gets a blank last line.
func ParsePage(b []byte) (*Page, error) {
	p := &Page{}
	switch {
	case len(b) >= Size:
		copy(p[:], b)
	case len(b) == Size-Cols:
		p.Clear()
		copy(p[:], b)
	default:
		return nil, fmt.Errorf("page is %d bytes, want %d or %d", len(b), Size, Size-Cols)
	}
	return p, nil
}

// LoadPage reads a page image from the named file.
func LoadPage(name string) (*Page, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	p, err := ParsePage(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return p, nil
}

// LoadPages reads a page image, or if name is a directory every regular
// file in it in name order.
func LoadPages(name string) ([]*Page, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		p, err := LoadPage(name)
		if err != nil {
			return nil, err
		}
		return []*Page{p}, nil
	}

	des, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, de := range des {
		if de.Type()&fs.ModeType == 0 {
			names = append(names, filepath.Join(name, de.Name()))
		}
	}
	sort.Strings(names)
	var ps []*Page
	for _, n := range names {
		p, err := LoadPage(n)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	if len(ps) == 0 {
		return nil, fmt.Errorf("%s: no pages", name)
	}
	return ps, nil
}
