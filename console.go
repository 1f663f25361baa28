package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/nf/mode7/video"
)

// Console reads single key commands from the terminal: n and p step
// through the pages, 1-9 select one, r reveals concealed text and q
// quits. Other keys are echoed back.
type Console struct {
	r        *video.Runner
	fd       int
	oldState *term.State
}

// startConsole puts the terminal in raw mode and starts reading keys.
// If standard input is not a terminal it does nothing.
func startConsole(r *video.Runner) (*Console, error) {
	c := &Console{r: r, fd: int(os.Stdin.Fd())}
	if !term.IsTerminal(c.fd) {
		return c, nil
	}
	old, err := term.MakeRaw(c.fd)
	if err != nil {
		return nil, fmt.Errorf("console: %v", err)
	}
	c.oldState = old
	log.SetOutput(crlfWriter{os.Stderr})
	go c.readInput(os.Stdin)
	return c, nil
}

// Stop restores the terminal.
func (c *Console) Stop() {
	if c.oldState == nil {
		return
	}
	term.Restore(c.fd, c.oldState)
	c.oldState = nil
	log.SetOutput(os.Stderr)
}

func (c *Console) readInput(in io.Reader) {
	var b [1]byte
	for {
		if _, err := in.Read(b[:]); err != nil {
			log.Printf("reading stdin: %v", err)
			return
		}
		if !c.key(b[0]) {
			c.r.Stop()
			return
		}
	}
}

// key handles one key press and reports whether to keep running.
func (c *Console) key(b byte) bool {
	switch {
	case b == 'q', b == 0x03: // ^C does not interrupt in raw mode
		return false
	case b == 'n':
		c.r.NextPage()
	case b == 'p':
		c.r.PrevPage()
	case b == 'r':
		c.r.ToggleReveal()
	case b >= '1' && b <= '9':
		c.r.SelectPage(int(b - '1'))
	default:
		fmt.Fprintf(os.Stdout, "You pressed: %02x\r\n", b)
	}
	return true
}

// crlfWriter ends lines with CR LF, as a terminal in raw mode needs.
type crlfWriter struct{ w io.Writer }

func (w crlfWriter) Write(p []byte) (int, error) {
	if _, err := w.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
