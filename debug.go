package main

import (
	"log"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/mode7/video"
)

// debugView is a terminal monitor for the render loop. It shows the
// state after each field, the log, and a command line.
type debugView struct {
	r *video.Runner

	log   *tview.TextView
	state *tview.TextView
	input *tview.InputField
	rows  *tview.Flex
	app   *tview.Application

	closed atomic.Bool
}

var debugCommands = []string{"next", "prev", "page ", "reveal", "backlog", "exit"}

func newDebugView() *debugView {
	d := &debugView{
		log: tview.NewTextView().
			SetMaxLines(1000),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.rows.
		AddItem(d.log, 0, 1, false).
		AddItem(d.state, 2, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if t == "" {
			return
		}
		for _, c := range debugCommands {
			if strings.HasPrefix(c, t) && c != t {
				entries = append(entries, c)
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := strings.TrimSpace(d.input.GetText())
		if cmd == "" {
			return
		}
		d.input.SetText("")
		d.command(cmd)
	})
	return d
}

func (d *debugView) command(cmd string) {
	cmd, arg, _ := strings.Cut(cmd, " ")
	switch cmd {
	case "exit", "q", "quit":
		d.app.Stop()
	case "n", "next":
		d.r.NextPage()
	case "p", "prev":
		d.r.PrevPage()
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil {
			log.Printf("invalid page %q", arg)
			return
		}
		d.r.SelectPage(n - 1)
	case "r", "reveal":
		d.r.ToggleReveal()
	case "b", "backlog":
		d.r.EmitBacklog()
	default:
		log.Printf("unknown command %q", cmd)
	}
}

// Run shows the view until the exit command is given.
func (d *debugView) Run() error {
	err := d.app.Run()
	d.closed.Store(true)
	return err
}

// StateFunc shows st. It is called by the render loop.
func (d *debugView) StateFunc(st video.State) {
	if d.closed.Load() {
		return
	}
	msg := st.String()
	d.app.QueueUpdateDraw(func() {
		if st.FlashOn {
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		} else {
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		}
		d.state.SetText(msg)
	})
}
