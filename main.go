// Command mode7 shows teletext pages on a simulated BBC Mode 7 video
// generator.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/nf/mode7/teletext"
	"github.com/nf/mode7/video"
)

func main() {
	log.SetPrefix("mode7: ")
	log.SetFlags(0)

	def := video.DefaultTiming()
	var (
		cliFlag     = flag.Bool("cli", false, "disable GUI features")
		devFlag     = flag.Bool("dev", false, "enable developer mode (reload page files when they change)")
		debugFlag   = flag.Bool("debug", false, "enable the render loop monitor (implies -dev)")
		extSyncFlag = flag.Bool("extsync", false, "take sync from the host computer instead of the sync generator")
		concealFlag = flag.Bool("conceal", false, "hide concealed text")
		clockFlag   = flag.Int("clock", def.ClockMHz, "serializer clock in `MHz`, a multiple of 12")
		porchFlag   = flag.Int("backporch", def.BackPorch10, "HSYNC to first pixel in `tenths` of a microsecond")
		vposFlag    = flag.Int("vpos", def.VerticalPos, "`lines` skipped after VSYNC")

		snapshotFlag = flag.String("snapshot", "", "render without a window and write the picture to `file` (.png, .bmp or .tiff)")
		fieldsFlag   = flag.Int("fields", 4, "number of fields to render for -snapshot")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [page file or directory ...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "With no pages, the built-in test pages are shown.\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	cfg := video.Config{
		Timing: video.Timing{
			ClockMHz:    *clockFlag,
			BackPorch10: *porchFlag,
			VerticalPos: *vposFlag,
		},
		HideConcealed: *concealFlag,
		ExternalSync:  *extSyncFlag,
	}
	if err := cfg.Timing.Validate(); err != nil {
		log.Fatal(err)
	}
	pages, err := loadPages(flag.Args())
	if err != nil {
		log.Fatal(err)
	}

	if *snapshotFlag != "" {
		if err := snapshot(cfg, pages, *fieldsFlag, *snapshotFlag); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *devFlag || *debugFlag {
		if flag.NArg() == 0 {
			log.Fatal("dev mode needs page files to watch")
		}
		if err := devMode(cfg, !*cliFlag, *debugFlag, flag.Args()); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err = run(cfg, pages, !*cliFlag)

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

// loadPages reads the pages named by args, or returns the test pages if
// there are none.
func loadPages(args []string) ([]*teletext.Page, error) {
	if len(args) == 0 {
		return teletext.TestPages(), nil
	}
	var pages []*teletext.Page
	for _, name := range args {
		ps, err := teletext.LoadPages(name)
		if err != nil {
			return nil, err
		}
		pages = append(pages, ps...)
	}
	return pages, nil
}

func run(cfg video.Config, pages []*teletext.Page, guiEnabled bool) error {
	cfg.RealTime = true
	r, err := video.NewRunner(cfg, pages)
	if err != nil {
		return err
	}
	con, err := startConsole(r)
	if err != nil {
		return err
	}
	defer con.Stop()
	return r.Run(guiEnabled)
}
