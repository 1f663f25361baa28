package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/mode7/video"
)

// devMode shows the named pages and reloads them whenever one of them
// changes. With debug set the render loop monitor takes over the
// terminal.
func devMode(cfg video.Config, gui, debug bool, names []string) error {
	for i, n := range names {
		names[i] = filepath.Clean(n)
	}
	pages, err := loadPages(names)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	dirs := map[string]bool{}
	for _, n := range names {
		dir := n
		if fi, err := os.Stat(n); err == nil && !fi.IsDir() {
			dir = filepath.Dir(n)
		}
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Watch(dir); err != nil {
			return err
		}
	}

	var dv *debugView
	if debug {
		dv = newDebugView()
		cfg.StateFunc = dv.StateFunc
	}
	cfg.RealTime = true
	runner, err := video.NewRunner(cfg, pages)
	if err != nil {
		return err
	}
	if dv != nil {
		dv.r = runner
		log.SetPrefix("")
		log.SetOutput(dv.log)
		go func() {
			if err := dv.Run(); err != nil {
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("mode7: ")
			runner.Stop()
		}()
	} else {
		con, err := startConsole(runner)
		if err != nil {
			return err
		}
		defer con.Stop()
	}

	go func() {
		var reload <-chan time.Time
		for {
			select {
			case <-reload:
				reload = nil
				ps, err := loadPages(names)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				log.Printf("dev: reloaded %d pages", len(ps))
				runner.SetPages(ps)
			case ev, ok := <-watcher.Event:
				if !ok {
					return
				}
				if watched(names, ev.Name) && !ev.IsAttrib() {
					reload = time.After(100 * time.Millisecond)
				}
			case err, ok := <-watcher.Error:
				if !ok {
					return
				}
				log.Printf("dev: watcher: %v", err)
			case <-runner.Done():
				return
			}
		}
	}()
	return runner.Run(gui)
}

// watched reports whether the file name is one of names or lies in one
// of the named directories.
func watched(names []string, name string) bool {
	name = filepath.Clean(name)
	for _, n := range names {
		if name == n || strings.HasPrefix(name, n+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
