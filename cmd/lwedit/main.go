// Command lwedit is the 2D/3D portal-world map editor: a GLFW window
// running the C4 editor state machine in 2D, with a Tab-key swap to a
// software-rasterized 3D preview of the world being edited. Grounded on the
// teacher's mod_client.go main(), generalized from its fixed rotating-
// triangle demo to load/save/edit an arbitrary world file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lostwing/lwedit/editor"
	"github.com/lostwing/lwedit/logx"
	"github.com/lostwing/lwedit/shell"
	"github.com/lostwing/lwedit/world"
	"github.com/lostwing/lwedit/worldio"
)

func main() {
	var (
		path  = flag.String("file", "level.lwbb", "world file to open, or create if missing")
		debug = flag.Bool("debug", false, "enable debug logging")
		w, h  = flag.Int("width", 1280, "window width"), flag.Int("height", 720, "window height")
	)
	flag.Parse()

	log := logx.NewDefault("lwedit ", *debug)

	if err := run(*path, *w, *h, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(path string, width, height int, log logx.Logger) error {
	w, err := loadOrNew(path, log)
	if err != nil {
		return err
	}

	ed := editor.New(w, width, height, log)

	host, err := shell.NewHost(width, height, "lwedit - "+path, log)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer host.Close()
	host.SetSavePath(path)

	save := func(p string) error { return worldio.Save(ed.World, p) }
	load := func(p string) error {
		loaded, err := worldio.Load(p)
		if err != nil {
			// I/O or version-mismatch failure: the world in memory is left
			// untouched, per the load-failure invariant.
			return err
		}
		ed.World = loaded
		ed.Selection = nil
		ed.State = editor.StateIdle
		return nil
	}

	host.Run(ed, save, load)
	return nil
}

// loadOrNew opens path if it exists, otherwise starts from an empty world so
// a first run isn't blocked on having a file to point at.
func loadOrNew(path string, log logx.Logger) (*world.World, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Infof("%s does not exist, starting with an empty world", path)
		return world.New(), nil
	}
	w, err := worldio.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return w, nil
}
