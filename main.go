package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"termtris/client"
	"termtris/tetris"

	"golang.org/x/term"
)

func main() {
	var (
		ui      = flag.String("ui", client.UIANSI, "frontend, ansi or tcell")
		keys    = flag.String("keys", "", "key bindings, e.g. left=a,right=d,rotate=w,soft_drop=s")
		width   = flag.Int("width", tetris.DefaultWidth, "board width")
		height  = flag.Int("height", tetris.DefaultHeight, "board height")
		fall    = flag.Duration("fall", tetris.DefaultFallInterval, "time between two gravity steps")
		seed    = flag.Uint64("seed", 0, "seed for the piece randomizer, 0 picks one")
		sound   = flag.Bool("sound", false, "play a tone on line clears")
		publish = flag.Bool("publish", false, "publish the game to the spectator hub")
		watch   = flag.String("watch", "", "session id to watch instead of playing")
		addr    = flag.String("addr", "localhost:9000", "spectator hub address")
		logFile = flag.String("log", "", "write JSON logs to this file")
		debug   = flag.Bool("debug", false, "log at debug level")
	)
	flag.Parse()

	if *ui == client.UIANSI && !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatal("stdout is not a terminal, try -ui tcell or run it in a terminal")
	}

	logger, closeLog, err := newLogger(*logFile, *debug)
	if err != nil {
		log.Fatalf("unable to open log file: %v", err)
	}
	defer closeLog()

	bindings, err := tetris.ParseBindings(*keys)
	if err != nil {
		log.Fatal(err)
	}
	cfg := tetris.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height
	cfg.FallInterval = *fall
	cfg.KeyBindings = bindings
	cfg.Seed = *seed
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	c, err := client.New(logger, &client.Options{
		Address: *addr,
		Publish: *publish,
		Watch:   *watch,
		UI:      *ui,
		Sound:   *sound,
		Config:  cfg,
	})
	if err != nil {
		log.Fatalf("unable to start client: %v", err)
	}
	if err := c.Start(); err != nil {
		logger.Error("client exited with error", slog.String("error", err.Error()))
		closeLog()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1) //nolint: gocritic
	}
	if s := c.Session(); s != "" {
		fmt.Printf("published as session %s\n", s)
	}
}

// newLogger writes JSON logs to path. The screen belongs to the game, so
// without a path logs are discarded.
func newLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})), func() { f.Close() }, nil //nolint: errcheck
}
