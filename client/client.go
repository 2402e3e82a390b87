// Package client runs a game in the terminal, optionally publishing it to a
// spectator hub, or watches a game published by someone else.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"termtris/tetris"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

const (
	UIANSI  = "ansi"
	UITcell = "tcell"
)

type tetrisGame interface {
	Start()
	Stop()
	Key(tetris.Key)
	GetUpdate() <-chan *tetris.Snapshot
}

type Client struct {
	tetris  tetrisGame
	render  renderer
	keys    keySource
	sound   sounder
	options *Options
	logger  *slog.Logger
	session string
}

type Options struct {
	// Address of the spectator hub.
	Address string
	// Publish streams the game to the hub under a new session id.
	Publish bool
	// Watch is the session id to watch instead of playing.
	Watch string
	UI    string
	Sound bool
	// Config of the local game, ignored when watching.
	Config tetris.Config
}

func New(l *slog.Logger, o *Options) (*Client, error) {
	c := &Client{
		options: o,
		logger:  l,
		sound:   noSound{},
	}
	watching := o.Watch != ""
	title := "Terminal Tetris"
	switch {
	case watching:
		title = "watching " + o.Watch
	case o.Publish:
		c.session = uuid.New().String()
		title = "session " + c.session
	}

	if !watching {
		if o.Config.Logger == nil {
			o.Config.Logger = l
		}
		e, err := tetris.NewEngine(o.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to create game: %w", err)
		}
		c.tetris = tetris.NewGame(e)
	}

	switch o.UI {
	case UITcell:
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("failed to create screen: %w", err)
		}
		sc, err := newScreen(s, l, title, watching)
		if err != nil {
			return nil, err
		}
		c.render, c.keys = sc, sc
	case UIANSI, "":
		kb, err := newKeyboardSource(l)
		if err != nil {
			return nil, err
		}
		r, err := newRender(os.Stdout, l, title, watching)
		if err != nil {
			return nil, fmt.Errorf("failed to load renderer: %w", err)
		}
		c.render, c.keys = r, kb
	default:
		return nil, fmt.Errorf("unknown ui %q", o.UI)
	}

	if o.Sound {
		s, err := newSound()
		if err != nil {
			l.Error("sound disabled", slog.String("error", err.Error()))
		} else {
			c.sound = s
		}
	}
	return c, nil
}

// Session is the id the game is published under, empty when not publishing.
func (c *Client) Session() string { return c.session }

// Start blocks until the player exits.
func (c *Client) Start() error {
	defer c.close()
	if c.options.Watch != "" {
		return c.watch()
	}
	return c.play()
}

func (c *Client) close() {
	c.render.close()
	if err := c.keys.Close(); err != nil {
		c.logger.Error("unable to close key source", slog.String("error", err.Error()))
	}
}

func (c *Client) play() error {
	var pub *publisher
	if c.options.Publish {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		conn, err := dial(c.options.Address)
		if err != nil {
			return err
		}
		pub, err = newPublisher(ctx, conn, c.session, c.logger)
		if err != nil {
			conn.Close() //nolint: errcheck
			return err
		}
		defer pub.close()
		c.logger.Info("publishing game", slog.String("session", c.session), slog.String("address", c.options.Address))
	}

	c.tetris.Start()
	done := make(chan error, 1)
	go func() {
		defer close(done)
		c.listenTetris(pub)
	}()
	err := c.listenKB(done, func(k tetris.Key) bool {
		c.tetris.Key(k)
		return false
	})
	c.tetris.Stop()
	<-done
	return err
}

func (c *Client) listenTetris(pub *publisher) {
	lines := 0
	for u := range c.tetris.GetUpdate() {
		c.render.render(u)
		if u.Stats.Lines > lines {
			c.sound.lineClear(u.Stats.Lines - lines)
			lines = u.Stats.Lines
		}
		if pub != nil {
			pub.send(u)
		}
	}
}

func (c *Client) watch() error {
	conn, err := dial(c.options.Address)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			c.logger.Error("unable to close gRPC client", slog.String("error", err.Error()))
		}
	}()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, errCh := watch(ctx, conn, c.options.Watch, c.logger)
	done := make(chan error, 1)
	go func() {
		defer close(done)
		for u := range updates {
			c.render.render(u)
		}
		select {
		case err := <-errCh:
			done <- err
		default:
		}
	}()
	err = c.listenKB(done, func(k tetris.Key) bool { return k == tetris.KeyEsc })
	cancel()
	<-done
	return err
}

// listenKB hands keys to forward until done fires, then shows the game over
// prompt and waits for space. forward returns true to exit right away, so
// does ctrl-c at any time. An error on done is returned without waiting.
func (c *Client) listenKB(done <-chan error, forward func(tetris.Key) bool) error {
	keys := c.keys.Keys()
	over := false
	for {
		select {
		case err := <-done:
			if err != nil {
				return err
			}
			done = nil
			over = true
			c.render.gameOver()
		case k, ok := <-keys:
			if !ok {
				return errors.New("key events channel closed unexpectedly")
			}
			switch {
			case k == keyInterrupt:
				return nil
			case over:
				if k == tetris.KeySpace {
					return nil
				}
			case forward(k):
				return nil
			}
		}
	}
}
