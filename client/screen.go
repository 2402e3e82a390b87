package client

import (
	"fmt"
	"log/slog"
	"sync"

	"termtris/tetris"

	"github.com/gdamore/tcell/v2"
)

var tcellColors = map[tetris.Shape]tcell.Color{
	tetris.I: tcell.ColorTeal,
	tetris.J: tcell.ColorBlue,
	tetris.L: tcell.ColorOrange,
	tetris.O: tcell.ColorYellow,
	tetris.S: tcell.ColorGreen,
	tetris.Z: tcell.ColorRed,
	tetris.T: tcell.ColorPurple,
}

// screen is the full screen frontend: it renders snapshots on a tcell screen
// and reads keys from it.
type screen struct {
	s        tcell.Screen
	keys     chan tetris.Key
	done     chan struct{}
	logger   *slog.Logger
	title    string
	watching bool
	fini     sync.Once

	mu   sync.Mutex
	last *tetris.Snapshot
	over bool
}

func newScreen(s tcell.Screen, l *slog.Logger, title string, watching bool) (*screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	s.HideCursor()
	sc := &screen{
		s:        s,
		keys:     make(chan tetris.Key),
		done:     make(chan struct{}),
		logger:   l,
		title:    title,
		watching: watching,
	}
	go sc.listen()
	return sc, nil
}

func (sc *screen) Keys() <-chan tetris.Key { return sc.keys }

func (sc *screen) Close() error {
	sc.fini.Do(func() {
		close(sc.done)
		sc.s.Fini()
	})
	return nil
}

func (sc *screen) render(s *tetris.Snapshot) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.last = s
	sc.draw()
}

func (sc *screen) gameOver() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.over = true
	sc.draw()
}

func (sc *screen) close() {
	if err := sc.Close(); err != nil {
		sc.logger.Error("unable to close screen", slog.String("error", err.Error()))
	}
}

// listen ends when the screen is finalized.
func (sc *screen) listen() {
	defer close(sc.keys)
	for {
		switch ev := sc.s.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			sc.s.Sync()
			sc.mu.Lock()
			sc.draw()
			sc.mu.Unlock()
		case *tcell.EventKey:
			if k := keyFromTcell(ev); k != tetris.NoKey && !sendKey(sc.keys, sc.done, k) {
				return
			}
		}
	}
}

func (sc *screen) draw() {
	s := sc.last
	if s == nil {
		return
	}
	sc.s.Clear()
	frame := tcell.StyleDefault
	sc.text(1, 0, sc.title, frame.Bold(true))

	const top = 1
	right := 2*s.Width + 1
	bottom := top + s.Height + 1
	for x := 1; x < right; x++ {
		sc.s.SetContent(x, top, '─', nil, frame)
		sc.s.SetContent(x, bottom, '─', nil, frame)
	}
	sc.s.SetContent(0, top, '┌', nil, frame)
	sc.s.SetContent(right, top, '┐', nil, frame)
	sc.s.SetContent(0, bottom, '└', nil, frame)
	sc.s.SetContent(right, bottom, '┘', nil, frame)

	for y := range s.Height {
		sc.s.SetContent(0, top+1+y, '│', nil, frame)
		sc.s.SetContent(right, top+1+y, '│', nil, frame)
		for x := range s.Width {
			shape := s.Cell(x, y)
			if shape == tetris.Empty {
				continue
			}
			st := frame.Reverse(true)
			if c, ok := tcellColors[shape]; ok {
				st = st.Foreground(c)
			}
			sc.s.SetContent(1+2*x, top+1+y, '[', nil, st)
			sc.s.SetContent(2+2*x, top+1+y, ']', nil, st)
		}
	}

	sc.text(1, bottom+1, fmt.Sprintf("Score: %d  Lines: %d  Pieces: %d", s.Score, s.Stats.Lines, s.Stats.Pieces), frame)
	sc.text(1, bottom+3, footer(&templateData{Snapshot: s, Watching: sc.watching, Over: sc.over}), frame)
	sc.s.Show()
}

func (sc *screen) text(x, y int, str string, st tcell.Style) {
	for i, r := range []rune(str) {
		sc.s.SetContent(x+i, y, r, nil, st)
	}
}

func keyFromTcell(ev *tcell.EventKey) tetris.Key {
	switch ev.Key() {
	case tcell.KeyLeft:
		return tetris.KeyLeft
	case tcell.KeyRight:
		return tetris.KeyRight
	case tcell.KeyUp:
		return tetris.KeyUp
	case tcell.KeyDown:
		return tetris.KeyDown
	case tcell.KeyEsc:
		return tetris.KeyEsc
	case tcell.KeyCtrlC:
		return keyInterrupt
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return tetris.KeySpace
		}
		return tetris.Key(string(ev.Rune()))
	}
	return tetris.NoKey
}
