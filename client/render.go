package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"text/template"

	"termtris/tetris"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos   = "\033[H"           // Reset cursor position to 0,0
	clearLine  = "\033[K"           // Clear to the end of the line
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\r\n\033[?25h"
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Shape]string{
	tetris.I: Cyan,
	tetris.J: Blue,
	tetris.L: Orange,
	tetris.O: Yellow,
	tetris.S: Green,
	tetris.Z: Red,
	tetris.T: Magenta,
}

type renderer interface {
	render(*tetris.Snapshot)
	// gameOver redraws the last snapshot with the exit prompt.
	gameOver()
	close()
}

type templateData struct {
	Snapshot *tetris.Snapshot
	Title    string
	Watching bool
	Over     bool
}

// render draws snapshots with ANSI escape codes on a console in raw mode.
type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	*templateData

	mu sync.Mutex
}

func newRender(w io.Writer, l *slog.Logger, title string, watching bool) (*render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	fmt.Fprint(w, hideCursor)
	return &render{
		writer:   w,
		logger:   l,
		template: tmp,
		templateData: &templateData{
			Title:    title,
			Watching: watching,
		},
	}, nil
}

func (r *render) render(s *tetris.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Snapshot = s
	r.draw()
}

func (r *render) gameOver() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Over = true
	r.draw()
}

func (r *render) close() {
	fmt.Fprint(r.writer, showCursor)
}

func (r *render) draw() {
	if r.Snapshot == nil {
		return
	}
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.templateData); err != nil {
		r.logger.Error("unable to execute template", slog.String("error", err.Error()))
	}
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"rows":   rows,
		"border": border,
		"footer": footer,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout. Lines are
	// cleared to the end so a shorter footer doesn't leave the previous one behind.
	l := strings.ReplaceAll(layout, "\n", clearLine+"\r\n")
	l = strings.ReplaceAll(l, "{{ $.Title }}", "\033[1m{{ $.Title }}\033[0m")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

func rows(s *tetris.Snapshot) []string {
	rendered := make([]string, s.Height)
	for y := range s.Height {
		var b strings.Builder
		for x := range s.Width {
			b.WriteString(cell(s.Cell(x, y)))
		}
		rendered[y] = b.String()
	}
	return rendered
}

func cell(shape tetris.Shape) string {
	if shape == tetris.Empty {
		return "  "
	}
	c, ok := colorMap[shape]
	if !ok {
		return "[]"
	}
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", c)
}

func border(s *tetris.Snapshot) string {
	return strings.Repeat("──", s.Width)
}

// footer is the hint line under the board.
func footer(t *templateData) string {
	switch {
	case t.Over || t.Snapshot.Phase == tetris.GameOver:
		return "GAME OVER! Press Space to exit."
	case t.Watching:
		return "Press ESC to stop watching."
	case t.Snapshot.Phase == tetris.Paused:
		return "Press ESC to exit, or q to unpause."
	}
	return "Press ESC to exit, or q to pause."
}
