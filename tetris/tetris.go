// Package tetris contains the logic of the game: the board, the pieces and
// their rotation states, the random bag, and the engine that moves the active
// piece, locks it, clears lines and keeps the score.
//
// The engine does no I/O and isn't safe for concurrent use. Game drives an
// engine from a single goroutine and hands out snapshots to renderers.
package tetris

import (
	"fmt"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"
	"time"
)

type Phase int

const (
	Running Phase = iota
	Paused
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "game_over"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	for _, p := range []Phase{Running, Paused, GameOver} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

type Engine struct {
	board        *Board[Shape]
	bag          *Bag
	active       *Piece
	score        int
	phase        Phase
	fallInterval time.Duration
	lastFall     time.Time
	bindings     map[Key]Action
	clock        Clock
	counter      *counter
	logger       *slog.Logger
}

// NewEngine validates cfg and returns a running game with its first piece spawned.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = Tetrominoes()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(clock.Now().UnixNano()) //nolint:gosec
	}
	bag, err := NewBag(catalog, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	if err != nil {
		return nil, fmt.Errorf("unable to create random bag: %w", err)
	}

	e := &Engine{
		board:        NewBoard(cfg.Width, cfg.Height, Empty),
		bag:          bag,
		fallInterval: cfg.FallInterval,
		bindings:     maps.Clone(cfg.KeyBindings),
		clock:        clock,
		counter:      newCounter(),
		logger:       logger,
	}
	e.active = e.spawn()
	if !e.IsValid(e.active) {
		e.gameOver("first piece doesn't fit")
	}
	e.lastFall = clock.Now()
	return e, nil
}

// Tick applies gravity: once FallInterval has passed since the last step
// it runs Step and reports true. It does nothing unless the game is running.
func (e *Engine) Tick() bool {
	if e.phase != Running {
		return false
	}
	now := e.clock.Now()
	if now.Sub(e.lastFall) < e.fallInterval {
		return false
	}
	e.lastFall = now
	e.Step()
	return true
}

// Step moves the active piece one row down. When it can't move it is locked
// into the board, full lines are cleared and scored and the next piece is
// spawned. A spawned piece that doesn't fit ends the game.
func (e *Engine) Step() {
	if e.phase != Running {
		return
	}
	if e.MoveDown() {
		return
	}

	e.lock()
	cleared := e.board.ClearFullRows()
	e.score += LinesToScore(cleared)
	e.counter.lock(cleared)
	if cleared > 0 {
		e.logger.Debug("lines cleared", slog.Int("lines", cleared), slog.Int("score", e.score))
	}

	e.active = e.spawn()
	if !e.IsValid(e.active) {
		e.gameOver("spawned piece collides with the stack")
	}
}

// HandleKey maps a key to its action. The pause keys and Esc are always
// recognised, every other key goes through the key bindings.
func (e *Engine) HandleKey(k Key) {
	switch {
	case k == NoKey:
	case slices.Contains(pauseKeys, k):
		e.TogglePause()
	case k == quitKey:
		e.Quit()
	default:
		if a, ok := e.bindings[k]; ok {
			e.HandleAction(a)
		}
	}
}

// HandleAction runs a, it reports false if the piece didn't move or the
// game isn't running.
func (e *Engine) HandleAction(a Action) bool {
	switch a {
	case MoveLeft:
		return e.MoveLeft()
	case MoveRight:
		return e.MoveRight()
	case RotateRight:
		return e.Rotate()
	case SoftDrop:
		return e.SoftDrop()
	}
	return false
}

func (e *Engine) TogglePause() {
	switch e.phase {
	case Running:
		e.phase = Paused
	case Paused:
		e.phase = Running
	}
}

// Quit ends the game.
func (e *Engine) Quit() {
	if e.phase != GameOver {
		e.gameOver("quit")
	}
}

func (e *Engine) MoveLeft() bool  { return e.move(-1, 0) }
func (e *Engine) MoveRight() bool { return e.move(1, 0) }
func (e *Engine) MoveDown() bool  { return e.move(0, 1) }

// SoftDrop moves the piece down and awards a point if it moved.
func (e *Engine) SoftDrop() bool {
	if !e.MoveDown() {
		return false
	}
	e.score++
	return true
}

// Rotate advances the active piece to its next rotation state if the rotated
// piece fits where it is.
func (e *Engine) Rotate() bool {
	if e.phase != Running || !e.IsValid(e.active.Clone().Rotate()) {
		return false
	}
	e.active.Rotate()
	return true
}

// move tries the move on a copy of the active piece first, so the active
// piece is never left overlapping the stack or outside the board.
func (e *Engine) move(dx, dy int) bool {
	if e.phase != Running || !e.IsValid(e.active.Clone().Move(dx, dy)) {
		return false
	}
	e.active.Move(dx, dy)
	return true
}

// IsValid reports whether every cell of p is inside the board and empty.
func (e *Engine) IsValid(p *Piece) bool {
	for _, c := range p.Cells() {
		if !e.board.IsInside(c.X, c.Y) || !e.board.IsEmpty(c.X, c.Y) {
			return false
		}
	}
	return true
}

// spawn draws the next piece and places it at the top center of the board,
// shifted down so no cell is above row 0. It may still collide with the stack.
func (e *Engine) spawn() *Piece {
	return placeAtSpawn(e.bag.Next(), e.board.Width())
}

func placeAtSpawn(p *Piece, width int) *Piece {
	p.MoveTo(Vector{X: width / 2, Y: 0})
	return p.Move(0, -p.Margins().YMin)
}

// lock writes the active piece into the board.
func (e *Engine) lock() {
	for _, c := range e.active.Cells() {
		e.board.Set(c.X, c.Y, e.active.Shape())
	}
}

func (e *Engine) gameOver(reason string) {
	e.phase = GameOver
	e.logger.Debug("game over", slog.String("reason", reason), slog.Int("score", e.score))
}

func (e *Engine) Width() int   { return e.board.Width() }
func (e *Engine) Height() int  { return e.board.Height() }
func (e *Engine) Score() int   { return e.score }
func (e *Engine) Phase() Phase { return e.phase }
func (e *Engine) Stats() Stats { return e.counter.stats() }

// Cell returns the locked value at x, y; ok is false outside the board.
func (e *Engine) Cell(x, y int) (Shape, bool) { return e.board.Get(x, y) }

// Active returns a copy of the active piece.
func (e *Engine) Active() *Piece { return e.active.Clone() }

// ActiveCells returns the board positions of the active piece.
func (e *Engine) ActiveCells() []Vector { return e.active.Cells() }

// Board returns a copy of the board with the locked cells.
func (e *Engine) Board() *Board[Shape] { return e.board.Clone() }

// Snapshot is a copy of the state a renderer needs. It's safe to keep and
// read from another goroutine.
type Snapshot struct {
	Width, Height int
	// Rows are the locked cells indexed [y][x].
	Rows   [][]Shape
	Active []Vector
	Shape  Shape
	Score  int
	Phase  Phase
	Stats  Stats
}

func (e *Engine) Snapshot() *Snapshot {
	return &Snapshot{
		Width:  e.board.Width(),
		Height: e.board.Height(),
		Rows:   e.board.Rows(),
		Active: e.active.Cells(),
		Shape:  e.active.Shape(),
		Score:  e.score,
		Phase:  e.phase,
		Stats:  e.counter.stats(),
	}
}

// Cell returns what is shown at x, y: the active piece on top of the locked
// cells. Cells outside the board are Empty.
func (s *Snapshot) Cell(x, y int) Shape {
	if slices.Contains(s.Active, Vector{X: x, Y: y}) {
		return s.Shape
	}
	if y < 0 || y >= len(s.Rows) || x < 0 || x >= len(s.Rows[y]) {
		return Empty
	}
	return s.Rows[y][x]
}
