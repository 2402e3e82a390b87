package tetris

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

type Action string

const (
	MoveLeft    Action = "left"      // Moves the piece one step to the left.
	MoveRight   Action = "right"     // Moves the piece one step to the right.
	RotateRight Action = "rotate"    // Advances the piece to its next rotation state.
	SoftDrop    Action = "soft_drop" // Moves the piece one step down, one point per step.
)

var actions = []Action{MoveLeft, MoveRight, RotateRight, SoftDrop}

// Key identifies an input key. Printable keys are the character itself,
// special keys use the names below.
type Key string

const (
	NoKey    Key = ""
	KeyLeft  Key = "Left"
	KeyRight Key = "Right"
	KeyUp    Key = "Up"
	KeyDown  Key = "Down"
	KeySpace Key = "Space"
	KeyEsc   Key = "Esc"
)

// Pause and quit keys can't be rebound.
var (
	pauseKeys = []Key{"q", "Q"}
	quitKey   = KeyEsc
)

const (
	DefaultWidth        = 10
	DefaultHeight       = 20
	DefaultFallInterval = 500 * time.Millisecond
)

var ErrInvalidConfig = errors.New("invalid config")

// Clock returns the current time. Tests replace it to drive gravity by hand.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Config struct {
	Width, Height int
	// FallInterval is the time between two gravity steps.
	FallInterval time.Duration
	KeyBindings  map[Key]Action
	// Catalog defaults to Tetrominoes().
	Catalog []*Piece
	// Seed for the piece randomizer. Zero seeds from the clock.
	Seed   uint64
	Clock  Clock
	Logger *slog.Logger
}

func DefaultKeyBindings() map[Key]Action {
	return map[Key]Action{
		KeyLeft:  MoveLeft,
		KeyRight: MoveRight,
		KeyUp:    RotateRight,
		KeyDown:  SoftDrop,
	}
}

func DefaultConfig() Config {
	return Config{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		FallInterval: DefaultFallInterval,
		KeyBindings:  DefaultKeyBindings(),
	}
}

// Validate checks the board size, the key bindings and that every catalog
// piece fits on the empty board at its spawn position.
func (c Config) Validate() error {
	if c.Width < 4 || c.Height < 4 {
		return fmt.Errorf("%w: board must be at least 4x4, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.FallInterval <= 0 {
		return fmt.Errorf("%w: fall interval must be positive, got %v", ErrInvalidConfig, c.FallInterval)
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	for k, a := range c.KeyBindings {
		if k == NoKey || k == quitKey || slices.Contains(pauseKeys, k) {
			return fmt.Errorf("%w: key %q is reserved", ErrInvalidConfig, k)
		}
		if !slices.Contains(actions, a) {
			return fmt.Errorf("%w: unknown action %q for key %q", ErrInvalidConfig, a, k)
		}
	}
	return nil
}

func (c Config) validateCatalog() error {
	catalog := c.Catalog
	if catalog == nil {
		catalog = Tetrominoes()
	}
	for i, p := range catalog {
		if err := p.validate(); err != nil {
			return fmt.Errorf("%w: catalog piece %d: %w", ErrInvalidConfig, i, err)
		}
		for _, cell := range placeAtSpawn(p.Clone(), c.Width).Cells() {
			if cell.X < 0 || cell.X >= c.Width || cell.Y >= c.Height {
				return fmt.Errorf("%w: %q doesn't fit a %dx%d board at spawn", ErrInvalidConfig, p.Shape(), c.Width, c.Height)
			}
		}
	}
	return nil
}

// ParseBindings parses a list of action=key pairs, e.g. "left=a,right=d,rotate=w,soft_drop=s".
// Actions missing from s keep their default binding.
func ParseBindings(s string) (map[Key]Action, error) {
	byAction := make(map[Action]Key, len(actions))
	for k, a := range DefaultKeyBindings() {
		byAction[a] = k
	}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		a, k, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: malformed binding %q", ErrInvalidConfig, pair)
		}
		if !slices.Contains(actions, Action(a)) {
			return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidConfig, a)
		}
		byAction[Action(a)] = Key(k)
	}

	bindings := make(map[Key]Action, len(byAction))
	for a, k := range byAction {
		if prev, ok := bindings[k]; ok {
			return nil, fmt.Errorf("%w: key %q bound to both %q and %q", ErrInvalidConfig, k, prev, a)
		}
		bindings[k] = a
	}
	return bindings, nil
}
