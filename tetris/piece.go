package tetris

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Shape is the label of a piece. Locked cells on the board hold the label
// of the piece that filled them, Empty is an empty cell.
// A label is a single rune other than '.', which text encoded boards use for
// empty cells.
type Shape string

const (
	Empty Shape = ""

	I Shape = "I"
	J Shape = "J"
	L Shape = "L"
	O Shape = "O"
	S Shape = "S"
	Z Shape = "Z"
	T Shape = "T"
)

var ErrInvalidPiece = errors.New("invalid piece")

func (s Shape) valid() bool {
	return s != "." && utf8.RuneCountInString(string(s)) == 1
}

// Piece is a shape with a fixed list of rotation states. Each rotation state
// is a set of offsets relative to the anchor position, the cells a piece
// occupies are anchor + offsets of the current rotation state.
type Piece struct {
	shape     Shape
	rotations [][]Vector
	index     int
	pos       Vector
}

// Margins are the bounds of the offsets of a rotation state.
type Margins struct {
	XMin, XMax, YMin, YMax int
}

// NewPiece returns a piece in its first rotation state anchored at 0,0.
// Every rotation state must have the same, non-zero, number of cells.
func NewPiece(shape Shape, rotations [][]Vector) (*Piece, error) {
	if !shape.valid() {
		return nil, fmt.Errorf("%w: label %q must be a single rune other than '.'", ErrInvalidPiece, shape)
	}
	if len(rotations) == 0 {
		return nil, fmt.Errorf("%w: %q has no rotation states", ErrInvalidPiece, shape)
	}
	n := len(rotations[0])
	if n == 0 {
		return nil, fmt.Errorf("%w: %q has no cells", ErrInvalidPiece, shape)
	}
	for i, r := range rotations {
		if len(r) != n {
			return nil, fmt.Errorf("%w: %q rotation %d has %d cells, want %d", ErrInvalidPiece, shape, i, len(r), n)
		}
	}
	return &Piece{shape: shape, rotations: copyRotations(rotations)}, nil
}

// validate checks a piece that may not come from NewPiece.
func (p *Piece) validate() error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: nil piece", ErrInvalidPiece)
	case !p.shape.valid():
		return fmt.Errorf("%w: label %q must be a single rune other than '.'", ErrInvalidPiece, p.shape)
	case len(p.rotations) == 0 || len(p.rotations[0]) == 0:
		return fmt.Errorf("%w: %q has no cells", ErrInvalidPiece, p.shape)
	}
	return nil
}

func (p *Piece) Shape() Shape       { return p.shape }
func (p *Piece) RotationIndex() int { return p.index }
func (p *Piece) Rotations() int     { return len(p.rotations) }
func (p *Piece) Position() Vector   { return p.pos }

func (p *Piece) MoveTo(v Vector) *Piece {
	p.pos = v
	return p
}

// SetRotation sets the rotation index to i modulo the number of rotation states.
func (p *Piece) SetRotation(i int) *Piece {
	n := len(p.rotations)
	p.index = ((i % n) + n) % n
	return p
}

// Rotate advances to the next rotation state, wrapping after the last one.
func (p *Piece) Rotate() *Piece {
	return p.SetRotation(p.index + 1)
}

func (p *Piece) Move(dx, dy int) *Piece {
	p.pos = p.pos.Add(Vector{X: dx, Y: dy})
	return p
}

func (p *Piece) Clone() *Piece {
	return &Piece{
		shape:     p.shape,
		rotations: copyRotations(p.rotations),
		index:     p.index,
		pos:       p.pos,
	}
}

// Offsets returns a copy of the current rotation state.
func (p *Piece) Offsets() []Vector {
	offsets := make([]Vector, len(p.rotations[p.index]))
	copy(offsets, p.rotations[p.index])
	return offsets
}

// Cells returns the board positions occupied by the piece.
func (p *Piece) Cells() []Vector {
	cells := make([]Vector, 0, len(p.rotations[p.index]))
	for _, o := range p.rotations[p.index] {
		cells = append(cells, p.pos.Add(o))
	}
	return cells
}

// Margins returns the min and max offsets of the current rotation state.
// It's used on spawn to keep every cell of the piece at row 0 or below.
func (p *Piece) Margins() Margins {
	r := p.rotations[p.index]
	m := Margins{XMin: r[0].X, XMax: r[0].X, YMin: r[0].Y, YMax: r[0].Y}
	for _, o := range r[1:] {
		m.XMin = min(m.XMin, o.X)
		m.XMax = max(m.XMax, o.X)
		m.YMin = min(m.YMin, o.Y)
		m.YMax = max(m.YMax, o.Y)
	}
	return m
}

func copyRotations(rotations [][]Vector) [][]Vector {
	c := make([][]Vector, len(rotations))
	for i := range rotations {
		c[i] = make([]Vector, len(rotations[i]))
		copy(c[i], rotations[i])
	}
	return c
}
