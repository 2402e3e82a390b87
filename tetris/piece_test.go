package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector(t *testing.T) {
	a := Vector{X: 2, Y: -3}
	b := Vector{X: 1, Y: 4}
	assert.Equal(t, Vector{X: 3, Y: 1}, a.Add(b))
	assert.Equal(t, Vector{X: 1, Y: -7}, a.Sub(b))
	assert.Equal(t, Vector{X: 6, Y: -9}, a.Scale(3))
	assert.Equal(t, Vector{X: 2, Y: -3}, a, "arithmetic doesn't change the receiver")
}

func TestNewPiece(t *testing.T) {
	tests := []struct {
		name      string
		shape     Shape
		rotations [][]Vector
		wantErr   bool
	}{
		{name: "valid", shape: "X", rotations: [][]Vector{{{0, 0}, {1, 0}}, {{0, 0}, {0, 1}}}},
		{name: "no rotation states", shape: "X", wantErr: true},
		{name: "no cells", shape: "X", rotations: [][]Vector{{}}, wantErr: true},
		{name: "uneven cells", shape: "X", rotations: [][]Vector{{{0, 0}, {1, 0}}, {{0, 0}}}, wantErr: true},
		{name: "empty label", shape: Empty, rotations: [][]Vector{{{0, 0}}}, wantErr: true},
		{name: "label longer than a rune", shape: "Ix", rotations: [][]Vector{{{0, 0}}}, wantErr: true},
		{name: "label of an empty cell", shape: ".", rotations: [][]Vector{{{0, 0}}}, wantErr: true},
		{name: "multibyte label", shape: "★", rotations: [][]Vector{{{0, 0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := NewPiece(tt.shape, tt.rotations)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPiece)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, p.RotationIndex())
			assert.Equal(t, Vector{}, p.Position())
		})
	}
}

func TestRotationWraps(t *testing.T) {
	wantStates := map[Shape]int{I: 2, O: 1, T: 4, S: 2, Z: 2, J: 4, L: 4}
	for _, p := range Tetrominoes() {
		t.Run(string(p.Shape()), func(t *testing.T) {
			t.Parallel()
			k := p.Rotations()
			assert.Equal(t, wantStates[p.Shape()], k)
			for n := range 3*k + 2 {
				piece := p.Clone()
				for range n {
					piece.Rotate()
				}
				assert.Equal(t, n%k, piece.RotationIndex(), "after %d rotations", n)
			}
		})
	}
}

func TestSetRotation(t *testing.T) {
	p := newT()
	assert.Equal(t, 1, p.SetRotation(5).RotationIndex())
	assert.Equal(t, 3, p.SetRotation(-1).RotationIndex())
	assert.Equal(t, 0, p.SetRotation(-8).RotationIndex())
}

func TestPieceCells(t *testing.T) {
	p := newJ().Move(4, 1)
	assert.ElementsMatch(t, []Vector{{3, 0}, {3, 1}, {4, 1}, {5, 1}}, p.Cells())
	p.Rotate()
	assert.ElementsMatch(t, []Vector{{5, 0}, {4, 0}, {4, 1}, {4, 2}}, p.Cells())
}

func TestPieceClone(t *testing.T) {
	p := newL().MoveTo(Vector{X: 5, Y: 5})
	clone := p.Clone()
	assert.Equal(t, p.Cells(), clone.Cells())

	clone.Move(1, 2).Rotate()
	assert.Equal(t, Vector{X: 5, Y: 5}, p.Position())
	assert.Equal(t, 0, p.RotationIndex())
	assert.Equal(t, Vector{X: 6, Y: 7}, clone.Position())
	assert.Equal(t, 1, clone.RotationIndex())

	// the rotation tables are copied as well.
	clone.rotations[0][0] = Vector{X: 100, Y: 100}
	assert.NotContains(t, p.Offsets(), Vector{X: 100, Y: 100})
}

func TestMargins(t *testing.T) {
	tests := []struct {
		piece *Piece
		want  Margins
	}{
		{newI(), Margins{XMin: -1, XMax: 2, YMin: 0, YMax: 0}},
		{newI().Rotate(), Margins{XMin: 0, XMax: 0, YMin: -1, YMax: 2}},
		{newO(), Margins{XMin: 0, XMax: 1, YMin: 0, YMax: 1}},
		{newT(), Margins{XMin: -1, XMax: 1, YMin: -1, YMax: 0}},
		{newJ(), Margins{XMin: -1, XMax: 1, YMin: -1, YMax: 0}},
		{newS(), Margins{XMin: -1, XMax: 1, YMin: 0, YMax: 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.piece.Shape()), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.piece.Margins())
		})
	}
}

func TestCatalogPieces(t *testing.T) {
	catalog := Tetrominoes()
	require.Len(t, catalog, 7)
	seen := make(map[Shape]bool)
	for _, p := range catalog {
		assert.False(t, seen[p.Shape()], "duplicated shape %s", p.Shape())
		seen[p.Shape()] = true
		for i := range p.Rotations() {
			p.SetRotation(i)
			assert.Len(t, p.Cells(), 4)
		}
	}
}
