package tetris

// Tetrominoes returns a new catalog with the seven standard pieces.
// Offsets are relative to the anchor, marked A below; the first diagram of
// each piece is its spawn rotation.
func Tetrominoes() []*Piece {
	return []*Piece{newI(), newO(), newT(), newS(), newZ(), newJ(), newL()}
}

func mustPiece(shape Shape, rotations [][]Vector) *Piece {
	p, err := NewPiece(shape, rotations)
	if err != nil {
		panic(err)
	}
	return p
}

/*
.	-1 0 1 2		.	0

-1	 . . . .		-1	O
0	 O A O O		0	A
1	 . . . .		1	O
2	 . . . .		2	O
*/
func newI() *Piece {
	return mustPiece(I, [][]Vector{
		{{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
		{{0, -1}, {0, 0}, {0, 1}, {0, 2}},
	})
}

/*
.	0 1

0	A O
1	O O
*/
func newO() *Piece {
	return mustPiece(O, [][]Vector{
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	})
}

/*
.	-1 0 1		.	0 1		.	-1 0 1		.	-1 0

-1	 . O .		-1	O .		-1	 . . .		-1	 . O
0	 O A O		0	A O		0	 O A O		0	 O A
1	 . . .		1	O .		1	 . O .		1	 . O
*/
func newT() *Piece {
	return mustPiece(T, [][]Vector{
		{{-1, 0}, {0, 0}, {1, 0}, {0, -1}},
		{{0, -1}, {0, 0}, {0, 1}, {1, 0}},
		{{1, 0}, {0, 0}, {-1, 0}, {0, 1}},
		{{0, 1}, {0, 0}, {0, -1}, {-1, 0}},
	})
}

/*
.	-1 0 1		.	-1 0

0	 . A O		-1	 O .
1	 O O .		0	 O A
.			1	 . O
*/
func newS() *Piece {
	return mustPiece(S, [][]Vector{
		{{1, 0}, {0, 0}, {0, 1}, {-1, 1}},
		{{0, 1}, {0, 0}, {-1, 0}, {-1, -1}},
	})
}

/*
.	-1 0 1		.	-1 0

0	 O A .		-1	 . O
1	 . O O		0	 O A
.			1	 O .
*/
func newZ() *Piece {
	return mustPiece(Z, [][]Vector{
		{{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
		{{0, -1}, {0, 0}, {-1, 0}, {-1, 1}},
	})
}

/*
.	-1 0 1		.	0 1		.	-1 0 1		.	-1 0

-1	 O . .		-1	O O		0	 O A O		-1	 . O
0	 O A O		0	A .		1	 . . O		0	 . A
.			1	O .		.			1	 O O
*/
func newJ() *Piece {
	return mustPiece(J, [][]Vector{
		{{-1, -1}, {-1, 0}, {0, 0}, {1, 0}},
		{{1, -1}, {0, -1}, {0, 0}, {0, 1}},
		{{1, 1}, {1, 0}, {0, 0}, {-1, 0}},
		{{-1, 1}, {0, 1}, {0, 0}, {0, -1}},
	})
}

/*
.	-1 0 1		.	0 1		.	-1 0 1		.	-1 0

-1	 . . O		-1	O .		0	 O A O		-1	 O O
0	 O A O		0	A .		1	 O . .		0	 . A
.			1	O O		.			1	 . O
*/
func newL() *Piece {
	return mustPiece(L, [][]Vector{
		{{-1, 0}, {0, 0}, {1, 0}, {1, -1}},
		{{0, -1}, {0, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {0, 0}, {-1, 0}, {-1, 1}},
		{{0, 1}, {0, 0}, {0, -1}, {-1, -1}},
	})
}
