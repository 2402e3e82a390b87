package tetris

// Board is the playfield: a fixed size grid where every cell holds a value.
// One value is the empty sentinel, every other value is a locked cell.
//
// .	0 1 2 3 4 5 6 7 8 9
// 0	. . . . . . . . . .		<- new rows are inserted here
// 1	. . . . . . . . . .
// ..
// 19	I I I I . O O J J J		<- bottom row
type Board[T comparable] struct {
	width, height int
	empty         T
	cells         [][]T
}

// NewBoard returns a width x height board with every cell set to empty.
func NewBoard[T comparable](width, height int, empty T) *Board[T] {
	b := &Board[T]{
		width:  width,
		height: height,
		empty:  empty,
		cells:  make([][]T, height),
	}
	for y := range b.cells {
		b.cells[y] = b.emptyRow()
	}
	return b
}

func (b *Board[T]) Width() int  { return b.width }
func (b *Board[T]) Height() int { return b.height }
func (b *Board[T]) Empty() T    { return b.empty }

// IsInside reports whether x, y is a cell of the board.
func (b *Board[T]) IsInside(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the value at x, y. ok is false when the cell is outside the board,
// which is not the same as the cell being empty.
func (b *Board[T]) Get(x, y int) (v T, ok bool) {
	if !b.IsInside(x, y) {
		return v, false
	}
	return b.cells[y][x], true
}

// Set writes v at x, y. Writes outside the board are ignored.
func (b *Board[T]) Set(x, y int, v T) {
	if !b.IsInside(x, y) {
		return
	}
	b.cells[y][x] = v
}

// IsEmpty is false for cells outside the board, callers that need to tell
// "occupied" from "outside" have to check IsInside as well.
func (b *Board[T]) IsEmpty(x, y int) bool {
	v, ok := b.Get(x, y)
	return ok && v == b.empty
}

func (b *Board[T]) Fill(v T) {
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = v
		}
	}
}

func (b *Board[T]) Reset() { b.Fill(b.empty) }

func (b *Board[T]) Clone() *Board[T] {
	c := &Board[T]{
		width:  b.width,
		height: b.height,
		empty:  b.empty,
		cells:  make([][]T, b.height),
	}
	for y := range b.cells {
		c.cells[y] = make([]T, b.width)
		copy(c.cells[y], b.cells[y])
	}
	return c
}

// Rows returns a copy of the board contents, indexed [y][x].
func (b *Board[T]) Rows() [][]T {
	return b.Clone().cells
}

// IsRowFull reports whether row y has no empty cell.
func (b *Board[T]) IsRowFull(y int) bool {
	if y < 0 || y >= b.height {
		return false
	}
	for _, v := range b.cells[y] {
		if v == b.empty {
			return false
		}
	}
	return true
}

// ClearFullRows removes every full row and inserts as many empty rows at the
// top, the remaining rows keep their order. It returns the number of rows removed.
func (b *Board[T]) ClearFullRows() int {
	kept := make([][]T, 0, b.height)
	for y, row := range b.cells {
		if !b.IsRowFull(y) {
			kept = append(kept, row)
		}
	}
	cleared := b.height - len(kept)
	if cleared == 0 {
		return 0
	}

	rows := make([][]T, 0, b.height)
	for range cleared {
		rows = append(rows, b.emptyRow())
	}
	b.cells = append(rows, kept...)
	return cleared
}

func (b *Board[T]) emptyRow() []T {
	row := make([]T, b.width)
	for x := range row {
		row[x] = b.empty
	}
	return row
}
