package tetris

import "github.com/kamstrup/intmap"

// points awarded for the number of lines cleared by a single lock.
var scoreTable = func() *intmap.Map[int, int] {
	m := intmap.New[int, int](4)
	m.Put(1, 40)
	m.Put(2, 100)
	m.Put(3, 300)
	m.Put(4, 1200)
	return m
}()

// LinesToScore returns the points for clearing n lines at once.
// Anything outside 1-4 is worth nothing.
func LinesToScore(n int) int {
	points, _ := scoreTable.Get(n)
	return points
}

// Stats summarises a game so far.
type Stats struct {
	Lines  int // Total lines cleared.
	Pieces int // Pieces locked into the board.

	Singles, Doubles, Triples, Tetrises int
}

// counter keeps the number of locks per cleared line count.
type counter struct {
	lines, pieces int
	clears        *intmap.Map[int, int]
}

func newCounter() *counter {
	return &counter{clears: intmap.New[int, int](4)}
}

func (c *counter) lock(cleared int) {
	c.pieces++
	if cleared == 0 {
		return
	}
	c.lines += cleared
	n, _ := c.clears.Get(cleared)
	c.clears.Put(cleared, n+1)
}

func (c *counter) stats() Stats {
	get := func(n int) int {
		v, _ := c.clears.Get(n)
		return v
	}
	return Stats{
		Lines:    c.lines,
		Pieces:   c.pieces,
		Singles:  get(1),
		Doubles:  get(2),
		Triples:  get(3),
		Tetrises: get(4),
	}
}
