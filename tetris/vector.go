package tetris

// Vector is an integer position or offset on the board.
// X grows to the right and Y grows downwards, row 0 is the top of the board.
type Vector struct {
	X, Y int
}

func (v Vector) Add(o Vector) Vector { return Vector{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector { return Vector{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vector) Scale(k int) Vector  { return Vector{X: v.X * k, Y: v.Y * k} }
