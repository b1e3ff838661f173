package shared

// Delta is a (row, col) step.
type Delta struct {
	DR int
	DC int
}

var (
	OrthogonalDirections = [...]Delta{
		{DR: 0, DC: 1},
		{DR: 0, DC: -1},
		{DR: 1, DC: 0},
		{DR: -1, DC: 0},
	}
	DiagonalDirections = [...]Delta{
		{DR: 1, DC: 1},
		{DR: 1, DC: -1},
		{DR: -1, DC: 1},
		{DR: -1, DC: -1},
	}
	KnightOffsets = [...]Delta{
		{DR: -2, DC: -1}, {DR: -2, DC: 1}, {DR: -1, DC: -2}, {DR: -1, DC: 2},
		{DR: 1, DC: -2}, {DR: 1, DC: 2}, {DR: 2, DC: -1}, {DR: 2, DC: 1},
	}
	KingOffsets = [...]Delta{
		{DR: 0, DC: 1}, {DR: 0, DC: -1}, {DR: 1, DC: 0}, {DR: -1, DC: 0},
		{DR: 1, DC: 1}, {DR: 1, DC: -1}, {DR: -1, DC: 1}, {DR: -1, DC: -1},
	}
)

// Step returns the square reached from s by d, if it is on the board.
func (s Square) Step(d Delta) (Square, bool) {
	return SquareFromCoords(s.Row()+d.DR, s.Col()+d.DC)
}

// Ray walks from s in direction d until it leaves the board. fn returns false
// to stop early.
func (s Square) Ray(d Delta, fn func(Square) bool) {
	row, col := s.Row()+d.DR, s.Col()+d.DC
	for {
		sq, ok := SquareFromCoords(row, col)
		if !ok || !fn(sq) {
			return
		}
		row += d.DR
		col += d.DC
	}
}
