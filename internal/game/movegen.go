package game

import "knights_gambit/internal/shared"

// candidateGenerator produces destination squares for a piece of color on
// from, ignoring whether the move would expose the mover's own king.
type candidateGenerator func(b Board, from Square, color Color) []Square

var generators = [numPieceTypes]candidateGenerator{
	Pawn:   pawnCandidates,
	Knight: knightCandidates,
	Rook:   rookCandidates,
	Queen:  queenCandidates,
	King:   kingCandidates,
}

// Candidates runs the generator owned by this kind.
func (p PieceType) Candidates(b Board, from Square, color Color) []Square {
	if !p.Valid() || !from.Valid() {
		return nil
	}
	return generators[p](b, from, color)
}

// Candidates returns the raw destinations of the piece on from. An empty
// square yields nothing.
func Candidates(b Board, from Square, color Color) []Square {
	pc, ok := b.PieceAt(from)
	if !ok {
		return nil
	}
	return pc.Type.Candidates(b, from, color)
}

func pawnDirection(color Color) (dir, homeRow int) {
	if color == White {
		return -1, 3
	}
	return 1, 1
}

func pawnCandidates(b Board, from Square, color Color) []Square {
	moves := make([]Square, 0, 4)
	dir, homeRow := pawnDirection(color)
	row, col := from.Row(), from.Col()

	if step, ok := shared.SquareFromCoords(row+dir, col); ok && b.IsEmpty(step) {
		moves = append(moves, step)
		if row == homeRow {
			if double, ok := shared.SquareFromCoords(row+2*dir, col); ok && b.IsEmpty(double) {
				moves = append(moves, double)
			}
		}
	}

	for _, dc := range [...]int{-1, 1} {
		target, ok := shared.SquareFromCoords(row+dir, col+dc)
		if !ok {
			continue
		}
		if victim := b.occupant(target); victim != nil && victim.Color != color {
			moves = append(moves, target)
		}
	}
	return moves
}

func knightCandidates(b Board, from Square, color Color) []Square {
	return stepCandidates(b, from, color, shared.KnightOffsets[:])
}

func kingCandidates(b Board, from Square, color Color) []Square {
	return stepCandidates(b, from, color, shared.KingOffsets[:])
}

func rookCandidates(b Board, from Square, color Color) []Square {
	return slideCandidates(b, from, color, shared.OrthogonalDirections[:])
}

func queenCandidates(b Board, from Square, color Color) []Square {
	moves := slideCandidates(b, from, color, shared.OrthogonalDirections[:])
	return append(moves, slideCandidates(b, from, color, shared.DiagonalDirections[:])...)
}

func stepCandidates(b Board, from Square, color Color, offsets []shared.Delta) []Square {
	moves := make([]Square, 0, len(offsets))
	for _, delta := range offsets {
		target, ok := from.Step(delta)
		if !ok {
			continue
		}
		if occupant := b.occupant(target); occupant == nil || occupant.Color != color {
			moves = append(moves, target)
		}
	}
	return moves
}

func slideCandidates(b Board, from Square, color Color, directions []shared.Delta) []Square {
	moves := make([]Square, 0, 8)
	for _, delta := range directions {
		from.Ray(delta, func(target Square) bool {
			occupant := b.occupant(target)
			if occupant == nil {
				moves = append(moves, target)
				return true
			}
			if occupant.Color != color {
				moves = append(moves, target)
			}
			return false
		})
	}
	return moves
}
