package game

import (
	"slices"

	"knights_gambit/internal/shared"
)

// LegalMoves filters the raw candidates of the color piece on from, dropping
// every destination that leaves color's king attacked. Anything other than a
// color piece on from yields nothing.
func LegalMoves(b Board, from Square, color Color) []Square {
	pc, ok := b.PieceAt(from)
	if !ok || pc.Color != color {
		return nil
	}
	candidates := pc.Type.Candidates(b, from, color)
	legal := candidates[:0]
	for _, to := range candidates {
		if !wouldLeaveKingInCheck(b, from, to, color) {
			legal = append(legal, to)
		}
	}
	return legal
}

func wouldLeaveKingInCheck(b Board, from, to Square, color Color) bool {
	return IsInCheck(b.WithMove(from, to), color)
}

// LegalTargets is LegalMoves as a set, for membership lookups.
func LegalTargets(b Board, from Square, color Color) shared.SquareSet {
	return shared.SetOf(LegalMoves(b, from, color)...)
}

// IsLegalMove applies the cheap structural checks before running the full
// filtered generation.
func IsLegalMove(b Board, from, to Square, color Color) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	pc, ok := b.PieceAt(from)
	if !ok || pc.Color != color {
		return false
	}
	if target, ok := b.PieceAt(to); ok && target.Color == pc.Color {
		return false
	}
	return slices.Contains(LegalMoves(b, from, color), to)
}
