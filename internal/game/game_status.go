package game

import "slices"

// Status summarizes the position for the side to move.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCheck     Status = "check"
	StatusCheckmate Status = "checkmate"
)

// FindKing locates color's king. A board without one is not an error.
func FindKing(b Board, color Color) (Square, bool) {
	for idx, pc := range b.pieceAt {
		if pc != nil && pc.Color == color && pc.Type == King {
			return Square(idx), true
		}
	}
	return 0, false
}

// IsSquareAttacked reports whether any piece of byColor has target among its
// raw candidates. It must stay on unfiltered generation: the check filter in
// LegalMoves calls back into here.
func IsSquareAttacked(b Board, target Square, byColor Color) bool {
	for idx, attacker := range b.pieceAt {
		if attacker == nil || attacker.Color != byColor {
			continue
		}
		if slices.Contains(attacker.Type.Candidates(b, Square(idx), byColor), target) {
			return true
		}
	}
	return false
}

// IsInCheck is false when color has no king on the board.
func IsInCheck(b Board, color Color) bool {
	kingSq, ok := FindKing(b, color)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, kingSq, color.Opposite())
}

func HasLegalMove(b Board, color Color) bool {
	for idx, pc := range b.pieceAt {
		if pc == nil || pc.Color != color {
			continue
		}
		if len(LegalMoves(b, Square(idx), color)) > 0 {
			return true
		}
	}
	return false
}

// IsCheckmate is true only when color is in check with no legal reply. A side
// with no moves that is not in check is not reported here.
func IsCheckmate(b Board, color Color) bool {
	return IsInCheck(b, color) && !HasLegalMove(b, color)
}

func StatusOf(b Board, color Color) Status {
	if !IsInCheck(b, color) {
		return StatusOngoing
	}
	if !HasLegalMove(b, color) {
		return StatusCheckmate
	}
	return StatusCheck
}
