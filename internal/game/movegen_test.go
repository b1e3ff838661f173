package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		pos  string
		from Square
		want []Square
	}{
		{"pawn double step from home row", "k4/5/5/1P3/4K", sq(3, 1), []Square{sq(2, 1), sq(1, 1)}},
		{"pawn blocked", "k4/5/1p3/1P3/4K", sq(3, 1), []Square{}},
		{"pawn double step needs both squares empty", "k4/1p3/5/1P3/4K", sq(3, 1), []Square{sq(2, 1)}},
		{"pawn off home row steps once", "k4/5/1P3/5/4K", sq(2, 1), []Square{sq(1, 1)}},
		{"pawn captures only enemies diagonally", "k4/5/1p1P1/2P2/4K", sq(3, 2), []Square{sq(2, 2), sq(1, 2), sq(2, 1)}},
		{"black pawn moves down", "k4/3p1/5/5/4K", sq(1, 3), []Square{sq(2, 3), sq(3, 3)}},
		{"pawn on last row is stuck", "1P2k/5/5/5/4K", sq(0, 1), []Square{}},
		{"knight from initial setup", "rnknr/ppqpp/5/PPQPP/RNKNR", sq(4, 1), []Square{sq(2, 0), sq(2, 2)}},
		{"knight in the center", "4k/5/2N2/5/K4", sq(2, 2), []Square{
			sq(0, 1), sq(0, 3), sq(1, 0), sq(1, 4), sq(3, 0), sq(3, 4), sq(4, 1), sq(4, 3),
		}},
		{"rook stops at own piece and captures enemy", "4k/p4/5/5/R2N1", sq(4, 0), []Square{
			sq(4, 1), sq(4, 2), sq(3, 0), sq(2, 0), sq(1, 0),
		}},
		{"king in the corner", "K4/5/5/5/5", sq(0, 0), []Square{sq(0, 1), sq(1, 0), sq(1, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := mustPosition(t, tt.pos)
			pc, ok := b.PieceAt(tt.from)
			if !ok {
				t.Fatalf("no piece on %s", tt.from)
			}
			got := Candidates(b, tt.from, pc.Color)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestQueenCoversLinesFromCenter(t *testing.T) {
	b, _ := mustPosition(t, "5/5/2Q2/5/5")
	got := Candidates(b, sq(2, 2), White)
	assert.Len(t, got, 16)
	for _, s := range got {
		dr, dc := s.Row()-2, s.Col()-2
		assert.True(t, dr == 0 || dc == 0 || dr == dc || dr == -dc, s.String())
	}
}

func TestCandidatesOfEmptySquare(t *testing.T) {
	assert.Empty(t, Candidates(InitialSetup(), sq(2, 2), White))
}

func TestCandidatesNeverLeaveBoardOrHitOwnPiece(t *testing.T) {
	b := InitialSetup()
	for _, color := range []Color{White, Black} {
		for _, from := range b.Pieces(color) {
			for _, to := range Candidates(b, from, color) {
				assert.True(t, to.Valid())
				if pc, ok := b.PieceAt(to); ok {
					assert.NotEqual(t, color, pc.Color, "%s -> %s", from, to)
				}
			}
		}
	}
}
