package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"knights_gambit/internal/shared"
)

// Board is the 5x5 grid. It has value semantics: assigning a Board copies the
// grid, and pieces are never mutated in place.
type Board struct {
	pieceAt [shared.NumSquares]*Piece
}

func NewBoard() Board { return Board{} }

// IsOnBoard reports whether (row, col) addresses a square.
func IsOnBoard(row, col int) bool { return shared.IsOnBoard(row, col) }

// InitialSetup returns the starting position: back ranks R N K N R, queens in
// front of the kings, pawns on the rest of the second rank.
func InitialSetup() Board {
	var b Board
	setup := func(color Color, backRow, pawnRow int) {
		order := [...]PieceType{Rook, Knight, King, Knight, Rook}
		for col, pt := range order {
			b.Set(shared.MustSquare(backRow, col), Piece{Type: pt, Color: color})
		}
		for col := 0; col < shared.BoardSize; col++ {
			pt := Pawn
			if col == 2 {
				pt = Queen
			}
			b.Set(shared.MustSquare(pawnRow, col), Piece{Type: pt, Color: color})
		}
	}
	setup(Black, 0, 1)
	setup(White, 4, 3)
	return b
}

// PieceAt returns the piece on sq, if any.
func (b Board) PieceAt(sq Square) (Piece, bool) {
	if !sq.Valid() || b.pieceAt[sq] == nil {
		return Piece{}, false
	}
	return *b.pieceAt[sq], true
}

func (b Board) occupant(sq Square) *Piece { return b.pieceAt[sq] }

// IsEmpty is false for off-board squares: nothing can move there.
func (b Board) IsEmpty(sq Square) bool { return sq.Valid() && b.pieceAt[sq] == nil }

// Set and Clear ignore off-board squares.
func (b *Board) Set(sq Square, pc Piece) {
	if !sq.Valid() {
		return
	}
	p := pc
	b.pieceAt[sq] = &p
}

func (b *Board) Clear(sq Square) {
	if sq.Valid() {
		b.pieceAt[sq] = nil
	}
}

// WithMove relocates whatever stands on from to to, overwriting to, and empties
// from. It does no legality checking.
func (b Board) WithMove(from, to Square) Board {
	next := b
	next.pieceAt[to] = next.pieceAt[from]
	next.pieceAt[from] = nil
	return next
}

// Pieces lists the squares holding a piece of color, in row-major order.
func (b Board) Pieces(color Color) []Square {
	out := make([]Square, 0, 10)
	for idx, pc := range b.pieceAt {
		if pc != nil && pc.Color == color {
			out = append(out, Square(idx))
		}
	}
	return out
}

func (b Board) Count(color Color) int { return len(b.Pieces(color)) }

// Equal compares piece-for-piece, including HasMoved.
func (b Board) Equal(other Board) bool {
	for idx := range b.pieceAt {
		x, y := b.pieceAt[idx], other.pieceAt[idx]
		if (x == nil) != (y == nil) {
			return false
		}
		if x != nil && *x != *y {
			return false
		}
	}
	return true
}

// Rows exposes the grid as rows of optional pieces, row 0 first.
func (b Board) Rows() [][]*Piece {
	rows := make([][]*Piece, shared.BoardSize)
	for r := range rows {
		rows[r] = make([]*Piece, shared.BoardSize)
		for c := range rows[r] {
			if pc, ok := b.PieceAt(shared.MustSquare(r, c)); ok {
				rows[r][c] = &pc
			}
		}
	}
	return rows
}

// BoardFromRows is the inverse of Rows. It rejects anything that is not a
// 5x5 grid of well-formed pieces.
func BoardFromRows(rows [][]*Piece) (Board, error) {
	var b Board
	if len(rows) != shared.BoardSize {
		return b, fmt.Errorf("board has %d rows, want %d", len(rows), shared.BoardSize)
	}
	for r, row := range rows {
		if len(row) != shared.BoardSize {
			return b, fmt.Errorf("board row %d has %d columns, want %d", r, len(row), shared.BoardSize)
		}
		for c, pc := range row {
			if pc == nil {
				continue
			}
			if !pc.Type.Valid() || !pc.Color.Valid() {
				return b, fmt.Errorf("invalid piece at (%d,%d)", r, c)
			}
			b.Set(shared.MustSquare(r, c), *pc)
		}
	}
	return b, nil
}

func (b Board) MarshalJSON() ([]byte, error) { return json.Marshal(b.Rows()) }

func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]*Piece
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := BoardFromRows(rows)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Draw renders a plain-text diagram with white at the bottom.
func (b Board) Draw() string {
	var sb strings.Builder
	for r := 0; r < shared.BoardSize; r++ {
		fmt.Fprintf(&sb, "%d", shared.BoardSize-r)
		for c := 0; c < shared.BoardSize; c++ {
			sb.WriteByte(' ')
			sb.WriteByte(pieceRune(b.pieceAt[shared.MustSquare(r, c)]))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(" ")
	for c := 0; c < shared.BoardSize; c++ {
		sb.WriteByte(' ')
		sb.WriteByte(byte('a' + c))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func pieceRune(pc *Piece) byte {
	if pc == nil {
		return '.'
	}
	letter := pc.Type.Letter()
	if pc.Color == Black {
		letter += 'a' - 'A'
	}
	return letter
}
