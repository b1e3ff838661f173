package game

import (
	"fmt"
	"strings"

	"knights_gambit/internal/shared"
)

// ParsePosition reads the compact placement form: five rows from row 0
// separated by '/', upper case white, lower case black, digits for runs of
// empty squares, then an optional side to move ("w" or "b", default white).
//
//	"rnknr/ppqpp/5/PPQPP/RNKNR w"
func ParsePosition(s string) (Board, Color, error) {
	var b Board
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return b, White, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}

	rows := strings.Split(fields[0], "/")
	if len(rows) != shared.BoardSize {
		return b, White, fmt.Errorf("%w: %d rows, want %d", ErrInvalidPosition, len(rows), shared.BoardSize)
	}
	for r, row := range rows {
		col := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '0'+shared.BoardSize {
				col += int(ch - '0')
				continue
			}
			pc, ok := pieceFromLetter(ch)
			if !ok {
				return b, White, fmt.Errorf("%w: unknown piece %q", ErrInvalidPosition, ch)
			}
			sq, ok := shared.SquareFromCoords(r, col)
			if !ok {
				return b, White, fmt.Errorf("%w: row %d overflows", ErrInvalidPosition, r)
			}
			b.Set(sq, pc)
			col++
		}
		if col != shared.BoardSize {
			return b, White, fmt.Errorf("%w: row %d has %d squares", ErrInvalidPosition, r, col)
		}
	}

	turn := White
	if len(fields) == 2 {
		switch fields[1] {
		case "w":
		case "b":
			turn = Black
		default:
			return b, White, fmt.Errorf("%w: side to move %q", ErrInvalidPosition, fields[1])
		}
	}
	return b, turn, nil
}

func pieceFromLetter(ch rune) (Piece, bool) {
	color := White
	if ch >= 'a' && ch <= 'z' {
		color = Black
		ch -= 'a' - 'A'
	}
	for _, pt := range AllPieceTypes {
		if rune(pt.Letter()) == ch {
			return Piece{Type: pt, Color: color}, true
		}
	}
	return Piece{}, false
}

// Placement is the inverse of the board part of ParsePosition.
func (b Board) Placement() string {
	var sb strings.Builder
	for r := 0; r < shared.BoardSize; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < shared.BoardSize; c++ {
			pc := b.pieceAt[shared.MustSquare(r, c)]
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pieceRune(pc))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

// Position renders board and side to move in the ParsePosition form.
func Position(b Board, turn Color) string {
	side := "w"
	if turn == Black {
		side = "b"
	}
	return b.Placement() + " " + side
}
