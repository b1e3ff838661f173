package shared

import (
	"encoding/json"
	"fmt"
)

const (
	// BoardSize is the width and height of the board.
	BoardSize  = 5
	NumSquares = BoardSize * BoardSize
)

// Square addresses one cell of the board in row-major order. Row 0 is black's
// back rank, row 4 is white's.
type Square uint8

func (s Square) Row() int { return int(s) / BoardSize }
func (s Square) Col() int { return int(s) % BoardSize }

// IsOnBoard reports whether both coordinates fall inside the board.
func IsOnBoard(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func SquareFromCoords(row, col int) (Square, bool) {
	if !IsOnBoard(row, col) {
		return 0, false
	}
	return Square(row*BoardSize + col), true
}

// MustSquare panics on off-board coordinates. Intended for literals.
func MustSquare(row, col int) Square {
	sq, ok := SquareFromCoords(row, col)
	if !ok {
		panic(fmt.Sprintf("square (%d,%d) is off the board", row, col))
	}
	return sq
}

func (s Square) Valid() bool { return int(s) < NumSquares }

// String renders the square as file letter plus rank number, e.g. row 4 col 1 is "b1".
func (s Square) String() string {
	if !s.Valid() {
		return "??"
	}
	file := byte('a' + s.Col())
	rank := byte('0' + BoardSize - s.Row())
	return string([]byte{file, rank})
}

// CoordToSquare parses the String form back into a square.
func CoordToSquare(coord string) (Square, bool) {
	if len(coord) != 2 {
		return 0, false
	}
	file := coord[0]
	rank := coord[1]
	if file < 'a' || file >= 'a'+BoardSize || rank < '1' || rank > '0'+BoardSize {
		return 0, false
	}
	return SquareFromCoords(BoardSize-int(rank-'0'), int(file-'a'))
}

type squareJSON struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) MarshalJSON() ([]byte, error) {
	return json.Marshal(squareJSON{Row: s.Row(), Col: s.Col()})
}

func (s *Square) UnmarshalJSON(data []byte) error {
	var raw squareJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sq, ok := SquareFromCoords(raw.Row, raw.Col)
	if !ok {
		return fmt.Errorf("square (%d,%d) is off the board", raw.Row, raw.Col)
	}
	*s = sq
	return nil
}
