package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"knights_gambit/internal/shared"
)

type Square = shared.Square

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Index() int { return int(c) }

func (c Color) Valid() bool { return c == White || c == Black }

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return fmt.Sprintf("color(%d)", c)
	}
}

func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	default:
		return 0, false
	}
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", c)
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("invalid color %q", string(text))
	}
	*c = parsed
	return nil
}

// PieceType is the closed set of piece kinds. Each kind owns exactly one
// candidate generator, see movegen.go.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Rook
	Queen
	King
	numPieceTypes
)

var AllPieceTypes = [...]PieceType{Pawn, Knight, Rook, Queen, King}

var pieceTypeNames = [numPieceTypes]string{
	Pawn:   "pawn",
	Knight: "knight",
	Rook:   "rook",
	Queen:  "queen",
	King:   "king",
}

var pieceTypeLetters = [numPieceTypes]byte{
	Pawn:   'P',
	Knight: 'N',
	Rook:   'R',
	Queen:  'Q',
	King:   'K',
}

func (p PieceType) Valid() bool { return p < numPieceTypes }

func (p PieceType) String() string {
	if !p.Valid() {
		return fmt.Sprintf("piece(%d)", p)
	}
	return pieceTypeNames[p]
}

// Letter is the upper-case notation letter for the kind.
func (p PieceType) Letter() byte {
	if !p.Valid() {
		return '?'
	}
	return pieceTypeLetters[p]
}

func ParsePieceType(s string) (PieceType, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, pt := range AllPieceTypes {
		if pieceTypeNames[pt] == needle || (len(needle) == 1 && needle[0] == pieceTypeLetters[pt]+'a'-'A') {
			return pt, true
		}
	}
	return 0, false
}

func (p PieceType) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid piece type %d", p)
	}
	return []byte(p.String()), nil
}

func (p *PieceType) UnmarshalText(text []byte) error {
	parsed, ok := ParsePieceType(string(text))
	if !ok {
		return fmt.Errorf("invalid piece type %q", string(text))
	}
	*p = parsed
	return nil
}

// Piece is an immutable value; the board replaces it rather than mutating it.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func (p Piece) String() string {
	return p.Color.String() + " " + p.Type.String()
}

// UnmarshalJSON requires both type and color; hasMoved defaults to false.
func (p *Piece) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     *PieceType `json:"type"`
		Color    *Color     `json:"color"`
		HasMoved bool       `json:"hasMoved"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type == nil || raw.Color == nil {
		return fmt.Errorf("piece needs both type and color")
	}
	*p = Piece{Type: *raw.Type, Color: *raw.Color, HasMoved: raw.HasMoved}
	return nil
}

var pieceGlyphs = [2][numPieceTypes]string{
	White: {Pawn: "♙", Knight: "♘", Rook: "♖", Queen: "♕", King: "♔"},
	Black: {Pawn: "♟", Knight: "♞", Rook: "♜", Queen: "♛", King: "♚"},
}

// Glyph is the Unicode chess symbol for the piece.
func (p Piece) Glyph() string {
	if !p.Type.Valid() || !p.Color.Valid() {
		return "?"
	}
	return pieceGlyphs[p.Color][p.Type]
}

// Winner is unset, a color name, or "draw".
type Winner string

const (
	NoWinner    Winner = ""
	WinnerWhite Winner = "white"
	WinnerBlack Winner = "black"
	WinnerDraw  Winner = "draw"
)

func WinnerOf(c Color) Winner {
	if c == White {
		return WinnerWhite
	}
	return WinnerBlack
}

func (w Winner) Valid() bool {
	switch w {
	case NoWinner, WinnerWhite, WinnerBlack, WinnerDraw:
		return true
	}
	return false
}

func (w Winner) MarshalJSON() ([]byte, error) {
	if w == NoWinner {
		return []byte("null"), nil
	}
	return json.Marshal(string(w))
}

func (w *Winner) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*w = NoWinner
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*w = Winner(s)
	return nil
}
