package game

import (
	"encoding/json"
	"fmt"
)

// Move is one accepted ply. Piece is the mover as it stood before the move so
// that undo restores it exactly.
type Move struct {
	From     Square `json:"from"`
	To       Square `json:"to"`
	Piece    Piece  `json:"piece"`
	Captured *Piece `json:"captured"`
	Notation string `json:"notation"`
}

// UnmarshalJSON requires from, to and piece to be present.
func (m *Move) UnmarshalJSON(data []byte) error {
	var raw struct {
		From     *Square `json:"from"`
		To       *Square `json:"to"`
		Piece    *Piece  `json:"piece"`
		Captured *Piece  `json:"captured"`
		Notation string  `json:"notation"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.From == nil || raw.To == nil || raw.Piece == nil {
		return fmt.Errorf("move needs from, to and piece")
	}
	*m = Move{From: *raw.From, To: *raw.To, Piece: *raw.Piece, Captured: raw.Captured, Notation: raw.Notation}
	return nil
}

func (m Move) clone() Move {
	if m.Captured != nil {
		c := *m.Captured
		m.Captured = &c
	}
	return m
}

func cloneMoves(src []Move) []Move {
	out := make([]Move, len(src))
	for i, m := range src {
		out[i] = m.clone()
	}
	return out
}

// CapturedPieces holds captured pieces keyed by the color of the piece that
// was taken.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{White: []Piece{}, Black: []Piece{}}
}

func (cp CapturedPieces) Of(color Color) []Piece {
	if color == White {
		return cp.White
	}
	return cp.Black
}

func (cp *CapturedPieces) list(color Color) *[]Piece {
	if color == White {
		return &cp.White
	}
	return &cp.Black
}

func (cp *CapturedPieces) add(pc Piece) {
	l := cp.list(pc.Color)
	*l = append(*l, pc)
}

// remove drops one entry with the same kind and color. Which one goes when
// several match is unspecified.
func (cp *CapturedPieces) remove(pc Piece) bool {
	l := cp.list(pc.Color)
	for i, c := range *l {
		if c.Type == pc.Type && c.Color == pc.Color {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

func (cp CapturedPieces) clone() CapturedPieces {
	return CapturedPieces{
		White: append([]Piece{}, cp.White...),
		Black: append([]Piece{}, cp.Black...),
	}
}
