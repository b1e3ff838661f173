package game

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Snapshot is the save/load record. Loading re-hydrates it verbatim; the move
// history is carried along but never replayed.
type Snapshot struct {
	Board          [][]*Piece     `json:"board"`
	CurrentPlayer  Color          `json:"currentPlayer"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	InCheck        bool           `json:"inCheck"`
	GameOver       bool           `json:"gameOver"`
	Winner         Winner         `json:"winner"`
	MoveHistory    []Move         `json:"moveHistory"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Snapshot captures the current state, stamped with the current time.
func (e *Engine) Snapshot() Snapshot {
	s := e.state.clone()
	return Snapshot{
		Board:          s.Board.Rows(),
		CurrentPlayer:  s.CurrentPlayer,
		CapturedPieces: s.CapturedPieces,
		InCheck:        s.InCheck,
		GameOver:       s.GameOver,
		Winner:         s.Winner,
		MoveHistory:    s.MoveHistory,
		Timestamp:      e.now().UTC(),
	}
}

// Restore replaces the whole game with snap after a structural check. On
// error the current game is left as it was.
func (e *Engine) Restore(snap Snapshot) error {
	state, err := snap.gameState()
	if err != nil {
		return err
	}
	e.state = state
	return nil
}

// gameState validates snap and converts it into engine state.
func (snap Snapshot) gameState() (GameState, error) {
	if err := snap.Validate(); err != nil {
		return GameState{}, err
	}
	board, err := BoardFromRows(snap.Board)
	if err != nil {
		return GameState{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	history := []Move{}
	if snap.MoveHistory != nil {
		history = cloneMoves(snap.MoveHistory)
	}
	return GameState{
		Board:          board,
		CurrentPlayer:  snap.CurrentPlayer,
		CapturedPieces: snap.CapturedPieces.clone(),
		InCheck:        snap.InCheck,
		GameOver:       snap.GameOver,
		Winner:         snap.Winner,
		MoveHistory:    history,
	}, nil
}

// Validate checks the snapshot's shape. It does not check that the history
// is a legal game.
func (snap Snapshot) Validate() error {
	if _, err := BoardFromRows(snap.Board); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if !snap.CurrentPlayer.Valid() {
		return fmt.Errorf("%w: current player %d", ErrMalformedSnapshot, snap.CurrentPlayer)
	}
	if !snap.Winner.Valid() {
		return fmt.Errorf("%w: winner %q", ErrMalformedSnapshot, string(snap.Winner))
	}
	for _, color := range [...]Color{White, Black} {
		for i, pc := range snap.CapturedPieces.Of(color) {
			if !pc.Type.Valid() || pc.Color != color {
				return fmt.Errorf("%w: captured %s[%d] is %v", ErrMalformedSnapshot, color, i, pc)
			}
		}
	}
	for i, m := range snap.MoveHistory {
		if err := m.validate(); err != nil {
			return fmt.Errorf("%w: move %d: %v", ErrMalformedSnapshot, i, err)
		}
	}
	return nil
}

func (m Move) validate() error {
	if !m.From.Valid() || !m.To.Valid() {
		return fmt.Errorf("square off the board")
	}
	if m.From == m.To {
		return fmt.Errorf("from and to are both %s", m.From)
	}
	if !m.Piece.Type.Valid() || !m.Piece.Color.Valid() {
		return fmt.Errorf("invalid piece")
	}
	if m.Captured != nil && (!m.Captured.Type.Valid() || !m.Captured.Color.Valid()) {
		return fmt.Errorf("invalid captured piece")
	}
	return nil
}

// UnmarshalJSON insists on an explicit currentPlayer so that a missing turn
// is not silently read as white.
func (snap *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	aux := struct {
		*plain
		CurrentPlayer *Color `json:"currentPlayer"`
	}{plain: (*plain)(snap)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.CurrentPlayer == nil {
		return fmt.Errorf("missing currentPlayer")
	}
	snap.CurrentPlayer = *aux.CurrentPlayer
	return nil
}

func EncodeSnapshot(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// DecodeSnapshot reads and validates one snapshot. Every failure wraps
// ErrMalformedSnapshot.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
