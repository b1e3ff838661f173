// Package game implements the Knight's Gambit rules engine: a 5x5 board,
// per-piece move generation, check and checkmate detection, and the
// apply/undo protocol over a single authoritative game state.
package game

import (
	"time"

	"knights_gambit/internal/shared"
)

// GameState is the authoritative engine state. Selection lives with the
// caller; see Engine.Select.
type GameState struct {
	Board          Board          `json:"board"`
	CurrentPlayer  Color          `json:"currentPlayer"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	InCheck        bool           `json:"inCheck"`
	GameOver       bool           `json:"gameOver"`
	Winner         Winner         `json:"winner"`
	MoveHistory    []Move         `json:"moveHistory"`
}

func (s GameState) clone() GameState {
	s.CapturedPieces = s.CapturedPieces.clone()
	s.MoveHistory = cloneMoves(s.MoveHistory)
	return s
}

// Selection is the derived view of one square for the side to move.
type Selection struct {
	Square     Square           `json:"square"`
	ValidMoves []Square         `json:"validMoves"`
	Targets    shared.SquareSet `json:"-"`
}

// MoveResult reports an accepted move.
type MoveResult struct {
	Move      Move   `json:"move"`
	Captured  *Piece `json:"captured"`
	Check     bool   `json:"check"`
	Checkmate bool   `json:"checkmate"`
}

type UndoResult struct {
	Move Move `json:"move"`
}

// Engine owns one game. It is not safe for concurrent use; callers serialize
// ApplyMove, Undo, Reset and Restore.
type Engine struct {
	state                 GameState
	recomputeStatusOnUndo bool
	now                   func() time.Time
}

// NewEngine starts a game from the initial setup. Options run in order after
// the reset; nil options are skipped.
func NewEngine(options ...func(*Engine)) *Engine {
	eng := &Engine{now: time.Now}
	eng.Reset()
	for _, f := range options {
		if f != nil {
			f(eng)
		}
	}
	return eng
}

// RecomputeStatusOnUndo makes Undo re-run the check oracle for the restored
// side to move instead of clearing InCheck, GameOver and Winner.
func RecomputeStatusOnUndo() func(*Engine) {
	return func(e *Engine) {
		e.recomputeStatusOnUndo = true
	}
}

// FromPosition returns an option that replaces the board and side to move
// with a ParsePosition string. History and captures start empty.
func FromPosition(pos string) (func(*Engine), error) {
	board, turn, err := ParsePosition(pos)
	if err != nil {
		return nil, err
	}
	return func(e *Engine) {
		e.state = GameState{
			Board:          board,
			CurrentPlayer:  turn,
			CapturedPieces: newCapturedPieces(),
			MoveHistory:    []Move{},
		}
		e.evaluateStatus()
	}, nil
}

// FromSnapshot returns an option that restores snap. Each engine the option
// is applied to gets its own copy of the state.
func FromSnapshot(snap Snapshot) (func(*Engine), error) {
	state, err := snap.gameState()
	if err != nil {
		return nil, err
	}
	return func(e *Engine) {
		e.state = state.clone()
	}, nil
}

// Reset discards the current game and starts from the initial setup.
func (e *Engine) Reset() {
	e.state = GameState{
		Board:          InitialSetup(),
		CurrentPlayer:  White,
		CapturedPieces: newCapturedPieces(),
		MoveHistory:    []Move{},
	}
}

// State returns a copy of the game state.
func (e *Engine) State() GameState { return e.state.clone() }

func (e *Engine) Board() Board { return e.state.Board }

func (e *Engine) Turn() Color { return e.state.CurrentPlayer }

func (e *Engine) Status() Status {
	switch {
	case e.state.GameOver:
		return StatusCheckmate
	case e.state.InCheck:
		return StatusCheck
	default:
		return StatusOngoing
	}
}

// LegalMoves lists destinations for the side-to-move piece on from.
func (e *Engine) LegalMoves(from Square) []Square {
	return LegalMoves(e.state.Board, from, e.state.CurrentPlayer)
}

func (e *Engine) IsLegalMove(from, to Square) bool {
	return IsLegalMove(e.state.Board, from, to, e.state.CurrentPlayer)
}

// Select computes the selection view for sq. ok is false when sq does not
// hold a piece of the side to move.
func (e *Engine) Select(sq Square) (Selection, bool) {
	pc, ok := e.state.Board.PieceAt(sq)
	if !ok || pc.Color != e.state.CurrentPlayer {
		return Selection{Square: sq, ValidMoves: []Square{}}, false
	}
	moves := e.LegalMoves(sq)
	return Selection{Square: sq, ValidMoves: moves, Targets: shared.SetOf(moves...)}, true
}

// ApplyMove plays from->to for the side to move. Any rejection is
// ErrInvalidMove and leaves the state untouched.
func (e *Engine) ApplyMove(from, to Square) (MoveResult, error) {
	s := &e.state
	mover := s.CurrentPlayer
	if !IsLegalMove(s.Board, from, to, mover) {
		return MoveResult{}, ErrInvalidMove
	}

	pc, _ := s.Board.PieceAt(from)
	captured, hasCapture := s.Board.PieceAt(to)

	next := s.Board.WithMove(from, to)
	moved := pc
	moved.HasMoved = true
	next.Set(to, moved)

	move := Move{
		From:     from,
		To:       to,
		Piece:    pc,
		Notation: Notation(pc.Type, to),
	}
	if hasCapture {
		c := captured
		move.Captured = &c
		s.CapturedPieces.add(captured)
	}

	s.Board = next
	s.CurrentPlayer = mover.Opposite()
	s.InCheck = IsInCheck(next, s.CurrentPlayer)
	checkmate := s.InCheck && !HasLegalMove(next, s.CurrentPlayer)
	s.GameOver = checkmate
	s.Winner = NoWinner
	if checkmate {
		s.Winner = WinnerOf(mover)
	}
	s.MoveHistory = append(s.MoveHistory, move)

	result := MoveResult{Move: move.clone(), Check: s.InCheck, Checkmate: checkmate}
	result.Captured = result.Move.Captured
	return result, nil
}

// Undo takes back the last ply. By default InCheck, GameOver and Winner are
// cleared rather than recomputed; see RecomputeStatusOnUndo.
func (e *Engine) Undo() (UndoResult, error) {
	s := &e.state
	if len(s.MoveHistory) == 0 {
		return UndoResult{}, ErrNoMoveToUndo
	}
	last := s.MoveHistory[len(s.MoveHistory)-1]

	board := s.Board
	board.Set(last.From, last.Piece)
	if last.Captured != nil {
		board.Set(last.To, *last.Captured)
		s.CapturedPieces.remove(*last.Captured)
	} else {
		board.Clear(last.To)
	}

	s.Board = board
	s.CurrentPlayer = s.CurrentPlayer.Opposite()
	s.MoveHistory = s.MoveHistory[:len(s.MoveHistory)-1]

	if e.recomputeStatusOnUndo {
		e.evaluateStatus()
	} else {
		s.InCheck = false
		s.GameOver = false
		s.Winner = NoWinner
	}
	return UndoResult{Move: last.clone()}, nil
}

// evaluateStatus derives InCheck, GameOver and Winner from the board and the
// side to move.
func (e *Engine) evaluateStatus() {
	s := &e.state
	s.InCheck = IsInCheck(s.Board, s.CurrentPlayer)
	s.GameOver = s.InCheck && !HasLegalMove(s.Board, s.CurrentPlayer)
	s.Winner = NoWinner
	if s.GameOver {
		s.Winner = WinnerOf(s.CurrentPlayer.Opposite())
	}
}
