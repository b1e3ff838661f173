package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngineAt(t *testing.T, pos string, options ...func(*Engine)) *Engine {
	t.Helper()
	opt, err := FromPosition(pos)
	require.NoError(t, err)
	return NewEngine(append([]func(*Engine){opt}, options...)...)
}

func TestNewEngine(t *testing.T) {
	eng := NewEngine()
	st := eng.State()

	assert.True(t, st.Board.Equal(InitialSetup()))
	assert.Equal(t, White, st.CurrentPlayer)
	assert.Empty(t, st.MoveHistory)
	assert.Empty(t, st.CapturedPieces.White)
	assert.Empty(t, st.CapturedPieces.Black)
	assert.False(t, st.InCheck)
	assert.False(t, st.GameOver)
	assert.Equal(t, NoWinner, st.Winner)
	assert.Equal(t, StatusOngoing, eng.Status())
}

func TestApplyMove(t *testing.T) {
	eng := NewEngine()

	res, err := eng.ApplyMove(sq(3, 0), sq(2, 0))
	require.NoError(t, err)
	assert.Nil(t, res.Captured)
	assert.False(t, res.Check)
	assert.Equal(t, "Pa3", res.Move.Notation)
	assert.False(t, res.Move.Piece.HasMoved)

	st := eng.State()
	assert.Equal(t, Black, st.CurrentPlayer)
	require.Len(t, st.MoveHistory, 1)
	pc, ok := st.Board.PieceAt(sq(2, 0))
	require.True(t, ok)
	assert.Equal(t, Piece{Type: Pawn, Color: White, HasMoved: true}, pc)
	assert.True(t, st.Board.IsEmpty(sq(3, 0)))

	res, err = eng.ApplyMove(sq(0, 1), sq(2, 2))
	require.NoError(t, err)
	assert.Equal(t, "Nc3", res.Move.Notation)
	assert.Equal(t, White, eng.Turn())
}

func TestApplyMoveRejects(t *testing.T) {
	eng := NewEngine()
	before := eng.State()

	for _, mv := range [][2]Square{
		{sq(1, 0), sq(2, 0)}, // black piece on white's turn
		{sq(2, 2), sq(1, 2)}, // empty source
		{sq(4, 0), sq(3, 0)}, // own capture
		{sq(3, 2), sq(2, 1)}, // pinned queen
		{sq(3, 0), sq(1, 0)}, // blocked double step
		{Square(30), sq(2, 0)},
	} {
		_, err := eng.ApplyMove(mv[0], mv[1])
		assert.Truef(t, errors.Is(err, ErrInvalidMove), "%v", mv)
	}
	assert.Equal(t, before, eng.State())
}

func TestCaptureCheckAndUndo(t *testing.T) {
	eng := NewEngine()

	res, err := eng.ApplyMove(sq(3, 2), sq(1, 2))
	require.NoError(t, err)
	require.NotNil(t, res.Captured)
	assert.Equal(t, Piece{Type: Queen, Color: Black}, *res.Captured)
	assert.True(t, res.Check)
	assert.False(t, res.Checkmate)
	assert.Equal(t, "Qc4", res.Move.Notation)

	st := eng.State()
	assert.True(t, st.InCheck)
	assert.Equal(t, []Piece{{Type: Queen, Color: Black}}, st.CapturedPieces.Black)
	assert.Empty(t, st.CapturedPieces.White)
	assert.Equal(t, StatusCheck, eng.Status())

	res, err = eng.ApplyMove(sq(0, 2), sq(1, 2))
	require.NoError(t, err)
	assert.Equal(t, "Kc4", res.Move.Notation)
	assert.Equal(t, []Piece{{Type: Queen, Color: White, HasMoved: true}}, eng.State().CapturedPieces.White)

	undo, err := eng.Undo()
	require.NoError(t, err)
	assert.Equal(t, "Kc4", undo.Move.Notation)
	assert.Empty(t, eng.State().CapturedPieces.White)
	assert.Equal(t, Black, eng.Turn())
	// Flags are cleared, not recomputed, even though black is in check again.
	assert.False(t, eng.State().InCheck)

	_, err = eng.Undo()
	require.NoError(t, err)
	st = eng.State()
	assert.True(t, st.Board.Equal(InitialSetup()))
	assert.Empty(t, st.CapturedPieces.Black)
	assert.Empty(t, st.MoveHistory)
	assert.Equal(t, White, st.CurrentPlayer)

	_, err = eng.Undo()
	assert.ErrorIs(t, err, ErrNoMoveToUndo)
}

func TestUndoRecomputesStatusWhenAsked(t *testing.T) {
	eng := NewEngine(RecomputeStatusOnUndo())

	_, err := eng.ApplyMove(sq(3, 2), sq(1, 2))
	require.NoError(t, err)
	_, err = eng.ApplyMove(sq(0, 2), sq(1, 2))
	require.NoError(t, err)
	_, err = eng.Undo()
	require.NoError(t, err)

	assert.True(t, eng.State().InCheck)
	assert.Equal(t, StatusCheck, eng.Status())
}

func TestCheckmateEndsGame(t *testing.T) {
	eng := newEngineAt(t, "2k2/5/r4/4r/2K2 b")
	assert.Equal(t, StatusOngoing, eng.Status())

	res, err := eng.ApplyMove(sq(2, 0), sq(4, 0))
	require.NoError(t, err)
	assert.True(t, res.Check)
	assert.True(t, res.Checkmate)

	st := eng.State()
	assert.True(t, st.GameOver)
	assert.Equal(t, WinnerBlack, st.Winner)
	assert.Equal(t, StatusCheckmate, eng.Status())

	_, err = eng.ApplyMove(sq(4, 2), sq(3, 2))
	assert.ErrorIs(t, err, ErrInvalidMove)

	_, err = eng.Undo()
	require.NoError(t, err)
	st = eng.State()
	assert.False(t, st.GameOver)
	assert.Equal(t, NoWinner, st.Winner)
	assert.Equal(t, Black, st.CurrentPlayer)
}

func TestFromPositionEvaluatesStatus(t *testing.T) {
	eng := newEngineAt(t, "2k2/5/5/4r/r1K2 w")
	st := eng.State()
	assert.True(t, st.InCheck)
	assert.True(t, st.GameOver)
	assert.Equal(t, WinnerBlack, st.Winner)

	_, err := FromPosition("not a position")
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestCapturedDuplicatesUndoOneAtATime(t *testing.T) {
	eng := newEngineAt(t, "4k/5/p1p2/1R3/K4 w")

	_, err := eng.ApplyMove(sq(3, 1), sq(2, 1))
	require.NoError(t, err)
	_, err = eng.ApplyMove(sq(0, 4), sq(0, 3))
	require.NoError(t, err)
	_, err = eng.ApplyMove(sq(2, 1), sq(2, 0))
	require.NoError(t, err)
	_, err = eng.ApplyMove(sq(0, 3), sq(0, 4))
	require.NoError(t, err)
	_, err = eng.ApplyMove(sq(2, 0), sq(2, 2))
	require.NoError(t, err)
	assert.Len(t, eng.State().CapturedPieces.Black, 2)

	_, err = eng.Undo()
	require.NoError(t, err)
	assert.Equal(t, []Piece{{Type: Pawn, Color: Black}}, eng.State().CapturedPieces.Black)
}

func TestSelect(t *testing.T) {
	eng := NewEngine()

	sel, ok := eng.Select(sq(4, 1))
	require.True(t, ok)
	assert.Equal(t, sq(4, 1), sel.Square)
	assert.ElementsMatch(t, []Square{sq(2, 0), sq(2, 2)}, sel.ValidMoves)
	assert.True(t, sel.Targets.Has(sq(2, 2)))
	assert.False(t, sel.Targets.Has(sq(3, 3)))

	_, ok = eng.Select(sq(1, 1))
	assert.False(t, ok)
	_, ok = eng.Select(sq(2, 2))
	assert.False(t, ok)
}

func TestApplyUndoRoundTripsUnderRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewPCG(2024, 5))
	eng := NewEngine()

	for ply := 0; ply < 150; ply++ {
		before := eng.State()

		var moves [][2]Square
		for _, from := range before.Board.Pieces(before.CurrentPlayer) {
			for _, to := range eng.LegalMoves(from) {
				moves = append(moves, [2]Square{from, to})
			}
		}
		if len(moves) == 0 {
			eng.Reset()
			continue
		}
		pick := moves[rng.IntN(len(moves))]

		_, err := eng.ApplyMove(pick[0], pick[1])
		require.NoError(t, err)
		assert.Equal(t, before.CurrentPlayer.Opposite(), eng.Turn())

		_, err = eng.Undo()
		require.NoError(t, err)
		after := eng.State()
		require.Truef(t, before.Board.Equal(after.Board), "undo of %s -> %s\n%s", pick[0], pick[1], after.Board.Draw())
		assert.Equal(t, before.CurrentPlayer, after.CurrentPlayer)
		assert.Equal(t, before.CapturedPieces, after.CapturedPieces)
		assert.Equal(t, before.MoveHistory, after.MoveHistory)

		_, err = eng.ApplyMove(pick[0], pick[1])
		require.NoError(t, err)
	}
}
