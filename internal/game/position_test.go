package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositionInitial(t *testing.T) {
	b, turn, err := ParsePosition("rnknr/ppqpp/5/PPQPP/RNKNR w")
	require.NoError(t, err)
	assert.Equal(t, White, turn)
	assert.True(t, b.Equal(InitialSetup()))

	_, turn, err = ParsePosition("rnknr/ppqpp/5/PPQPP/RNKNR")
	require.NoError(t, err)
	assert.Equal(t, White, turn)
}

func TestParsePositionSparse(t *testing.T) {
	b, turn := mustPosition(t, "2k2/5/r4/4r/2K2 b")
	assert.Equal(t, Black, turn)
	assert.Equal(t, 1, b.Count(White))
	assert.Equal(t, 3, b.Count(Black))

	pc, ok := b.PieceAt(sq(3, 4))
	require.True(t, ok)
	assert.Equal(t, Piece{Type: Rook, Color: Black}, pc)
	assert.Equal(t, "2k2/5/r4/4r/2K2 b", Position(b, turn))
}

func TestParsePositionErrors(t *testing.T) {
	for _, bad := range []string{
		"",
		"5/5/5/5",
		"5/5/5/5/5/5",
		"6/5/5/5/5",
		"4/5/5/5/5",
		"xnknr/ppqpp/5/PPQPP/RNKNR",
		"rnknr/ppqpp/5/PPQPP/RNKNRR",
		"rnknr/ppqpp/5/PPQPP/RNKNR x",
		"rnknr/ppqpp/5/PPQPP/RNKNR w extra",
	} {
		_, _, err := ParsePosition(bad)
		assert.Truef(t, errors.Is(err, ErrInvalidPosition), "%q: %v", bad, err)
	}
}
