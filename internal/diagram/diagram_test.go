package diagram

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knights_gambit/internal/game"
	"knights_gambit/internal/shared"
)

func TestRenderInitialSetup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, game.InitialSetup(), Options{SquareSize: 40}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "</svg>")
	assert.Equal(t, 25, strings.Count(out, "<rect"))
	assert.Equal(t, 4, strings.Count(out, "♙"))
	assert.Equal(t, 4, strings.Count(out, "♟"))
	assert.Equal(t, 1, strings.Count(out, "♔"))
	assert.Equal(t, 1, strings.Count(out, "♚"))
	assert.NotContains(t, out, highlightSquare)
}

func TestRenderHighlights(t *testing.T) {
	var buf bytes.Buffer
	hl := shared.SetOf(shared.MustSquare(2, 0), shared.MustSquare(2, 2))
	require.NoError(t, Render(&buf, game.InitialSetup(), Options{Highlights: hl}))
	assert.Equal(t, 2, strings.Count(buf.String(), highlightSquare))
}

func TestScreenPosFlip(t *testing.T) {
	x, y := screenPos(0, 0, 10, 3, false)
	assert.Equal(t, [2]int{3, 0}, [2]int{x, y})
	x, y = screenPos(0, 0, 10, 3, true)
	assert.Equal(t, [2]int{43, 40}, [2]int{x, y})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestErrWriterKeepsFirstError(t *testing.T) {
	ew := &errWriter{w: failingWriter{}}
	p := []byte("<svg>")

	n, err := ew.Write(p)
	assert.NoError(t, err)
	assert.Equal(t, len(p), n)
	assert.EqualError(t, ew.err, "disk full")

	n, err = ew.Write([]byte("more"))
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.EqualError(t, ew.err, "disk full")
}

func TestRenderReportsWriteError(t *testing.T) {
	err := Render(failingWriter{}, game.InitialSetup(), Options{})
	assert.EqualError(t, err, "disk full")
}
