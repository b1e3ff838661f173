// Package diagram draws a board position as SVG.
package diagram

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"knights_gambit/internal/game"
	"knights_gambit/internal/shared"
)

const (
	lightSquare     = "#f0d9b5"
	darkSquare      = "#b58863"
	highlightSquare = "#cdd26a"
	labelColor      = "#555"
)

// Options controls the rendering. The zero value draws 64px squares from
// white's side.
type Options struct {
	SquareSize int
	Highlights shared.SquareSet
	// Flip draws the board from black's side.
	Flip bool
}

// Render writes a standalone SVG document for b to w.
func Render(w io.Writer, b game.Board, opts Options) error {
	size := opts.SquareSize
	if size <= 0 {
		size = 64
	}
	margin := size / 3
	side := shared.BoardSize*size + margin

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(side, side)
	canvas.Title("Knight's Gambit")

	for r := 0; r < shared.BoardSize; r++ {
		for c := 0; c < shared.BoardSize; c++ {
			sq := shared.MustSquare(r, c)
			x, y := screenPos(r, c, size, margin, opts.Flip)

			fill := lightSquare
			if (r+c)%2 == 1 {
				fill = darkSquare
			}
			if opts.Highlights.Has(sq) {
				fill = highlightSquare
			}
			canvas.Rect(x, y, size, size, "fill:"+fill)

			if pc, ok := b.PieceAt(sq); ok {
				canvas.Text(x+size/2, y+size*3/4, pc.Glyph(),
					fmt.Sprintf("text-anchor:middle;font-size:%dpx", size*3/4))
			}
		}
	}

	labelStyle := fmt.Sprintf("text-anchor:middle;font-size:%dpx;fill:%s", margin*2/3, labelColor)
	for i := 0; i < shared.BoardSize; i++ {
		x, y := screenPos(i, i, size, margin, opts.Flip)
		file := string(rune('a' + i))
		rank := fmt.Sprint(shared.BoardSize - i)
		canvas.Text(x+size/2, side-margin/4, file, labelStyle)
		canvas.Text(margin/2, y+size/2+margin/4, rank, labelStyle)
	}

	canvas.End()
	return ew.err
}

// screenPos maps board coordinates to the top-left corner of the square.
func screenPos(row, col, size, margin int, flip bool) (int, int) {
	if flip {
		row = shared.BoardSize - 1 - row
		col = shared.BoardSize - 1 - col
	}
	return margin + col*size, row * size
}

// errWriter keeps the first write error; svgo does not report them. Once an
// error is latched, later writes are dropped and reported as complete.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = err
	}
	return len(p), nil
}
