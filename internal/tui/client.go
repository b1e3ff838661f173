// Package tui is a hot-seat terminal client: both players share one board.
package tui

import (
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"knights_gambit/internal/game"
	"knights_gambit/internal/saves"
	"knights_gambit/internal/settings"
	"knights_gambit/internal/shared"
)

const (
	// rank labels take table column 0, file labels the row under the board
	labelCol = 0
	labelRow = shared.BoardSize
)

var (
	lightColor     = tcell.ColorTan
	darkColor      = tcell.ColorSaddleBrown
	highlightColor = tcell.ColorOliveDrab
	selectedColor  = tcell.ColorYellowGreen
)

type Client struct {
	App    *tview.Application
	Board  *tview.Table
	Status *tview.TextView
	Layout *tview.Flex

	engine   *game.Engine
	settings *settings.Store
	saves    *saves.Store

	selecting     bool
	lastSelection shared.Square
	highlights    shared.SquareSet
	message       string
}

// NewClient builds the UI around eng. Either store may be nil.
func NewClient(eng *game.Engine, settingsStore *settings.Store, saveStore *saves.Store) *Client {
	app := tview.NewApplication()
	board := tview.NewTable()
	status := tview.NewTextView().SetDynamicColors(true)
	help := tview.NewTextView().
		SetText("enter: select/move  u: undo  n: new game  s: save  q/esc: quit")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(board, 2*shared.BoardSize+2, 0, true).
		AddItem(status, 4, 0, false).
		AddItem(help, 1, 0, false)

	cl := &Client{
		App:      app,
		Board:    board,
		Status:   status,
		Layout:   layout,
		engine:   eng,
		settings: settingsStore,
		saves:    saveStore,
	}
	cl.initTable()
	return cl
}

func (cl *Client) Run() error {
	return cl.App.SetRoot(cl.Layout, true).SetFocus(cl.Board).Run()
}

func (cl *Client) initTable() {
	cl.Board.SetSelectable(true, true)
	cl.Board.Select(shared.BoardSize-1, 1).SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			cl.App.Stop()
		}
	}).SetSelectedFunc(func(row, col int) {
		if sq, ok := cellToSquare(row, col); ok {
			cl.selectSquare(sq)
		}
	})
	cl.Board.SetInputCapture(cl.handleKey)
	cl.RenderTable()
}

func (cl *Client) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}
	switch event.Rune() {
	case 'u':
		cl.undo()
	case 'n':
		cl.newGame()
	case 's':
		cl.save()
	case 'q':
		cl.App.Stop()
	default:
		return event
	}
	return nil
}

// selectSquare drives the two-step pick-piece, pick-destination interaction.
func (cl *Client) selectSquare(sq shared.Square) {
	defer cl.RenderTable()

	if cl.selecting {
		if sq == cl.lastSelection {
			cl.clearSelection()
			return
		}
		if cl.engine.IsLegalMove(cl.lastSelection, sq) {
			cl.move(cl.lastSelection, sq)
			return
		}
		if pc, ok := cl.engine.Board().PieceAt(sq); !ok || pc.Color != cl.engine.Turn() {
			log.Printf("invalid move %s%s", cl.lastSelection, sq)
			cl.message = fmt.Sprintf("%s-%s is not a legal move", cl.lastSelection, sq)
			cl.clearSelection()
			return
		}
	}

	if cl.engine.State().GameOver {
		cl.message = "Game over. Press n for a new game."
		return
	}
	sel, ok := cl.engine.Select(sq)
	if !ok {
		cl.message = fmt.Sprintf("Select a %s piece", cl.engine.Turn())
		cl.clearSelection()
		return
	}
	cl.selecting = true
	cl.lastSelection = sq
	cl.highlights = 0
	if cl.showHints() {
		cl.highlights = sel.Targets
	}
	cl.message = ""
}

func (cl *Client) move(from, to shared.Square) {
	result, err := cl.engine.ApplyMove(from, to)
	cl.clearSelection()
	if err != nil {
		cl.message = err.Error()
		return
	}
	log.Printf("Move: %s", result.Move.Notation)

	switch {
	case result.Checkmate:
		cl.message = "Checkmate!"
	case result.Check:
		cl.message = "Check!"
	case result.Captured != nil:
		cl.message = fmt.Sprintf("Captured %s", result.Captured)
	default:
		cl.message = ""
	}
	cl.autosave()
}

func (cl *Client) undo() {
	defer cl.RenderTable()
	cl.clearSelection()
	undone, err := cl.engine.Undo()
	if err != nil {
		cl.message = "Nothing to undo"
		return
	}
	cl.message = "Took back " + undone.Move.Notation
	cl.autosave()
}

func (cl *Client) newGame() {
	defer cl.RenderTable()
	cl.clearSelection()
	cl.engine.Reset()
	cl.message = "New game"
	cl.autosave()
}

func (cl *Client) save() {
	defer cl.RenderTable()
	if cl.saves == nil {
		cl.message = "Saving is disabled"
		return
	}
	slot, err := cl.saves.Save(cl.engine.Snapshot())
	if err != nil {
		log.Printf("save: %v", err)
		cl.message = "Save failed"
		return
	}
	cl.message = "Saved as " + slot.ID
}

func (cl *Client) autosave() {
	if cl.saves == nil || cl.settings == nil || !cl.settings.Get().AutoSave {
		return
	}
	if _, err := cl.saves.Autosave(cl.engine.Snapshot()); err != nil {
		log.Printf("autosave: %v", err)
	}
}

func (cl *Client) showHints() bool {
	return cl.settings == nil || cl.settings.Get().ShowHints
}

func (cl *Client) clearSelection() {
	cl.selecting = false
	cl.lastSelection = 0
	cl.highlights = 0
}

// RenderTable redraws every cell and the status line. tview repaints after
// each input event, so no explicit Draw is needed.
func (cl *Client) RenderTable() {
	board := cl.engine.Board()
	for r := 0; r < shared.BoardSize; r++ {
		cl.Board.SetCell(r, labelCol, tview.NewTableCell(fmt.Sprint(shared.BoardSize-r)).
			SetAlign(tview.AlignCenter).
			SetSelectable(false))
		for c := 0; c < shared.BoardSize; c++ {
			sq := shared.MustSquare(r, c)
			text := "   "
			textColor := tcell.ColorWhite
			if pc, ok := board.PieceAt(sq); ok {
				text = " " + pc.Glyph() + " "
				if pc.Color == game.Black {
					textColor = tcell.ColorBlack
				}
			}
			cl.Board.SetCell(r, c+1, tview.NewTableCell(text).
				SetAlign(tview.AlignCenter).
				SetTextColor(textColor).
				SetBackgroundColor(cl.squareColor(sq)))
		}
	}
	cl.Board.SetCell(labelRow, labelCol, tview.NewTableCell("").SetSelectable(false))
	for c := 0; c < shared.BoardSize; c++ {
		cl.Board.SetCell(labelRow, c+1, tview.NewTableCell(string(rune('a'+c))).
			SetAlign(tview.AlignCenter).
			SetSelectable(false))
	}
	cl.Status.SetText(cl.statusText())
}

func (cl *Client) squareColor(sq shared.Square) tcell.Color {
	switch {
	case cl.selecting && sq == cl.lastSelection:
		return selectedColor
	case cl.highlights.Has(sq):
		return highlightColor
	case (sq.Row()+sq.Col())%2 == 0:
		return lightColor
	default:
		return darkColor
	}
}

func (cl *Client) statusText() string {
	st := cl.engine.State()
	var sb strings.Builder

	switch {
	case st.GameOver && (st.Winner == game.WinnerWhite || st.Winner == game.WinnerBlack):
		winner, _ := game.ParseColor(string(st.Winner))
		fmt.Fprintf(&sb, "[red]Checkmate![-] %s wins", titled(winner))
	case st.GameOver:
		sb.WriteString("Game over")
	case st.InCheck:
		fmt.Fprintf(&sb, "%s to move [yellow](check)[-]", titled(st.CurrentPlayer))
	default:
		fmt.Fprintf(&sb, "%s to move", titled(st.CurrentPlayer))
	}
	if n := len(st.MoveHistory); n > 0 {
		fmt.Fprintf(&sb, "  last: %s", st.MoveHistory[n-1].Notation)
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "White took: %s\n", capturedList(st.CapturedPieces.Black))
	fmt.Fprintf(&sb, "Black took: %s", capturedList(st.CapturedPieces.White))
	if cl.message != "" {
		sb.WriteString("\n" + cl.message)
	}
	return sb.String()
}

func titled(c game.Color) string {
	s := c.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func capturedList(pieces []game.Piece) string {
	if len(pieces) == 0 {
		return "-"
	}
	out := make([]string, len(pieces))
	for i, pc := range pieces {
		out[i] = pc.Glyph()
	}
	return strings.Join(out, " ")
}

func cellToSquare(row, col int) (shared.Square, bool) {
	return shared.SquareFromCoords(row, col-1)
}
