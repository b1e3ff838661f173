package game

// Notation is the kind letter followed by the destination file and rank,
// e.g. a knight landing on row 2 col 1 is "Nb3".
func Notation(pt PieceType, to Square) string {
	return string(pt.Letter()) + to.String()
}
