package shared

import "math/bits"

// SquareSet is a bitset over the 25 board squares.
type SquareSet uint32

func SetOf(squares ...Square) SquareSet {
	var set SquareSet
	for _, sq := range squares {
		set = set.Add(sq)
	}
	return set
}

func (b SquareSet) Empty() bool { return b == 0 }

func (b SquareSet) Has(s Square) bool { return b&(1<<s) != 0 }

func (b SquareSet) Add(s Square) SquareSet { return b | (1 << s) }

func (b SquareSet) Remove(s Square) SquareSet { return b &^ (1 << s) }

func (b SquareSet) Len() int { return bits.OnesCount32(uint32(b)) }

func (b SquareSet) PopLSB() (Square, SquareSet) {
	if b == 0 {
		return 0, 0
	}
	idx := Square(bits.TrailingZeros32(uint32(b)))
	return idx, b &^ (1 << idx)
}

// Iter visits members in ascending square order.
func (b SquareSet) Iter(fn func(Square)) {
	bb := b
	for bb != 0 {
		sq, rest := bb.PopLSB()
		fn(sq)
		bb = rest
	}
}

func (b SquareSet) Squares() []Square {
	out := make([]Square, 0, b.Len())
	b.Iter(func(sq Square) { out = append(out, sq) })
	return out
}
