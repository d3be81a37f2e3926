package chess

import "fmt"

var promotionChars = map[Piece]byte{
	WQueen: 'q', WRook: 'r', WBishop: 'b', WKnight: 'n',
	BQueen: 'q', BRook: 'r', BBishop: 'b', BKnight: 'n',
}

var promotionByChar = map[byte]struct {
	white Piece
	black Piece
}{
	'q': {WQueen, BQueen},
	'r': {WRook, BRook},
	'b': {WBishop, BBishop},
	'n': {WKnight, BKnight},
}

// UCI returns the move in Universal Chess Interface notation, e.g. "e2e4"
// or "e7e8q". This string is the exact key the evaluator uses for policy
// lookup and the exact key SearchNode uses for prior lookup; it must never
// diverge from ParseUCI's inverse.
func (m Move) UCI() string {
	s := squareName(m.From) + squareName(m.To)
	if m.Promotion != Empty {
		if c, ok := promotionChars[m.Promotion]; ok {
			s += string(c)
		}
	}
	return s
}

// ParseUCI parses a UCI move string against mover (needed to resolve the
// promotion piece's color, since UCI promotion letters are colorless).
func ParseUCI(s string, mover Color) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return Move{}, fmt.Errorf("chess: invalid UCI move %q", s)
	}
	from, err := parseSquareName(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("chess: invalid UCI move %q: %w", s, err)
	}
	to, err := parseSquareName(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("chess: invalid UCI move %q: %w", s, err)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		promo, ok := promotionByChar[s[4]]
		if !ok {
			return Move{}, fmt.Errorf("chess: invalid UCI move %q: unknown promotion piece %q", s, string(s[4]))
		}
		if mover == White {
			m.Promotion = promo.white
		} else {
			m.Promotion = promo.black
		}
	}
	return m, nil
}
