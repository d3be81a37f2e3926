package chess

import (
	"fmt"
	"strconv"
	"strings"
)

var fenPieceChars = map[byte]Piece{
	'P': WPawn, 'N': WKnight, 'B': WBishop, 'R': WRook, 'Q': WQueen, 'K': WKing,
	'p': BPawn, 'n': BKnight, 'b': BBishop, 'r': BRook, 'q': BQueen, 'k': BKing,
}

var pieceFenChars = map[Piece]byte{
	WKing: 'K', WQueen: 'Q', WRook: 'R', WBishop: 'B', WKnight: 'N', WPawn: 'P',
	BKing: 'k', BQueen: 'q', BRook: 'r', BBishop: 'b', BKnight: 'n', BPawn: 'p',
}

// ParseFEN builds a Board from a FEN string. It returns an error for a
// structurally malformed FEN; it does not validate chess-legality of the
// described position (e.g. two kings of the same color).
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 4 {
		return nil, fmt.Errorf("chess: invalid FEN %q: expected at least 4 fields, got %d", fen, len(fields))
	}

	b := &Board{epTarget: NoSquare, fullMoves: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("chess: invalid FEN %q: expected 8 ranks, got %d", fen, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range []byte(rankStr) {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p, ok := fenPieceChars[ch]
			if !ok {
				return nil, fmt.Errorf("chess: invalid FEN %q: unknown piece char %q", fen, string(ch))
			}
			if file > 7 {
				return nil, fmt.Errorf("chess: invalid FEN %q: rank %d overflows", fen, i)
			}
			sq := FromRankFile(rank, file)
			b.squares[sq] = p
			if p == WKing {
				b.kingSquare[White] = sq
			} else if p == BKing {
				b.kingSquare[Black] = sq
			}
			file++
		}
	}

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fmt.Errorf("chess: invalid FEN %q: bad side-to-move field %q", fen, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range []byte(fields[2]) {
			switch ch {
			case 'K':
				b.castling |= CastleWK
			case 'Q':
				b.castling |= CastleWQ
			case 'k':
				b.castling |= CastleBK
			case 'q':
				b.castling |= CastleBQ
			default:
				return nil, fmt.Errorf("chess: invalid FEN %q: bad castling char %q", fen, string(ch))
			}
		}
	}

	if fields[3] != "-" {
		sq, err := parseSquareName(fields[3])
		if err != nil {
			return nil, fmt.Errorf("chess: invalid FEN %q: %w", fen, err)
		}
		b.epTarget = sq
	}

	if len(fields) >= 5 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("chess: invalid FEN %q: bad halfmove clock: %w", fen, err)
		}
		b.halfMoves = n
	}
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("chess: invalid FEN %q: bad fullmove number: %w", fen, err)
		}
		b.fullMoves = n
	}

	return b, nil
}

func parseSquareName(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	return FromRankFile(rank, file), nil
}

func squareName(sq Square) string {
	return string([]byte{"abcdefgh"[sq.File()], "12345678"[sq.Rank()]})
}

// FEN serializes the position back to Forsyth-Edwards notation.
func (b *Board) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.squares[FromRankFile(rank, file)]
			if p == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pieceFenChars[p])
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	castling := ""
	if b.castling&CastleWK != 0 {
		castling += "K"
	}
	if b.castling&CastleWQ != 0 {
		castling += "Q"
	}
	if b.castling&CastleBK != 0 {
		castling += "k"
	}
	if b.castling&CastleBQ != 0 {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)
	sb.WriteByte(' ')

	if b.epTarget == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(squareName(b.epTarget))
	}

	fmt.Fprintf(&sb, " %d %d", b.halfMoves, b.fullMoves)
	return sb.String()
}
