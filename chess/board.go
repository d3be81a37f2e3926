package chess

// Board is a chess position. The zero value is not valid; use NewBoard or
// ParseFEN. Board is treated as immutable by every exported operation
// except construction: Apply always returns a fresh *Board.
type Board struct {
	squares    [64]Piece
	sideToMove Color
	castling   uint8
	epTarget   Square
	halfMoves  int
	fullMoves  int
	kingSquare [2]Square
}

// NewBoard returns the standard chess starting position.
func NewBoard() *Board {
	b := &Board{
		sideToMove: White,
		castling:   CastleWK | CastleWQ | CastleBK | CastleBQ,
		epTarget:   NoSquare,
		halfMoves:  0,
		fullMoves:  1,
	}
	backRank := [8]Piece{WRook, WKnight, WBishop, WQueen, WKing, WBishop, WKnight, WRook}
	for i, p := range backRank {
		b.squares[i] = p
		b.squares[56+i] = p + (BPawn - WPawn)
	}
	for i := 0; i < 8; i++ {
		b.squares[8+i] = WPawn
		b.squares[48+i] = BPawn
	}
	b.kingSquare[White] = 4
	b.kingSquare[Black] = 60
	return b
}

// Copy returns an independent deep copy (Board has no reference fields,
// so a value copy already suffices, but this keeps the call site explicit
// at apply boundaries).
func (b *Board) Copy() *Board {
	cp := *b
	return &cp
}

// PieceAt returns the piece occupying sq, or Empty for an empty or
// off-board square.
func (b *Board) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return Empty
	}
	return b.squares[sq]
}

// SideToMove returns the color to move.
func (b *Board) SideToMove() Color { return b.sideToMove }

// EnPassant returns the current en passant target square, or NoSquare.
func (b *Board) EnPassant() Square { return b.epTarget }

// Castling returns the raw castling-rights bitmask.
func (b *Board) Castling() uint8 { return b.castling }

// HalfMoveClock returns the half-move clock used for the 50-move rule.
func (b *Board) HalfMoveClock() int { return b.halfMoves }

// KingSquare returns the square of the given color's king.
func (b *Board) KingSquare(c Color) Square { return b.kingSquare[c] }

var (
	rookDirs   = [4]int{-8, 8, -1, 1}
	bishopDirs = [4]int{-9, -7, 7, 9}
	knightDirs = [8]int{-17, -15, -10, -6, 6, 10, 15, 17}
	kingDirs   = [8]int{-9, -8, -7, -1, 1, 7, 8, 9}
)

// PseudoLegalMoves generates all moves for the side to move without
// filtering moves that leave the mover's own king in check.
func (b *Board) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 48)
	us := b.sideToMove
	them := us.Opponent()

	for sq := Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		if p == Empty || p.Color() != us {
			continue
		}
		switch p.PlaneIndex() {
		case 0: // pawn
			moves = b.genPawnMoves(sq, us, moves)
		case 1: // knight
			moves = b.genStepMoves(sq, us, knightDirs[:], moves, true)
		case 2: // bishop
			moves = b.genSlidingMoves(sq, us, bishopDirs[:], moves)
		case 3: // rook
			moves = b.genSlidingMoves(sq, us, rookDirs[:], moves)
		case 4: // queen
			moves = b.genSlidingMoves(sq, us, bishopDirs[:], moves)
			moves = b.genSlidingMoves(sq, us, rookDirs[:], moves)
		case 5: // king
			moves = b.genStepMoves(sq, us, kingDirs[:], moves, false)
			moves = b.genCastling(sq, us, them, moves)
		}
	}
	return moves
}

func (b *Board) genPawnMoves(sq Square, c Color, moves []Move) []Move {
	rank, file := sq.Rank(), sq.File()

	var dir, startRank, promoRank int
	var promoPieces [4]Piece
	if c == White {
		dir, startRank, promoRank = 8, 1, 7
		promoPieces = [4]Piece{WQueen, WRook, WBishop, WKnight}
	} else {
		dir, startRank, promoRank = -8, 6, 0
		promoPieces = [4]Piece{BQueen, BRook, BBishop, BKnight}
	}

	to := sq + Square(dir)
	if to.IsValid() && b.PieceAt(to) == Empty {
		moves = appendPawnMove(moves, sq, to, promoRank, promoPieces)
		if rank == startRank {
			to2 := sq + Square(2*dir)
			if b.PieceAt(to2) == Empty {
				moves = append(moves, Move{From: sq, To: to2})
			}
		}
	}

	for _, capDir := range [2]int{dir - 1, dir + 1} {
		capTo := sq + Square(capDir)
		if !capTo.IsValid() || abs(capTo.File()-file) != 1 {
			continue
		}
		target := b.PieceAt(capTo)
		isEnemy := target != Empty && target.Color() != c
		isEP := capTo == b.epTarget
		if isEnemy || isEP {
			moves = appendPawnMove(moves, sq, capTo, promoRank, promoPieces)
		}
	}
	return moves
}

func appendPawnMove(moves []Move, from, to Square, promoRank int, promoPieces [4]Piece) []Move {
	if to.Rank() == promoRank {
		for _, promo := range promoPieces {
			moves = append(moves, Move{From: from, To: to, Promotion: promo})
		}
		return moves
	}
	return append(moves, Move{From: from, To: to})
}

// genStepMoves handles single-step movers: knights (mustHop=true, skips
// the usual adjacency check since knight geometry is checked instead) and
// kings (mustHop=false).
func (b *Board) genStepMoves(sq Square, c Color, dirs []int, moves []Move, mustHop bool) []Move {
	rank, file := sq.Rank(), sq.File()
	for _, dir := range dirs {
		to := sq + Square(dir)
		if !to.IsValid() {
			continue
		}
		dr, df := abs(to.Rank()-rank), abs(to.File()-file)
		if mustHop {
			if !((dr == 2 && df == 1) || (dr == 1 && df == 2)) {
				continue
			}
		} else if dr > 1 || df > 1 {
			continue
		}
		target := b.PieceAt(to)
		if target == Empty || target.Color() != c {
			moves = append(moves, Move{From: sq, To: to})
		}
	}
	return moves
}

func (b *Board) genSlidingMoves(sq Square, c Color, dirs []int, moves []Move) []Move {
	for _, dir := range dirs {
		from := sq
		for {
			prevRank, prevFile := from.Rank(), from.File()
			to := from + Square(dir)
			if !to.IsValid() || abs(to.Rank()-prevRank) > 1 || abs(to.File()-prevFile) > 1 {
				break
			}
			target := b.PieceAt(to)
			if target == Empty {
				moves = append(moves, Move{From: sq, To: to})
				from = to
				continue
			}
			if target.Color() != c {
				moves = append(moves, Move{From: sq, To: to})
			}
			break
		}
	}
	return moves
}

func (b *Board) genCastling(sq Square, us, them Color, moves []Move) []Move {
	if us == White && sq == 4 {
		if b.castling&CastleWK != 0 && b.PieceAt(5) == Empty && b.PieceAt(6) == Empty &&
			!b.IsAttacked(4, them) && !b.IsAttacked(5, them) && !b.IsAttacked(6, them) {
			moves = append(moves, Move{From: 4, To: 6})
		}
		if b.castling&CastleWQ != 0 && b.PieceAt(1) == Empty && b.PieceAt(2) == Empty && b.PieceAt(3) == Empty &&
			!b.IsAttacked(4, them) && !b.IsAttacked(3, them) && !b.IsAttacked(2, them) {
			moves = append(moves, Move{From: 4, To: 2})
		}
	}
	if us == Black && sq == 60 {
		if b.castling&CastleBK != 0 && b.PieceAt(61) == Empty && b.PieceAt(62) == Empty &&
			!b.IsAttacked(60, them) && !b.IsAttacked(61, them) && !b.IsAttacked(62, them) {
			moves = append(moves, Move{From: 60, To: 62})
		}
		if b.castling&CastleBQ != 0 && b.PieceAt(57) == Empty && b.PieceAt(58) == Empty && b.PieceAt(59) == Empty &&
			!b.IsAttacked(60, them) && !b.IsAttacked(59, them) && !b.IsAttacked(58, them) {
			moves = append(moves, Move{From: 60, To: 58})
		}
	}
	return moves
}

// IsAttacked reports whether sq is attacked by any piece of color by.
func (b *Board) IsAttacked(sq Square, by Color) bool {
	var pawnDir int
	var enemyPawn Piece
	if by == White {
		pawnDir, enemyPawn = -8, WPawn
	} else {
		pawnDir, enemyPawn = 8, BPawn
	}
	for _, fd := range [2]int{-1, 1} {
		from := sq + Square(pawnDir+fd)
		if from.IsValid() && abs(from.File()-sq.File()) == 1 && b.PieceAt(from) == enemyPawn {
			return true
		}
	}

	enemyKnight := Piece(WKnight)
	if by == Black {
		enemyKnight = BKnight
	}
	for _, dir := range knightDirs {
		from := sq + Square(dir)
		if !from.IsValid() {
			continue
		}
		dr, df := abs(from.Rank()-sq.Rank()), abs(from.File()-sq.File())
		if (dr == 2 && df == 1) || (dr == 1 && df == 2) {
			if b.PieceAt(from) == enemyKnight {
				return true
			}
		}
	}

	enemyKing := Piece(WKing)
	if by == Black {
		enemyKing = BKing
	}
	for _, dir := range kingDirs {
		from := sq + Square(dir)
		if from.IsValid() && abs(from.Rank()-sq.Rank()) <= 1 && abs(from.File()-sq.File()) <= 1 {
			if b.PieceAt(from) == enemyKing {
				return true
			}
		}
	}

	enemyRook, enemyQueen, enemyBishop := Piece(WRook), Piece(WQueen), Piece(WBishop)
	if by == Black {
		enemyRook, enemyQueen, enemyBishop = BRook, BQueen, BBishop
	}
	for _, dir := range rookDirs {
		if b.slidingAttack(sq, dir, enemyRook, enemyQueen) {
			return true
		}
	}
	for _, dir := range bishopDirs {
		if b.slidingAttack(sq, dir, enemyBishop, enemyQueen) {
			return true
		}
	}
	return false
}

func (b *Board) slidingAttack(sq Square, dir int, slider1, slider2 Piece) bool {
	from := sq
	for {
		prevRank, prevFile := from.Rank(), from.File()
		to := from + Square(dir)
		if !to.IsValid() || abs(to.Rank()-prevRank) > 1 || abs(to.File()-prevFile) > 1 {
			return false
		}
		p := b.PieceAt(to)
		if p == Empty {
			from = to
			continue
		}
		return p == slider1 || p == slider2
	}
}

// InCheck reports whether c's king is currently attacked.
func (b *Board) InCheck(c Color) bool {
	return b.IsAttacked(b.kingSquare[c], c.Opponent())
}

// LegalMoves returns the pseudo-legal moves that do not leave the mover's
// own king in check. Order follows PseudoLegalMoves's board-scan order,
// which is deterministic for a given position as required by the
// GameAdapter contract.
func (b *Board) LegalMoves() []Move {
	pseudo := b.PseudoLegalMoves()
	legal := make([]Move, 0, len(pseudo))
	us := b.sideToMove
	for _, m := range pseudo {
		next := b.Apply(m)
		if !next.IsAttacked(next.kingSquare[us], us.Opponent()) {
			legal = append(legal, m)
		}
	}
	return legal
}

// Apply returns a new Board with m played; the receiver is never mutated.
func (b *Board) Apply(m Move) *Board {
	next := b.Copy()
	piece := b.squares[m.From]
	us := b.sideToMove
	them := us.Opponent()

	captured := b.squares[m.To]
	isEP := (piece == WPawn || piece == BPawn) && m.To == b.epTarget && captured == Empty

	next.squares[m.From] = Empty
	if isEP {
		capSq := m.To - 8
		if us == Black {
			capSq = m.To + 8
		}
		next.squares[capSq] = Empty
	}

	placed := piece
	if m.Promotion != Empty {
		placed = m.Promotion
	}
	next.squares[m.To] = placed

	if piece == WKing {
		next.kingSquare[White] = m.To
		if m.From == 4 && m.To == 6 {
			next.squares[7], next.squares[5] = Empty, WRook
		} else if m.From == 4 && m.To == 2 {
			next.squares[0], next.squares[3] = Empty, WRook
		}
	} else if piece == BKing {
		next.kingSquare[Black] = m.To
		if m.From == 60 && m.To == 62 {
			next.squares[63], next.squares[61] = Empty, BRook
		} else if m.From == 60 && m.To == 58 {
			next.squares[56], next.squares[59] = Empty, BRook
		}
	}

	next.castling = updateCastlingRights(b.castling, m.From, m.To)

	if (piece == WPawn || piece == BPawn) && abs(int(m.To)-int(m.From)) == 16 {
		mid := (m.From + m.To) / 2
		next.epTarget = mid
	} else {
		next.epTarget = NoSquare
	}

	if piece == WPawn || piece == BPawn || captured != Empty || isEP {
		next.halfMoves = 0
	} else {
		next.halfMoves = b.halfMoves + 1
	}

	if us == Black {
		next.fullMoves = b.fullMoves + 1
	}
	next.sideToMove = them

	return next
}

func updateCastlingRights(rights uint8, from, to Square) uint8 {
	switch from {
	case 4:
		rights &^= CastleWK | CastleWQ
	case 60:
		rights &^= CastleBK | CastleBQ
	case 0:
		rights &^= CastleWQ
	case 7:
		rights &^= CastleWK
	case 56:
		rights &^= CastleBQ
	case 63:
		rights &^= CastleBK
	}
	switch to {
	case 0:
		rights &^= CastleWQ
	case 7:
		rights &^= CastleWK
	case 56:
		rights &^= CastleBQ
	case 63:
		rights &^= CastleBK
	}
	return rights
}

// IsCheckmate reports whether the side to move is in check with no legal
// moves.
func (b *Board) IsCheckmate() bool {
	return b.InCheck(b.sideToMove) && len(b.LegalMoves()) == 0
}

// IsStalemate reports whether the side to move is not in check but has no
// legal moves.
func (b *Board) IsStalemate() bool {
	return !b.InCheck(b.sideToMove) && len(b.LegalMoves()) == 0
}

// IsDraw reports the fifty-move rule or insufficient material, the two
// draw conditions this package tracks without external move history.
func (b *Board) IsDraw() bool {
	return b.halfMoves >= 100 || b.hasInsufficientMaterial()
}

func (b *Board) hasInsufficientMaterial() bool {
	var minorCount [2]int
	for sq := Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		switch p {
		case Empty, WKing, BKing:
			continue
		case WPawn, BPawn, WRook, BRook, WQueen, BQueen:
			return false
		case WBishop, WKnight:
			minorCount[White]++
		case BBishop, BKnight:
			minorCount[Black]++
		}
		if minorCount[White] > 1 || minorCount[Black] > 1 {
			return false
		}
	}
	return true
}

// IsTerminal reports whether the game has ended at this position.
func (b *Board) IsTerminal() bool {
	return b.IsDraw() || len(b.LegalMoves()) == 0
}

// MaterialScore returns a material-only evaluation from c's perspective,
// in pawn units, used by the rollout heuristic.
func (b *Board) MaterialScore(c Color) float64 {
	values := map[Piece]float64{
		WPawn: 1, BPawn: 1,
		WKnight: 3, BKnight: 3,
		WBishop: 3, BBishop: 3,
		WRook: 5, BRook: 5,
		WQueen: 9, BQueen: 9,
	}
	var score float64
	for sq := Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		v, ok := values[p]
		if !ok {
			continue
		}
		if p.Color() == c {
			score += v
		} else {
			score -= v
		}
	}
	return score
}
