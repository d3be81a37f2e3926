// Package game is the GameAdapter abstraction layer the MCTS core depends
// on (spec §4.1): legal-move enumeration, move application, terminal
// detection, side-to-move, and random rollout, all expressed generically
// enough that a concrete rules engine (chess, today) plugs in without the
// search package ever downcasting to it.
package game

import (
	"fmt"
	"math/rand"

	"github.com/AdKamat2411/ChessMirror/chess"
)

// Side is a globally fixed reference frame (spec's SideA/SideB), used to
// express every value scalar in the tree consistently regardless of whose
// turn it is at a given node.
type Side uint8

const (
	SideA Side = iota // White
	SideB             // Black
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	return 1 - s
}

// Result is the outcome of a terminal position.
type Result int

const (
	SideAWins Result = iota
	SideBWins
	Draw
)

// Value converts a terminal Result into the SideA-perspective scalar used
// throughout the tree: 1.0, 0.0, or 0.5.
func (r Result) Value() float64 {
	switch r {
	case SideAWins:
		return 1.0
	case SideBWins:
		return 0.0
	default:
		return 0.5
	}
}

// Move is an opaque, equality-comparable, UCI-stringable move. The UCI
// string returned here MUST be identical to the key the Evaluator uses
// for that same edge; nothing revalidates this at runtime.
type Move interface {
	UCI() string
	Equals(other Move) bool
}

// ChessMove adapts chess.Move to the Move interface.
type ChessMove struct {
	Move chess.Move
}

// UCI returns the move's UCI string.
func (m ChessMove) UCI() string { return m.Move.UCI() }

// Equals reports whether other is the same move.
func (m ChessMove) Equals(other Move) bool {
	o, ok := other.(ChessMove)
	return ok && o.Move == m.Move
}

// Position is an opaque board state: side to move, terminal detection,
// legal moves, and copy-then-apply. Implementations must never mutate
// the receiver in Apply.
type Position interface {
	SideToMove() Side
	IsTerminal() bool
	// TerminalResult is only valid when IsTerminal reports true.
	TerminalResult() Result
	LegalMoves() []Move
	Apply(m Move) Position
	FEN() string
}

// ChessPosition adapts *chess.Board to the Position interface.
type ChessPosition struct {
	Board *chess.Board
}

// NewChessPosition wraps a chess board.
func NewChessPosition(b *chess.Board) ChessPosition {
	return ChessPosition{Board: b}
}

// ParsePosition parses a FEN string into a Position.
func ParsePosition(fen string) (Position, error) {
	b, err := chess.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	return ChessPosition{Board: b}, nil
}

// SideToMove returns SideA for White, SideB for Black.
func (p ChessPosition) SideToMove() Side {
	if p.Board.SideToMove() == chess.White {
		return SideA
	}
	return SideB
}

// IsTerminal reports checkmate, stalemate, or a tracked draw condition.
func (p ChessPosition) IsTerminal() bool {
	return p.Board.IsTerminal()
}

// TerminalResult reports the game outcome; only meaningful when
// IsTerminal() is true. Checkmate credits the side that delivered it
// (the side NOT to move), matching the convention that side-to-move is
// the side that has just been mated.
func (p ChessPosition) TerminalResult() Result {
	if p.Board.IsCheckmate() {
		if p.Board.SideToMove() == chess.White {
			return SideBWins // White to move and mated -> Black won
		}
		return SideAWins
	}
	return Draw
}

// LegalMoves returns the legal moves, board-scan order (deterministic).
func (p ChessPosition) LegalMoves() []Move {
	legal := p.Board.LegalMoves()
	moves := make([]Move, len(legal))
	for i, m := range legal {
		moves[i] = ChessMove{Move: m}
	}
	return moves
}

// Apply returns the position after playing m; p is never mutated.
func (p ChessPosition) Apply(m Move) Position {
	cm, ok := m.(ChessMove)
	if !ok {
		panic(fmt.Sprintf("game: Apply called with non-chess move %T", m))
	}
	return ChessPosition{Board: p.Board.Apply(cm.Move)}
}

// FEN returns the position's FEN string.
func (p ChessPosition) FEN() string {
	return p.Board.FEN()
}

// RolloutDepthCap bounds how many random plies a rollout plays before
// falling back to the material heuristic (spec §4.1: 500 for chess).
const RolloutDepthCap = 500

// Adapter is the GameAdapter contract the search package depends on.
type Adapter interface {
	LegalMoves(pos Position) []Move
	Apply(pos Position, m Move) Position
	IsTerminal(pos Position) bool
	TerminalResult(pos Position) Result
	SideToMove(pos Position) Side
	// Rollout plays random legal moves up to RolloutDepthCap plies and
	// returns a SideA-perspective value in [0,1]: the exact terminal
	// score if the game ended, otherwise a bounded material heuristic.
	Rollout(pos Position, rng *rand.Rand) float64
}

// ChessAdapter is the sole concrete Adapter, instantiating the core for
// chess.
type ChessAdapter struct{}

// NewChessAdapter returns a chess GameAdapter.
func NewChessAdapter() ChessAdapter {
	return ChessAdapter{}
}

// LegalMoves delegates to the position.
func (ChessAdapter) LegalMoves(pos Position) []Move { return pos.LegalMoves() }

// Apply delegates to the position.
func (ChessAdapter) Apply(pos Position, m Move) Position { return pos.Apply(m) }

// IsTerminal delegates to the position.
func (ChessAdapter) IsTerminal(pos Position) bool { return pos.IsTerminal() }

// TerminalResult delegates to the position.
func (ChessAdapter) TerminalResult(pos Position) Result { return pos.TerminalResult() }

// SideToMove delegates to the position.
func (ChessAdapter) SideToMove(pos Position) Side { return pos.SideToMove() }

// Rollout plays up to RolloutDepthCap random legal moves from pos.
func (a ChessAdapter) Rollout(pos Position, rng *rand.Rand) float64 {
	current := pos
	for depth := 0; depth < RolloutDepthCap; depth++ {
		if current.IsTerminal() {
			return current.TerminalResult().Value()
		}
		moves := current.LegalMoves()
		if len(moves) == 0 {
			return current.TerminalResult().Value()
		}
		move := moves[rng.Intn(len(moves))]
		current = current.Apply(move)
	}
	if current.IsTerminal() {
		return current.TerminalResult().Value()
	}
	return materialHeuristic(current)
}

// materialHeuristic converts a cutoff rollout's material balance into a
// bounded [0,1] SideA-perspective score via a linear map clamped at +-10
// pawns, so large imbalances saturate rather than overflow the [0,1]
// contract.
func materialHeuristic(pos Position) float64 {
	cp, ok := pos.(ChessPosition)
	if !ok {
		return 0.5
	}
	whiteScore := cp.Board.MaterialScore(chess.White)
	// MaterialScore is already signed from White's perspective when
	// asked from White; squash with a fixed scale of 10 pawns.
	normalized := whiteScore / 10.0
	if normalized > 1 {
		normalized = 1
	} else if normalized < -1 {
		normalized = -1
	}
	return (normalized + 1) / 2
}
