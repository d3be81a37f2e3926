package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePositionStartingFEN(t *testing.T) {
	pos, err := ParsePosition("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)
	require.Equal(t, SideA, pos.SideToMove())
	require.False(t, pos.IsTerminal())
	require.Len(t, pos.LegalMoves(), 20)
}

func TestParsePositionInvalidFEN(t *testing.T) {
	_, err := ParsePosition("not a fen")
	require.Error(t, err)
}

func TestApplyReturnsFreshPosition(t *testing.T) {
	pos, err := ParsePosition("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	moves := pos.LegalMoves()
	require.NotEmpty(t, moves)
	next := pos.Apply(moves[0])

	require.Equal(t, SideA, pos.SideToMove(), "original position must be unchanged")
	require.Equal(t, SideB, next.SideToMove())
}

func TestTerminalResultCheckmate(t *testing.T) {
	pos, err := ParsePosition("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	moves := pos.LegalMoves()
	var mateMove Move
	for _, m := range moves {
		if m.UCI() == "a1a8" {
			mateMove = m
		}
	}
	require.NotNil(t, mateMove)

	after := pos.Apply(mateMove)
	require.True(t, after.IsTerminal())
	require.Equal(t, SideAWins, after.TerminalResult())
	require.Equal(t, 1.0, after.TerminalResult().Value())
}

func TestStalemateIsTerminalDraw(t *testing.T) {
	pos, err := ParsePosition("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)

	require.True(t, pos.IsTerminal())
	require.Empty(t, pos.LegalMoves())
}

func TestRolloutTerminatesAndReturnsBoundedValue(t *testing.T) {
	pos, err := ParsePosition("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	adapter := NewChessAdapter()
	rng := rand.New(rand.NewSource(1))
	value := adapter.Rollout(pos, rng)

	require.GreaterOrEqual(t, value, 0.0)
	require.LessOrEqual(t, value, 1.0)
}

func TestChessMoveEquals(t *testing.T) {
	pos, err := ParsePosition("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	moves := pos.LegalMoves()
	require.True(t, moves[0].Equals(moves[0]))
	if len(moves) > 1 {
		require.False(t, moves[0].Equals(moves[1]))
	}
}
