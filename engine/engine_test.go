package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewSearchRejectsInvalidFEN(t *testing.T) {
	_, err := NewSearch("not a fen")
	require.Error(t, err)
}

func TestBestMoveFindsForcedMate(t *testing.T) {
	s, err := NewSearch("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
		WithMaxIterations(300), WithMaxDuration(2*time.Second))
	require.NoError(t, err)

	move, summary, err := s.BestMove(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a1a8", move)
	require.Greater(t, summary.IterationsRun, 0)
}

func TestAdvanceReusesTreeAcrossMoves(t *testing.T) {
	s, err := NewSearch("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		WithMaxIterations(100), WithMaxDuration(2*time.Second))
	require.NoError(t, err)

	move, _, err := s.BestMove(context.Background())
	require.NoError(t, err)

	err = s.Advance(move)
	require.NoError(t, err)
	require.NotEqual(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", s.FEN())
}

func TestAdvanceRejectsIllegalMove(t *testing.T) {
	s, err := NewSearch("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		WithMaxIterations(50), WithMaxDuration(time.Second))
	require.NoError(t, err)

	err = s.Advance("a1a8")
	require.Error(t, err)
}
