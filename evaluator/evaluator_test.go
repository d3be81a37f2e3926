package evaluator

import (
	"testing"

	"github.com/AdKamat2411/ChessMirror/chess"
	"github.com/AdKamat2411/ChessMirror/game"
	"github.com/stretchr/testify/require"
)

func TestEncodeBoardStartingPositionOccupancy(t *testing.T) {
	b := chess.NewBoard()
	enc := EncodeBoard(b)
	require.Len(t, enc, InputSize)

	occupied := 0
	for _, v := range enc {
		if v == 1.0 {
			occupied++
		}
	}
	require.Equal(t, 32, occupied)

	// White pawn plane (0) should have exactly the 8 pawns on rank 2.
	whitePawnPlane := enc[0*64 : 1*64]
	count := 0
	for sq := 8; sq < 16; sq++ {
		if whitePawnPlane[sq] == 1.0 {
			count++
		}
	}
	require.Equal(t, 8, count)
}

func TestToSideAValueFlipsForBlackToMove(t *testing.T) {
	require.Equal(t, 1.0, toSideAValue(1.0, game.SideA))
	require.Equal(t, 0.0, toSideAValue(-1.0, game.SideA))
	require.Equal(t, 0.0, toSideAValue(1.0, game.SideB))
	require.Equal(t, 1.0, toSideAValue(-1.0, game.SideB))
	require.InDelta(t, 0.5, toSideAValue(0.0, game.SideA), 1e-9)
}

func TestToPriorsNormalizesOverLegalMovesOnly(t *testing.T) {
	pos, err := game.ParsePosition("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	logits := make([]float32, PolicySize)
	priors := toPriors(logits, pos)

	require.Len(t, priors, 20)
	sum := 0.0
	for _, p := range priors {
		sum += p
	}
	require.InDelta(t, 1.0, sum, 1e-6)
	for _, p := range priors {
		require.InDelta(t, 1.0/20.0, p, 1e-9)
	}
}

func TestToPriorsSharesPromotionMassEqually(t *testing.T) {
	pos, err := game.ParsePosition("8/P6k/8/8/8/8/7p/7K w - - 0 1")
	require.NoError(t, err)

	logits := make([]float32, PolicySize)
	priors := toPriors(logits, pos)

	// a7a8 has four legal promotion choices sharing one policy slot.
	sum := 0.0
	for _, m := range pos.LegalMoves() {
		uci := m.UCI()
		if len(uci) == 5 && uci[:4] == "a7a8" {
			sum += priors[uci]
		}
	}
	require.Greater(t, sum, 0.0)

	total := 0.0
	for _, p := range priors {
		total += p
	}
	require.InDelta(t, 1.0, total, 1e-6)
}

func TestToPriorsFallsBackToUniformOnNonFiniteLogits(t *testing.T) {
	pos, err := game.ParsePosition("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	logits := make([]float32, PolicySize)
	for i := range logits {
		logits[i] = float32(nan())
	}
	priors := toPriors(logits, pos)
	require.Len(t, priors, 20)
	for _, p := range priors {
		require.InDelta(t, 1.0/20.0, p, 1e-9)
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}
