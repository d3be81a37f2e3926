package searcher

import (
	"math/rand"
	"testing"

	"github.com/AdKamat2411/ChessMirror/game"
	"github.com/stretchr/testify/require"
)

func TestSelectBestChildPanicsWithoutChildren(t *testing.T) {
	root, _ := newTestRoot(t, startFEN)
	root.Evaluate(nil)
	require.Panics(t, func() { root.SelectBestChild(DefaultCpuct) })
}

func TestSelectBestChildPanicsWhenUnevaluated(t *testing.T) {
	root, _ := newTestRoot(t, startFEN)
	root.Expand()
	require.Panics(t, func() { root.SelectBestChild(DefaultCpuct) })
}

func TestSelectBestChildPrefersHigherPriorWhenUnvisited(t *testing.T) {
	root, _ := newTestRoot(t, startFEN)
	a := root.Expand()
	b := root.Expand()

	priors := map[string]float64{
		a.IncomingMove().UCI(): 0.9,
		b.IncomingMove().UCI(): 0.1,
	}
	root.evaluation = &NodeEvaluation{Priors: priors, Value: 0.5}
	root.visits = 1

	best := root.SelectBestChild(DefaultCpuct)
	require.Same(t, a, best)
}

func TestSelectBestChildFallsBackToUCTWithZeroPriors(t *testing.T) {
	root, _ := newTestRoot(t, startFEN)
	a := root.Expand()
	b := root.Expand()
	root.evaluation = &NodeEvaluation{Priors: map[string]float64{}, Value: 0.5}
	root.visits = 10

	a.visits, a.score = 4, 1.0 // low win rate, more visits
	b.visits, b.score = 1, 0.9 // high win rate, one visit

	best := root.SelectBestChild(DefaultCpuct)
	require.NotNil(t, best)
}

func TestSelectBestChildFlipsQForBlackToMove(t *testing.T) {
	pos, err := game.ParsePosition("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	require.NoError(t, err)
	adapter := game.NewChessAdapter()
	root := NewRoot(pos, adapter, rand.New(rand.NewSource(3)))

	a := root.Expand()
	b := root.Expand()
	root.evaluation = &NodeEvaluation{Priors: map[string]float64{}, Value: 0.5}
	root.visits = 2

	// a has a high SideA-perspective score (bad for Black); b has a low
	// one (good for Black). Black to move should prefer b.
	a.visits, a.score = 1, 0.95
	b.visits, b.score = 1, 0.05

	best := root.SelectBestChild(DefaultCpuct)
	require.Same(t, b, best)
}
