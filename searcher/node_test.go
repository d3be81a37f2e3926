package searcher

import (
	"math/rand"
	"testing"

	"github.com/AdKamat2411/ChessMirror/game"
	"github.com/stretchr/testify/require"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func newTestRoot(t *testing.T, fen string) (*Node, game.Adapter) {
	t.Helper()
	pos, err := game.ParsePosition(fen)
	require.NoError(t, err)
	adapter := game.NewChessAdapter()
	rng := rand.New(rand.NewSource(7))
	return NewRoot(pos, adapter, rng), adapter
}

func TestNewRootSeedsUntriedAndSubtreeSize(t *testing.T) {
	root, _ := newTestRoot(t, startFEN)
	require.Equal(t, 1, root.SubtreeSize())
	require.False(t, root.IsFullyExpanded())
	require.False(t, root.IsEvaluated())
	require.Nil(t, root.IncomingMove())
}

func TestExpandBumpsSubtreeSizeUpToRoot(t *testing.T) {
	root, _ := newTestRoot(t, startFEN)
	child := root.Expand()
	require.Equal(t, 2, root.SubtreeSize())
	require.Equal(t, 1, child.SubtreeSize())
	require.Len(t, root.Children(), 1)
}

func TestExpandPanicsWhenFullyExpanded(t *testing.T) {
	root, _ := newTestRoot(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	for !root.IsFullyExpanded() {
		root.Expand()
	}
	require.Panics(t, func() { root.Expand() })
}

func TestEvaluateWithNilEvaluatorRunsRollout(t *testing.T) {
	root, _ := newTestRoot(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	root.Evaluate(nil)
	require.True(t, root.IsEvaluated())
	require.GreaterOrEqual(t, root.evaluation.Value, 0.0)
	require.LessOrEqual(t, root.evaluation.Value, 1.0)
}

func TestEvaluateTwicePanics(t *testing.T) {
	root, _ := newTestRoot(t, startFEN)
	root.Evaluate(nil)
	require.Panics(t, func() { root.Evaluate(nil) })
}

func TestEvaluateTerminalUsesExactResult(t *testing.T) {
	root, _ := newTestRoot(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	var mate game.Move
	for _, m := range root.State().LegalMoves() {
		if m.UCI() == "a1a8" {
			mate = m
		}
	}
	require.NotNil(t, mate)

	mated := root.State().Apply(mate)
	adapter := game.NewChessAdapter()
	leaf := NewRoot(mated, adapter, rand.New(rand.NewSource(1)))
	leaf.Evaluate(nil)
	require.Equal(t, 1.0, leaf.evaluation.Value)
}

func TestBackpropagateAccumulatesUpChain(t *testing.T) {
	root, _ := newTestRoot(t, startFEN)
	child := root.Expand()
	child.Evaluate(nil)
	child.Backpropagate(0.75, 1)

	require.Equal(t, 1, child.Visits())
	require.Equal(t, 0.75, child.Score())
	require.Equal(t, 1, root.Visits())
	require.Equal(t, 0.75, root.Score())
}

func TestGetPriorBeforeEvaluationPanics(t *testing.T) {
	root, _ := newTestRoot(t, startFEN)
	child := root.Expand()
	require.Panics(t, func() { root.GetPrior(child.IncomingMove()) })
}

func TestAdvanceTreeKnownMoveDetaches(t *testing.T) {
	root, _ := newTestRoot(t, startFEN)
	child := root.Expand()
	move := child.IncomingMove()

	newRoot := root.AdvanceTree(move)
	require.Same(t, child, newRoot)
	require.Nil(t, newRoot.parent)
	require.True(t, newRoot.reused)
}

func TestAdvanceTreeUnknownMoveRebuildsRoot(t *testing.T) {
	root, adapter := newTestRoot(t, startFEN)
	moves := root.State().LegalMoves()
	require.NotEmpty(t, moves)

	newRoot := root.AdvanceTree(moves[0])
	require.NotNil(t, newRoot)
	require.Nil(t, newRoot.parent)
	require.False(t, newRoot.reused)
	require.Equal(t, adapter.SideToMove(newRoot.State()), newRoot.State().SideToMove())
}
