package searcher

import (
	"context"
	"testing"
	"time"

	"github.com/AdKamat2411/ChessMirror/game"
	"github.com/stretchr/testify/require"
)

func newTestDriver(opts ...Option) *Driver {
	adapter := game.NewChessAdapter()
	base := []Option{WithMaxIterations(200), WithMaxDuration(time.Second)}
	return NewDriver(adapter, append(base, opts...)...)
}

func TestSearchFindsForcedMateInOne(t *testing.T) {
	d := newTestDriver()
	pos, err := game.ParsePosition("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	root := d.NewRoot(pos)
	best, summary, err := d.Search(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, "a1a8", best.UCI())
	require.Greater(t, summary.IterationsRun, 0)
	require.Greater(t, summary.TreeSize, 1)
}

func TestSearchOnTerminalPositionErrors(t *testing.T) {
	d := newTestDriver()
	pos, err := game.ParsePosition("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)

	root := d.NewRoot(pos)
	_, _, err = d.Search(context.Background(), root)
	require.Error(t, err)
}

func TestSearchRespectsIterationBudget(t *testing.T) {
	d := newTestDriver(WithMaxIterations(30))
	pos, err := game.ParsePosition("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	root := d.NewRoot(pos)
	_, summary, err := d.Search(context.Background(), root)
	require.NoError(t, err)
	require.LessOrEqual(t, summary.IterationsRun, 30)
}

func TestSearchSummaryMatchesRootStats(t *testing.T) {
	d := newTestDriver(WithMaxIterations(50))
	pos, err := game.ParsePosition("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	root := d.NewRoot(pos)
	_, summary, err := d.Search(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, root.SubtreeSize(), summary.TreeSize)
	require.Equal(t, root.Visits(), summary.RootVisits)
}

func TestAdvanceTreeThenSearchReusesSubtree(t *testing.T) {
	d := newTestDriver(WithMaxIterations(100))
	pos, err := game.ParsePosition("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	root := d.NewRoot(pos)
	best, firstSummary, err := d.Search(context.Background(), root)
	require.NoError(t, err)
	require.False(t, firstSummary.TreeReused)

	newRoot := root.AdvanceTree(best)
	require.NotNil(t, newRoot)
	require.Nil(t, newRoot.parent)
	require.Greater(t, newRoot.Visits(), 0)

	_, secondSummary, err := d.Search(context.Background(), newRoot)
	require.NoError(t, err)
	require.True(t, secondSummary.TreeReused)
}

func TestSearchRespectsContextCancellation(t *testing.T) {
	d := newTestDriver(WithMaxIterations(100000), WithMaxDuration(10*time.Second))
	pos, err := game.ParsePosition("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := d.NewRoot(pos)
	_, summary, err := d.Search(ctx, root)
	require.NoError(t, err)
	require.Equal(t, 0, summary.IterationsRun)
}
