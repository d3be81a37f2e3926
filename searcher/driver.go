package searcher

import (
	"context"
	"math/rand"
	"time"

	"github.com/AdKamat2411/ChessMirror/game"
	"github.com/rs/zerolog/log"
)

// defaultMaxIterations and defaultMaxDuration are spec §6's numeric
// defaults for a search that specifies no explicit budget.
const (
	defaultMaxIterations = 15000
	defaultMaxDuration   = 5 * time.Second
)

// Driver runs the select/expand/evaluate/backpropagate loop over a tree
// rooted at a caller-supplied Node until either budget is exhausted.
type Driver struct {
	adapter   game.Adapter
	evaluator Evaluator

	maxIterations int
	maxDuration   time.Duration
	cpuct         float64
	summaryTopK   int
	rng           *rand.Rand
}

// NewDriver builds a Driver for adapter, applying opts over the spec §6
// defaults.
func NewDriver(adapter game.Adapter, opts ...Option) *Driver {
	d := &Driver{
		adapter:       adapter,
		maxIterations: defaultMaxIterations,
		maxDuration:   defaultMaxDuration,
		cpuct:         DefaultCpuct,
		summaryTopK:   5,
		rng:           rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewRoot builds a fresh root node for pos using the driver's adapter and
// RNG, so callers never have to reach into searcher internals to seed a
// tree.
func (d *Driver) NewRoot(pos game.Position) *Node {
	return NewRoot(pos, d.adapter, d.rng)
}

// Search runs iterations of MCTS from root until maxIterations is
// consumed, maxDuration elapses, or ctx is cancelled — whichever comes
// first — then returns the move with the most visits among root's
// children. Ties break by higher Q, then by first occurrence (spec's
// deterministic tie-break, scenario S5). Cancellation is checked only
// between iterations, never mid-iteration, per the single-threaded
// soft-budget model. Search returns a *ConfigurationError without running
// any iteration if either budget is negative or root is terminal
// (including a position with no legal moves).
func (d *Driver) Search(ctx context.Context, root *Node) (game.Move, Summary, error) {
	if d.maxIterations < 0 || d.maxDuration < 0 {
		return nil, Summary{}, NewConfigurationError("negative search budget", nil)
	}
	if root.IsTerminal() {
		return nil, Summary{}, NewConfigurationError("Search called on a terminal position", nil)
	}

	start := time.Now()
	ran := 0
loop:
	for ran < d.maxIterations && time.Since(start) < d.maxDuration {
		select {
		case <-ctx.Done():
			break loop
		default:
			d.runIteration(root)
			ran++
		}
	}

	if len(root.children) == 0 {
		if err := ctx.Err(); err != nil {
			// Cancelled before a single iteration ran: not a misconfigured
			// search, just an empty one. Report it rather than erroring.
			return nil, summarize(root, ran, time.Since(start), root.reused, d.summaryTopK), nil
		}
		invariantViolation("Search completed with zero root children on a non-terminal position")
	}

	best := selectMostVisited(root)
	summary := summarize(root, ran, time.Since(start), root.reused, d.summaryTopK)

	log.Debug().
		Int("iterations", summary.IterationsRun).
		Dur("elapsed", summary.Elapsed).
		Int("tree_size", summary.TreeSize).
		Str("best_move", best.UCI()).
		Msg("search complete")

	return best, summary, nil
}

// runIteration performs one selection walk from root down to a leaf,
// evaluates it (expanding first if the leaf still has untried moves and
// isn't a first visit), and backpropagates the result.
func (d *Driver) runIteration(root *Node) {
	node := root
	for !node.IsTerminal() && node.IsEvaluated() && node.IsFullyExpanded() {
		node = node.SelectBestChild(d.cpuct)
	}

	if node.IsTerminal() {
		if !node.IsEvaluated() {
			node.Evaluate(d.evaluator)
		}
		node.Backpropagate(node.evaluation.Value, 1)
		return
	}

	if !node.IsEvaluated() {
		node.Evaluate(d.evaluator)
		node.Backpropagate(node.evaluation.Value, 1)
		return
	}

	child := node.Expand()
	child.Evaluate(d.evaluator)
	child.Backpropagate(child.evaluation.Value, 1)
}

// selectMostVisited picks root's highest-visit child, breaking ties by
// higher SideA-perspective Q and finally by first occurrence.
func selectMostVisited(root *Node) game.Move {
	best := root.children[0]
	for _, c := range root.children[1:] {
		if c.visits > best.visits {
			best = c
			continue
		}
		if c.visits == best.visits && childQ(root, c) > childQ(root, best) {
			best = c
		}
	}
	return best.incomingMove
}
