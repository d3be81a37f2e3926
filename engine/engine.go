// Package engine is the thin shell that assembles a game.Adapter, an
// optional searcher.Evaluator, and a searcher.Driver into the single
// external interface callers use: start a search from a FEN, read back
// its chosen move, and advance the held tree to keep its statistics
// across moves instead of rebuilding from scratch every turn.
package engine

import (
	"context"
	"time"

	"github.com/AdKamat2411/ChessMirror/game"
	"github.com/AdKamat2411/ChessMirror/searcher"
	"github.com/rs/zerolog/log"
)

// Option configures a Search at construction time.
type Option func(*config)

type config struct {
	maxIterations int
	maxDuration   time.Duration
	cpuct         float64
	evaluator     searcher.Evaluator
}

// WithMaxIterations caps iterations per move (spec §6 default: 15000).
func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIterations = n }
}

// WithMaxDuration caps wall-clock time per move (spec §6 default: 5s).
func WithMaxDuration(d time.Duration) Option {
	return func(c *config) { c.maxDuration = d }
}

// WithCpuct overrides the PUCT exploration constant (spec §6 default: 2.0).
func WithCpuct(cpuct float64) Option {
	return func(c *config) { c.cpuct = cpuct }
}

// WithEvaluator sets the policy/value model. Omitting this leaves the
// search in pure-rollout mode.
func WithEvaluator(eval searcher.Evaluator) Option {
	return func(c *config) { c.evaluator = eval }
}

// Search holds one persistent tree across a sequence of moves for a
// single position, letting advanceTree reuse statistics instead of the
// caller rebuilding from scratch on every turn.
type Search struct {
	driver *searcher.Driver
	root   *searcher.Node
}

// NewSearch parses fen and builds a Search ready to run. It returns a
// *searcher.ConfigurationError if fen is invalid.
func NewSearch(fen string, opts ...Option) (*Search, error) {
	cfg := config{
		maxIterations: 15000,
		maxDuration:   5 * time.Second,
		cpuct:         searcher.DefaultCpuct,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	pos, err := game.ParsePosition(fen)
	if err != nil {
		return nil, searcher.NewConfigurationError("invalid starting FEN", err)
	}

	adapter := game.NewChessAdapter()
	driverOpts := []searcher.Option{
		searcher.WithMaxIterations(cfg.maxIterations),
		searcher.WithMaxDuration(cfg.maxDuration),
		searcher.WithCpuct(cfg.cpuct),
	}
	if cfg.evaluator != nil {
		driverOpts = append(driverOpts, searcher.WithEvaluator(cfg.evaluator))
	} else {
		log.Warn().Msg("no evaluator configured, falling back to pure rollout search")
	}

	driver := searcher.NewDriver(adapter, driverOpts...)
	root := driver.NewRoot(pos)

	return &Search{driver: driver, root: root}, nil
}

// BestMove runs the search budget from the current root and returns the
// chosen move's UCI string along with the per-search summary.
func (s *Search) BestMove(ctx context.Context) (string, searcher.Summary, error) {
	best, summary, err := s.driver.Search(ctx, s.root)
	if err != nil {
		return "", searcher.Summary{}, err
	}
	return best.UCI(), summary, nil
}

// Advance applies uci to the held position, reparenting the tree at the
// corresponding child if one was explored (spec.md §4.3 advanceTree) or
// rebuilding fresh otherwise.
func (s *Search) Advance(uci string) error {
	move, err := parseUCIMove(s.root.State(), uci)
	if err != nil {
		return err
	}
	s.root = s.root.AdvanceTree(move)
	return nil
}

// FEN returns the current held position's FEN string.
func (s *Search) FEN() string {
	return s.root.State().FEN()
}

// parseUCIMove finds the game.Move among pos's legal moves matching uci,
// since game.Move is an opaque interface the engine cannot construct
// directly from a bare string.
func parseUCIMove(pos game.Position, uci string) (game.Move, error) {
	for _, m := range pos.LegalMoves() {
		if m.UCI() == uci {
			return m, nil
		}
	}
	return nil, searcher.NewConfigurationError("move "+uci+" is not legal in the current position", nil)
}
