// Package searcher implements the MCTS tree: the node lifecycle
// (expand/evaluate/backpropagate/select) and the driver that iterates it
// under iteration and wall-clock budgets. It depends only on the game
// package's Adapter/Position/Move contracts, never on chess directly.
package searcher

import (
	"math/rand"

	"github.com/AdKamat2411/ChessMirror/game"
	"github.com/rs/zerolog/log"
)

// NodeEvaluation is the (priors, value) pair an Evaluator produces for a
// position: priors keyed by UCI string over that position's legal moves,
// value expressed from SideA's perspective.
type NodeEvaluation struct {
	Priors map[string]float64
	Value  float64
}

// Evaluator is the port SearchNode calls into for a policy-and-value
// estimate. A nil Evaluator means pure-rollout mode.
type Evaluator interface {
	Evaluate(pos game.Position) (NodeEvaluation, error)
}

// Node is a single node of the search tree. The zero value is not usable;
// build one with NewRoot or via expand.
type Node struct {
	state        game.Position
	incomingMove game.Move // nil at the root
	parent       *Node

	children []*Node
	untried  []game.Move

	visits      int
	score       float64
	subtreeSize int
	evaluation  *NodeEvaluation

	// reused marks a root reached via AdvanceTree finding an already
	// explored child, as opposed to one built fresh (NewRoot, or
	// AdvanceTree rebuilding on an unexplored move). Driver.Search reports
	// it verbatim in Summary.TreeReused.
	reused bool

	adapter game.Adapter
	rng     *rand.Rand
}

// NewRoot constructs a fresh, unevaluated root node for pos.
func NewRoot(pos game.Position, adapter game.Adapter, rng *rand.Rand) *Node {
	return newNode(pos, nil, nil, adapter, rng)
}

func newNode(pos game.Position, incomingMove game.Move, parent *Node, adapter game.Adapter, rng *rand.Rand) *Node {
	return &Node{
		state:        pos,
		incomingMove: incomingMove,
		parent:       parent,
		untried:      pos.LegalMoves(),
		subtreeSize:  1,
		adapter:      adapter,
		rng:          rng,
	}
}

// Visits returns the node's simulation count.
func (n *Node) Visits() int { return n.visits }

// Score returns the accumulated SideA-perspective score.
func (n *Node) Score() float64 { return n.score }

// SubtreeSize returns the number of nodes in this subtree, including n.
func (n *Node) SubtreeSize() int { return n.subtreeSize }

// IncomingMove returns the move that produced this node from its parent,
// or nil at the root.
func (n *Node) IncomingMove() game.Move { return n.incomingMove }

// Children returns the node's materialized children, in expansion order.
func (n *Node) Children() []*Node { return n.children }

// State returns the position this node holds.
func (n *Node) State() game.Position { return n.state }

// IsTerminal reports whether the underlying position ends the game.
func (n *Node) IsTerminal() bool { return n.state.IsTerminal() }

// IsFullyExpanded reports whether every legal move has a materialized
// child.
func (n *Node) IsFullyExpanded() bool { return len(n.untried) == 0 }

// IsEvaluated reports whether Evaluate has been called on this node.
func (n *Node) IsEvaluated() bool { return n.evaluation != nil }

// Expand pops one untried move, applies it to a copy of the state, and
// appends a new unevaluated child. It panics if there is nothing left to
// expand — expand is only ever called on a node that IsFullyExpanded
// reports false for, so an empty queue here means the caller violated the
// state machine.
func (n *Node) Expand() *Node {
	if len(n.untried) == 0 {
		invariantViolation("Expand called with no untried moves (node fully expanded)")
	}
	move := n.untried[0]
	n.untried = n.untried[1:]

	childState := n.state.Apply(move)
	child := newNode(childState, move, n, n.adapter, n.rng)
	n.children = append(n.children, child)
	n.bumpSubtreeSize(1)
	return child
}

// bumpSubtreeSize adds delta to n's subtree size and every ancestor's,
// maintaining invariant subtree_size(n) = 1 + sum(subtree_size(children)).
// It runs exactly once per new node, at creation time — independent of
// how many times that node is later visited.
func (n *Node) bumpSubtreeSize(delta int) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.subtreeSize += delta
	}
}

// Evaluate sets n's evaluation exactly once. Terminal positions get their
// exact SideA-perspective result; otherwise the Evaluator is consulted
// (falling back to rollout on failure), or rollout runs directly if eval
// is nil. It panics if called on an already-evaluated node.
func (n *Node) Evaluate(eval Evaluator) {
	if n.evaluation != nil {
		invariantViolation("Evaluate called on an already-evaluated node")
	}

	if n.state.IsTerminal() {
		v := n.state.TerminalResult().Value()
		n.evaluation = &NodeEvaluation{Priors: map[string]float64{}, Value: v}
		return
	}

	if eval != nil {
		result, err := eval.Evaluate(n.state)
		if err != nil {
			log.Warn().Err(err).Str("fen", n.state.FEN()).Msg("evaluator failed, falling back to rollout")
			n.evaluation = &NodeEvaluation{Priors: map[string]float64{}, Value: n.adapter.Rollout(n.state, n.rng)}
			return
		}
		n.evaluation = &result
		return
	}

	n.evaluation = &NodeEvaluation{Priors: map[string]float64{}, Value: n.adapter.Rollout(n.state, n.rng)}
}

// Backpropagate adds value to score and deltaVisits to visits for n and
// every ancestor. value is always in SideA's perspective; no per-node
// sign-flipping happens here (flipping happens only inside
// SelectBestChild, when computing Q from the selector's perspective).
func (n *Node) Backpropagate(value float64, deltaVisits int) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.score += value
		cur.visits += deltaVisits
	}
}

// GetPrior looks up move's prior in this node's own evaluation — i.e. the
// probability the evaluator assigned to that edge when this node's
// position was evaluated. Callers descending the tree must call
// parent.GetPrior(child.IncomingMove()), never child.GetPrior on itself.
func (n *Node) GetPrior(move game.Move) float64 {
	if n.evaluation == nil {
		invariantViolation("GetPrior called before node was evaluated")
	}
	return n.evaluation.Priors[move.UCI()]
}

// AdvanceTree finds the child reached by move, detaches it (dropping every
// sibling and the receiver), and returns it as the new root. If move was
// never explored, a fresh unevaluated root is constructed from the
// post-move position instead — the UnknownMoveInAdvance case, recovered
// here rather than surfaced.
func (n *Node) AdvanceTree(move game.Move) *Node {
	for _, c := range n.children {
		if c.incomingMove.Equals(move) {
			c.parent = nil
			c.reused = true
			return c
		}
	}
	log.Warn().Err(&UnknownMoveInAdvance{UCI: move.UCI()}).Msg("advancing to unexplored move, rebuilding root")
	return NewRoot(n.state.Apply(move), n.adapter, n.rng)
}
