package searcher

import (
	"math"

	"github.com/AdKamat2411/ChessMirror/game"
)

// DefaultCpuct is the exploration constant used when the caller does not
// override it (spec §6 numeric defaults).
const DefaultCpuct = 2.0

// SelectBestChild implements the PUCT selection rule (spec §4.3). It
// panics if n has no children or is unevaluated — both are programmer
// errors: the driver only selects through nodes that are evaluated and
// fully expanded.
func (n *Node) SelectBestChild(cpuct float64) *Node {
	if len(n.children) == 0 {
		invariantViolation("SelectBestChild called with no children")
	}
	if n.evaluation == nil {
		invariantViolation("SelectBestChild called before node was evaluated")
	}

	sideToMove := n.state.SideToMove()
	parentVisits := float64(n.visits)

	var best *Node
	bestScore := math.Inf(-1)
	for _, c := range n.children {
		score := puctScore(n, c, sideToMove, parentVisits, cpuct)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

func puctScore(parent, child *Node, sideToMove game.Side, parentVisits, cpuct float64) float64 {
	nc := float64(child.visits)

	var q float64
	if nc > 0 {
		raw := child.score / nc
		if sideToMove == game.SideA {
			q = raw
		} else {
			q = 1 - raw
		}
	} else {
		q = 0.5
	}

	p := parent.GetPrior(child.incomingMove)

	var u float64
	if p > 0 {
		u = cpuct * p * math.Sqrt(parentVisits) / (1 + nc)
	} else {
		u = cpuct * math.Sqrt(math.Log(parentVisits+1)/(1+nc))
	}

	return q + u
}
