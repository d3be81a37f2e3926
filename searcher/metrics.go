package searcher

import (
	"sort"
	"time"
)

// ChildSummary is one root child's stats, used for the debug/observability
// surface (spec §6): visit count, Q from SideA's perspective, and prior.
type ChildSummary struct {
	UCI    string
	Visits int
	Q      float64
	Prior  float64
}

// Summary is the per-search observability surface spec §6 calls out as
// optional but useful. No wire format is mandated by the spec; this repo
// serializes it as JSON at the debugserver boundary.
type Summary struct {
	IterationsRun int
	Elapsed       time.Duration
	TreeSize      int
	RootVisits    int
	TreeReused    bool
	TopMoves      []ChildSummary
}

// summarize builds a Summary from the root after a search completes.
// topK bounds how many children are reported, highest-visits first.
func summarize(root *Node, iterations int, elapsed time.Duration, treeReused bool, topK int) Summary {
	children := make([]ChildSummary, 0, len(root.children))
	for _, c := range root.children {
		children = append(children, ChildSummary{
			UCI:    c.incomingMove.UCI(),
			Visits: c.visits,
			Q:      childQ(root, c),
			Prior:  root.GetPrior(c.incomingMove),
		})
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Visits > children[j].Visits })
	if len(children) > topK {
		children = children[:topK]
	}

	return Summary{
		IterationsRun: iterations,
		Elapsed:       elapsed,
		TreeSize:      root.subtreeSize,
		RootVisits:    root.visits,
		TreeReused:    treeReused,
		TopMoves:      children,
	}
}

// childQ reports child's value in SideA's perspective, independent of
// whichever side is to move at root.
func childQ(root, child *Node) float64 {
	if child.visits == 0 {
		return 0.5
	}
	return child.score / float64(child.visits)
}
