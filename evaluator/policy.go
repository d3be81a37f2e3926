package evaluator

import (
	"math"

	"github.com/AdKamat2411/ChessMirror/game"
	"github.com/AdKamat2411/ChessMirror/searcher"
)

// toPriors builds a UCI-keyed prior map from the model's dense
// PolicySize logits, restricted and renormalized over pos's legal
// moves. Promotion moves share the mass of their shared from/to slot
// equally across however many promotion choices are legal there (the
// spec leaves "how" unspecified; equal sharing is this repo's choice).
// If every legal move's logit is non-finite or the masked softmax
// collapses to zero mass, priors fall back to a uniform distribution.
func toPriors(logits []float32, pos game.Position) map[string]float64 {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return map[string]float64{}
	}

	type move struct {
		m   game.Move
		idx int
	}
	byIndex := make([]move, len(moves))
	promoCount := map[int]int{}
	for i, m := range moves {
		idx := policyIndexOf(m)
		byIndex[i] = move{m: m, idx: idx}
		promoCount[idx]++
	}

	// Softmax runs over distinct policy indices, not over moves: a
	// promotion slot shared by up to four moves must contribute its
	// logit's weight to the denominator exactly once, or the shared mass
	// gets double-counted and the priors no longer sum to 1.
	maxLogit := math.Inf(-1)
	for idx := range promoCount {
		v := float64(logits[idx])
		if v > maxLogit {
			maxLogit = v
		}
	}

	weightByIndex := make(map[int]float64, len(promoCount))
	sum := 0.0
	for idx := range promoCount {
		w := math.Exp(float64(logits[idx]) - maxLogit)
		weightByIndex[idx] = w
		sum += w
	}

	priors := make(map[string]float64, len(moves))
	if sum == 0 || math.IsNaN(sum) {
		uniform := 1.0 / float64(len(moves))
		for _, mv := range byIndex {
			priors[mv.m.UCI()] = uniform
		}
		return priors
	}

	for _, mv := range byIndex {
		shared := weightByIndex[mv.idx] / sum
		priors[mv.m.UCI()] = shared / float64(promoCount[mv.idx])
	}
	return priors
}

// policyIndexOf extracts the from/to policy slot for a game.Move without
// depending on the chess package directly, by round-tripping through the
// move's UCI string (always exactly 4 or 5 ASCII characters: two square
// names plus an optional promotion letter).
func policyIndexOf(m game.Move) int {
	uci := m.UCI()
	from := squareIndex(uci[0], uci[1])
	to := squareIndex(uci[2], uci[3])
	return from*64 + to
}

func squareIndex(fileChar, rankChar byte) int {
	file := int(fileChar - 'a')
	rank := int(rankChar - '1')
	return rank*8 + file
}

// toSideAValue converts the model's side-to-move-perspective output
// (range [-1,1], per the documented model convention) into the
// SideA-perspective scalar in [0,1] the tree stores everywhere.
func toSideAValue(raw float32, sideToMove game.Side) float64 {
	v := (float64(raw) + 1) / 2
	if sideToMove == game.SideB {
		v = 1 - v
	}
	return v
}

var _ searcher.Evaluator = (*Evaluator)(nil)
