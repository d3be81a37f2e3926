// Package evaluator implements the neural-network Evaluator (spec §4.2):
// position encoding, ONNX Runtime inference, and policy/value
// post-processing. It implements searcher.Evaluator by importing
// searcher, keeping the dependency one-directional.
package evaluator

import (
	"github.com/AdKamat2411/ChessMirror/chess"
)

// PlaneCount is the number of 8x8 encoding planes fed to the model (spec
// §6: 12 — one per piece type per color).
const PlaneCount = 12

// BoardSize is the board's side length in squares.
const BoardSize = 8

// InputSize is the flattened length of the encoded tensor.
const InputSize = PlaneCount * BoardSize * BoardSize

// PolicySize is the dense policy vector's dimension (spec §6: 4096 =
// 64 from-squares * 64 to-squares). Promotion choice is not a separate
// policy dimension; policyIndexOf collapses all four promotions of a
// move onto the same from*64+to slot.
const PolicySize = 64 * 64

// EncodeBoard flattens b into PlaneCount*BoardSize*BoardSize float32s,
// one plane per (color, piece type) pair, each plane a rank-major 8x8
// grid of 1.0/0.0 occupancy. Plane order is White{pawn..king} then
// Black{pawn..king}, matching PlaneIndex()'s piece-type ordering. Square
// position within a plane is chess.Square's own rank*8+file indexing —
// the single alignment anchor between move generation and this tensor.
func EncodeBoard(b *chess.Board) []float32 {
	out := make([]float32, InputSize)
	for sq := chess.Square(0); sq < 64; sq++ {
		p := b.PieceAt(sq)
		if p == chess.Empty {
			continue
		}
		plane := p.PlaneIndex()
		if p.IsBlack() {
			plane += 6
		}
		out[plane*64+int(sq)] = 1.0
	}
	return out
}

// PolicyIndex returns the dense policy vector index for a from/to square
// pair, ignoring promotion piece. This is the same from*64+to index that
// policyIndexOf computes and the model output uses.
func PolicyIndex(from, to chess.Square) int {
	return int(from)*64 + int(to)
}
