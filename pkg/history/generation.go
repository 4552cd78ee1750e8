package history

import (
	"encoding/binary"

	"mad-life/pkg/bitplane"
	"mad-life/pkg/sims/life"
)

// Generation is one immutable step of a run.
type Generation struct {
	serial   int
	world    *bitplane.Plane
	previous *bitplane.Plane
}

func (g *Generation) next() *Generation {
	return &Generation{
		serial:   g.serial + 1,
		world:    life.Advance(g.world),
		previous: g.world,
	}
}

// Serial returns the zero-based index of the generation in its run.
func (g *Generation) Serial() int { return g.serial }

// World returns the cells of this generation. The plane must not be modified.
func (g *Generation) World() *bitplane.Plane { return g.world }

// Previous returns the cells of the preceding generation, or nil at serial 0.
func (g *Generation) Previous() *bitplane.Plane { return g.previous }

// Width returns the number of columns.
func (g *Generation) Width() int { return g.world.Width() }

// Height returns the number of rows.
func (g *Generation) Height() int { return g.world.Height() }

// Classify compares the cell at (row, col) with its state one generation
// earlier. Serial 0 is compared with an all-dead predecessor. Coordinates must
// be in range.
func (g *Generation) Classify(row, col int) CellState {
	var s CellState
	if g.world.Get(row, col) {
		s |= 1
	}
	if g.previous != nil && g.previous.Get(row, col) {
		s |= 2
	}
	return s
}

// Packed dumps the current cells at one bit per cell: each row starts on a
// 64-bit boundary, words are little-endian and column 0 is the lowest bit.
func (g *Generation) Packed() []byte {
	compact := g.world.Repack(1)
	out := make([]byte, 0, len(compact.Words())*8)
	for _, w := range compact.Words() {
		out = binary.LittleEndian.AppendUint64(out, w)
	}
	return out
}
