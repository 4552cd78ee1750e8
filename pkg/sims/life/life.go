// Package life implements Conway's Game of Life (B3/S23) on toroidal planes.
package life

import (
	"fmt"

	"mad-life/pkg/bitplane"
	"mad-life/pkg/core"
)

const (
	lane  = bitplane.Kernel
	lanes = bitplane.WordBits / lane
	ones  = 0x1111_1111_1111_1111
	nib   = 1<<lane - 1
)

// Advance returns the generation after p. p must use 4 bits per cell and is
// not modified.
//
// Each word holds 16 cells. The first pass adds the rows above and below to
// every word, giving per-lane column sums of 0..3. The second pass adds the
// column sums of the lanes to the left and right, borrowing the edge lane from
// the neighbouring word. The first and last columns of a row borrow from each
// other, so the wrap is exact for any width. Lane sums stay below 10 and never
// carry into the next lane.
func Advance(p *bitplane.Plane) *bitplane.Plane {
	if p.BitsPerCell() != bitplane.Kernel {
		panic(fmt.Sprintf("life: plane packs %d bits per cell, kernel needs %d", p.BitsPerCell(), bitplane.Kernel))
	}
	w, h, stride := p.Width(), p.Height(), p.Stride()
	src := p.Words()

	cols := make([]uint64, len(src))
	for r := 0; r < h; r++ {
		up := (r + h - 1) % h * stride
		mid := r * stride
		down := (r + 1) % h * stride
		for c := 0; c < stride; c++ {
			cols[mid+c] = src[up+c] + src[mid+c] + src[down+c]
		}
	}

	out := make([]uint64, len(src))
	last := stride - 1
	lastShift := uint((w - 1) % lanes * lane)
	tail := p.TailMask()
	for r := 0; r < h; r++ {
		row := cols[r*stride : (r+1)*stride]
		cells := src[r*stride : (r+1)*stride]
		dst := out[r*stride : (r+1)*stride]

		// Column sums of the last and first real columns of the row.
		wrapLeft := row[last] >> lastShift & nib
		wrapRight := row[0] & nib

		for c, v := range row {
			left := v << lane
			if c == 0 {
				left |= wrapLeft
			} else {
				left |= row[c-1] >> (bitplane.WordBits - lane)
			}
			right := v >> lane
			if c == last {
				right |= wrapRight << lastShift
			} else {
				right |= row[c+1] << (bitplane.WordBits - lane)
			}

			// The 3x3 sum includes the centre, so every lane is at least the
			// centre bit and the subtraction never borrows across lanes.
			n := v + left + right - cells[c]
			b0 := n & ones
			b1 := n >> 1 & ones
			b2 := n >> 2 & ones
			b3 := n >> 3 & ones
			next := b1 &^ b2 &^ b3 & (b0 | cells[c])
			if c == last {
				next &= tail
			}
			dst[c] = next
		}
	}

	next, err := bitplane.FromWords(w, h, bitplane.Kernel, out)
	if err != nil {
		panic(err)
	}
	return next
}

// AdvanceNaive computes the next generation cell by cell, counting the eight
// wrapped neighbours directly. It accepts any packing and serves as the
// reference for Advance.
func AdvanceNaive(p *bitplane.Plane) *bitplane.Plane {
	cur := p.Grid()
	w, h := cur.W, cur.H
	nxt := core.NewByteGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					neighbors += int(cur.At(x+dx, y+dy))
				}
			}
			idx := cur.Index(x, y)
			alive := cur.Cells()[idx] == 1
			if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
				nxt.Cells()[idx] = 1
			}
		}
	}
	out, err := bitplane.FromGrid(nxt, p.BitsPerCell())
	if err != nil {
		panic(err)
	}
	return out
}

// Run advances p by n generations.
func Run(p *bitplane.Plane, n int) *bitplane.Plane {
	for i := 0; i < n; i++ {
		p = Advance(p)
	}
	return p
}
