// Package bitplane stores Game of Life grids as packed words.
//
// A Plane reserves 1, 2 or 4 bits per cell. The live flag of a cell is the
// lowest bit of its lane; the remaining lane bits are always zero in a stored
// plane. Rows start on a word boundary and the unused lanes at the end of a
// row are kept zero, so two planes with the same shape hold the same cells
// exactly when their words are equal.
//
// Planes do no toroidal normalization. Callers pass row in [0,height) and col
// in [0,width).
package bitplane

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"math/rand/v2"
	"slices"
	"strings"

	"mad-life/pkg/core"

	"github.com/cespare/xxhash/v2"
)

// WordBits is the width of a storage word.
const WordBits = 64

// Kernel is the packing used by the word-parallel generation kernel: a lane
// of 4 bits holds a neighbour count of up to 9 without spilling into the next
// lane.
const Kernel = 4

// ErrInvalidDimension is returned for a non-positive width or height.
var ErrInvalidDimension = errors.New("invalid dimension")

// Plane is a fixed-size packed grid of cell states.
type Plane struct {
	width, height int
	bits          int
	stride        int
	laneMask      uint64
	tailMask      uint64
	words         []uint64
}

// New returns an all-dead plane. bitsPerCell must be 1, 2 or 4.
func New(width, height, bitsPerCell int) (*Plane, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	lanes := lanesFor(bitsPerCell)
	stride := (width + lanes - 1) / lanes
	p := &Plane{
		width:    width,
		height:   height,
		bits:     bitsPerCell,
		stride:   stride,
		laneMask: laneMaskFor(bitsPerCell),
		words:    make([]uint64, stride*height),
	}
	p.tailMask = p.laneMask
	if tail := width - (stride-1)*lanes; tail < lanes {
		p.tailMask &= uint64(1)<<(uint(tail*bitsPerCell)) - 1
	}
	return p, nil
}

// NewRandom returns a plane where every cell is live with probability one half.
func NewRandom(width, height, bitsPerCell int, rng *rand.Rand) (*Plane, error) {
	p, err := New(width, height, bitsPerCell)
	if err != nil {
		return nil, err
	}
	for i := range p.words {
		p.words[i] = rng.Uint64() & p.maskAt(i)
	}
	return p, nil
}

// FromWords builds a plane around words laid out as New would lay them out.
// Bits outside the live lanes are cleared. The plane takes ownership of words.
func FromWords(width, height, bitsPerCell int, words []uint64) (*Plane, error) {
	p, err := New(width, height, bitsPerCell)
	if err != nil {
		return nil, err
	}
	if len(words) != len(p.words) {
		return nil, fmt.Errorf("bitplane: %dx%d at %d bits needs %d words, got %d",
			width, height, bitsPerCell, len(p.words), len(words))
	}
	for i := range words {
		words[i] &= p.maskAt(i)
	}
	p.words = words
	return p, nil
}

func lanesFor(bitsPerCell int) int {
	switch bitsPerCell {
	case 1, 2, 4:
		return WordBits / bitsPerCell
	}
	panic(fmt.Sprintf("bitplane: unsupported bits per cell %d", bitsPerCell))
}

func laneMaskFor(bitsPerCell int) uint64 {
	switch bitsPerCell {
	case 1:
		return ^uint64(0)
	case 2:
		return 0x5555_5555_5555_5555
	default:
		return 0x1111_1111_1111_1111
	}
}

func (p *Plane) maskAt(i int) uint64 {
	if i%p.stride == p.stride-1 {
		return p.tailMask
	}
	return p.laneMask
}

// Width returns the number of columns.
func (p *Plane) Width() int { return p.width }

// Height returns the number of rows.
func (p *Plane) Height() int { return p.height }

// Size returns the plane dimensions.
func (p *Plane) Size() core.Size { return core.Size{W: p.width, H: p.height} }

// BitsPerCell returns the lane width.
func (p *Plane) BitsPerCell() int { return p.bits }

// Stride returns the number of words per row.
func (p *Plane) Stride() int { return p.stride }

// LaneMask has the live bit of every lane set.
func (p *Plane) LaneMask() uint64 { return p.laneMask }

// TailMask is LaneMask restricted to the lanes that hold cells in the last
// word of a row.
func (p *Plane) TailMask() uint64 { return p.tailMask }

// Words exposes the backing words. Callers must not modify them.
func (p *Plane) Words() []uint64 { return p.words }

func (p *Plane) locate(row, col int) (int, uint) {
	lanes := WordBits / p.bits
	return row*p.stride + col/lanes, uint((col % lanes) * p.bits)
}

// Get reports whether the cell at (row, col) is live.
func (p *Plane) Get(row, col int) bool {
	i, shift := p.locate(row, col)
	return p.words[i]>>shift&1 == 1
}

// Set marks the cell at (row, col) live.
func (p *Plane) Set(row, col int) {
	i, shift := p.locate(row, col)
	p.words[i] |= 1 << shift
}

// Clear marks the cell at (row, col) dead.
func (p *Plane) Clear(row, col int) {
	i, shift := p.locate(row, col)
	p.words[i] &^= 1 << shift
}

// Equal reports whether both planes have the same shape and cells.
func (p *Plane) Equal(other *Plane) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.width != other.width || p.height != other.height || p.bits != other.bits {
		return false
	}
	return slices.Equal(p.words, other.words)
}

// Hash fingerprints the plane shape and words. Equal planes hash equally.
func (p *Plane) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(p.width)<<32|uint64(p.height))
	_, _ = d.Write(buf[:])
	for _, w := range p.words {
		binary.LittleEndian.PutUint64(buf[:], w)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// Empty reports whether every cell is dead.
func (p *Plane) Empty() bool {
	for _, w := range p.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Population returns the number of live cells.
func (p *Plane) Population() int {
	n := 0
	for _, w := range p.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clone returns an independent copy.
func (p *Plane) Clone() *Plane {
	c := *p
	c.words = slices.Clone(p.words)
	return &c
}

// Repack returns a copy of the plane stored with a different lane width.
// Repack(1) is the compact form used for dumps.
func (p *Plane) Repack(bitsPerCell int) *Plane {
	if bitsPerCell == p.bits {
		return p.Clone()
	}
	out, _ := New(p.width, p.height, bitsPerCell)
	for row := 0; row < p.height; row++ {
		for col := 0; col < p.width; col++ {
			if p.Get(row, col) {
				out.Set(row, col)
			}
		}
	}
	return out
}

// String renders the plane as rows of '#' (live) and '.' (dead).
func (p *Plane) String() string {
	var b strings.Builder
	b.Grow((p.width + 1) * p.height)
	for row := 0; row < p.height; row++ {
		for col := 0; col < p.width; col++ {
			if p.Get(row, col) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse builds a plane from rows of '#'/'.' text, the inverse of String.
// Any character other than '#' or 'O' is a dead cell. Blank lines are skipped.
func Parse(text string, bitsPerCell int) (*Plane, error) {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidDimension)
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("bitplane: row %d has %d cells, want %d", i, len(r), width)
		}
	}
	p, err := New(width, len(rows), bitsPerCell)
	if err != nil {
		return nil, err
	}
	for row, r := range rows {
		for col := 0; col < width; col++ {
			if r[col] == '#' || r[col] == 'O' {
				p.Set(row, col)
			}
		}
	}
	return p, nil
}

// Grid unpacks the plane into one byte per cell (1 live, 0 dead), with x as
// the column and y as the row.
func (p *Plane) Grid() *core.ByteGrid {
	g := core.NewByteGrid(p.width, p.height)
	cells := g.Cells()
	for row := 0; row < p.height; row++ {
		for col := 0; col < p.width; col++ {
			if p.Get(row, col) {
				cells[g.Index(col, row)] = 1
			}
		}
	}
	return g
}

// FromGrid packs a byte grid, treating any non-zero value as live.
func FromGrid(g *core.ByteGrid, bitsPerCell int) (*Plane, error) {
	p, err := New(g.W, g.H, bitsPerCell)
	if err != nil {
		return nil, err
	}
	cells := g.Cells()
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if cells[g.Index(x, y)] != 0 {
				p.Set(y, x)
			}
		}
	}
	return p, nil
}
