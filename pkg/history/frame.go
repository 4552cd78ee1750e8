package history

import (
	"fmt"
	"strings"
)

// CellState classifies a cell against the previous generation. The value is
// the current live bit plus twice the previous live bit.
type CellState uint8

const (
	// CellEmpty is dead now and before.
	CellEmpty CellState = iota
	// CellBorn is live now and dead before.
	CellBorn
	// CellDied is dead now and live before.
	CellDied
	// CellLiving is live now and before.
	CellLiving
)

func (s CellState) String() string {
	switch s {
	case CellEmpty:
		return "empty"
	case CellBorn:
		return "newly-born"
	case CellDied:
		return "dead"
	case CellLiving:
		return "living"
	}
	return fmt.Sprintf("CellState(%d)", uint8(s))
}

// Rune is the plain-text glyph for the state.
func (s CellState) Rune() rune {
	switch s {
	case CellBorn:
		return '+'
	case CellDied:
		return 'x'
	case CellLiving:
		return '#'
	}
	return '.'
}

// Frame is a generation flattened for presentation: one CellState code per
// cell, row-major.
type Frame struct {
	Serial     int   `json:"serial"`
	Width      int   `json:"width"`
	Height     int   `json:"height"`
	Over       bool  `json:"over"`
	Population int   `json:"population"`
	Cells      []int `json:"cells"`
}

// Frame flattens g. over is the run's IsOver at the time of the request.
func (g *Generation) Frame(over bool) Frame {
	w, h := g.Width(), g.Height()
	cells := make([]int, 0, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			cells = append(cells, int(g.Classify(row, col)))
		}
	}
	return Frame{
		Serial:     g.serial,
		Width:      w,
		Height:     h,
		Over:       over,
		Population: g.world.Population(),
		Cells:      cells,
	}
}

// State returns the classification at (row, col).
func (f Frame) State(row, col int) CellState {
	return CellState(f.Cells[row*f.Width+col])
}

// Text renders the frame with a header line and one glyph per cell.
func (f Frame) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "serial=%d over=%t population=%d\n", f.Serial, f.Over, f.Population)
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			b.WriteRune(f.State(row, col).Rune())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
