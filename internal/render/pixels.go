// Package render converts generations into RGBA pixel buffers.
package render

import (
	"image/color"

	"mad-life/pkg/history"
)

// Palette holds one colour per history.CellState.
type Palette [4]color.RGBA

// DefaultPalette shows survivors white, births green, deaths dim red and
// empty cells black.
var DefaultPalette = Palette{
	history.CellEmpty:  {R: 0, G: 0, B: 0, A: 255},
	history.CellBorn:   {R: 80, G: 220, B: 100, A: 255},
	history.CellDied:   {R: 110, G: 30, B: 30, A: 255},
	history.CellLiving: {R: 240, G: 240, B: 240, A: 255},
}

// BinaryPalette ignores history and shows live cells only.
var BinaryPalette = Palette{
	history.CellEmpty:  {A: 255},
	history.CellBorn:   {R: 255, G: 255, B: 255, A: 255},
	history.CellDied:   {A: 255},
	history.CellLiving: {R: 255, G: 255, B: 255, A: 255},
}

// FillFrameRGBA writes one pixel per frame cell into buf, which must hold
// 4*Width*Height bytes. Codes outside the palette use its last entry.
func FillFrameRGBA(buf []byte, f history.Frame, palette Palette) {
	last := len(palette) - 1
	for i, c := range f.Cells {
		idx := c
		if idx < 0 || idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
