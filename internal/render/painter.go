//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"mad-life/pkg/history"
)

// GridPainter uploads frames into a single image and draws it scaled.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit paints f with the palette and draws it onto dst.
func (gp *GridPainter) Blit(dst *ebiten.Image, f history.Frame, palette Palette, scale int) {
	if f.Width != gp.w || f.Height != gp.h {
		return
	}
	FillFrameRGBA(gp.buf, f, palette)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
