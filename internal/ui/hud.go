//go:build ebiten

package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"mad-life/pkg/history"
)

// HUD prints the status line over the top-left corner of the grid.
type HUD struct {
	visible bool
}

// NewHUD returns a visible HUD.
func NewHUD() *HUD { return &HUD{visible: true} }

// Toggle shows or hides the HUD.
func (h *HUD) Toggle() { h.visible = !h.visible }

// Draw renders the status line for f.
func (h *HUD) Draw(screen *ebiten.Image, f history.Frame, state history.State, paused bool) {
	if h == nil || !h.visible {
		return
	}
	ebitenutil.DebugPrintAt(screen, StatusLine(f, state, paused), 4, 4)
}
