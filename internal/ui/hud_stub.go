//go:build !ebiten

package ui

import "mad-life/pkg/history"

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD() *HUD { return nil }

// Toggle is a no-op in the headless build.
func (h *HUD) Toggle() {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, history.Frame, history.State, bool) {}
