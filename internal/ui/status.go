// Package ui draws the viewer's status line.
package ui

import (
	"fmt"

	"mad-life/pkg/history"
)

// StatusLine summarizes the displayed generation.
func StatusLine(f history.Frame, state history.State, paused bool) string {
	line := fmt.Sprintf("gen %d  pop %d  %s", f.Serial, f.Population, state)
	if f.Over {
		line += "  (game over)"
	}
	if paused {
		line += "  [paused]"
	}
	return line
}
