//go:build !ebiten

package app

import "errors"

// ErrHeadless is returned by New when the viewer was built without ebiten.
var ErrHeadless = errors.New("app: the viewer requires building with the 'ebiten' tag")

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// New reports that the ebiten build tag is required for GUI support.
func New(*Config) (*Game, error) { return nil, ErrHeadless }

// Reset is a no-op placeholder.
func (g *Game) Reset(int64) error { return ErrHeadless }

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error { return ErrHeadless }

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
