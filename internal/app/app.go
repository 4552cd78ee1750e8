//go:build ebiten

package app

import (
	"time"

	"mad-life/internal/render"
	"mad-life/internal/ui"
	"mad-life/pkg/history"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a life history to the ebiten.Game interface.
type Game struct {
	cfg     *Config
	hist    *history.History
	gen     *history.Generation
	painter *render.GridPainter
	hud     *ui.HUD
	palette render.Palette

	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game and creates its first life.
func New(cfg *Config) (*Game, error) {
	g := &Game{
		cfg:     cfg,
		painter: render.NewGridPainter(cfg.Width, cfg.Height),
		hud:     ui.NewHUD(),
		palette: render.DefaultPalette,
	}
	if cfg.Binary {
		g.palette = render.BinaryPalette
	}
	if err := g.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset starts a new life from the provided seed.
func (g *Game) Reset(seed int64) error {
	g.seed = seed
	g.hist = history.New(history.WithSeed(seed), history.WithLookback(g.cfg.Lookback))
	if err := g.hist.Create(g.cfg.Width, g.cfg.Height); err != nil {
		return err
	}
	gen, err := g.hist.Get(0)
	if err != nil {
		return err
	}
	g.gen = gen
	g.tickOnce = false
	return nil
}

func (g *Game) show(serial int) error {
	if serial < 0 {
		return nil
	}
	gen, err := g.hist.Get(serial)
	if err != nil {
		return err
	}
	g.gen = gen
	return nil
}

// Update handles per-frame input and advances the displayed generation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) || inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.paused = true
		if err := g.show(g.gen.Serial() - 1); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.hud.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		return g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		return g.Reset(time.Now().UnixNano())
	}

	if !g.paused || g.tickOnce {
		g.tickOnce = false
		return g.show(g.gen.Serial() + 1)
	}
	return nil
}

// Draw renders the displayed generation.
func (g *Game) Draw(screen *ebiten.Image) {
	f := g.gen.Frame(g.hist.IsOver() && g.gen == g.hist.Last())
	g.painter.Blit(screen, f, g.palette, g.cfg.Scale)
	g.hud.Draw(screen, f, g.hist.State(), g.paused)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width * g.cfg.Scale, g.cfg.Height * g.cfg.Scale
}
