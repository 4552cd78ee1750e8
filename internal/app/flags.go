package app

import "flag"

// Config represents the command-line parameters for the viewer.
type Config struct {
	Width    int
	Height   int
	Scale    int
	TPS      int
	Seed     int64
	Lookback int
	Binary   bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Width: 160, Height: 120, Scale: 4, TPS: 15, Seed: 42}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "grid height in cells")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "generations per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the initial random life")
	fs.IntVar(&c.Lookback, "lookback", c.Lookback, "compare only the last N generations when detecting repeats (0 = all)")
	fs.BoolVar(&c.Binary, "binary", c.Binary, "draw live cells only, without birth and death colours")
}
