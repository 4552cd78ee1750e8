package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"mad-life/pkg/core"
	"mad-life/pkg/history"

	"github.com/spf13/cobra"
)

type printOptions struct {
	width, height int
	seed          int64
	generations   int
	tps           int
	lookback      int
}

func newPrintCmd() *cobra.Command {
	opts := printOptions{width: 40, height: 20, generations: 50}
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Run one life locally and print its generations as text",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := opts.seed
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			h := history.New(history.WithSeed(seed), history.WithLookback(opts.lookback))
			if err := h.Create(opts.width, opts.height); err != nil {
				return err
			}
			return printRun(cmd.Context(), cmd.OutOrStdout(), h, opts.generations, opts.tps)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.width, "width", opts.width, "grid width in cells")
	f.IntVar(&opts.height, "height", opts.height, "grid height in cells")
	f.Int64Var(&opts.seed, "seed", 0, "seed for the initial random life (default: time based)")
	f.IntVar(&opts.generations, "generations", opts.generations, "last serial to print")
	f.IntVar(&opts.tps, "tps", 0, "generations per second; 0 prints as fast as possible")
	f.IntVar(&opts.lookback, "lookback", 0, "compare only the last N generations when detecting repeats (0 = all)")
	return cmd
}

// printRun writes serials 0..last of h, stopping after the generation that
// ends the game.
func printRun(ctx context.Context, out io.Writer, h *history.History, last, tps int) error {
	var pace *core.FixedStep
	if tps > 0 {
		pace = core.NewFixedStep(tps)
	}
	for serial := 0; serial <= last; serial++ {
		if pace != nil {
			if err := pace.Wait(ctx); err != nil {
				return err
			}
		}
		g, err := h.Get(serial)
		if err != nil {
			return err
		}
		f := g.Frame(h.IsOver())
		if _, err := fmt.Fprintln(out, f.Text()); err != nil {
			return err
		}
		if f.Over {
			break
		}
	}
	return nil
}
