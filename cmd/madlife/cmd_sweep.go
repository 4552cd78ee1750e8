package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"

	"mad-life/pkg/history"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type sweepOptions struct {
	runs, workers int
	width, height int
	limit         int
	seed          int64
	lookback      int
}

type sweepResult struct {
	seed       int64
	stabilized bool
	serial     int
	population int
}

type sweepSummary struct {
	runs       int
	stabilized int
	minSerial  int
	medSerial  int
	maxSerial  int
	meanPop    float64
}

func newSweepCmd() *cobra.Command {
	opts := sweepOptions{runs: 200, workers: runtime.NumCPU(), width: 64, height: 64, limit: 5000, seed: 1}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run many random lives in parallel and report how they end",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sweeping %d lives of %dx%d (%d workers, limit %d)\n",
				opts.runs, opts.width, opts.height, opts.workers, opts.limit)
			results, err := runSweep(cmd.Context(), opts)
			if err != nil {
				return err
			}
			writeSummary(out, summarize(results, opts.limit))
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.runs, "runs", opts.runs, "number of lives")
	f.IntVar(&opts.workers, "workers", opts.workers, "number of worker goroutines")
	f.IntVar(&opts.width, "width", opts.width, "grid width in cells")
	f.IntVar(&opts.height, "height", opts.height, "grid height in cells")
	f.IntVar(&opts.limit, "limit", opts.limit, "last serial to compute per life")
	f.Int64Var(&opts.seed, "seed", opts.seed, "seed of the first life; life i uses seed+i")
	f.IntVar(&opts.lookback, "lookback", 0, "compare only the last N generations when detecting repeats (0 = all)")
	return cmd
}

func runSweep(ctx context.Context, opts sweepOptions) ([]sweepResult, error) {
	results := make([]sweepResult, opts.runs)
	g, ctx := errgroup.WithContext(ctx)
	if opts.workers > 0 {
		g.SetLimit(opts.workers)
	}
	for i := range results {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := opts.seed + int64(i)
			h := history.New(history.WithSeed(seed), history.WithLookback(opts.lookback))
			if err := h.Create(opts.width, opts.height); err != nil {
				return fmt.Errorf("life %d: %w", i, err)
			}
			gen, err := h.Get(opts.limit)
			if err != nil {
				return fmt.Errorf("life %d: %w", i, err)
			}
			results[i] = sweepResult{
				seed:       seed,
				stabilized: h.IsOver(),
				serial:     gen.Serial(),
				population: gen.World().Population(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// summarize reports serial statistics over the lives that stabilized.
func summarize(results []sweepResult, limit int) sweepSummary {
	s := sweepSummary{runs: len(results)}
	var serials []int
	total := 0
	for _, r := range results {
		total += r.population
		if r.stabilized {
			serials = append(serials, r.serial)
		}
	}
	if len(results) > 0 {
		s.meanPop = float64(total) / float64(len(results))
	}
	s.stabilized = len(serials)
	if len(serials) == 0 {
		s.minSerial, s.medSerial, s.maxSerial = limit, limit, limit
		return s
	}
	sort.Ints(serials)
	s.minSerial = serials[0]
	s.medSerial = serials[len(serials)/2]
	s.maxSerial = serials[len(serials)-1]
	return s
}

func writeSummary(out io.Writer, s sweepSummary) {
	fmt.Fprintf(out, "stabilized %d/%d\n", s.stabilized, s.runs)
	fmt.Fprintf(out, "serial min=%d median=%d max=%d\n", s.minSerial, s.medSerial, s.maxSerial)
	fmt.Fprintf(out, "final population mean=%.1f\n", s.meanPop)
}
