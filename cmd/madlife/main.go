// Command madlife serves, prints and sweeps Game of Life runs.
//
// Usage:
//
//	madlife serve --config madlife.yaml
//	madlife print --width 40 --height 20 --generations 100 --tps 8
//	madlife sweep --runs 500 --width 64 --height 64 --limit 5000
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "madlife",
		Short:         "Conway's Game of Life on a torus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(newServeCmd(opts), newPrintCmd(), newSweepCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "madlife: %v\n", err)
		os.Exit(1)
	}
}
