package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mad-life/internal/config"
	"mad-life/internal/logging"
	"mad-life/internal/metrics"
	"mad-life/internal/server"
	"mad-life/internal/session"
	"mad-life/pkg/history"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var listen string
	var debug bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve per-session lives over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}
			if root.logLevel != "" {
				cfg.Log.Level = root.logLevel
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (overrides config)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable gin debug mode and request logging")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "madlife"})
	slog.SetDefault(logger)

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promReg)

	reg := session.NewRegistry(session.Options{
		Logger:  logger,
		Metrics: m,
		TTL:     cfg.Session.TTL,
		Defaults: session.Defaults{
			Width:  cfg.Life.DefaultWidth,
			Height: cfg.Life.DefaultHeight,
		},
		HistoryOptions: []history.Option{history.WithLookback(cfg.Life.Lookback)},
	})
	if cfg.Life.Lookback > 0 {
		logger.Warn("bounded repeat detection enabled; oscillators with longer periods never end",
			"lookback", cfg.Life.Lookback)
	}

	router := server.NewRouter(server.Deps{
		Config:   cfg,
		Registry: reg,
		Metrics:  m,
		Gatherer: promReg,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go reg.Run(ctx, cfg.Session.SweepInterval)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting madlife server", "address", cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down madlife server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
