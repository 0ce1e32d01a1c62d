package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vitalvas/iris/server"
)

func serveCmd() *cobra.Command {
	var metricsAddress string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}

			logger, err := server.NewLogger(cfg.Logging, os.Stderr)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			srv := server.New(cfg, server.WithLogger(logger), server.WithRegisterer(reg))
			if err := buildApp(srv); err != nil {
				return err
			}

			if logger.Enabled(cmd.Context(), slog.LevelDebug) {
				if err := srv.DumpRoutes(os.Stderr); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return srv.ListenAndServe(gctx)
			})

			if metricsAddress != "" {
				metricsServer := &http.Server{
					Addr:              metricsAddress,
					Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
					ReadHeaderTimeout: 5 * time.Second,
				}

				g.Go(func() error {
					logger.Info("serving metrics", "address", metricsAddress)
					if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("metrics server: %w", err)
					}
					return nil
				})

				g.Go(func() error {
					<-gctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return metricsServer.Shutdown(shutdownCtx)
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&metricsAddress, "metrics-address", "", "address to expose Prometheus metrics on (disabled when empty)")

	return cmd
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}

			srv := server.New(cfg)
			if err := buildApp(srv); err != nil {
				return err
			}

			return srv.DumpRoutes(cmd.OutOrStdout())
		},
	}
}
