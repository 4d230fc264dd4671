package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/shellkit/pkg/hostbridge"
	"github.com/vango-dev/shellkit/pkg/routes"
)

func serveCmd(configFile *string) *cobra.Command {
	var styleSheets []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route manifest over HTTP",
		Long: `Serve renders every route on the server and keeps a websocket
session per browser tab for client side navigation.

Examples:
  shellkit serve
  shellkit serve --addr :3000 --content-dir ./content
  shellkit serve --s3-bucket site-content --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *configFile, styleSheets)
		},
	}

	cmd.Flags().StringP("addr", "a", "", "Listen address")
	cmd.Flags().Bool("metrics", false, "Expose Prometheus metrics")
	cmd.Flags().String("sentry-dsn", "", "Report lazy load failures to Sentry")
	cmd.Flags().StringSliceVar(&styleSheets, "stylesheet", nil, "Stylesheet URL linked from every page")

	return cmd
}

func runServe(cmd *cobra.Command, configFile string, styleSheets []string) error {
	a, err := loadApp(cmd, configFile, os.Stderr)
	if err != nil {
		return err
	}
	cfg := a.config

	server := hostbridge.Config{
		Addr:            cfg.Server.Addr,
		Lang:            cfg.Server.Lang,
		Routes:          a.manifest.Routes,
		RedirectIndexTo: a.manifest.RedirectIndexTo,
		StyleSheets:     styleSheets,
		Logger:          a.logger,
	}

	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		server.Metrics = routes.NewMetrics(
			routes.WithNamespace(cfg.Metrics.Namespace),
			routes.WithRegistry(registry),
		)
		server.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		server.MetricsPath = cfg.Metrics.Path
	}

	if cfg.Sentry.DSN != "" {
		reporter, err := hostbridge.NewSentryReporter(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
			Release:     "shellkit@" + version,
		})
		if err != nil {
			return fmt.Errorf("sentry: %w", err)
		}
		server.Reporter = reporter
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	srv := hostbridge.New(server)
	if path := cfg.Path(); path != "" {
		a.logger.Info("config loaded", "path", path)
	}
	a.logger.Info("serving",
		"addr", cfg.Server.Addr,
		"manifest", cfg.Routes.Manifest,
		"metrics", cfg.Metrics.Enabled,
		"startup", time.Since(start))

	return srv.Run(ctx)
}
