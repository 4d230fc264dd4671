package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/shellkit/internal/config"
	"github.com/vango-dev/shellkit/pkg/contentstore"
	"github.com/vango-dev/shellkit/pkg/manifest"
	"github.com/vango-dev/shellkit/pkg/routes"
)

// app is everything a command needs once configuration is loaded.
type app struct {
	config   *config.Config
	logger   *slog.Logger
	store    contentstore.Store
	manifest *manifest.Manifest
}

// loadApp reads the configuration and the route manifest.
func loadApp(cmd *cobra.Command, configFile string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(logOut)

	a := &app{config: cfg, logger: logger}
	var source manifest.LazySource
	switch {
	case cfg.Content.Dir != "":
		store := contentstore.NewDirStore(os.DirFS(cfg.Content.Dir)).WithMaxSize(cfg.Content.MaxSize)
		a.store, source = store, store
	case cfg.Content.S3.Bucket != "":
		client, err := contentstore.NewS3Client(cmd.Context(), cfg.Content.S3.Region, cfg.Content.S3.Endpoint)
		if err != nil {
			return nil, err
		}
		store := contentstore.NewS3Store(client, cfg.Content.S3.Bucket, cfg.Content.S3.Prefix).
			WithMaxSize(cfg.Content.MaxSize)
		a.store, source = store, store
	}

	reg := manifest.NewRegistry(source)
	var tree []routes.Descriptor
	registerBuiltins(reg, func() []routes.Descriptor { return tree })

	m, err := manifest.LoadFile(cfg.Routes.Manifest, reg)
	if err != nil {
		return nil, err
	}
	if cfg.Routes.RedirectIndexTo != "" {
		m.RedirectIndexTo = cfg.Routes.RedirectIndexTo
	}
	tree = m.Routes
	a.manifest = m

	logger.Debug("manifest loaded",
		"path", cfg.Routes.Manifest,
		"routes", len(m.Routes),
		"redirect_index_to", m.RedirectIndexTo)
	return a, nil
}
