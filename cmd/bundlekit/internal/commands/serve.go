package commands

import (
	"context"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
	"github.com/wolfeidau/bundlekit/internal/devserver"
	"github.com/wolfeidau/bundlekit/internal/logger"
	"github.com/wolfeidau/bundlekit/internal/pipeline"
)

type ServeCmd struct {
	Port    int    `help:"Development server port; overrides the PORT environment variable" default:"0"`
	Variant string `help:"Variant to serve when a manifest defines several" default:""`

	BundleFlags `embed:""`
}

// Run always serves a development-mode build: the dev server exists to give
// fast rebuilds and live reload, not to preview minified output.
func (s *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	configs, err := s.resolveConfigs(buildcfg.ModeDevelopment, s.Port)
	if err != nil {
		return err
	}

	cfg, err := pickVariant(configs, s.Variant)
	if err != nil {
		return err
	}

	log.Info().Str("version", globals.Version).Str("variant", cfg.Name).
		Int("port", cfg.Port).Msg("Starting development server")

	p := pipeline.New(cfg, pipeline.WithLiveReload())
	return devserver.New(p, log).Run(ctx)
}
