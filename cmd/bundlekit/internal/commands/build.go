package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
	"github.com/wolfeidau/bundlekit/internal/logger"
	"github.com/wolfeidau/bundlekit/internal/pipeline"
)

type BuildCmd struct {
	Mode     string `help:"Build mode" env:"MODE" default:"development" enum:"development,production"`
	Compress bool   `help:"Precompress text outputs with gzip" default:"false"`

	BundleFlags `embed:""`
}

func (b *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	mode, err := buildcfg.ParseMode(b.Mode)
	if err != nil {
		return err
	}

	configs, err := b.resolveConfigs(mode, 0)
	if err != nil {
		return err
	}

	log.Info().Str("version", globals.Version).Str("mode", string(mode)).
		Int("variants", len(configs)).Msg("Starting build")

	// Variants share an output directory, so clean it once up front rather
	// than per build, which would wipe each previous variant's bundles.
	multi := len(configs) > 1
	if multi {
		cleaned := map[string]bool{}
		for _, cfg := range configs {
			if !cfg.HasPlugin(buildcfg.PluginCleanOutput) || cleaned[cfg.OutputDir] {
				continue
			}
			if err := pipeline.Clean(cfg.OutputDir); err != nil {
				return err
			}
			cleaned[cfg.OutputDir] = true
		}
	}

	for _, cfg := range configs {
		opts := []pipeline.Option{}
		if multi {
			opts = append(opts, pipeline.WithSharedOutput())
		}
		if b.Compress {
			opts = append(opts, pipeline.WithCompression())
		}
		if err := pipeline.New(cfg, opts...).Build(); err != nil {
			return fmt.Errorf("variant %q: %w", cfg.Name, err)
		}
	}

	return nil
}
