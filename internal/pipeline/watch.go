package pipeline

import (
	"context"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
)

// Watch starts the bundler engine in watch mode. Every successful rebuild
// refreshes the build metadata, regenerates the HTML shell, and pulses the
// returned channel, which the development server fans out to live-reload
// listeners. The watcher stops when ctx is cancelled and the channel is
// closed.
func (p *Pipeline) Watch(ctx context.Context) (<-chan struct{}, error) {
	p.mu.Lock()
	if err := p.cleanOutput(); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.mu.Unlock()

	rebuilt := make(chan struct{}, 1)

	opts := p.lower()
	opts.Plugins = append(opts.Plugins, api.Plugin{
		Name: "bundlekit-reload",
		Setup: func(build api.PluginBuild) {
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if len(result.Errors) > 0 {
					for _, msg := range result.Errors {
						log.Error().Str("error", msg.Text).Msg("Rebuild error")
					}
					return api.OnEndResult{}, nil
				}

				p.mu.Lock()
				err := p.applyResult(result.Metafile)
				p.mu.Unlock()
				if err != nil {
					log.Error().Err(err).Msg("Failed to apply rebuild result")
					return api.OnEndResult{}, nil
				}

				log.Info().Str("variant", p.cfg.Name).Msg("Rebuilt assets")
				select {
				case rebuilt <- struct{}{}:
				default:
				}
				return api.OnEndResult{}, nil
			})
		},
	})

	buildCtx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return nil, fmt.Errorf("failed to create watch context: %w", ctxErr)
	}

	if err := buildCtx.Watch(api.WatchOptions{}); err != nil {
		buildCtx.Dispose()
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	go func() {
		<-ctx.Done()
		buildCtx.Dispose()
		close(rebuilt)
	}()

	return rebuilt, nil
}
