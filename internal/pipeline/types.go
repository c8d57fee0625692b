package pipeline

import (
	"sync"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
)

// BuildMetadata is the parsed bundler metafile describing emitted outputs
// and their import graph.
type BuildMetadata struct {
	Outputs map[string]OutputInfo `json:"outputs"`
}

type OutputInfo struct {
	EntryPoint string       `json:"entryPoint"`
	Imports    []ImportInfo `json:"imports"`
	CSSBundle  string       `json:"cssBundle"`
}

type ImportInfo struct {
	Path string `json:"path"`
}

// TransformFunc is an externally supplied source transformer for a
// processor the bundler engine cannot run natively, such as a Sass compiler
// or a utility-CSS expander. It receives the source path and contents and
// returns the transformed contents.
type TransformFunc func(path string, src []byte) ([]byte, error)

// Pipeline lowers a build configuration onto the bundler engine, runs
// builds, and generates the HTML shell.
type Pipeline struct {
	cfg          buildcfg.Config
	transformers map[buildcfg.Processor]TransformFunc
	liveReload   bool
	compress     bool
	sharedOutput bool

	mu       sync.RWMutex
	metadata *BuildMetadata
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTransformer registers an external transformer for a processor. A
// processor without a registered transformer passes source through
// unchanged.
func WithTransformer(proc buildcfg.Processor, fn TransformFunc) Option {
	return func(p *Pipeline) {
		p.transformers[proc] = fn
	}
}

// WithLiveReload injects the reload listener into the generated HTML shell.
// Used by the development server.
func WithLiveReload() Option {
	return func(p *Pipeline) {
		p.liveReload = true
	}
}

// WithCompression precompresses emitted text assets with gzip after a
// successful build.
func WithCompression() Option {
	return func(p *Pipeline) {
		p.compress = true
	}
}

// WithSharedOutput marks the output directory as shared with other variants:
// this pipeline will not clean it, the caller cleans once with Clean before
// the first build. Without it a second variant's build would wipe the
// bundles the first one just wrote.
func WithSharedOutput() Option {
	return func(p *Pipeline) {
		p.sharedOutput = true
	}
}

// New creates a pipeline for one build configuration.
func New(cfg buildcfg.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:          cfg,
		transformers: map[buildcfg.Processor]TransformFunc{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the configuration the pipeline was built from.
func (p *Pipeline) Config() buildcfg.Config {
	return p.cfg
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
