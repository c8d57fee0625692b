package pipeline

import (
	"github.com/evanw/esbuild/pkg/api"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
)

// lower translates the configuration value into bundler engine options. The
// rule table becomes a loader map plus engine plugins; the optimization
// policy becomes the minify switches; the define-env plugin becomes the
// compile-time replacement map.
func (p *Pipeline) lower() api.BuildOptions {
	cfg := p.cfg

	opts := api.BuildOptions{
		EntryPoints: cfg.Entries,
		EntryNames:  cfg.EntryNames,
		AssetNames:  cfg.AssetNames,
		Outdir:      cfg.OutputDir,
		Bundle:      true,
		Write:       true,
		Metafile:    true,
		Format:      api.FormatESModule,
		Platform:    api.PlatformBrowser,
		Target:      api.ES2017,
		JSX:         api.JSXAutomatic,
		TreeShaking: api.TreeShakingTrue,
		LogLevel:    api.LogLevelSilent,

		MinifyWhitespace:  cfg.Optimization.Minify,
		MinifyIdentifiers: cfg.Optimization.Minify,
		MinifySyntax:      cfg.Optimization.Minify,
		Sourcemap:         cond(cfg.Mode.IsProduction(), api.SourceMapNone, api.SourceMapLinked),

		Loader: map[string]api.Loader{},
	}

	if define, ok := cfg.Plugin(buildcfg.PluginDefineEnv); ok {
		opts.Define = define.Define
	}

	for _, rule := range cfg.Rules {
		p.lowerRule(rule, &opts)
	}

	return opts
}

// lowerRule maps one module rule onto the engine. Rules whose chain the
// engine runs natively become loader map entries; the rest become plugins.
func (p *Pipeline) lowerRule(rule buildcfg.Rule, opts *api.BuildOptions) {
	switch rule.Name {
	case "stylesheet":
		p.lowerStylesheet(rule, opts)
		return
	case "xml":
		opts.Plugins = append(opts.Plugins, p.xmlPlugin())
		return
	case "csv":
		opts.Plugins = append(opts.Plugins, p.csvPlugin())
		return
	}

	loader := loaderForChain(rule.Use)
	for _, ext := range rule.Extensions {
		opts.Loader[ext] = loader
	}
}

// lowerStylesheet maps the stylesheet rule. Scoped class names use the
// engine's local-CSS loader; preprocessor and utility-CSS steps run through
// the external transformer plugin.
func (p *Pipeline) lowerStylesheet(rule buildcfg.Rule, opts *api.BuildOptions) {
	loader := api.LoaderCSS
	if hasProcessor(rule.Use, buildcfg.ProcScopedCSS) {
		loader = api.LoaderLocalCSS
	}

	chain := transformerChain(rule.Use)
	if len(chain) == 0 {
		for _, ext := range rule.Extensions {
			opts.Loader[ext] = loader
		}
		return
	}

	opts.Plugins = append(opts.Plugins, p.stylePlugin(rule, chain, loader))
}

// transformerChain extracts the processors that run as external transforms,
// in execution order. Chains list processors front-to-back but execute
// back-to-front.
func transformerChain(use []buildcfg.Processor) []buildcfg.Processor {
	chain := make([]buildcfg.Processor, 0, len(use))
	for i := len(use) - 1; i >= 0; i-- {
		switch use[i] {
		case buildcfg.ProcSass, buildcfg.ProcTailwind:
			chain = append(chain, use[i])
		}
	}
	return chain
}

func hasProcessor(use []buildcfg.Processor, proc buildcfg.Processor) bool {
	for _, p := range use {
		if p == proc {
			return true
		}
	}
	return false
}

// loaderForChain picks the native loader for a script or asset chain.
func loaderForChain(use []buildcfg.Processor) api.Loader {
	typed := hasProcessor(use, buildcfg.ProcTypeScript)
	component := hasProcessor(use, buildcfg.ProcReact)

	switch {
	case component && typed:
		return api.LoaderTSX
	case component:
		return api.LoaderJSX
	case typed:
		return api.LoaderTS
	case hasProcessor(use, buildcfg.ProcDownlevel):
		return api.LoaderJS
	default:
		return api.LoaderFile
	}
}
