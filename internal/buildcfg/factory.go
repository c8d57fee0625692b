package buildcfg

import (
	"errors"
	"fmt"
	"maps"
)

// DefaultPort is used for the local development server when no port is
// configured.
const DefaultPort = 3000

const (
	defaultEntry      = "src/index.js"
	defaultOutputDir  = "dist"
	defaultEntryNames = "[dir]/[name]-[hash]"
	defaultAssetNames = "assets/[name]-[hash]"
)

// Options carries the factory inputs that are not part of the flag set.
// Environment-derived values (MODE, PORT, .env contents) are captured into
// this struct once at the call boundary; the factory itself never reads the
// process environment.
type Options struct {
	// Entries are bundle entry points. Defaults to src/index.js.
	Entries []string
	// OutputDir receives emitted files. Defaults to dist.
	OutputDir string
	// Port for the local development server. Defaults to DefaultPort.
	Port int
	// Define maps environment keys to replacement expressions injected into
	// the bundle at compile time.
	Define map[string]string
	// HTMLTemplate overrides the built-in HTML shell template.
	HTMLTemplate string
	// ExtraRules are appended after the flag-derived rules. They are checked
	// against the table for conflicting claims.
	ExtraRules []Rule
}

// New translates a mode and a feature-flag set into a complete build
// configuration. It is a pure function: identical inputs yield structurally
// identical configurations, and it performs no I/O.
func New(mode Mode, flags FlagSet, opts Options) (Config, error) {
	if mode != ModeDevelopment && mode != ModeProduction {
		return Config{}, fmt.Errorf("unknown mode %q", mode)
	}

	entries := opts.Entries
	if len(entries) == 0 {
		entries = []string{defaultEntry}
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	port := opts.Port
	if port == 0 {
		port = DefaultPort
	}

	rules := buildRules(flags)
	rules = append(rules, opts.ExtraRules...)
	if err := checkRules(rules); err != nil {
		return Config{}, err
	}

	define := make(map[string]string, len(opts.Define)+1)
	maps.Copy(define, opts.Define)
	// The mode always wins over caller-supplied defines.
	define["process.env.NODE_ENV"] = fmt.Sprintf("%q", string(mode))

	prod := mode.IsProduction()
	plugins := []Plugin{
		{Kind: PluginCleanOutput},
		{Kind: PluginHTMLShell, Minify: prod, Template: opts.HTMLTemplate},
		{Kind: PluginDefineEnv, Define: define},
	}
	if prod {
		plugins = append(plugins, Plugin{Kind: PluginExtractCSS})
	} else {
		plugins = append(plugins, Plugin{Kind: PluginInlineStyles})
	}

	return Config{
		Name:         "default",
		Mode:         mode,
		Flags:        flags,
		Entries:      entries,
		OutputDir:    outputDir,
		EntryNames:   defaultEntryNames,
		AssetNames:   defaultAssetNames,
		Rules:        rules,
		Optimization: Optimization{Minify: prod},
		Plugins:      plugins,
		Port:         port,
	}, nil
}

// VariantSpec names one configuration variant for Variants.
type VariantSpec struct {
	Name  string
	Entry string
	Flags FlagSet
}

// Variants produces one independent configuration per spec in a single call.
// Each variant carries its own entry point and module rule table; shared
// options (output dir, defines, port) apply to all of them.
func Variants(mode Mode, specs []VariantSpec, opts Options) ([]Config, error) {
	if len(specs) == 0 {
		return nil, errors.New("no variants given")
	}

	seen := make(map[string]bool, len(specs))
	configs := make([]Config, 0, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, errors.New("variant name is required")
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("duplicate variant name %q", spec.Name)
		}
		seen[spec.Name] = true

		variantOpts := opts
		if spec.Entry != "" {
			variantOpts.Entries = []string{spec.Entry}
		}

		cfg, err := New(mode, spec.Flags, variantOpts)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", spec.Name, err)
		}
		cfg.Name = spec.Name
		configs = append(configs, cfg)
	}
	return configs, nil
}
