package commands

import (
	"fmt"
	"os"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
	"github.com/wolfeidau/bundlekit/internal/env"
	"github.com/wolfeidau/bundlekit/internal/project"
)

type Globals struct {
	Debug   bool
	Version string
}

// BundleFlags are the inputs shared by every command that resolves build
// configurations.
type BundleFlags struct {
	Flags    []string `help:"Feature flags to enable (scss, tailwind, css-modules, ts, react, xml, csv)" name:"flag" env:"BUNDLEKIT_FLAGS"`
	Entries  []string `help:"Bundle entry points" name:"entry" default:"src/index.js"`
	OutDir   string   `help:"Output directory" default:"dist" env:"BUNDLEKIT_OUT_DIR"`
	EnvFile  string   `help:"Env file injected into the bundle at compile time" default:".env"`
	Manifest string   `help:"Variant manifest; used when the file exists" default:"bundlekit.yaml"`
	Template string   `help:"Custom HTML shell template" default:""`
}

// resolveConfigs builds the configuration set for a command: every variant
// in the manifest when one exists, otherwise a single configuration from the
// command-line flags.
func (b *BundleFlags) resolveConfigs(mode buildcfg.Mode, port int) ([]buildcfg.Config, error) {
	environment, err := env.Load(b.EnvFile)
	if err != nil {
		return nil, err
	}
	environment.Mode = mode

	// The captured environment is the single source of truth for PORT; an
	// explicit --port flag overrides it.
	if port == 0 {
		port = environment.Port
	}

	opts := buildcfg.Options{
		Entries:      b.Entries,
		OutputDir:    b.OutDir,
		Port:         port,
		Define:       environment.Define(),
		HTMLTemplate: b.Template,
	}

	if _, err := os.Stat(b.Manifest); err == nil {
		manifest, err := project.Load(b.Manifest)
		if err != nil {
			return nil, err
		}
		if manifest.OutputDir != "" {
			opts.OutputDir = manifest.OutputDir
		}
		specs, err := manifest.Specs()
		if err != nil {
			return nil, err
		}
		return buildcfg.Variants(mode, specs, opts)
	}

	flags, err := buildcfg.ParseFlags(b.Flags)
	if err != nil {
		return nil, err
	}

	cfg, err := buildcfg.New(mode, flags, opts)
	if err != nil {
		return nil, err
	}
	return []buildcfg.Config{cfg}, nil
}

// pickVariant returns the named configuration, or the only one when no name
// is given.
func pickVariant(configs []buildcfg.Config, name string) (buildcfg.Config, error) {
	if name == "" {
		if len(configs) > 1 {
			names := make([]string, len(configs))
			for i, cfg := range configs {
				names[i] = cfg.Name
			}
			return buildcfg.Config{}, fmt.Errorf("multiple variants defined, pick one with --variant: %v", names)
		}
		return configs[0], nil
	}
	for _, cfg := range configs {
		if cfg.Name == name {
			return cfg, nil
		}
	}
	return buildcfg.Config{}, fmt.Errorf("variant %q not found", name)
}
