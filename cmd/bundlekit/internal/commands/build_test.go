package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeFile(t *testing.T, rel, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(rel), 0750))
	require.NoError(t, os.WriteFile(rel, []byte(contents), 0600))
}

func TestBuildCmd_Run(t *testing.T) {
	chdir(t, t.TempDir())

	writeFile(t, "src/index.js", `console.log("hello");`)

	cmd := &BuildCmd{
		Mode: "production",
		BundleFlags: BundleFlags{
			Entries:  []string{"src/index.js"},
			OutDir:   "dist",
			EnvFile:  ".env",
			Manifest: "bundlekit.yaml",
		},
	}

	err := cmd.Run(context.Background(), &Globals{Version: "test"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join("dist", "index.html"))
	require.NoError(t, err)
}

func TestBuildCmd_Run_Manifest(t *testing.T) {
	chdir(t, t.TempDir())

	writeFile(t, "src/plain.js", `console.log("plain");`)
	writeFile(t, "src/other.js", `console.log("other");`)
	writeFile(t, "dist/stale.js", `// left over from a previous build`)
	writeFile(t, "bundlekit.yaml", `
variants:
  - name: plain
    entry: src/plain.js
  - name: other
    entry: src/other.js
`)

	cmd := &BuildCmd{
		Mode: "development",
		BundleFlags: BundleFlags{
			OutDir:   "dist",
			EnvFile:  ".env",
			Manifest: "bundlekit.yaml",
		},
	}

	err := cmd.Run(context.Background(), &Globals{})
	require.NoError(t, err)

	// Every variant's outputs survive in the shared directory: a later
	// variant's build must not wipe an earlier one's.
	for _, name := range []string{"plain", "other"} {
		shell, err := os.ReadFile(filepath.Join("dist", name+".html"))
		require.NoError(t, err, "variant %s shell missing", name)

		entries, err := filepath.Glob(filepath.Join("dist", name+"-*.js"))
		require.NoError(t, err)
		require.Len(t, entries, 1, "variant %s bundle missing", name)
		assert.Contains(t, string(shell), filepath.Base(entries[0]))
	}

	// Stale files are still cleaned, once, up front.
	_, err = os.Stat(filepath.Join("dist", "stale.js"))
	require.Error(t, err)
}

func TestBuildCmd_Run_InvalidFlag(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := &BuildCmd{
		Mode: "development",
		BundleFlags: BundleFlags{
			Flags:    []string{"less"},
			Entries:  []string{"src/index.js"},
			OutDir:   "dist",
			EnvFile:  ".env",
			Manifest: "bundlekit.yaml",
		},
	}

	err := cmd.Run(context.Background(), &Globals{})
	require.Error(t, err)

	var invalid *buildcfg.InvalidFlagError
	require.ErrorAs(t, err, &invalid)
}

func TestResolveConfigs_EnvFileDefines(t *testing.T) {
	chdir(t, t.TempDir())

	writeFile(t, ".env", "API_URL=https://example.com\n")

	flags := BundleFlags{
		Entries:  []string{"src/index.js"},
		OutDir:   "dist",
		EnvFile:  ".env",
		Manifest: "bundlekit.yaml",
	}

	configs, err := flags.resolveConfigs(buildcfg.ModeProduction, 0)
	require.NoError(t, err)
	require.Len(t, configs, 1)

	plugin, ok := configs[0].Plugin(buildcfg.PluginDefineEnv)
	require.True(t, ok)
	assert.Equal(t, `"https://example.com"`, plugin.Define["process.env.API_URL"])
	assert.Equal(t, `"production"`, plugin.Define["process.env.NODE_ENV"])
}

func TestResolveConfigs_ManifestOutputDir(t *testing.T) {
	chdir(t, t.TempDir())

	writeFile(t, "bundlekit.yaml", `
outputDir: build
variants:
  - name: web
    entry: src/index.js
    flags: [scss]
`)

	flags := BundleFlags{
		OutDir:   "dist",
		EnvFile:  ".env",
		Manifest: "bundlekit.yaml",
	}

	configs, err := flags.resolveConfigs(buildcfg.ModeDevelopment, 0)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "build", configs[0].OutputDir)
	assert.True(t, configs[0].Flags.Has(buildcfg.FlagSass))
}

func TestResolveConfigs_PortFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "4100")

	flags := BundleFlags{
		Entries:  []string{"src/index.js"},
		OutDir:   "dist",
		EnvFile:  ".env",
		Manifest: "bundlekit.yaml",
	}

	configs, err := flags.resolveConfigs(buildcfg.ModeDevelopment, 0)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, 4100, configs[0].Port)

	// An explicit port wins over the environment.
	configs, err = flags.resolveConfigs(buildcfg.ModeDevelopment, 5000)
	require.NoError(t, err)
	assert.Equal(t, 5000, configs[0].Port)
}

func TestResolveConfigs_PortDefault(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	flags := BundleFlags{
		Entries:  []string{"src/index.js"},
		OutDir:   "dist",
		EnvFile:  ".env",
		Manifest: "bundlekit.yaml",
	}

	configs, err := flags.resolveConfigs(buildcfg.ModeDevelopment, 0)
	require.NoError(t, err)
	assert.Equal(t, buildcfg.DefaultPort, configs[0].Port)
}

func TestPickVariant(t *testing.T) {
	configs := []buildcfg.Config{
		{Name: "web"},
		{Name: "admin"},
	}

	cfg, err := pickVariant(configs, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.Name)

	_, err = pickVariant(configs, "missing")
	require.Error(t, err)

	_, err = pickVariant(configs, "")
	require.Error(t, err)

	single, err := pickVariant(configs[:1], "")
	require.NoError(t, err)
	assert.Equal(t, "web", single.Name)
}
