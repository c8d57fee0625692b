package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundlekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
outputDir: build
variants:
  - name: plain
    entry: src/plain.js
    flags: [scss]
  - name: app
    entry: src/app.tsx
    flags: [react, ts, scss, css-modules]
`)

	manifest, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "build", manifest.OutputDir)
	require.Len(t, manifest.Variants, 2)
	assert.Equal(t, "plain", manifest.Variants[0].Name)

	specs, err := manifest.Specs()
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.True(t, specs[1].Flags.Has(buildcfg.FlagReact))
	assert.True(t, specs[1].Flags.Has(buildcfg.FlagCSSModules))
	assert.Equal(t, "src/app.tsx", specs[1].Entry)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_NoVariants(t *testing.T) {
	path := writeManifest(t, "outputDir: build\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no variants")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeManifest(t, "variants: [\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestSpecs_UnknownFlag(t *testing.T) {
	path := writeManifest(t, `
variants:
  - name: web
    entry: src/index.js
    flags: [less]
`)

	manifest, err := Load(path)
	require.NoError(t, err)

	_, err = manifest.Specs()
	require.Error(t, err)

	var invalid *buildcfg.InvalidFlagError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "less", invalid.Name)
}

func TestSpecs_MissingName(t *testing.T) {
	path := writeManifest(t, `
variants:
  - entry: src/index.js
    flags: [scss]
`)

	manifest, err := Load(path)
	require.NoError(t, err)

	_, err = manifest.Specs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a name")
}
