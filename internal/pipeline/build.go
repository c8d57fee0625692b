package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
)

// Build runs the bundler engine with the lowered configuration, parses the
// resulting metadata, and generates the HTML shell.
func (p *Pipeline) Build() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	buildID := uuid.NewString()
	buildLog := log.With().Str("build_id", buildID).Str("variant", p.cfg.Name).Logger()

	for _, entry := range p.cfg.Entries {
		if _, err := os.Stat(entry); err != nil {
			return fmt.Errorf("entry point %s not found: %w", entry, err)
		}
	}

	if err := p.cleanOutput(); err != nil {
		return err
	}

	buildLog.Info().
		Strs("entrypoints", p.cfg.Entries).
		Strs("flags", p.cfg.Flags.Strings()).
		Str("mode", string(p.cfg.Mode)).
		Msg("Building assets")

	result := api.Build(p.lower())

	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			buildLog.Error().Str("error", msg.Text).Msg("Build error")
		}
		return errors.New("build failed with errors")
	}

	for _, file := range result.OutputFiles {
		buildLog.Debug().Str("file", file.Path).Msg("Built file")
	}

	if err := p.applyResult(result.Metafile); err != nil {
		return err
	}

	if p.compress {
		if err := precompressOutputs(p.cfg.OutputDir); err != nil {
			return fmt.Errorf("failed to precompress outputs: %w", err)
		}
	}

	buildLog.Info().Str("outdir", p.cfg.OutputDir).Msg("Build complete")
	return nil
}

// Clean empties an output directory. Callers building several variants into
// one directory clean it once here instead of per pipeline.
func Clean(outputDir string) error {
	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to clean output dir: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	return nil
}

// cleanOutput empties the output directory when the configuration carries
// the clean-output plugin and the directory is not shared with other
// variants. Callers hold the write lock.
func (p *Pipeline) cleanOutput() error {
	if p.sharedOutput || !p.cfg.HasPlugin(buildcfg.PluginCleanOutput) {
		return nil
	}
	return Clean(p.cfg.OutputDir)
}

// applyResult parses the metafile and regenerates the HTML shell. Callers
// hold the write lock.
func (p *Pipeline) applyResult(metafile string) error {
	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(metafile), &metadata); err != nil {
		return fmt.Errorf("failed to parse build metadata: %w", err)
	}
	p.metadata = &metadata

	if p.cfg.HasPlugin(buildcfg.PluginHTMLShell) {
		if err := p.writeShell(); err != nil {
			return fmt.Errorf("failed to generate html shell: %w", err)
		}
	}
	return nil
}

// Assets returns the ordered script URLs and stylesheet URLs needed for the
// given entry point, walking the import graph breadth-first from the entry's
// output.
func (p *Pipeline) Assets(entryPoint string) ([]string, []string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.assetsLocked(entryPoint)
}

func (p *Pipeline) assetsLocked(entryPoint string) ([]string, []string, error) {
	if p.metadata == nil {
		return nil, nil, errors.New("assets not built yet, call Build() first")
	}

	want := filepath.ToSlash(filepath.Clean(entryPoint))
	for outputPath, info := range p.metadata.Outputs {
		if filepath.ToSlash(filepath.Clean(info.EntryPoint)) != want {
			continue
		}

		scripts := []string{p.outputURL(outputPath)}
		styles := []string{}
		if info.CSSBundle != "" {
			styles = append(styles, p.outputURL(info.CSSBundle))
		}

		visited := map[string]bool{outputPath: true}
		p.addDependencies(info, &scripts, &styles, visited)
		return scripts, styles, nil
	}

	return nil, nil, fmt.Errorf("entry point %s not found in build metadata", entryPoint)
}

func (p *Pipeline) addDependencies(output OutputInfo, scripts, styles *[]string, visited map[string]bool) {
	for _, imp := range output.Imports {
		if visited[imp.Path] {
			continue
		}
		visited[imp.Path] = true

		if strings.HasSuffix(imp.Path, ".css") {
			*styles = append(*styles, p.outputURL(imp.Path))
		} else {
			*scripts = append(*scripts, p.outputURL(imp.Path))
		}

		if chunkInfo, exists := p.metadata.Outputs[imp.Path]; exists {
			p.addDependencies(chunkInfo, scripts, styles, visited)
		}
	}
}

// outputURL converts a metafile output path into a root-relative URL.
func (p *Pipeline) outputURL(outputPath string) string {
	rel, err := filepath.Rel(p.cfg.OutputDir, outputPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "/" + filepath.ToSlash(outputPath)
	}
	return "/" + filepath.ToSlash(rel)
}
