package pipeline

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
)

//go:embed shell.html.tmpl
var defaultShellTemplate string

type shellData struct {
	Title      string
	Scripts    []string
	Styles     []string
	InlineCSS  []template.CSS
	LiveReload bool
}

// writeShell renders the HTML shell for the configuration's entry points.
// Production extracts stylesheets as links and strips comments and
// whitespace; development inlines styles and keeps the markup readable.
// Callers hold the write lock.
func (p *Pipeline) writeShell() error {
	shell, _ := p.cfg.Plugin(buildcfg.PluginHTMLShell)

	tmpl, err := p.shellTemplate(shell)
	if err != nil {
		return err
	}

	data := shellData{
		Title:      p.cfg.Name,
		LiveReload: p.liveReload,
	}

	inline := p.cfg.HasPlugin(buildcfg.PluginInlineStyles)
	for _, entry := range p.cfg.Entries {
		scripts, styles, err := p.assetsLocked(entry)
		if err != nil {
			return err
		}
		data.Scripts = append(data.Scripts, scripts...)

		for _, style := range styles {
			if !inline {
				data.Styles = append(data.Styles, style)
				continue
			}
			css, err := os.ReadFile(filepath.Join(p.cfg.OutputDir, strings.TrimPrefix(style, "/")))
			if err != nil {
				return fmt.Errorf("failed to read stylesheet for inlining: %w", err)
			}
			data.InlineCSS = append(data.InlineCSS, template.CSS(css)) //nolint:gosec
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render shell template: %w", err)
	}

	html := buf.String()
	if shell.Minify {
		html = minifyHTML(html)
	}

	name := "index.html"
	if p.cfg.Name != "" && p.cfg.Name != "default" {
		name = p.cfg.Name + ".html"
	}
	outPath := filepath.Join(p.cfg.OutputDir, name)

	if err := os.WriteFile(outPath, []byte(html), 0600); err != nil {
		return fmt.Errorf("failed to write html shell: %w", err)
	}

	log.Debug().Str("path", outPath).Int("scripts", len(data.Scripts)).Msg("Wrote html shell")
	return nil
}

func (p *Pipeline) shellTemplate(shell buildcfg.Plugin) (*template.Template, error) {
	if shell.Template == "" {
		return template.New("shell").Parse(defaultShellTemplate)
	}
	tmpl, err := template.ParseFiles(shell.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse shell template %s: %w", shell.Template, err)
	}
	return tmpl, nil
}

var (
	htmlCommentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)
	interTagWhitespace = regexp.MustCompile(`>\s+<`)
)

// minifyHTML strips comments and collapses whitespace between tags. The
// shell carries no significant inter-tag text, so this is safe for the
// markup we generate.
func minifyHTML(html string) string {
	html = htmlCommentPattern.ReplaceAllString(html, "")
	html = interTagWhitespace.ReplaceAllString(html, "><")
	return strings.TrimSpace(html)
}
