package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
)

// stylePlugin intercepts stylesheet sources and runs the external
// transformer chain before handing the result to the engine's CSS loader.
func (p *Pipeline) stylePlugin(rule buildcfg.Rule, chain []buildcfg.Processor, loader api.Loader) api.Plugin {
	filter := extensionFilter(rule.Extensions)

	return api.Plugin{
		Name: "bundlekit-styles",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: filter}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				src, err := os.ReadFile(args.Path)
				if err != nil {
					return api.OnLoadResult{}, err
				}

				for _, proc := range chain {
					fn, ok := p.transformers[proc]
					if !ok {
						log.Debug().Str("processor", string(proc)).Str("path", args.Path).
							Msg("no transformer registered, passing source through")
						continue
					}
					src, err = fn(args.Path, src)
					if err != nil {
						return api.OnLoadResult{}, fmt.Errorf("%s transform failed for %s: %w", proc, args.Path, err)
					}
				}

				contents := string(src)
				return api.OnLoadResult{Contents: &contents, Loader: loader}, nil
			})
		},
	}
}

// xmlPlugin loads XML documents as structured-data modules: the document is
// parsed into a generic node tree and imported as JSON.
func (p *Pipeline) xmlPlugin() api.Plugin {
	return api.Plugin{
		Name: "bundlekit-xml",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: `\.xml$`}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				src, err := os.ReadFile(args.Path)
				if err != nil {
					return api.OnLoadResult{}, err
				}

				data, err := xmlToJSON(src)
				if err != nil {
					return api.OnLoadResult{}, fmt.Errorf("failed to parse %s: %w", args.Path, err)
				}

				contents := string(data)
				return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJSON}, nil
			})
		},
	}
}

// csvPlugin loads CSV documents as structured-data modules: the first row
// is treated as the header and each following row becomes an object.
func (p *Pipeline) csvPlugin() api.Plugin {
	return api.Plugin{
		Name: "bundlekit-csv",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: `\.csv$`}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				src, err := os.ReadFile(args.Path)
				if err != nil {
					return api.OnLoadResult{}, err
				}

				data, err := csvToJSON(src)
				if err != nil {
					return api.OnLoadResult{}, fmt.Errorf("failed to parse %s: %w", args.Path, err)
				}

				contents := string(data)
				return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJSON}, nil
			})
		},
	}
}

// extensionFilter builds the engine's path filter regexp for a rule's
// extensions.
func extensionFilter(extensions []string) string {
	quoted := make([]string, len(extensions))
	for i, ext := range extensions {
		quoted[i] = regexp.QuoteMeta(strings.TrimPrefix(ext, "."))
	}
	return `\.(` + strings.Join(quoted, "|") + `)$`
}

// xmlNode is the generic JSON shape XML documents are imported as.
type xmlNode struct {
	Name     string            `json:"name"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []*xmlNode        `json:"children,omitempty"`
}

func xmlToJSON(src []byte) ([]byte, error) {
	decoder := xml.NewDecoder(bytes.NewReader(src))

	var root *xmlNode
	var stack []*xmlNode

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &xmlNode{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				node.Attrs = make(map[string]string, len(t.Attr))
				for _, attr := range t.Attr {
					node.Attrs[attr.Name.Local] = attr.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				text := strings.TrimSpace(string(t))
				if text != "" {
					stack[len(stack)-1].Text += text
				}
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}

	return json.Marshal(root)
}

func csvToJSON(src []byte) ([]byte, error) {
	reader := csv.NewReader(bytes.NewReader(src))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return json.Marshal([]any{})
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, field := range record {
			if i < len(header) {
				row[header[i]] = field
			}
		}
		rows = append(rows, row)
	}

	return json.Marshal(rows)
}
