package buildcfg

// PluginKind names an output-generation behaviour carried by a Config.
type PluginKind string

const (
	// PluginHTMLShell emits an HTML page loading the built bundle.
	PluginHTMLShell PluginKind = "html-shell"
	// PluginCleanOutput removes stale files from the output directory
	// before writing.
	PluginCleanOutput PluginKind = "clean-output"
	// PluginExtractCSS emits stylesheets as separate files linked from the
	// HTML shell. Production only.
	PluginExtractCSS PluginKind = "extract-css"
	// PluginInlineStyles inlines built stylesheets into the HTML shell.
	// Development only.
	PluginInlineStyles PluginKind = "inline-styles"
	// PluginDefineEnv injects compile-time constants into the bundle.
	PluginDefineEnv PluginKind = "define-env"
)

// Plugin describes one output-generation behaviour. Only the fields relevant
// to the kind are populated.
type Plugin struct {
	Kind PluginKind

	// Minify strips comments and collapses whitespace in generated HTML.
	// Used by PluginHTMLShell.
	Minify bool
	// Template overrides the built-in HTML shell template when non-empty.
	// Used by PluginHTMLShell.
	Template string
	// Define maps identifiers to replacement expressions. Used by
	// PluginDefineEnv.
	Define map[string]string
}

// Optimization is the minification policy for a build.
type Optimization struct {
	Minify bool
}

// Config is one complete, independently runnable build configuration. It is
// a pure value: constructing it touches neither filesystem nor network, and
// it is never mutated after New returns it.
type Config struct {
	// Name distinguishes variants produced in one factory call.
	Name string
	// Mode the configuration was built for.
	Mode Mode
	// Flags the configuration was built from.
	Flags FlagSet
	// Entries are the bundle entry point paths.
	Entries []string
	// OutputDir receives all emitted files.
	OutputDir string
	// EntryNames and AssetNames are output name templates. Both carry a
	// content hash in development and production alike.
	EntryNames string
	AssetNames string
	// Rules is the module rule table, defaults first.
	Rules []Rule
	// Optimization holds the minification policy.
	Optimization Optimization
	// Plugins lists output-generation behaviours in application order.
	Plugins []Plugin
	// Port is the local development server port.
	Port int
}

// Rule returns the named rule and whether it exists.
func (c Config) Rule(name string) (Rule, bool) {
	for _, r := range c.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// HasPlugin reports whether the plugin list contains the given kind.
func (c Config) HasPlugin(kind PluginKind) bool {
	for _, p := range c.Plugins {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

// Plugin returns the first plugin of the given kind and whether it exists.
func (c Config) Plugin(kind PluginKind) (Plugin, bool) {
	for _, p := range c.Plugins {
		if p.Kind == kind {
			return p, true
		}
	}
	return Plugin{}, false
}
