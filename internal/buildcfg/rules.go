package buildcfg

// Processor names a single source-transforming step in a module rule chain.
// Processors are descriptive: the pipeline decides how each one lowers onto
// the bundler engine (a native loader, a plugin, or an external transformer).
type Processor string

const (
	// ProcStaticCopy copies the matched file into the output directory and
	// resolves imports of it to the emitted URL.
	ProcStaticCopy Processor = "static-copy"
	// ProcDownlevel transpiles modern script syntax down to the build target.
	ProcDownlevel Processor = "downlevel"
	// ProcTypeScript strips type annotations from typed script sources.
	ProcTypeScript Processor = "typescript"
	// ProcReact transforms component syntax (JSX) into plain script.
	ProcReact Processor = "react"
	// ProcSass preprocesses Sass/SCSS into plain CSS.
	ProcSass Processor = "sass"
	// ProcTailwind expands utility-CSS directives into generated CSS.
	ProcTailwind Processor = "tailwind"
	// ProcScopedCSS rewrites class names to be locally unique per file.
	ProcScopedCSS Processor = "scoped-css"
	// ProcXML converts an XML document into a structured-data module.
	ProcXML Processor = "xml"
	// ProcCSV converts a CSV document into a structured-data module.
	ProcCSV Processor = "csv"
)

// Rule maps a set of file extensions to an ordered processor chain. The
// chain follows the loader-list convention: processors are listed
// front-to-back but execute back-to-front, so the last entry sees the raw
// source and the first entry produces the final output.
type Rule struct {
	// Name identifies the rule in logs and conflict errors.
	Name string
	// Extensions the rule claims, each including the leading dot.
	Extensions []string
	// Use is the ordered processor chain.
	Use []Processor
}

// rule builders return fresh values so configurations never share slices.

func imageRule() Rule {
	return Rule{
		Name:       "image",
		Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"},
		Use:        []Processor{ProcStaticCopy},
	}
}

func fontRule() Rule {
	return Rule{
		Name:       "font",
		Extensions: []string{".woff", ".woff2", ".ttf", ".eot", ".otf"},
		Use:        []Processor{ProcStaticCopy},
	}
}

func scriptRule() Rule {
	return Rule{
		Name:       "script",
		Extensions: []string{".js", ".mjs"},
		Use:        []Processor{ProcDownlevel},
	}
}

// stylesheetRule builds the shared stylesheet rule for whichever style flags
// are present. With FlagSass the rule also claims preprocessor extensions;
// tailwind and scoped class names join the same chain rather than adding a
// second rule for the same files. Chain order keeps the utility-CSS
// processor ahead of the preprocessor, and the scoping step ahead of both,
// so back-to-front execution runs preprocess, then expand, then scope.
func stylesheetRule(flags FlagSet) Rule {
	rule := Rule{
		Name:       "stylesheet",
		Extensions: []string{".css"},
	}
	if flags.Has(FlagSass) {
		rule.Extensions = append([]string{".scss", ".sass"}, rule.Extensions...)
	}
	if flags.Has(FlagCSSModules) {
		rule.Use = append(rule.Use, ProcScopedCSS)
	}
	if flags.Has(FlagTailwind) {
		rule.Use = append(rule.Use, ProcTailwind)
	}
	if flags.Has(FlagSass) {
		rule.Use = append(rule.Use, ProcSass)
	}
	return rule
}

func typescriptRule() Rule {
	return Rule{
		Name:       "typescript",
		Extensions: []string{".ts"},
		Use:        []Processor{ProcDownlevel, ProcTypeScript},
	}
}

// componentRule builds the component-syntax rule. When typed is true the
// rule also claims .tsx and threads the typed-syntax processor into the
// chain exactly once.
func componentRule(typed bool) Rule {
	rule := Rule{
		Name:       "component",
		Extensions: []string{".jsx"},
		Use:        []Processor{ProcDownlevel, ProcReact},
	}
	if typed {
		rule.Extensions = append(rule.Extensions, ".tsx")
		rule.Use = append(rule.Use, ProcTypeScript)
	}
	return rule
}

func xmlRule() Rule {
	return Rule{
		Name:       "xml",
		Extensions: []string{".xml"},
		Use:        []Processor{ProcXML},
	}
}

func csvRule() Rule {
	return Rule{
		Name:       "csv",
		Extensions: []string{".csv"},
		Use:        []Processor{ProcCSV},
	}
}

// buildRules assembles the module rule table for a flag set: the three
// default rules followed by one rule per enabled capability group.
func buildRules(flags FlagSet) []Rule {
	rules := []Rule{imageRule(), fontRule(), scriptRule()}

	if flags.Has(FlagSass) || flags.Has(FlagTailwind) || flags.Has(FlagCSSModules) {
		rules = append(rules, stylesheetRule(flags))
	}
	if flags.Has(FlagXML) {
		rules = append(rules, xmlRule())
	}
	if flags.Has(FlagCSV) {
		rules = append(rules, csvRule())
	}
	if flags.Has(FlagTypeScript) {
		rules = append(rules, typescriptRule())
	}
	if flags.Has(FlagReact) {
		rules = append(rules, componentRule(flags.Has(FlagTypeScript)))
	}

	return rules
}

// checkRules rejects tables where two rules claim the same extension with
// different chains. Identical chains for the same extension are tolerated;
// order-dependent divergence is not.
func checkRules(rules []Rule) error {
	type claim struct {
		rule  string
		chain string
	}
	claims := make(map[string]claim, len(rules)*4)
	for _, rule := range rules {
		chain := chainKey(rule.Use)
		for _, ext := range rule.Extensions {
			if prev, ok := claims[ext]; ok && prev.chain != chain {
				return &ConflictingRuleError{Extension: ext, First: prev.rule, Second: rule.Name}
			}
			claims[ext] = claim{rule: rule.Name, chain: chain}
		}
	}
	return nil
}

func chainKey(use []Processor) string {
	key := ""
	for _, p := range use {
		key += string(p) + "|"
	}
	return key
}
