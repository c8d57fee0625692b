package buildcfg

import "encoding/json"

// Flag is a named capability toggle selecting which module rules and plugins
// a configuration includes. Flags are typed rather than free-form strings so
// a typo is a parse error instead of a silently ignored capability.
type Flag string

const (
	// FlagSass enables stylesheet preprocessing for .scss/.sass sources.
	FlagSass Flag = "scss"
	// FlagTailwind enables utility-CSS expansion in the stylesheet chain.
	FlagTailwind Flag = "tailwind"
	// FlagCSSModules enables scoped class names, rewriting stylesheet class
	// names to be locally unique per file.
	FlagCSSModules Flag = "css-modules"
	// FlagTypeScript enables typed script sources (.ts).
	FlagTypeScript Flag = "ts"
	// FlagReact enables component syntax (.jsx, and .tsx when combined with
	// FlagTypeScript).
	FlagReact Flag = "react"
	// FlagXML enables importing XML documents as structured data.
	FlagXML Flag = "xml"
	// FlagCSV enables importing CSV documents as structured data.
	FlagCSV Flag = "csv"
)

// allFlags is the canonical ordering used when iterating a set.
var allFlags = []Flag{
	FlagSass,
	FlagTailwind,
	FlagCSSModules,
	FlagTypeScript,
	FlagReact,
	FlagXML,
	FlagCSV,
}

// FlagSet is an immutable set of feature flags. The zero value is the empty
// set and is ready to use.
type FlagSet struct {
	flags map[Flag]bool
}

// NewFlagSet builds a set from the given flags. Duplicates collapse.
func NewFlagSet(flags ...Flag) FlagSet {
	set := make(map[Flag]bool, len(flags))
	for _, f := range flags {
		set[f] = true
	}
	return FlagSet{flags: set}
}

// ParseFlags parses flag names as supplied on the command line or in a
// manifest. Unrecognised names are rejected with an InvalidFlagError rather
// than silently dropped.
func ParseFlags(names []string) (FlagSet, error) {
	set := make(map[Flag]bool, len(names))
	for _, name := range names {
		f := Flag(name)
		if !knownFlag(f) {
			return FlagSet{}, &InvalidFlagError{Name: name}
		}
		set[f] = true
	}
	return FlagSet{flags: set}, nil
}

func knownFlag(f Flag) bool {
	for _, known := range allFlags {
		if f == known {
			return true
		}
	}
	return false
}

// Has reports whether the set contains f.
func (s FlagSet) Has(f Flag) bool {
	return s.flags[f]
}

// List returns the contained flags in canonical order.
func (s FlagSet) List() []Flag {
	out := make([]Flag, 0, len(s.flags))
	for _, f := range allFlags {
		if s.flags[f] {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of flags in the set.
func (s FlagSet) Len() int {
	return len(s.flags)
}

// MarshalJSON renders the set as a list of flag names in canonical order.
func (s FlagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// Strings returns the flag names in canonical order, for logging.
func (s FlagSet) Strings() []string {
	list := s.List()
	out := make([]string, len(list))
	for i, f := range list {
		out[i] = string(f)
	}
	return out
}
