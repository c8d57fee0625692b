package buildcfg

import "fmt"

// Mode selects the build environment. It constrains minification and a
// handful of plugin behaviours; everything else is driven by feature flags.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// ParseMode parses a mode string as supplied via the MODE environment
// variable. An empty string defaults to development.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeDevelopment):
		return ModeDevelopment, nil
	case string(ModeProduction):
		return ModeProduction, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected development or production)", s)
	}
}

// IsProduction reports whether minified, extraction-based output is wanted.
func (m Mode) IsProduction() bool {
	return m == ModeProduction
}
