package buildcfg

import (
	"fmt"
	"strings"
)

// InvalidFlagError reports a feature flag name that is not recognised.
type InvalidFlagError struct {
	Name string
}

func (e *InvalidFlagError) Error() string {
	known := make([]string, len(allFlags))
	for i, f := range allFlags {
		known[i] = string(f)
	}
	return fmt.Sprintf("invalid feature flag %q (known flags: %s)", e.Name, strings.Join(known, ", "))
}

// ConflictingRuleError reports two module rules that claim the same file
// extension with different processor chains. Rule application order would
// otherwise decide which chain wins, which is never what anyone wants.
type ConflictingRuleError struct {
	Extension string
	First     string
	Second    string
}

func (e *ConflictingRuleError) Error() string {
	return fmt.Sprintf("conflicting rules for %s: %q and %q apply different processor chains",
		e.Extension, e.First, e.Second)
}
