package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
)

type ShowCmd struct {
	Mode string `help:"Build mode" env:"MODE" default:"development" enum:"development,production"`

	BundleFlags `embed:""`
}

// Run prints the resolved configuration variants as JSON, which is the
// quickest way to see what a flag combination actually turns into.
func (s *ShowCmd) Run(ctx context.Context, globals *Globals) error {
	mode, err := buildcfg.ParseMode(s.Mode)
	if err != nil {
		return err
	}

	configs, err := s.resolveConfigs(mode, 0)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	for _, cfg := range configs {
		if err := encoder.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config %q: %w", cfg.Name, err)
		}
	}
	return nil
}
