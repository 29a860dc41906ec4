package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/compose"
	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/network"
)

// Validate loads and composes the blueprint file and runs the same checks
// as the validation phase. It creates no clients and makes no API calls.
func Validate(ctx context.Context, out io.Writer, configPath string, overrides map[string]string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load blueprint: %w", err)
	}

	composed, err := composeBlueprint(ctx, cfg, overrides,
		compose.WithTimeouts(loadTimeouts()),
		compose.WithResolverFactory(noResolver))
	if err != nil {
		return fmt.Errorf("failed to compose blueprint: %w", err)
	}
	if err := blueprint.Validate(composed.Config); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s blueprint %s is valid (%s)\n",
		okStyle.Render("✓"), composed.Config.DisplayName(), describe(composed.Config))
	return nil
}

// noResolver skips building cloud clients during validation.
func noResolver(context.Context, string, config.NetworkConfig, *config.Timeouts) (network.Resolver, error) {
	return nil, nil
}
