package provisioning

import (
	"fmt"

	"github.com/imamik/blueprints/internal/blueprint"
)

const validationPhaseName = "validation"

// ValidationPhase implements the Phase interface for pre-flight validation.
// It has no side effects.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return validationPhaseName
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	if ctx.Config == nil {
		return &blueprint.InvalidConfigError{Field: "config", Message: "must not be nil"}
	}

	// Validate the resolved version without touching the caller's Config.
	resolved := *ctx.Config
	resolved.Version = ctx.Version
	if err := blueprint.Validate(&resolved); err != nil {
		return err
	}

	if !ctx.Config.RejectDuplicateAddOns {
		for _, id := range blueprint.DuplicateAddOnIDs(ctx.Config) {
			LogValidationWarning(ctx.Observer, "addons",
				fmt.Sprintf("add-on id %q is declared more than once; the last materialized output wins", id))
		}
	}

	return nil
}
