package provisioning

import (
	"context"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/network"
	"github.com/imamik/blueprints/internal/util/async"
)

// PendingAddOn is an add-on whose deploy returned a future.
type PendingAddOn struct {
	ID     string
	Future *async.Future[any]
}

// Hook is a post-deploy hook recorded at dispatch time.
type Hook struct {
	ID   string
	Hook blueprint.PostDeployer
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Network results (populated by the network phase)
	Network network.Handle

	// Cluster results (populated by the cluster phase)
	Info *blueprint.ClusterInfo

	// Add-on results (populated by the add-on phase), in dispatch order
	Pending []PendingAddOn
	Hooks   []Hook
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Scope    *blueprint.Scope
	Config   *blueprint.Config
	State    *State
	Resolver network.Resolver
	Observer Observer
	Metrics  *Metrics

	// Resolved once from Config and Defaults before the first phase.
	Provider blueprint.ClusterProvider
	Version  string
}

// NewContext creates a new provisioning context with defaults already
// resolved against cfg.
func NewContext(
	ctx context.Context,
	scope *blueprint.Scope,
	cfg *blueprint.Config,
	defaults Defaults,
	observer Observer,
) *Context {
	provider, version := defaults.Resolve(cfg)
	return &Context{
		Context:  ctx,
		Scope:    scope,
		Config:   cfg,
		State:    NewState(),
		Observer: observer,
		Provider: provider,
		Version:  version,
	}
}
