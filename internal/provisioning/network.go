package provisioning

import (
	"github.com/imamik/blueprints/internal/network"
	"github.com/imamik/blueprints/internal/util/naming"
)

const networkPhaseName = "network"

// NetworkPhase resolves the network the cluster is created in.
type NetworkPhase struct{}

// NewNetworkPhase creates a new network phase.
func NewNetworkPhase() *NetworkPhase {
	return &NetworkPhase{}
}

// Name implements the Phase interface.
func (np *NetworkPhase) Name() string {
	return networkPhaseName
}

// Provision implements the Phase interface.
func (np *NetworkPhase) Provision(ctx *Context) error {
	hint := ctx.Scope.TryGetContext(network.ContextKey)
	h, err := network.Resolve(ctx, ctx.Resolver, ctx.Config.Network, hint, naming.Network(ctx.Config.ID))
	if err != nil {
		return &NetworkError{Err: err}
	}

	ctx.State.Network = h
	ctx.Observer.Printf("[%s] using network %s", networkPhaseName, h)
	return nil
}
