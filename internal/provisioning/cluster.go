package provisioning

import "errors"

const clusterPhaseName = "cluster"

// ClusterPhase creates the cluster through the resolved provider.
type ClusterPhase struct{}

// NewClusterPhase creates a new cluster phase.
func NewClusterPhase() *ClusterPhase {
	return &ClusterPhase{}
}

// Name implements the Phase interface.
func (cp *ClusterPhase) Name() string {
	return clusterPhaseName
}

// Provision implements the Phase interface.
func (cp *ClusterPhase) Provision(ctx *Context) error {
	name := ctx.Config.DisplayName()
	if ctx.Provider == nil {
		return &ClusterBootstrapError{Cluster: name, Err: errors.New("no cluster provider configured")}
	}

	info, err := ctx.Provider.CreateCluster(ctx, ctx.Scope, ctx.State.Network, ctx.Version)
	if err != nil {
		return &ClusterBootstrapError{Cluster: name, Err: err}
	}
	if info == nil {
		return &ClusterBootstrapError{Cluster: name, Err: errors.New("provider returned no cluster info")}
	}
	if info.Version == "" {
		info.Version = ctx.Version
	}

	ctx.State.Info = info
	ctx.Observer.Printf("[%s] cluster %s ready (version %s)", clusterPhaseName, name, info.Version)
	return nil
}
