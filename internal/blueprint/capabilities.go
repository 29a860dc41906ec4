package blueprint

import (
	"context"

	"github.com/imamik/blueprints/internal/network"
	"github.com/imamik/blueprints/internal/util/async"
)

// ClusterProvider creates the Kubernetes cluster a blueprint is deployed on.
type ClusterProvider interface {
	// CreateCluster provisions (or attaches to) a cluster in the given network
	// and returns a ClusterInfo with an empty add-on registry.
	CreateCluster(ctx context.Context, scope *Scope, net network.Handle, version string) (*ClusterInfo, error)
}

// AddOn is a unit of cluster functionality installed after bootstrap.
type AddOn interface {
	// ID is the stable key under which the add-on's output is registered.
	ID() string

	// Deploy starts the installation. A nil future means there is nothing to
	// wait for and nothing is registered for this add-on.
	Deploy(ctx context.Context, info *ClusterInfo) (*async.Future[any], error)
}

// PostDeployer is implemented by add-ons that need a hook after all add-ons
// have materialized and all teams are set up.
type PostDeployer interface {
	PostDeploy(ctx context.Context, info *ClusterInfo, teams []Team) error
}

// Team is a tenant onboarded onto the cluster.
type Team interface {
	Name() string
	Setup(ctx context.Context, info *ClusterInfo) error
}

// ClusterProviderFunc adapts a function to ClusterProvider.
type ClusterProviderFunc func(ctx context.Context, scope *Scope, net network.Handle, version string) (*ClusterInfo, error)

// CreateCluster implements ClusterProvider.
func (f ClusterProviderFunc) CreateCluster(ctx context.Context, scope *Scope, net network.Handle, version string) (*ClusterInfo, error) {
	return f(ctx, scope, net, version)
}
