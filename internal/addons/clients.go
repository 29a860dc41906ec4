package addons

import (
	"context"
	"fmt"

	"helm.sh/helm/v3/pkg/release"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/addons/k8sclient"
	"github.com/imamik/blueprints/internal/blueprint"
)

// HelmInstaller installs or upgrades a Helm release.
type HelmInstaller interface {
	InstallOrUpgrade(ctx context.Context, rel helm.Release) (*release.Release, error)
}

// Clients builds cluster clients for a provisioned cluster.
type Clients interface {
	Kube(info *blueprint.ClusterInfo) (k8sclient.Client, error)
	Runtime(info *blueprint.ClusterInfo) (ctrlclient.Client, error)
	Helm(ctx context.Context, info *blueprint.ClusterInfo, namespace string) (HelmInstaller, error)
}

// DefaultClients returns a factory that connects using the cluster kubeconfig.
func DefaultClients() Clients {
	return kubeconfigClients{}
}

type kubeconfigClients struct{}

func (kubeconfigClients) Kube(info *blueprint.ClusterInfo) (k8sclient.Client, error) {
	kubeconfig, err := kubeconfigOf(info)
	if err != nil {
		return nil, err
	}
	return k8sclient.NewFromKubeconfig(kubeconfig)
}

func (kubeconfigClients) Runtime(info *blueprint.ClusterInfo) (ctrlclient.Client, error) {
	kubeconfig, err := kubeconfigOf(info)
	if err != nil {
		return nil, err
	}
	return k8sclient.NewRuntimeClient(kubeconfig)
}

func (kubeconfigClients) Helm(ctx context.Context, info *blueprint.ClusterInfo, namespace string) (HelmInstaller, error) {
	kubeconfig, err := kubeconfigOf(info)
	if err != nil {
		return nil, err
	}
	logger := log.FromContext(ctx).WithName("helm").V(1)
	return helm.NewClient(kubeconfig, namespace, func(format string, v ...any) {
		logger.Info(fmt.Sprintf(format, v...))
	})
}

func kubeconfigOf(info *blueprint.ClusterInfo) ([]byte, error) {
	if info == nil {
		return nil, fmt.Errorf("cluster info is required")
	}
	if len(info.Cluster.Kubeconfig) == 0 {
		return nil, fmt.Errorf("cluster %q has no kubeconfig", info.Cluster.Name)
	}
	return info.Cluster.Kubeconfig, nil
}

func clientsOrDefault(c Clients) Clients {
	if c == nil {
		return DefaultClients()
	}
	return c
}
