package teams

import (
	"context"
	"fmt"

	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/blueprints/internal/addons/k8sclient"
	"github.com/imamik/blueprints/internal/blueprint"
)

// ClientFunc returns a Kubernetes client for a provisioned cluster.
type ClientFunc func(info *blueprint.ClusterInfo) (ctrlclient.Client, error)

// KubeconfigClient connects using the kubeconfig stored in ClusterInfo.
func KubeconfigClient(info *blueprint.ClusterInfo) (ctrlclient.Client, error) {
	if len(info.Cluster.Kubeconfig) == 0 {
		return nil, fmt.Errorf("cluster %q has no kubeconfig", info.Cluster.Name)
	}
	return k8sclient.NewRuntimeClient(info.Cluster.Kubeconfig)
}

func clientFor(fn ClientFunc, info *blueprint.ClusterInfo) (ctrlclient.Client, error) {
	if info == nil {
		return nil, fmt.Errorf("cluster info is required")
	}
	if fn == nil {
		fn = KubeconfigClient
	}
	c, err := fn(info)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return c, nil
}

// apply creates obj or updates it in place with mutate.
func apply(ctx context.Context, c ctrlclient.Client, obj ctrlclient.Object, mutate func() error) error {
	result, err := controllerutil.CreateOrUpdate(ctx, c, obj, mutate)
	if err != nil {
		return fmt.Errorf("failed to write %T %s: %w", obj, ctrlclient.ObjectKeyFromObject(obj), err)
	}
	log.FromContext(ctx).V(1).Info("team object written",
		"kind", fmt.Sprintf("%T", obj), "object", ctrlclient.ObjectKeyFromObject(obj).String(), "result", result)
	return nil
}
