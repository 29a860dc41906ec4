package k8sclient

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
)

// Scheme returns a scheme with all built-in Kubernetes types registered.
func Scheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	_ = clientgoscheme.AddToScheme(scheme)
	return scheme
}

// NewRuntimeClient creates a controller-runtime client from kubeconfig bytes.
func NewRuntimeClient(kubeconfig []byte) (ctrlclient.Client, error) {
	restConfig, err := RESTConfig(kubeconfig)
	if err != nil {
		return nil, err
	}

	c, err := ctrlclient.New(restConfig, ctrlclient.Options{Scheme: Scheme()})
	if err != nil {
		return nil, fmt.Errorf("failed to create controller-runtime client: %w", err)
	}
	return c, nil
}
