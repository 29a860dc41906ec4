package helm

import (
	"sync"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// kubeconfigGetter implements genericclioptions.RESTClientGetter on
// in-memory kubeconfig bytes. The REST config and discovery cache are built
// once and shared by every Helm action of a Client.
type kubeconfigGetter struct {
	kubeconfig []byte
	namespace  string

	once       sync.Once
	restConfig *rest.Config
	discovery  discovery.CachedDiscoveryInterface
	err        error
}

func newKubeconfigGetter(kubeconfig []byte, namespace string) *kubeconfigGetter {
	return &kubeconfigGetter{kubeconfig: kubeconfig, namespace: namespace}
}

func (g *kubeconfigGetter) init() error {
	g.once.Do(func() {
		g.restConfig, g.err = clientcmd.RESTConfigFromKubeConfig(g.kubeconfig)
		if g.err != nil {
			return
		}
		var dc *discovery.DiscoveryClient
		dc, g.err = discovery.NewDiscoveryClientForConfig(g.restConfig)
		if g.err != nil {
			return
		}
		g.discovery = memory.NewMemCacheClient(dc)
	})
	return g.err
}

// ToRESTConfig returns a REST config from the kubeconfig bytes.
func (g *kubeconfigGetter) ToRESTConfig() (*rest.Config, error) {
	if err := g.init(); err != nil {
		return nil, err
	}
	return rest.CopyConfig(g.restConfig), nil
}

// ToDiscoveryClient returns a cached discovery client.
func (g *kubeconfigGetter) ToDiscoveryClient() (discovery.CachedDiscoveryInterface, error) {
	if err := g.init(); err != nil {
		return nil, err
	}
	return g.discovery, nil
}

// ToRESTMapper returns a REST mapper backed by the discovery cache.
func (g *kubeconfigGetter) ToRESTMapper() (meta.RESTMapper, error) {
	dc, err := g.ToDiscoveryClient()
	if err != nil {
		return nil, err
	}
	return restmapper.NewDeferredDiscoveryRESTMapper(dc), nil
}

// ToRawKubeConfigLoader returns a clientcmd.ClientConfig with the getter's
// namespace as override.
func (g *kubeconfigGetter) ToRawKubeConfigLoader() clientcmd.ClientConfig {
	raw, err := clientcmd.Load(g.kubeconfig)
	if err != nil {
		raw = clientcmdapi.NewConfig()
	}
	overrides := &clientcmd.ConfigOverrides{Context: clientcmdapi.Context{Namespace: g.namespace}}
	return clientcmd.NewDefaultClientConfig(*raw, overrides)
}
