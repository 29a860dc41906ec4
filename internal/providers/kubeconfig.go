package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/network"
	"github.com/imamik/blueprints/internal/util/retry"
)

// KubeconfigProvider attaches to an existing cluster from a kubeconfig.
type KubeconfigProvider struct {
	path        string
	contextName string
	maxRetries  int
	retryDelay  time.Duration

	// newDiscovery builds the client used to query the server version.
	newDiscovery func(*rest.Config) (discovery.ServerVersionInterface, error)
}

// Option configures a KubeconfigProvider.
type Option func(*KubeconfigProvider)

// WithKubeconfig reads the kubeconfig from path instead of the default
// locations ($KUBECONFIG, ~/.kube/config).
func WithKubeconfig(path string) Option {
	return func(p *KubeconfigProvider) { p.path = path }
}

// WithContext selects a kubeconfig context other than the current one.
func WithContext(name string) Option {
	return func(p *KubeconfigProvider) { p.contextName = name }
}

// WithRetry sets how often and how fast the API server is probed.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(p *KubeconfigProvider) {
		p.maxRetries = maxRetries
		p.retryDelay = delay
	}
}

// NewKubeconfigProvider creates the standard cluster provider.
func NewKubeconfigProvider(opts ...Option) *KubeconfigProvider {
	p := &KubeconfigProvider{
		maxRetries: 5,
		retryDelay: 2 * time.Second,
		newDiscovery: func(cfg *rest.Config) (discovery.ServerVersionInterface, error) {
			return discovery.NewDiscoveryClientForConfig(cfg)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateCluster implements blueprint.ClusterProvider.
func (p *KubeconfigProvider) CreateCluster(
	ctx context.Context,
	scope *blueprint.Scope,
	net network.Handle,
	version string,
) (*blueprint.ClusterInfo, error) {
	logger := log.FromContext(ctx).WithValues("provider", "kubeconfig")

	kubeconfig, contextName, err := p.loadKubeconfig()
	if err != nil {
		return nil, err
	}

	restConfig, err := clientcmd.RESTConfigFromKubeConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST config from kubeconfig: %w", err)
	}

	dc, err := p.newDiscovery(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	var serverVersion string
	err = retry.Do(ctx, func(_ context.Context) error {
		info, err := dc.ServerVersion()
		if err != nil {
			return fmt.Errorf("failed to query server version: %w", err)
		}
		serverVersion = info.GitVersion
		return nil
	},
		retry.WithMaxRetries(p.maxRetries),
		retry.WithInitialDelay(p.retryDelay),
		retry.WithOnRetry(func(attempt int, err error) {
			logger.Info("API server not reachable yet", "attempt", attempt, "error", err.Error())
		}),
	)
	if err != nil {
		return nil, err
	}

	if err := checkServerVersion(serverVersion, version); err != nil {
		return nil, err
	}

	name := contextName
	if scope != nil && scope.Name() != "" {
		name = scope.Name()
	}
	logger.Info("attached to cluster", "context", contextName, "endpoint", restConfig.Host, "serverVersion", serverVersion)

	return blueprint.NewClusterInfo(blueprint.Cluster{
		Name:          name,
		Version:       version,
		ServerVersion: serverVersion,
		Endpoint:      restConfig.Host,
		Kubeconfig:    kubeconfig,
		Network:       net,
	}, version), nil
}

// loadKubeconfig returns a self-contained kubeconfig for the selected
// context: credentials referenced by file are inlined.
func (p *KubeconfigProvider) loadKubeconfig() ([]byte, string, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if p.path != "" {
		rules.ExplicitPath = p.path
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: p.contextName}

	raw, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).RawConfig()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	contextName := raw.CurrentContext
	if p.contextName != "" {
		contextName = p.contextName
	}
	if _, ok := raw.Contexts[contextName]; !ok {
		return nil, "", fmt.Errorf("kubeconfig context %q not found", contextName)
	}
	raw.CurrentContext = contextName

	if err := clientcmdapi.MinifyConfig(&raw); err != nil {
		return nil, "", fmt.Errorf("failed to minify kubeconfig: %w", err)
	}
	if err := clientcmdapi.FlattenConfig(&raw); err != nil {
		return nil, "", fmt.Errorf("failed to flatten kubeconfig: %w", err)
	}

	data, err := clientcmd.Write(raw)
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize kubeconfig: %w", err)
	}
	return data, contextName, nil
}

// checkServerVersion fails when the server's major.minor is below the
// requested one. Patch levels and vendor suffixes are ignored.
func checkServerVersion(server, requested string) error {
	if requested == "" {
		return nil
	}
	want, err := semver.NewVersion(requested)
	if err != nil {
		return retry.Fatal(fmt.Errorf("invalid requested version %q: %w", requested, err))
	}
	have, err := semver.NewVersion(server)
	if err != nil {
		return fmt.Errorf("unparseable server version %q: %w", server, err)
	}

	haveMinor := semver.New(have.Major(), have.Minor(), 0, "", "")
	wantMinor := semver.New(want.Major(), want.Minor(), 0, "", "")
	if haveMinor.LessThan(wantMinor) {
		return fmt.Errorf("cluster runs Kubernetes %s, blueprint requires at least %d.%d",
			server, want.Major(), want.Minor())
	}
	return nil
}
