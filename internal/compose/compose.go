// Package compose turns a blueprint file into the objects the provisioning
// engine consumes: a Scope, a blueprint.Config with concrete add-ons, teams
// and cluster provider, and the network resolver for the configured cloud.
package compose

import (
	"context"
	"fmt"
	"maps"
	"os"

	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/blueprints/internal/addons"
	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/network"
	ec2net "github.com/imamik/blueprints/internal/platform/ec2"
	hcloudnet "github.com/imamik/blueprints/internal/platform/hcloud"
	"github.com/imamik/blueprints/internal/providers"
	"github.com/imamik/blueprints/internal/teams"
	"github.com/imamik/blueprints/internal/util/labels"
)

// Result is a composed blueprint ready for provisioning.Deploy.
type Result struct {
	Scope  *blueprint.Scope
	Config *blueprint.Config
	// Resolver is nil when the file configures no network provider.
	Resolver network.Resolver
}

// ResolverFactory builds the network resolver for a network section.
type ResolverFactory func(ctx context.Context, id string, cfg config.NetworkConfig, t *config.Timeouts) (network.Resolver, error)

// Option configures Build.
type Option func(*builder)

// WithTimeouts replaces config.LoadTimeouts.
func WithTimeouts(t *config.Timeouts) Option {
	return func(b *builder) { b.timeouts = t }
}

// WithAddOnClients sets the clients used by add-ons.
func WithAddOnClients(c addons.Clients) Option {
	return func(b *builder) { b.clients = c }
}

// WithTeamClient sets the client used by teams.
func WithTeamClient(fn teams.ClientFunc) Option {
	return func(b *builder) { b.teamClient = fn }
}

// WithResolverFactory replaces DefaultResolverFactory.
func WithResolverFactory(f ResolverFactory) Option {
	return func(b *builder) { b.resolvers = f }
}

type builder struct {
	timeouts   *config.Timeouts
	clients    addons.Clients
	teamClient teams.ClientFunc
	resolvers  ResolverFactory
}

// Build composes cfg. Overrides are merged over the file's context values.
// cfg is expected to have passed config.Validate.
func Build(ctx context.Context, cfg *config.Config, overrides map[string]string, opts ...Option) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	b := &builder{resolvers: DefaultResolverFactory}
	for _, opt := range opts {
		opt(b)
	}
	if b.timeouts == nil {
		b.timeouts = config.LoadTimeouts()
	}

	values := make(map[string]string, len(cfg.Context)+len(overrides))
	maps.Copy(values, cfg.Context)
	maps.Copy(values, overrides)
	scope := blueprint.NewScope(cfg.ID, values)

	bp := &blueprint.Config{
		ID:                    cfg.ID,
		Name:                  cfg.Name,
		Version:               cfg.Version,
		RejectDuplicateAddOns: cfg.RejectDuplicateAddOns,
	}

	provider, err := b.provider(cfg.Cluster)
	if err != nil {
		return nil, err
	}
	bp.Provider = provider

	for i, a := range cfg.AddOns {
		addOn, err := b.addOn(a)
		if err != nil {
			return nil, fmt.Errorf("addons[%d] (%s): %w", i, a.ID, err)
		}
		bp.AddOns = append(bp.AddOns, addOn)
	}

	for i, t := range cfg.Teams {
		team, err := b.team(scope, t)
		if err != nil {
			return nil, fmt.Errorf("teams[%d] (%s): %w", i, t.Name, err)
		}
		bp.Teams = append(bp.Teams, team)
	}

	res := &Result{Scope: scope, Config: bp}
	switch {
	case cfg.Network.Provider == "" && cfg.Network.ID != "":
		bp.Network = &network.Handle{
			ID:       cfg.Network.ID,
			Name:     cfg.Network.ID,
			CIDR:     cfg.Network.CIDR,
			Provider: "external",
		}
	case cfg.Network.Provider != "":
		if cfg.Network.ID != "" && scope.TryGetContext(network.ContextKey) == "" {
			scope.SetContext(network.ContextKey, cfg.Network.ID)
		}
		r, err := b.resolvers(ctx, cfg.ID, cfg.Network, b.timeouts)
		if err != nil {
			return nil, fmt.Errorf("failed to create network resolver: %w", err)
		}
		res.Resolver = r
	}
	return res, nil
}

// DefaultResolverFactory builds an EC2 or Hetzner Cloud resolver.
func DefaultResolverFactory(ctx context.Context, id string, cfg config.NetworkConfig, t *config.Timeouts) (network.Resolver, error) {
	switch cfg.Provider {
	case config.NetworkProviderAWS:
		r, err := ec2net.NewVPCResolverForRegion(ctx, cfg.Region,
			ec2net.WithCIDR(cfg.CIDR),
			ec2net.WithMaxAZs(cfg.MaxAZs),
			ec2net.WithNATTimeout(t.NATGateway),
			ec2net.WithTags(map[string]string{labels.KeyBlueprint: id}),
		)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.NetworkProviderHCloud:
		if cfg.Token == "" {
			return nil, fmt.Errorf("hcloud token is required")
		}
		client := hcloudnet.NewRealClient(cfg.Token, hcloudnet.WithTimeouts(t))
		var zones []string
		if cfg.Zone != "" {
			zones = append(zones, cfg.Zone)
		}
		return hcloudnet.NewNetworkResolver(client, cfg.CIDR, zones...), nil
	default:
		return nil, fmt.Errorf("unknown network provider %q", cfg.Provider)
	}
}

func (b *builder) provider(c config.ClusterConfig) (blueprint.ClusterProvider, error) {
	switch c.Provider {
	case "", config.ClusterProviderKubeconfig:
		opts := []providers.Option{
			providers.WithRetry(b.timeouts.RetryMaxAttempts, b.timeouts.RetryInitialDelay),
		}
		if c.Kubeconfig != "" {
			opts = append(opts, providers.WithKubeconfig(c.Kubeconfig))
		}
		if c.Context != "" {
			opts = append(opts, providers.WithContext(c.Context))
		}
		return providers.NewKubeconfigProvider(opts...), nil
	default:
		return nil, fmt.Errorf("unknown cluster provider %q", c.Provider)
	}
}

func (b *builder) addOn(a config.AddOnConfig) (blueprint.AddOn, error) {
	switch a.Kind {
	case config.AddOnKindHelm:
		values, err := helmValues(a)
		if err != nil {
			return nil, err
		}
		timeout := a.Timeout
		if timeout == 0 {
			timeout = b.timeouts.Helm
		}
		return &addons.HelmAddOn{
			Name: a.ID,
			Chart: helm.ChartSpec{
				Repository: a.Chart.Repository,
				Name:       a.Chart.Name,
				Version:    a.Chart.Version,
				Path:       a.Chart.Path,
			},
			Namespace:   a.Namespace,
			ReleaseName: a.ReleaseName,
			Values:      values,
			Mode:        addons.HelmMode(a.Mode),
			Wait:        a.Wait,
			Timeout:     timeout,
			Clients:     b.clients,
		}, nil
	case config.AddOnKindManifest:
		return &addons.ManifestAddOn{
			Name:      a.ID,
			Manifests: []byte(a.Manifests),
			Files:     a.Files,
			Clients:   b.clients,
		}, nil
	case config.AddOnKindKustomize:
		return &addons.KustomizeAddOn{Name: a.ID, Path: a.Path, Clients: b.clients}, nil
	case config.AddOnKindSecret:
		return &addons.SecretAddOn{
			Name:       a.ID,
			Namespace:  a.Namespace,
			SecretName: a.SecretName,
			Type:       corev1.SecretType(a.SecretType),
			Data:       a.Data,
			Clients:    b.clients,
		}, nil
	case config.AddOnKindDefaultDeny:
		return &addons.DefaultDenyAddOn{Name: a.ID, RequiresAddOn: a.Requires, Clients: b.clients}, nil
	default:
		return nil, fmt.Errorf("unknown add-on kind %q", a.Kind)
	}
}

// helmValues merges the values files in order, then the inline values.
func helmValues(a config.AddOnConfig) (helm.Values, error) {
	layers := make([]helm.Values, 0, len(a.ValuesFiles)+1)
	for _, path := range a.ValuesFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read values file: %w", err)
		}
		v, err := helm.FromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse values file %s: %w", path, err)
		}
		layers = append(layers, v)
	}
	layers = append(layers, helm.Values(a.Values))
	return helm.Merge(layers...), nil
}

func (b *builder) team(scope *blueprint.Scope, t config.TeamConfig) (blueprint.Team, error) {
	users := teams.ResolveUsers(scope, t.Name, t.Users)
	switch t.Kind {
	case config.TeamKindPlatform:
		return &teams.PlatformTeam{TeamName: t.Name, Users: users, Client: b.teamClient}, nil
	case config.TeamKindApplication:
		return &teams.ApplicationTeam{
			TeamName:           t.Name,
			NamespaceName:      t.Namespace,
			Users:              users,
			Quota:              t.Quota,
			NetworkPoliciesDir: t.PoliciesDir,
			Client:             b.teamClient,
		}, nil
	default:
		return nil, fmt.Errorf("unknown team kind %q", t.Kind)
	}
}
