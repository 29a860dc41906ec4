package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/blueprints/internal/network"
	"github.com/imamik/blueprints/internal/util/labels"
	"github.com/imamik/blueprints/internal/util/netutil"
)

// ProviderName identifies handles produced by this package.
const ProviderName = "hcloud"

// NetworkResolver implements network.Resolver on Hetzner Cloud.
type NetworkResolver struct {
	client *RealClient
	cidr   string
	zones  []string
}

// NewNetworkResolver creates a resolver. Created networks use cidr and get
// one subnet per zone.
func NewNetworkResolver(client *RealClient, cidr string, zones ...string) *NetworkResolver {
	if cidr == "" {
		cidr = "10.0.0.0/16"
	}
	if len(zones) == 0 {
		zones = []string{string(hcloud.NetworkZoneEUCentral)}
	}
	return &NetworkResolver{client: client, cidr: cidr, zones: zones}
}

// LookupDefault implements network.Resolver.
func (r *NetworkResolver) LookupDefault(ctx context.Context) (network.Handle, error) {
	networks, err := r.client.NetworksByLabel(ctx, labels.SelectorForDefaultNetwork())
	if err != nil {
		return network.Handle{}, err
	}
	switch len(networks) {
	case 0:
		return network.Handle{}, fmt.Errorf("no network is labelled %s", labels.SelectorForDefaultNetwork())
	case 1:
		return toHandle(networks[0]), nil
	default:
		return network.Handle{}, fmt.Errorf("%d networks are labelled %s, expected one", len(networks), labels.SelectorForDefaultNetwork())
	}
}

// Lookup implements network.Resolver. id may be a numeric ID or a name.
func (r *NetworkResolver) Lookup(ctx context.Context, id string) (network.Handle, error) {
	n, err := r.client.GetNetwork(ctx, id)
	if err != nil {
		return network.Handle{}, err
	}
	if n == nil {
		return network.Handle{}, fmt.Errorf("network %s not found", id)
	}
	return toHandle(n), nil
}

// Create implements network.Resolver.
func (r *NetworkResolver) Create(ctx context.Context, name string) (network.Handle, error) {
	subnets, err := netutil.SplitCIDR(r.cidr, len(r.zones))
	if err != nil {
		return network.Handle{}, fmt.Errorf("failed to plan subnets: %w", err)
	}

	n, err := r.client.EnsureNetwork(ctx, name, r.cidr, map[string]string{
		labels.KeyManagedBy: labels.ManagedByBlueprints,
	})
	if err != nil {
		return network.Handle{}, err
	}

	for i, zone := range r.zones {
		if err := r.client.EnsureSubnet(ctx, n, subnets[i], zone, hcloud.NetworkSubnetTypeCloud); err != nil {
			return network.Handle{}, fmt.Errorf("failed to ensure subnet in %s: %w", zone, err)
		}
	}

	// Re-read to pick up the added subnets.
	n, err = r.client.GetNetwork(ctx, strconv.FormatInt(n.ID, 10))
	if err != nil {
		return network.Handle{}, err
	}
	if n == nil {
		return network.Handle{}, fmt.Errorf("network %s disappeared after creation", name)
	}
	log.FromContext(ctx).Info("network ready", "network", name, "id", n.ID, "subnets", len(n.Subnets))
	return toHandle(n), nil
}

func toHandle(n *hcloud.Network) network.Handle {
	h := network.Handle{
		ID:       strconv.FormatInt(n.ID, 10),
		Name:     n.Name,
		Provider: ProviderName,
		Default:  n.Labels[labels.KeyDefaultNetwork] == "true",
	}
	if n.IPRange != nil {
		h.CIDR = n.IPRange.String()
	}
	for _, s := range n.Subnets {
		subnet := network.Subnet{Zone: string(s.NetworkZone)}
		if s.IPRange != nil {
			subnet.CIDR = s.IPRange.String()
			subnet.ID = h.ID + "/" + subnet.CIDR
		}
		h.Subnets = append(h.Subnets, subnet)
	}
	return h
}
