package config

import (
	"fmt"
	"net"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// ValidNetworkZones contains all valid Hetzner Cloud network zones.
// https://docs.hetzner.com/cloud/networks/overview/
var ValidNetworkZones = map[string]bool{
	"eu-central":   true,
	"us-east":      true,
	"us-west":      true,
	"ap-southeast": true,
}

var validHelmModes = map[string]bool{"release": true, "apply": true}

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("id is required")
	}
	if c.Version != "" {
		if _, err := semver.NewVersion(c.Version); err != nil {
			return fmt.Errorf("invalid version %q: %w", c.Version, err)
		}
	}

	if err := c.validateNetwork(); err != nil {
		return fmt.Errorf("network validation failed: %w", err)
	}
	if err := c.validateCluster(); err != nil {
		return fmt.Errorf("cluster validation failed: %w", err)
	}
	for i, addon := range c.AddOns {
		if err := addon.validate(); err != nil {
			return fmt.Errorf("addons[%d] (%s): %w", i, addon.ID, err)
		}
	}
	for i, team := range c.Teams {
		if err := team.validate(); err != nil {
			return fmt.Errorf("teams[%d] (%s): %w", i, team.Name, err)
		}
	}
	if c.Export.S3 != nil && c.Export.S3.Bucket == "" {
		return fmt.Errorf("export.s3.bucket is required")
	}
	return nil
}

func (c *Config) validateNetwork() error {
	n := c.Network
	if n.CIDR != "" {
		if _, _, err := net.ParseCIDR(n.CIDR); err != nil {
			return fmt.Errorf("invalid cidr %q: %w", n.CIDR, err)
		}
	}

	switch n.Provider {
	case "":
		return nil
	case NetworkProviderAWS:
		if n.MaxAZs < 0 {
			return fmt.Errorf("maxAZs must not be negative")
		}
	case NetworkProviderHCloud:
		if n.Token == "" {
			return fmt.Errorf("hcloud token is required (set network.token or HCLOUD_TOKEN)")
		}
		if n.Zone != "" && !ValidNetworkZones[n.Zone] {
			return fmt.Errorf("invalid network zone %q: must be one of %v", n.Zone, getMapKeys(ValidNetworkZones))
		}
	default:
		return fmt.Errorf("unknown network provider %q", n.Provider)
	}
	return nil
}

func (c *Config) validateCluster() error {
	if c.Cluster.Provider != "" && c.Cluster.Provider != ClusterProviderKubeconfig {
		return fmt.Errorf("unknown cluster provider %q", c.Cluster.Provider)
	}
	return nil
}

func (a AddOnConfig) validate() error {
	if a.ID == "" {
		return fmt.Errorf("id is required")
	}

	switch a.Kind {
	case AddOnKindHelm:
		if a.Namespace == "" {
			return fmt.Errorf("namespace is required")
		}
		if a.Chart.Path == "" && a.Chart.Name == "" {
			return fmt.Errorf("chart.name or chart.path is required")
		}
		if a.Chart.Path != "" && a.Chart.Repository != "" {
			return fmt.Errorf("chart.path and chart.repository are mutually exclusive")
		}
		if a.Mode != "" && !validHelmModes[a.Mode] {
			return fmt.Errorf("invalid mode %q: must be one of %v", a.Mode, getMapKeys(validHelmModes))
		}
	case AddOnKindManifest:
		if a.Manifests == "" && len(a.Files) == 0 {
			return fmt.Errorf("manifests or files is required")
		}
	case AddOnKindKustomize:
		if a.Path == "" {
			return fmt.Errorf("path is required")
		}
	case AddOnKindSecret:
		if a.Namespace == "" {
			return fmt.Errorf("namespace is required")
		}
		if len(a.Data) == 0 {
			return fmt.Errorf("data is required")
		}
	case AddOnKindDefaultDeny:
	case "":
		return fmt.Errorf("kind is required")
	default:
		return fmt.Errorf("unknown kind %q", a.Kind)
	}
	return nil
}

func (t TeamConfig) validate() error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch t.Kind {
	case TeamKindPlatform:
		if t.Namespace != "" || t.PoliciesDir != "" || len(t.Quota) > 0 {
			return fmt.Errorf("platform teams have no namespace, policies or quota")
		}
	case TeamKindApplication:
	case "":
		return fmt.Errorf("kind is required")
	default:
		return fmt.Errorf("unknown kind %q", t.Kind)
	}
	return nil
}

func getMapKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
