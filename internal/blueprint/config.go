package blueprint

import "github.com/imamik/blueprints/internal/network"

// Config declares a cluster blueprint. It is built once by the caller and
// never mutated during provisioning.
type Config struct {
	// ID identifies the blueprint and is used to name created resources.
	ID string

	// Name is the cluster display name. Defaults to ID.
	Name string

	// AddOns are deployed in this order.
	AddOns []AddOn

	// Teams are set up in this order. Names must be unique.
	Teams []Team

	// Provider creates the cluster. Nil selects the default provider.
	Provider ClusterProvider

	// Version is the Kubernetes version. Empty selects the default version.
	Version string

	// Network is a pre-resolved network. When set, no network is looked up
	// or created.
	Network *network.Handle

	// RejectDuplicateAddOns fails validation when two add-ons share an ID.
	// Otherwise the later add-on's output replaces the earlier one.
	RejectDuplicateAddOns bool
}

// DisplayName returns Name, falling back to ID.
func (c *Config) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// TeamNames returns the team names in configuration order.
func (c *Config) TeamNames() []string {
	names := make([]string, 0, len(c.Teams))
	for _, t := range c.Teams {
		if t != nil {
			names = append(names, t.Name())
		}
	}
	return names
}

// AddOnIDs returns the add-on IDs in configuration order.
func (c *Config) AddOnIDs() []string {
	ids := make([]string, 0, len(c.AddOns))
	for _, a := range c.AddOns {
		if a != nil {
			ids = append(ids, a.ID())
		}
	}
	return ids
}
