package provisioning

import (
	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/providers"
)

// DefaultVersion is the Kubernetes version used when a Config sets none.
const DefaultVersion = "1.20"

// Defaults are the values used for unset Config fields.
type Defaults struct {
	Provider blueprint.ClusterProvider
	Version  string
}

// StandardDefaults returns the defaults used by Deploy: the kubeconfig
// provider and DefaultVersion.
func StandardDefaults() Defaults {
	return Defaults{
		Provider: providers.NewKubeconfigProvider(),
		Version:  DefaultVersion,
	}
}

// Resolve returns the provider and version to use for cfg.
func (d Defaults) Resolve(cfg *blueprint.Config) (blueprint.ClusterProvider, string) {
	provider := d.Provider
	version := d.Version
	if cfg == nil {
		return provider, version
	}
	if cfg.Provider != nil {
		provider = cfg.Provider
	}
	if cfg.Version != "" {
		version = cfg.Version
	}
	return provider, version
}
