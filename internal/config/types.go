package config

import "time"

// Add-on kinds.
const (
	AddOnKindHelm        = "helm"
	AddOnKindManifest    = "manifest"
	AddOnKindKustomize   = "kustomize"
	AddOnKindSecret      = "secret"
	AddOnKindDefaultDeny = "default-deny"
)

// Team kinds.
const (
	TeamKindPlatform    = "platform"
	TeamKindApplication = "application"
)

// Network and cluster providers.
const (
	NetworkProviderAWS    = "aws"
	NetworkProviderHCloud = "hcloud"

	ClusterProviderKubeconfig = "kubeconfig"
)

// Config is the root of a blueprint file.
type Config struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`

	// Context seeds the scope context, e.g. {"vpc": "default"} or
	// {"team-burnham.users": "alice,bob"}.
	Context map[string]string `yaml:"context,omitempty"`

	Network NetworkConfig `yaml:"network,omitempty"`
	Cluster ClusterConfig `yaml:"cluster,omitempty"`
	AddOns  []AddOnConfig `yaml:"addons,omitempty"`
	Teams   []TeamConfig  `yaml:"teams,omitempty"`

	RejectDuplicateAddOns bool `yaml:"rejectDuplicateAddOns,omitempty"`

	Export ExportConfig `yaml:"export,omitempty"`
}

// NetworkConfig selects where the cluster network comes from.
//
// Without a provider, ID names a pre-resolved network that is used as-is.
// With a provider, ID is a lookup hint like the "vpc" context key, and a
// network is created when neither is set.
type NetworkConfig struct {
	Provider string `yaml:"provider,omitempty"`
	ID       string `yaml:"id,omitempty"`
	CIDR     string `yaml:"cidr,omitempty"`

	// AWS
	Region string `yaml:"region,omitempty"`
	MaxAZs int    `yaml:"maxAZs,omitempty"`

	// Hetzner Cloud
	Zone  string `yaml:"zone,omitempty"`
	Token string `yaml:"token,omitempty"` // falls back to HCLOUD_TOKEN
}

// ClusterConfig selects the cluster provider.
type ClusterConfig struct {
	Provider   string `yaml:"provider,omitempty"`
	Kubeconfig string `yaml:"kubeconfig,omitempty"`
	Context    string `yaml:"context,omitempty"`
}

// ChartConfig locates a Helm chart.
type ChartConfig struct {
	Repository string `yaml:"repository,omitempty"`
	Name       string `yaml:"name,omitempty"`
	Version    string `yaml:"version,omitempty"`
	Path       string `yaml:"path,omitempty"`
}

// AddOnConfig declares one add-on. Which fields apply depends on Kind.
type AddOnConfig struct {
	Kind string `yaml:"kind"`
	ID   string `yaml:"id"`

	// helm, secret
	Namespace string `yaml:"namespace,omitempty"`

	// helm
	Chart       ChartConfig    `yaml:"chart,omitempty"`
	ReleaseName string         `yaml:"releaseName,omitempty"`
	Values      map[string]any `yaml:"values,omitempty"`
	ValuesFiles []string       `yaml:"valuesFiles,omitempty"`
	Mode        string         `yaml:"mode,omitempty"`
	Wait        bool           `yaml:"wait,omitempty"`
	Timeout     time.Duration  `yaml:"timeout,omitempty"`

	// manifest
	Manifests string   `yaml:"manifests,omitempty"`
	Files     []string `yaml:"files,omitempty"`

	// kustomize
	Path string `yaml:"path,omitempty"`

	// secret; values are expanded from the environment
	SecretName string            `yaml:"secretName,omitempty"`
	SecretType string            `yaml:"secretType,omitempty"`
	Data       map[string]string `yaml:"data,omitempty"`

	// default-deny
	Requires string `yaml:"requires,omitempty"`
}

// TeamConfig declares one team.
type TeamConfig struct {
	Kind        string            `yaml:"kind"`
	Name        string            `yaml:"name"`
	Namespace   string            `yaml:"namespace,omitempty"`
	Users       []string          `yaml:"users,omitempty"`
	PoliciesDir string            `yaml:"policiesDir,omitempty"`
	Quota       map[string]string `yaml:"quota,omitempty"`
}

// ExportConfig configures where the deployment summary is written.
type ExportConfig struct {
	S3 *S3ExportConfig `yaml:"s3,omitempty"`
}

// S3ExportConfig writes the summary to an S3 bucket. Credentials come from
// the default AWS chain.
type S3ExportConfig struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	Region       string `yaml:"region,omitempty"`
	PathStyle    bool   `yaml:"pathStyle,omitempty"`
	CreateBucket bool   `yaml:"createBucket,omitempty"`
}
