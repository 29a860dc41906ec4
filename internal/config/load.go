package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads, defaults and validates the blueprint file at path.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	cfg.ResolvePaths(baseDir)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Parse decodes a blueprint file. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config file is empty")
		}
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	return &cfg, nil
}

// ApplyDefaults fills in optional fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = c.ID
	}
	if c.Cluster.Provider == "" {
		c.Cluster.Provider = ClusterProviderKubeconfig
	}

	switch c.Network.Provider {
	case NetworkProviderAWS:
		if c.Network.CIDR == "" {
			c.Network.CIDR = "10.0.0.0/16"
		}
		if c.Network.MaxAZs == 0 {
			c.Network.MaxAZs = 2
		}
	case NetworkProviderHCloud:
		if c.Network.CIDR == "" {
			c.Network.CIDR = "10.0.0.0/16"
		}
		if c.Network.Zone == "" {
			c.Network.Zone = "eu-central"
		}
		if c.Network.Token == "" {
			c.Network.Token = os.Getenv("HCLOUD_TOKEN")
		}
	}

	for i := range c.AddOns {
		addon := &c.AddOns[i]
		switch addon.Kind {
		case AddOnKindHelm:
			if addon.Mode == "" {
				addon.Mode = "release"
			}
		case AddOnKindSecret:
			for k, v := range addon.Data {
				addon.Data[k] = os.ExpandEnv(v)
			}
		}
	}
}

// ResolvePaths makes every relative path in the file relative to baseDir
// and expands a leading "~/" in the kubeconfig path.
func (c *Config) ResolvePaths(baseDir string) {
	c.Cluster.Kubeconfig = expandHome(c.Cluster.Kubeconfig)
	if c.Cluster.Kubeconfig != "" {
		c.Cluster.Kubeconfig = resolve(baseDir, c.Cluster.Kubeconfig)
	}

	for i := range c.AddOns {
		addon := &c.AddOns[i]
		if addon.Chart.Path != "" {
			addon.Chart.Path = resolve(baseDir, addon.Chart.Path)
		}
		if addon.Path != "" {
			addon.Path = resolve(baseDir, addon.Path)
		}
		for j, f := range addon.ValuesFiles {
			addon.ValuesFiles[j] = resolve(baseDir, f)
		}
		for j, f := range addon.Files {
			addon.Files[j] = resolve(baseDir, f)
		}
	}
	for i := range c.Teams {
		if c.Teams[i].PoliciesDir != "" {
			c.Teams[i].PoliciesDir = resolve(baseDir, c.Teams[i].PoliciesDir)
		}
	}
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
