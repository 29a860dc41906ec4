package blueprint

import (
	"fmt"
	"sort"

	"github.com/imamik/blueprints/internal/network"
)

// Cluster is the handle to a provisioned cluster.
type Cluster struct {
	Name          string
	Version       string // requested Kubernetes version
	ServerVersion string // version reported by the API server, if known
	Endpoint      string
	Kubeconfig    []byte
	Network       network.Handle
}

// ClusterInfo is the result of provisioning: the cluster handle plus a
// registry of materialized add-on outputs keyed by add-on ID.
//
// The registry is written by the provisioning engine from a single goroutine
// after all add-ons have materialized, and read by teams and hooks afterwards.
// ClusterInfo is therefore not safe for concurrent writes.
type ClusterInfo struct {
	Cluster Cluster
	Version string

	provisioned map[string]any
}

// NewClusterInfo creates a ClusterInfo with an empty add-on registry.
func NewClusterInfo(cluster Cluster, version string) *ClusterInfo {
	return &ClusterInfo{
		Cluster:     cluster,
		Version:     version,
		provisioned: make(map[string]any),
	}
}

// AddProvisionedAddOn registers the materialized output of an add-on.
// Registering an existing key replaces the previous output.
func (ci *ClusterInfo) AddProvisionedAddOn(key string, output any) {
	if ci.provisioned == nil {
		ci.provisioned = make(map[string]any)
	}
	ci.provisioned[key] = output
}

// ProvisionedAddOn returns the output registered under key.
func (ci *ClusterInfo) ProvisionedAddOn(key string) (any, bool) {
	v, ok := ci.provisioned[key]
	return v, ok
}

// ProvisionedAddOnKeys returns the registered keys in sorted order.
func (ci *ClusterInfo) ProvisionedAddOnKeys() []string {
	keys := make([]string, 0, len(ci.provisioned))
	for k := range ci.provisioned {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ProvisionedAddOnCount returns the number of registered add-ons.
func (ci *ClusterInfo) ProvisionedAddOnCount() int {
	return len(ci.provisioned)
}

// ProvisionedAddOnAs returns the output registered under key as T.
func ProvisionedAddOnAs[T any](ci *ClusterInfo, key string) (T, error) {
	var zero T
	v, ok := ci.ProvisionedAddOn(key)
	if !ok {
		return zero, fmt.Errorf("add-on %s is not provisioned", key)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("add-on %s output has type %T, want %T", key, v, zero)
	}
	return typed, nil
}
