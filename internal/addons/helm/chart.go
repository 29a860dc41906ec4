package helm

import (
	"fmt"
	"io"
	"strings"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/registry"
)

// ChartSpec locates a chart.
type ChartSpec struct {
	// Repository is an HTTP(S) chart repository URL or an oci:// reference.
	Repository string
	// Name is the chart name within the repository.
	Name string
	// Version constrains the chart version. Empty selects the latest.
	Version string
	// Path loads the chart from a local directory or archive instead.
	Path string
}

// String implements fmt.Stringer.
func (s ChartSpec) String() string {
	if s.Path != "" {
		return s.Path
	}
	ref := s.Name
	if s.Repository != "" {
		ref = strings.TrimSuffix(s.Repository, "/") + "/" + s.Name
	}
	if s.Version != "" {
		ref += "@" + s.Version
	}
	return ref
}

// Validate checks that the spec can locate a chart.
func (s ChartSpec) Validate() error {
	if s.Path == "" && s.Name == "" {
		return fmt.Errorf("chart needs either a path or a name")
	}
	if s.Path != "" && s.Repository != "" {
		return fmt.Errorf("chart path and repository are mutually exclusive")
	}
	return nil
}

// IsOCI reports whether the chart comes from an OCI registry.
func (s ChartSpec) IsOCI() bool {
	return registry.IsOCI(s.Repository)
}

// LoadChart loads the chart described by spec, downloading it into the Helm
// cache when it comes from a repository.
func LoadChart(spec ChartSpec) (*chart.Chart, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Path != "" {
		ch, err := loader.Load(spec.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load chart from %s: %w", spec.Path, err)
		}
		return ch, nil
	}

	settings := cli.New()
	registryClient, err := registry.NewClient(
		registry.ClientOptDebug(false),
		registry.ClientOptWriter(io.Discard),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry client: %w", err)
	}

	// The registry client can only be attached through an install action.
	install := action.NewInstall(&action.Configuration{})
	install.SetRegistryClient(registryClient)
	install.Version = spec.Version

	name := spec.Name
	if spec.IsOCI() {
		name = strings.TrimSuffix(spec.Repository, "/") + "/" + spec.Name
	} else {
		install.RepoURL = spec.Repository
	}

	chartPath, err := install.LocateChart(name, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to locate chart %s: %w", spec, err)
	}

	ch, err := loader.Load(chartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart %s: %w", spec, err)
	}
	return ch, nil
}
