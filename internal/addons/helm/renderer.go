package helm

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/engine"
)

// RenderOptions control how a chart is rendered.
type RenderOptions struct {
	ReleaseName string
	Namespace   string
	// KubeVersion is the Kubernetes version templates are rendered for,
	// e.g. "1.29". Empty keeps Helm's default capabilities.
	KubeVersion string
}

// Render renders a chart's templates with values merged over the chart
// defaults. Documents are emitted in template name order; NOTES.txt and
// empty templates are skipped.
func Render(ch *chart.Chart, values Values, opts RenderOptions) ([]byte, error) {
	merged := Merge(Values(ch.Values), values)

	releaseOptions := chartutil.ReleaseOptions{
		Name:      opts.ReleaseName,
		Namespace: opts.Namespace,
		IsInstall: true,
	}

	capabilities, err := capabilitiesFor(opts.KubeVersion)
	if err != nil {
		return nil, err
	}

	valuesToRender, err := chartutil.ToRenderValues(ch, chartutil.Values(merged.ToMap()), releaseOptions, capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare values: %w", err)
	}

	rendered, err := engine.Render(ch, valuesToRender)
	if err != nil {
		return nil, fmt.Errorf("failed to render templates: %w", err)
	}

	names := make([]string, 0, len(rendered))
	for name := range rendered {
		names = append(names, name)
	}
	sort.Strings(names)

	var combined bytes.Buffer
	for _, name := range names {
		if filepath.Base(name) == "NOTES.txt" {
			continue
		}
		trimmed := strings.TrimSpace(rendered[name])
		if trimmed == "" {
			continue
		}
		if combined.Len() > 0 {
			combined.WriteString("\n---\n")
		}
		combined.WriteString(trimmed)
		combined.WriteString("\n")
	}
	return combined.Bytes(), nil
}

// capabilitiesFor returns the render capabilities for a Kubernetes version,
// so templates pick the API versions that cluster serves.
func capabilitiesFor(kubeVersion string) (*chartutil.Capabilities, error) {
	capabilities := chartutil.DefaultCapabilities.Copy()
	if kubeVersion == "" {
		return capabilities, nil
	}

	v, err := semver.NewVersion(kubeVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid kubernetes version %q: %w", kubeVersion, err)
	}
	capabilities.KubeVersion.Version = fmt.Sprintf("v%d.%d.%d", v.Major(), v.Minor(), v.Patch())
	capabilities.KubeVersion.Major = fmt.Sprint(v.Major())
	capabilities.KubeVersion.Minor = fmt.Sprint(v.Minor())
	return capabilities, nil
}
