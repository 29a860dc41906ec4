package addons

import (
	"context"
	"fmt"
	"time"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/release"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/addons/k8sclient"
	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/util/async"
	"github.com/imamik/blueprints/internal/util/naming"
)

// HelmMode selects how a chart reaches the cluster.
type HelmMode string

const (
	// HelmModeRelease installs the chart as a tracked Helm release.
	HelmModeRelease HelmMode = "release"
	// HelmModeApply renders the chart locally and applies the objects with
	// Server-Side Apply. No release is recorded.
	HelmModeApply HelmMode = "apply"
)

// ReleaseInfo is the materialized output of a HelmAddOn.
type ReleaseInfo struct {
	Name         string
	Namespace    string
	Chart        string
	ChartVersion string
	AppVersion   string
	Revision     int
	Status       string
	Objects      []k8sclient.ObjectRef // set in apply mode only
}

// HelmAddOn installs a Helm chart.
type HelmAddOn struct {
	Name        string
	Chart       helm.ChartSpec
	Namespace   string
	ReleaseName string // defaults to Name
	Values      helm.Values
	Mode        HelmMode // defaults to HelmModeRelease
	Wait        bool
	Timeout     time.Duration

	Clients Clients
}

// ID implements blueprint.AddOn.
func (a *HelmAddOn) ID() string { return a.Name }

// Deploy validates the chart reference and starts the installation.
func (a *HelmAddOn) Deploy(ctx context.Context, info *blueprint.ClusterInfo) (*async.Future[any], error) {
	if err := a.Chart.Validate(); err != nil {
		return nil, fmt.Errorf("helm add-on %s: %w", a.Name, err)
	}
	if a.Namespace == "" {
		return nil, fmt.Errorf("helm add-on %s: namespace is required", a.Name)
	}
	mode := a.mode()
	if mode != HelmModeRelease && mode != HelmModeApply {
		return nil, fmt.Errorf("helm add-on %s: unknown mode %q", a.Name, mode)
	}

	clients := clientsOrDefault(a.Clients)
	return async.Any(async.Go(ctx, func(ctx context.Context) (*ReleaseInfo, error) {
		ch, err := helm.LoadChart(a.Chart)
		if err != nil {
			return nil, err
		}
		if mode == HelmModeApply {
			return a.apply(ctx, clients, info, ch)
		}
		return a.release(ctx, clients, info, ch)
	})), nil
}

func (a *HelmAddOn) release(ctx context.Context, clients Clients, info *blueprint.ClusterInfo, ch *chart.Chart) (*ReleaseInfo, error) {
	installer, err := clients.Helm(ctx, info, a.Namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create helm client: %w", err)
	}

	rel, err := installer.InstallOrUpgrade(ctx, helm.Release{
		Name:    a.releaseName(),
		Chart:   ch,
		Values:  a.Values,
		Wait:    a.Wait,
		Timeout: a.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to install release %s: %w", a.releaseName(), err)
	}
	return releaseInfo(rel), nil
}

func (a *HelmAddOn) apply(ctx context.Context, clients Clients, info *blueprint.ClusterInfo, ch *chart.Chart) (*ReleaseInfo, error) {
	manifests, err := helm.Render(ch, a.Values, helm.RenderOptions{
		ReleaseName: a.releaseName(),
		Namespace:   a.Namespace,
		KubeVersion: info.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render chart %s: %w", a.Chart, err)
	}

	kube, err := clients.Kube(info)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	objects, err := kube.ApplyManifests(ctx, manifests, naming.FieldManager(a.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to apply chart %s: %w", a.Chart, err)
	}

	out := &ReleaseInfo{
		Name:      a.releaseName(),
		Namespace: a.Namespace,
		Status:    "applied",
		Objects:   objects,
	}
	if ch.Metadata != nil {
		out.Chart = ch.Metadata.Name
		out.ChartVersion = ch.Metadata.Version
		out.AppVersion = ch.Metadata.AppVersion
	}
	return out, nil
}

func (a *HelmAddOn) mode() HelmMode {
	if a.Mode == "" {
		return HelmModeRelease
	}
	return a.Mode
}

func (a *HelmAddOn) releaseName() string {
	if a.ReleaseName != "" {
		return a.ReleaseName
	}
	return a.Name
}

func releaseInfo(rel *release.Release) *ReleaseInfo {
	out := &ReleaseInfo{
		Name:      rel.Name,
		Namespace: rel.Namespace,
		Revision:  rel.Version,
	}
	if rel.Info != nil {
		out.Status = rel.Info.Status.String()
	}
	if rel.Chart != nil && rel.Chart.Metadata != nil {
		out.Chart = rel.Chart.Metadata.Name
		out.ChartVersion = rel.Chart.Metadata.Version
		out.AppVersion = rel.Chart.Metadata.AppVersion
	}
	return out
}
