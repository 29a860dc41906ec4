package helm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/release"
	"helm.sh/helm/v3/pkg/storage/driver"
)

// DefaultTimeout bounds how long Helm waits for release resources.
const DefaultTimeout = 10 * time.Minute

// Release describes a release to install or upgrade.
type Release struct {
	Name    string
	Chart   *chart.Chart
	Values  Values
	Wait    bool
	Timeout time.Duration
}

// Client manages Helm releases in one namespace using in-memory kubeconfig.
type Client struct {
	namespace    string
	actionConfig *action.Configuration
}

// NewClient creates a Helm client from kubeconfig bytes. Release state is
// stored in secrets, matching the helm CLI default.
func NewClient(kubeconfig []byte, namespace string, debug action.DebugLog) (*Client, error) {
	if debug == nil {
		debug = func(string, ...any) {}
	}

	actionConfig := new(action.Configuration)
	getter := newKubeconfigGetter(kubeconfig, namespace)
	if err := actionConfig.Init(getter, namespace, "secret", debug); err != nil {
		return nil, fmt.Errorf("failed to initialize helm action config: %w", err)
	}

	return &Client{namespace: namespace, actionConfig: actionConfig}, nil
}

// NewClientFromConfig wraps an existing action configuration. Tests use it
// with an in-memory release store.
func NewClientFromConfig(actionConfig *action.Configuration, namespace string) *Client {
	return &Client{namespace: namespace, actionConfig: actionConfig}
}

// InstallOrUpgrade installs the release, or upgrades it if it already exists.
func (c *Client) InstallOrUpgrade(ctx context.Context, rel Release) (*release.Release, error) {
	exists, err := c.ReleaseExists(rel.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return c.upgrade(ctx, rel)
	}
	return c.install(ctx, rel)
}

func (c *Client) install(ctx context.Context, rel Release) (*release.Release, error) {
	installClient := action.NewInstall(c.actionConfig)
	installClient.ReleaseName = rel.Name
	installClient.Namespace = c.namespace
	installClient.CreateNamespace = true
	installClient.Wait = rel.Wait
	installClient.Timeout = timeout(rel)

	r, err := installClient.RunWithContext(ctx, rel.Chart, rel.Values.ToMap())
	if err != nil {
		return nil, fmt.Errorf("failed to install release %s: %w", rel.Name, err)
	}
	return r, nil
}

func (c *Client) upgrade(ctx context.Context, rel Release) (*release.Release, error) {
	upgradeClient := action.NewUpgrade(c.actionConfig)
	upgradeClient.Namespace = c.namespace
	upgradeClient.Wait = rel.Wait
	upgradeClient.Timeout = timeout(rel)
	upgradeClient.ReuseValues = false

	r, err := upgradeClient.RunWithContext(ctx, rel.Name, rel.Chart, rel.Values.ToMap())
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade release %s: %w", rel.Name, err)
	}
	return r, nil
}

// ReleaseExists checks if a release exists.
func (c *Client) ReleaseExists(releaseName string) (bool, error) {
	histClient := action.NewHistory(c.actionConfig)
	histClient.Max = 1
	_, err := histClient.Run(releaseName)
	if errors.Is(err, driver.ErrReleaseNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read history of release %s: %w", releaseName, err)
	}
	return true, nil
}

func timeout(rel Release) time.Duration {
	if rel.Timeout > 0 {
		return rel.Timeout
	}
	return DefaultTimeout
}
