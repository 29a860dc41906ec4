package addons

import (
	"context"
	"fmt"
	"path/filepath"

	"sigs.k8s.io/kustomize/api/krusty"
	kustypes "sigs.k8s.io/kustomize/api/types"
	"sigs.k8s.io/kustomize/kyaml/filesys"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/util/async"
	"github.com/imamik/blueprints/internal/util/naming"
)

// KustomizeAddOn builds a kustomization and applies the resulting objects.
// The build runs during Deploy so configuration errors surface before any
// other add-on is dispatched.
type KustomizeAddOn struct {
	Name string
	Path string // directory containing kustomization.yaml
	// FS defaults to the local disk.
	FS filesys.FileSystem

	Clients Clients
}

// ID implements blueprint.AddOn.
func (a *KustomizeAddOn) ID() string { return a.Name }

// Deploy builds the kustomization and applies it asynchronously.
func (a *KustomizeAddOn) Deploy(ctx context.Context, info *blueprint.ClusterInfo) (*async.Future[any], error) {
	manifests, err := a.Build()
	if err != nil {
		return nil, fmt.Errorf("kustomize add-on %s: %w", a.Name, err)
	}
	return applyAsync(ctx, clientsOrDefault(a.Clients), info, manifests, naming.FieldManager(a.Name)), nil
}

// Build runs kustomize on Path and returns multi-document YAML.
func (a *KustomizeAddOn) Build() ([]byte, error) {
	fs := a.FS
	if fs == nil {
		fs = filesys.MakeFsOnDisk()
	}

	if !fs.Exists(filepath.Join(a.Path, "kustomization.yaml")) &&
		!fs.Exists(filepath.Join(a.Path, "kustomization.yml")) &&
		!fs.Exists(filepath.Join(a.Path, "Kustomization")) {
		return nil, fmt.Errorf("no kustomization found in %s", a.Path)
	}

	opts := krusty.MakeDefaultOptions()
	opts.PluginConfig = kustypes.DisabledPluginConfig()

	resMap, err := krusty.MakeKustomizer(opts).Run(fs, a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to build kustomization: %w", err)
	}
	manifests, err := resMap.AsYaml()
	if err != nil {
		return nil, fmt.Errorf("failed to render kustomization: %w", err)
	}
	return manifests, nil
}
