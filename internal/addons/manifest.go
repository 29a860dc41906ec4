package addons

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/imamik/blueprints/internal/addons/k8sclient"
	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/util/async"
	"github.com/imamik/blueprints/internal/util/naming"
)

// ManifestAddOn applies multi-document YAML manifests. Its output is the
// list of applied objects.
type ManifestAddOn struct {
	Name      string
	Manifests []byte
	Files     []string // read in order and appended after Manifests

	Clients Clients
}

// ID implements blueprint.AddOn.
func (a *ManifestAddOn) ID() string { return a.Name }

// Deploy reads and decodes the manifests, then applies them asynchronously.
func (a *ManifestAddOn) Deploy(ctx context.Context, info *blueprint.ClusterInfo) (*async.Future[any], error) {
	manifests, err := a.load()
	if err != nil {
		return nil, fmt.Errorf("manifest add-on %s: %w", a.Name, err)
	}
	return applyAsync(ctx, clientsOrDefault(a.Clients), info, manifests, naming.FieldManager(a.Name)), nil
}

func (a *ManifestAddOn) load() ([]byte, error) {
	docs := [][]byte{a.Manifests}
	for _, path := range a.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest file: %w", err)
		}
		docs = append(docs, data)
	}
	manifests := bytes.Join(docs, []byte("\n---\n"))

	objects, err := k8sclient.DecodeManifests(manifests)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no manifests to apply")
	}
	return manifests, nil
}

// applyAsync applies manifests in a goroutine and resolves to the applied
// object references.
func applyAsync(ctx context.Context, clients Clients, info *blueprint.ClusterInfo, manifests []byte, fieldManager string) *async.Future[any] {
	return async.Any(async.Go(ctx, func(ctx context.Context) ([]k8sclient.ObjectRef, error) {
		kube, err := clients.Kube(info)
		if err != nil {
			return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
		}
		return kube.ApplyManifests(ctx, manifests, fieldManager)
	}))
}
