package addons

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/util/async"
	"github.com/imamik/blueprints/internal/util/labels"
)

// SecretAddOn creates a secret during Deploy. It has nothing to wait for,
// so it returns no future and registers no output.
type SecretAddOn struct {
	Name       string
	Namespace  string
	SecretName string // defaults to Name
	Type       corev1.SecretType
	Data       map[string]string

	Clients Clients
}

// ID implements blueprint.AddOn.
func (a *SecretAddOn) ID() string { return a.Name }

// Deploy creates or replaces the secret.
func (a *SecretAddOn) Deploy(ctx context.Context, info *blueprint.ClusterInfo) (*async.Future[any], error) {
	if a.Namespace == "" {
		return nil, fmt.Errorf("secret add-on %s: namespace is required", a.Name)
	}

	kube, err := clientsOrDefault(a.Clients).Kube(info)
	if err != nil {
		return nil, fmt.Errorf("secret add-on %s: failed to create kubernetes client: %w", a.Name, err)
	}

	name := a.SecretName
	if name == "" {
		name = a.Name
	}
	secretType := a.Type
	if secretType == "" {
		secretType = corev1.SecretTypeOpaque
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: a.Namespace,
			Labels:    labels.NewLabelBuilder(info.Cluster.Name).WithAddOn(a.Name).Build(),
		},
		Type:       secretType,
		StringData: a.Data,
	}
	if err := kube.CreateSecret(ctx, secret); err != nil {
		return nil, fmt.Errorf("secret add-on %s: %w", a.Name, err)
	}
	return nil, nil
}
