package addons

import (
	"context"
	"fmt"

	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/util/async"
	"github.com/imamik/blueprints/internal/util/labels"
	"github.com/imamik/blueprints/internal/util/naming"
)

// NamespacedTeam is implemented by teams that own a namespace.
type NamespacedTeam interface {
	blueprint.Team
	Namespace() string
}

// DefaultDenyAddOn installs nothing during Deploy. After all teams are set
// up it denies all ingress and egress traffic in each team namespace,
// leaving teams to open what they need with their own policies.
type DefaultDenyAddOn struct {
	Name string
	// RequiresAddOn names an add-on (typically the network policy engine)
	// that must be present in the registry before policies are written.
	RequiresAddOn string

	Clients Clients
}

// ID implements blueprint.AddOn.
func (a *DefaultDenyAddOn) ID() string { return a.Name }

// Deploy implements blueprint.AddOn.
func (a *DefaultDenyAddOn) Deploy(context.Context, *blueprint.ClusterInfo) (*async.Future[any], error) {
	return nil, nil
}

// PostDeploy implements blueprint.PostDeployer.
func (a *DefaultDenyAddOn) PostDeploy(ctx context.Context, info *blueprint.ClusterInfo, teams []blueprint.Team) error {
	if a.RequiresAddOn != "" {
		if _, ok := info.ProvisionedAddOn(a.RequiresAddOn); !ok {
			return fmt.Errorf("required add-on %q is not provisioned", a.RequiresAddOn)
		}
	}

	var namespaced []NamespacedTeam
	for _, team := range teams {
		if nt, ok := team.(NamespacedTeam); ok && nt.Namespace() != "" {
			namespaced = append(namespaced, nt)
		}
	}
	if len(namespaced) == 0 {
		return nil
	}

	c, err := clientsOrDefault(a.Clients).Runtime(info)
	if err != nil {
		return fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	logger := log.FromContext(ctx)
	for _, team := range namespaced {
		policy := &networkingv1.NetworkPolicy{
			ObjectMeta: metav1.ObjectMeta{
				Name:      naming.DefaultDenyPolicy(),
				Namespace: team.Namespace(),
			},
		}
		result, err := controllerutil.CreateOrUpdate(ctx, c, policy, func() error {
			policy.Labels = labels.NewLabelBuilder(info.Cluster.Name).
				WithTeam(team.Name()).
				WithAddOn(a.Name).
				Build()
			policy.Spec = networkingv1.NetworkPolicySpec{
				PodSelector: metav1.LabelSelector{},
				PolicyTypes: []networkingv1.PolicyType{
					networkingv1.PolicyTypeIngress,
					networkingv1.PolicyTypeEgress,
				},
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to write default-deny policy for team %s: %w", team.Name(), err)
		}
		logger.V(1).Info("default-deny policy written", "team", team.Name(), "namespace", team.Namespace(), "result", result)
	}
	return nil
}
