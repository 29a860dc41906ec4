package teams

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/util/labels"
	"github.com/imamik/blueprints/internal/util/naming"
)

// EditRole is the ClusterRole bound to application team users inside
// their namespace.
const EditRole = "edit"

// ApplicationTeam owns a namespace on the cluster.
type ApplicationTeam struct {
	TeamName string
	// NamespaceName defaults to TeamName.
	NamespaceName string
	Users         []string
	// Quota, when set, is applied as the namespace ResourceQuota, e.g.
	// {"requests.cpu": "4", "pods": "20"}.
	Quota map[string]string
	// NetworkPoliciesDir holds NetworkPolicy manifests (*.yaml, *.yml)
	// applied into the team namespace.
	NetworkPoliciesDir string

	Client ClientFunc
}

// Name implements blueprint.Team.
func (t *ApplicationTeam) Name() string { return t.TeamName }

// Namespace returns the namespace owned by the team.
func (t *ApplicationTeam) Namespace() string {
	if t.NamespaceName != "" {
		return t.NamespaceName
	}
	return t.TeamName
}

// Setup implements blueprint.Team.
func (t *ApplicationTeam) Setup(ctx context.Context, info *blueprint.ClusterInfo) error {
	// Nothing is written unless quota and policies parse.
	quota, err := t.quota()
	if err != nil {
		return err
	}
	policies, err := LoadNetworkPolicies(t.NetworkPoliciesDir)
	if err != nil {
		return err
	}

	c, err := clientFor(t.Client, info)
	if err != nil {
		return err
	}
	objLabels := labels.NewLabelBuilder(info.Cluster.Name).WithTeam(t.TeamName).Build()
	ns := t.Namespace()

	namespace := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: ns}}
	if err := apply(ctx, c, namespace, func() error {
		namespace.Labels = mergeLabels(namespace.Labels, objLabels)
		return nil
	}); err != nil {
		return err
	}

	if len(t.Users) > 0 {
		binding := &rbacv1.RoleBinding{ObjectMeta: metav1.ObjectMeta{Name: naming.TeamRoleBinding(t.TeamName), Namespace: ns}}
		if err := apply(ctx, c, binding, func() error {
			binding.Labels = mergeLabels(binding.Labels, objLabels)
			binding.RoleRef = rbacv1.RoleRef{APIGroup: rbacv1.GroupName, Kind: "ClusterRole", Name: EditRole}
			binding.Subjects = userSubjects(t.Users)
			return nil
		}); err != nil {
			return err
		}
	}

	if quota != nil {
		rq := &corev1.ResourceQuota{ObjectMeta: metav1.ObjectMeta{Name: naming.TeamQuota(t.TeamName), Namespace: ns}}
		if err := apply(ctx, c, rq, func() error {
			rq.Labels = mergeLabels(rq.Labels, objLabels)
			rq.Spec.Hard = quota
			return nil
		}); err != nil {
			return err
		}
	}

	for _, policy := range policies {
		if err := t.applyPolicy(ctx, c, policy, objLabels); err != nil {
			return err
		}
	}
	return nil
}

func (t *ApplicationTeam) applyPolicy(ctx context.Context, c ctrlclient.Client, desired *networkingv1.NetworkPolicy, objLabels map[string]string) error {
	policy := &networkingv1.NetworkPolicy{ObjectMeta: metav1.ObjectMeta{Name: desired.Name, Namespace: t.Namespace()}}
	return apply(ctx, c, policy, func() error {
		policy.Labels = mergeLabels(mergeLabels(policy.Labels, desired.Labels), objLabels)
		policy.Spec = desired.Spec
		return nil
	})
}

func (t *ApplicationTeam) quota() (corev1.ResourceList, error) {
	if len(t.Quota) == 0 {
		return nil, nil
	}
	list := make(corev1.ResourceList, len(t.Quota))
	for name, value := range t.Quota {
		q, err := resource.ParseQuantity(value)
		if err != nil {
			return nil, fmt.Errorf("team %s: invalid quota %s=%q: %w", t.TeamName, name, value, err)
		}
		list[corev1.ResourceName(name)] = q
	}
	return list, nil
}

// LoadNetworkPolicies reads every NetworkPolicy document from the YAML
// files in dir, in file name order. An empty dir yields no policies.
func LoadNetworkPolicies(dir string) ([]*networkingv1.NetworkPolicy, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read network policies directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	var policies []*networkingv1.NetworkPolicy
	for _, file := range files {
		loaded, err := loadPolicyFile(file)
		if err != nil {
			return nil, err
		}
		policies = append(policies, loaded...)
	}
	return policies, nil
}

func loadPolicyFile(path string) ([]*networkingv1.NetworkPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	reader := utilyaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(data)))
	var policies []*networkingv1.NetworkPolicy
	for {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if strings.TrimSpace(string(doc)) == "" {
			continue
		}

		var policy networkingv1.NetworkPolicy
		if err := sigsyaml.UnmarshalStrict(doc, &policy); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if policy.Kind != "" && policy.Kind != "NetworkPolicy" {
			return nil, fmt.Errorf("%s: expected NetworkPolicy, got %s", path, policy.Kind)
		}
		if policy.Name == "" {
			return nil, fmt.Errorf("%s: network policy has no name", path)
		}
		policies = append(policies, &policy)
	}
	return policies, nil
}

func mergeLabels(existing, extra map[string]string) map[string]string {
	out := make(map[string]string, len(existing)+len(extra))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
