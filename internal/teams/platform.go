package teams

import (
	"context"
	"fmt"

	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/util/labels"
	"github.com/imamik/blueprints/internal/util/naming"
)

// ClusterAdminRole is the ClusterRole bound to platform team users.
const ClusterAdminRole = "cluster-admin"

// PlatformTeam grants its users cluster-wide administrative access.
type PlatformTeam struct {
	TeamName string
	Users    []string

	Client ClientFunc
}

// Name implements blueprint.Team.
func (t *PlatformTeam) Name() string { return t.TeamName }

// BindingName is the name of the team's ClusterRoleBinding.
func (t *PlatformTeam) BindingName() string {
	return naming.TeamAdminBinding(t.TeamName)
}

// Setup implements blueprint.Team.
func (t *PlatformTeam) Setup(ctx context.Context, info *blueprint.ClusterInfo) error {
	if len(t.Users) == 0 {
		return fmt.Errorf("platform team %s has no users", t.TeamName)
	}
	c, err := clientFor(t.Client, info)
	if err != nil {
		return err
	}

	binding := &rbacv1.ClusterRoleBinding{ObjectMeta: metav1.ObjectMeta{Name: t.BindingName()}}
	return apply(ctx, c, binding, func() error {
		binding.Labels = labels.NewLabelBuilder(info.Cluster.Name).WithTeam(t.TeamName).Build()
		binding.RoleRef = rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "ClusterRole",
			Name:     ClusterAdminRole,
		}
		binding.Subjects = userSubjects(t.Users)
		return nil
	})
}

func userSubjects(users []string) []rbacv1.Subject {
	subjects := make([]rbacv1.Subject, 0, len(users))
	for _, user := range users {
		subjects = append(subjects, rbacv1.Subject{
			APIGroup: rbacv1.GroupName,
			Kind:     rbacv1.UserKind,
			Name:     user,
		})
	}
	return subjects
}
