package teams

import (
	"strings"

	"github.com/imamik/blueprints/internal/blueprint"
)

// UsersContextKey returns the scope context key holding a team's users.
func UsersContextKey(team string) string {
	return "team-" + team + ".users"
}

// UsersFromScope reads the comma-separated user list for team from the
// scope context. A missing key yields no users.
func UsersFromScope(scope *blueprint.Scope, team string) []string {
	return splitUsers(scope.TryGetContext(UsersContextKey(team)))
}

// ResolveUsers returns the declared users followed by any users from the
// scope context, without duplicates.
func ResolveUsers(scope *blueprint.Scope, team string, declared []string) []string {
	return mergeUsers(declared, UsersFromScope(scope, team))
}

func splitUsers(value string) []string {
	var users []string
	for _, user := range strings.Split(value, ",") {
		if user = strings.TrimSpace(user); user != "" {
			users = append(users, user)
		}
	}
	return users
}

func mergeUsers(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var users []string
	for _, list := range lists {
		for _, user := range list {
			if _, ok := seen[user]; ok {
				continue
			}
			seen[user] = struct{}{}
			users = append(users, user)
		}
	}
	return users
}
