// Package teams onboards tenants onto a provisioned cluster.
//
// A [PlatformTeam] receives cluster-admin. An [ApplicationTeam] gets its own
// namespace with an edit RoleBinding for its users, an optional
// ResourceQuota and the NetworkPolicies found in its policy directory.
// All objects are written with create-or-update semantics, so setup can
// be repeated against the same cluster.
package teams
