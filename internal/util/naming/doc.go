// Package naming provides consistent naming functions for resources created
// by a blueprint.
//
// Cloud resources follow the pattern {blueprint}-{type}; Kubernetes objects
// created for teams follow team-{name} or {team}-{purpose}.
package naming
