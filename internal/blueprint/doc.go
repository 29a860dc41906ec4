// Package blueprint holds the declarative model of a cluster blueprint.
//
// A [Config] names a cluster, the add-ons to install on it and the teams to
// onboard. Add-ons, teams and cluster providers are capabilities ([AddOn],
// [Team], [ClusterProvider]) so concrete implementations can live anywhere.
// The engine that turns a Config into a running cluster is in
// internal/provisioning; it reports the result through [ClusterInfo].
package blueprint
