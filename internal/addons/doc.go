// Package addons provides the concrete add-ons a blueprint can install.
//
// Every add-on reports its output through a future so the provisioning
// engine can dispatch all of them before waiting:
//   - [HelmAddOn] installs a chart as a release, or renders and applies it
//   - [ManifestAddOn] applies raw YAML manifests
//   - [KustomizeAddOn] builds a kustomization and applies the result
//   - [SecretAddOn] creates a secret synchronously and registers nothing
//   - [DefaultDenyAddOn] isolates team namespaces in a post-deploy hook
//
// Cluster clients are built from the kubeconfig in ClusterInfo through a
// [Clients] factory, which tests replace with fakes.
package addons
