// Package providers contains cluster providers for blueprints.
//
// [KubeconfigProvider] is the standard provider: it attaches to an existing
// cluster described by a kubeconfig, waits until the API server answers and
// checks that the server runs at least the requested Kubernetes version.
package providers
