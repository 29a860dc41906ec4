// Package k8sclient provides the Kubernetes clients used by add-ons and
// teams, built directly from kubeconfig bytes: a Server-Side Apply client for
// multi-document YAML and secrets, and a controller-runtime client for typed
// create-or-update.
package k8sclient
