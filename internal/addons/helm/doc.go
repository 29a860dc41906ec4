// Package helm installs and renders Helm charts from kubeconfig bytes.
//
// Charts are located either on the local filesystem or in a chart
// repository (HTTP or OCI). [Client] manages releases through the Helm
// action API; [Render] produces plain manifests with the Helm template
// engine so they can be applied with Server-Side Apply.
package helm
