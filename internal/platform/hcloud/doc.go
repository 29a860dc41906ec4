// Package hcloud resolves blueprint networks to Hetzner Cloud networks.
//
// # Architecture
//
//   - real_client.go: client construction and timeouts
//   - operations.go: generic get-or-create with action waiting
//   - network.go: network and subnet management
//   - resolver.go: the network.Resolver implementation
//   - errors.go: error classification for retry logic
//
// Hetzner networks have no internet or NAT gateways, so a created network
// consists of the network plus one cloud subnet per configured zone.
//
// The "default" network is the single network labelled
// blueprints.io/default=true.
package hcloud
