// Package network defines the network handle passed to cluster providers and
// the rules that turn an optional reference or hint into a concrete network.
//
// Concrete lookups and creation live behind [Resolver]; implementations for
// AWS VPCs and Hetzner Cloud networks are in internal/platform.
package network
