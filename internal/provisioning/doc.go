// Package provisioning turns a blueprint.Config into a running cluster.
//
// Provisioning is a fixed sequence of phases run by [RunPhases]:
//
//   - validation — pure configuration checks, before any side effect
//   - network — resolve or create the network the cluster lives in
//   - cluster — create the cluster through the configured provider
//   - addons — dispatch every add-on, wait for all of them, register outputs
//   - teams — set up teams one at a time in configuration order
//   - hooks — run post-deploy hooks in add-on dispatch order
//
// Context carries the configuration, the resolved defaults, the observer and
// the State that phases populate for later phases. [Deploy] is the entry
// point that wires it all together.
package provisioning
