// Package labels provides consistent labeling for resources created by a
// blueprint, both Kubernetes objects and cloud network resources.
//
// All labels use the blueprints.io domain prefix and follow a builder pattern
// for constructing label sets with blueprint ID, team, add-on, and manager
// identification.
package labels
