// Package netutil provides network helpers: CIDR arithmetic for laying out
// subnets and TCP reachability checks for freshly provisioned endpoints.
package netutil
