package network

import (
	"context"
	"errors"
	"fmt"
)

// HintDefault is the hint value selecting the account's default network.
const HintDefault = "default"

// ContextKey is the scope context key carrying the network hint.
const ContextKey = "vpc"

// ErrNoResolver is returned when resolution needs a Resolver but none is configured.
var ErrNoResolver = errors.New("no network resolver configured")

// Subnet describes one subnet of a resolved network.
type Subnet struct {
	ID     string
	CIDR   string
	Zone   string
	Public bool
}

// Handle is a concrete, provider-specific network reference.
type Handle struct {
	ID       string
	Name     string
	CIDR     string
	Provider string
	Default  bool
	Subnets  []Subnet
}

// String implements fmt.Stringer.
func (h Handle) String() string {
	if h.Name != "" && h.Name != h.ID {
		return fmt.Sprintf("%s/%s (%s)", h.Provider, h.ID, h.Name)
	}
	return fmt.Sprintf("%s/%s", h.Provider, h.ID)
}

// PrivateSubnets returns the subnets not marked public.
func (h Handle) PrivateSubnets() []Subnet {
	var out []Subnet
	for _, s := range h.Subnets {
		if !s.Public {
			out = append(out, s)
		}
	}
	return out
}

// PublicSubnets returns the subnets marked public.
func (h Handle) PublicSubnets() []Subnet {
	var out []Subnet
	for _, s := range h.Subnets {
		if s.Public {
			out = append(out, s)
		}
	}
	return out
}

// Resolver looks up or creates networks for one cloud.
type Resolver interface {
	// LookupDefault returns the account's default network.
	LookupDefault(ctx context.Context) (Handle, error)

	// Lookup returns the network identified by id.
	Lookup(ctx context.Context, id string) (Handle, error)

	// Create builds a new network with the standard topology: public and
	// private subnets per availability zone, an internet gateway for public
	// subnets and one NAT gateway per zone for private ones.
	Create(ctx context.Context, name string) (Handle, error)
}

// Resolve produces the network handed to cluster provisioning.
//
//   - ref set: returned unchanged, the resolver is not consulted
//   - hint "default": the default network
//   - any other hint: the network with that identifier
//   - neither: a new network named name
func Resolve(ctx context.Context, r Resolver, ref *Handle, hint, name string) (Handle, error) {
	if ref != nil {
		return *ref, nil
	}
	if r == nil {
		return Handle{}, ErrNoResolver
	}

	switch hint {
	case HintDefault:
		h, err := r.LookupDefault(ctx)
		if err != nil {
			return Handle{}, fmt.Errorf("failed to look up default network: %w", err)
		}
		return h, nil
	case "":
		h, err := r.Create(ctx, name)
		if err != nil {
			return Handle{}, fmt.Errorf("failed to create network %s: %w", name, err)
		}
		return h, nil
	default:
		h, err := r.Lookup(ctx, hint)
		if err != nil {
			return Handle{}, fmt.Errorf("failed to look up network %s: %w", hint, err)
		}
		return h, nil
	}
}
