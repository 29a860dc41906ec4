package provisioning

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/network"
)

// Option configures Deploy.
type Option func(*options)

type options struct {
	observer Observer
	metrics  *Metrics
	resolver network.Resolver
	defaults *Defaults
	phases   []Phase
}

// WithObserver sets the observer. Defaults to a LogObserver over the logger
// stored in the context.
func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// WithMetrics records provisioning metrics.
func WithMetrics(m *Metrics) Option {
	return func(opts *options) { opts.metrics = m }
}

// WithNetworkResolver sets the resolver used when the Config carries no
// pre-resolved network.
func WithNetworkResolver(r network.Resolver) Option {
	return func(opts *options) { opts.resolver = r }
}

// WithDefaults replaces StandardDefaults.
func WithDefaults(d Defaults) Option {
	return func(opts *options) { opts.defaults = &d }
}

// WithPhases replaces DefaultPhases. Used by tests and partial runs.
func WithPhases(phases ...Phase) Option {
	return func(opts *options) { opts.phases = phases }
}

// Deploy provisions the blueprint described by cfg and returns the cluster
// info with every materialized add-on registered.
//
// Errors are returned as the typed phase errors of this package or a
// blueprint configuration error, wrapped with the failing phase name.
// Deploy never retries and imposes no timeout beyond ctx.
func Deploy(ctx context.Context, scope *blueprint.Scope, cfg *blueprint.Config, opts ...Option) (*blueprint.ClusterInfo, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = NewLogObserver(log.FromContext(ctx))
	}
	if o.defaults == nil {
		d := StandardDefaults()
		o.defaults = &d
	}
	if o.phases == nil {
		o.phases = DefaultPhases()
	}

	id := ""
	if cfg != nil {
		id = cfg.ID
	}
	observer := o.observer.WithFields(map[string]string{"blueprint": id})

	pctx := NewContext(ctx, scope, cfg, *o.defaults, observer)
	pctx.Resolver = o.resolver
	pctx.Metrics = o.metrics

	err := RunPhases(pctx, o.phases)
	o.metrics.ObserveDeployment(id, err)
	if err != nil {
		return nil, err
	}
	return pctx.State.Info, nil
}
