package provisioning

import (
	"fmt"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/util/async"
)

const addOnPhaseName = "addons"

// AddOnPhase deploys every add-on, waits for all of them and registers their
// outputs in the cluster info.
//
// All deploys are issued before anything is awaited. The join waits for every
// pending result even after a rejection, so no add-on is still running when
// the phase returns.
type AddOnPhase struct{}

// NewAddOnPhase creates a new add-on phase.
func NewAddOnPhase() *AddOnPhase {
	return &AddOnPhase{}
}

// Name implements the Phase interface.
func (ap *AddOnPhase) Name() string {
	return addOnPhaseName
}

// Provision implements the Phase interface.
func (ap *AddOnPhase) Provision(ctx *Context) error {
	pending, hooks, dispatchErr := dispatchAddOns(ctx)
	ctx.State.Pending = pending
	ctx.State.Hooks = hooks

	outputs, joinErr := joinAddOns(ctx, pending)
	if dispatchErr != nil {
		failed := dispatchErr
		if joinErr != nil {
			failed = append(joinErr.Failed, dispatchErr...)
		}
		return &AddOnMaterializationError{Failed: failed}
	}
	if joinErr != nil {
		return joinErr
	}

	registerAddOns(ctx, pending, outputs)
	return nil
}

// dispatchAddOns calls Deploy on every add-on in configuration order and
// records pending results and post-deploy hooks in dispatch order.
// A synchronous Deploy error stops dispatch; what was dispatched so far is
// still returned so the caller can wait for it.
func dispatchAddOns(ctx *Context) ([]PendingAddOn, []Hook, []AddOnFailure) {
	var pending []PendingAddOn
	var hooks []Hook

	for i, addOn := range ctx.Config.AddOns {
		id := addOn.ID()

		future, err := addOn.Deploy(ctx, ctx.State.Info)
		if err != nil {
			LogAddOnFailed(ctx.Observer, id, err)
			ctx.Metrics.ObserveAddOn(blueprintID(ctx), id, err)
			return pending, hooks, []AddOnFailure{{ID: id, Err: fmt.Errorf("deploy: %w", err)}}
		}

		if future != nil {
			pending = append(pending, PendingAddOn{ID: id, Future: future})
		}
		hook, isHook := addOn.(blueprint.PostDeployer)
		if isHook {
			hooks = append(hooks, Hook{ID: id, Hook: hook})
		}

		LogAddOnDispatched(ctx.Observer, id, future != nil, isHook)
		ctx.Observer.Progress(addOnPhaseName, i+1, len(ctx.Config.AddOns))
	}

	return pending, hooks, nil
}

// joinAddOns is the join barrier: it waits until every pending result has
// resolved and returns their values in dispatch order. If any rejected, it
// returns every rejection in dispatch order.
func joinAddOns(ctx *Context, pending []PendingAddOn) ([]any, *AddOnMaterializationError) {
	futures := make([]*async.Future[any], len(pending))
	for i, p := range pending {
		futures[i] = p.Future
	}

	outcomes := async.Settle(futures)

	var failed []AddOnFailure
	values := make([]any, len(outcomes))
	for i, o := range outcomes {
		id := pending[i].ID
		ctx.Metrics.ObserveAddOn(blueprintID(ctx), id, o.Err)
		if o.Err != nil {
			LogAddOnFailed(ctx.Observer, id, o.Err)
			failed = append(failed, AddOnFailure{ID: id, Err: o.Err})
			continue
		}
		LogAddOnMaterialized(ctx.Observer, id)
		values[i] = o.Value
	}

	if len(failed) > 0 {
		return nil, &AddOnMaterializationError{Failed: failed}
	}
	return values, nil
}

// registerAddOns writes materialized outputs into the cluster info in
// dispatch order. With duplicate IDs the later add-on wins.
func registerAddOns(ctx *Context, pending []PendingAddOn, outputs []any) {
	info := ctx.State.Info
	for i, p := range pending {
		if _, exists := info.ProvisionedAddOn(p.ID); exists {
			LogValidationWarning(ctx.Observer, p.ID, "replacing output of an add-on with the same id")
		}
		info.AddProvisionedAddOn(p.ID, outputs[i])
	}
	ctx.Metrics.SetRegistrySize(blueprintID(ctx), info.ProvisionedAddOnCount())
}
