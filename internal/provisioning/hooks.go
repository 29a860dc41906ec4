package provisioning

const hookPhaseName = "hooks"

// PostDeployPhase runs the post-deploy hooks recorded during add-on dispatch,
// one at a time in dispatch order. Each hook sees the final cluster info and
// the full team list.
type PostDeployPhase struct{}

// NewPostDeployPhase creates a new post-deploy phase.
func NewPostDeployPhase() *PostDeployPhase {
	return &PostDeployPhase{}
}

// Name implements the Phase interface.
func (pp *PostDeployPhase) Name() string {
	return hookPhaseName
}

// Provision implements the Phase interface.
func (pp *PostDeployPhase) Provision(ctx *Context) error {
	for _, h := range ctx.State.Hooks {
		ctx.Observer.Event(Event{
			Type:     EventHookRun,
			Phase:    hookPhaseName,
			Resource: h.ID,
			Message:  "running post-deploy hook",
		})

		if err := h.Hook.PostDeploy(ctx, ctx.State.Info, ctx.Config.Teams); err != nil {
			return &PostDeployError{AddOn: h.ID, Err: err}
		}
	}
	return nil
}
