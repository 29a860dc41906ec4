package provisioning

const teamPhaseName = "teams"

// TeamPhase sets up teams one at a time in configuration order.
type TeamPhase struct{}

// NewTeamPhase creates a new team phase.
func NewTeamPhase() *TeamPhase {
	return &TeamPhase{}
}

// Name implements the Phase interface.
func (tp *TeamPhase) Name() string {
	return teamPhaseName
}

// Provision implements the Phase interface.
func (tp *TeamPhase) Provision(ctx *Context) error {
	for i, team := range ctx.Config.Teams {
		name := team.Name()
		ctx.Observer.Event(Event{
			Type:     EventTeamSetup,
			Phase:    teamPhaseName,
			Resource: name,
			Message:  "setting up team",
		})

		if err := team.Setup(ctx, ctx.State.Info); err != nil {
			return &TeamSetupError{Team: name, Err: err}
		}
		ctx.Observer.Progress(teamPhaseName, i+1, len(ctx.Config.Teams))
	}
	return nil
}
