package provisioning

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the phase error types via errors.Is.
var (
	ErrNetwork              = errors.New("network resolution failed")
	ErrClusterBootstrap     = errors.New("cluster bootstrap failed")
	ErrAddOnMaterialization = errors.New("add-on materialization failed")
	ErrTeamSetup            = errors.New("team setup failed")
	ErrPostDeploy           = errors.New("post-deploy hook failed")
)

// PhaseError names the pipeline phase that failed. RunPhases wraps every
// phase failure in one.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s phase failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// NetworkError reports a failure to look up or create the cluster network.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network resolution failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports whether target is ErrNetwork.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ClusterBootstrapError reports a failure of the cluster provider.
type ClusterBootstrapError struct {
	Cluster string
	Err     error
}

func (e *ClusterBootstrapError) Error() string {
	return fmt.Sprintf("failed to bootstrap cluster %s: %v", e.Cluster, e.Err)
}

func (e *ClusterBootstrapError) Unwrap() error { return e.Err }

// Is reports whether target is ErrClusterBootstrap.
func (e *ClusterBootstrapError) Is(target error) bool { return target == ErrClusterBootstrap }

// AddOnFailure is one add-on that failed to deploy or materialize.
type AddOnFailure struct {
	ID  string
	Err error
}

// AddOnMaterializationError reports every add-on that failed, in dispatch
// order. It is returned only after all dispatched futures have settled.
type AddOnMaterializationError struct {
	Failed []AddOnFailure
}

func (e *AddOnMaterializationError) Error() string {
	parts := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		parts[i] = fmt.Sprintf("%s: %v", f.ID, f.Err)
	}
	return fmt.Sprintf("%d add-on(s) failed to materialize: %s", len(e.Failed), strings.Join(parts, "; "))
}

// Unwrap returns the cause of every failure.
func (e *AddOnMaterializationError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f.Err
	}
	return errs
}

// Is reports whether target is ErrAddOnMaterialization.
func (e *AddOnMaterializationError) Is(target error) bool { return target == ErrAddOnMaterialization }

// FailedIDs returns the IDs of the failed add-ons in dispatch order.
func (e *AddOnMaterializationError) FailedIDs() []string {
	ids := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		ids[i] = f.ID
	}
	return ids
}

// TeamSetupError reports the first team whose setup failed.
type TeamSetupError struct {
	Team string
	Err  error
}

func (e *TeamSetupError) Error() string {
	return fmt.Sprintf("failed to set up team %s: %v", e.Team, e.Err)
}

func (e *TeamSetupError) Unwrap() error { return e.Err }

// Is reports whether target is ErrTeamSetup.
func (e *TeamSetupError) Is(target error) bool { return target == ErrTeamSetup }

// PostDeployError reports the first post-deploy hook that failed.
type PostDeployError struct {
	AddOn string
	Err   error
}

func (e *PostDeployError) Error() string {
	return fmt.Sprintf("post-deploy hook of add-on %s failed: %v", e.AddOn, e.Err)
}

func (e *PostDeployError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPostDeploy.
func (e *PostDeployError) Is(target error) bool { return target == ErrPostDeploy }
