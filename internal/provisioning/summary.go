package provisioning

import (
	"errors"
	"time"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/network"
)

// Summary describes one deployment. It is rendered by the CLI and exported
// as JSON.
type Summary struct {
	DeploymentID  string          `json:"deploymentId"`
	BlueprintID   string          `json:"blueprintId"`
	Name          string          `json:"name"`
	Version       string          `json:"version,omitempty"`
	ServerVersion string          `json:"serverVersion,omitempty"`
	Endpoint      string          `json:"endpoint,omitempty"`
	Network       *network.Handle `json:"network,omitempty"`
	AddOns        []AddOnSummary  `json:"addons"`
	Teams         []string        `json:"teams"`
	StartedAt     time.Time       `json:"startedAt"`
	Duration      time.Duration   `json:"duration"`

	// Set when the deployment failed.
	FailedPhase  string   `json:"failedPhase,omitempty"`
	FailedAddOns []string `json:"failedAddons,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// AddOnSummary is one registered add-on and its materialized output.
type AddOnSummary struct {
	ID     string `json:"id"`
	Output any    `json:"output,omitempty"`
}

// Succeeded reports whether the deployment finished without error.
func (s *Summary) Succeeded() bool {
	return s.Error == ""
}

// NewSummary builds the summary of a deployment of cfg that started at
// started and finished at finished. info and err are the results of Deploy.
func NewSummary(deploymentID string, cfg *blueprint.Config, info *blueprint.ClusterInfo, err error, started, finished time.Time) *Summary {
	s := &Summary{
		DeploymentID: deploymentID,
		AddOns:       []AddOnSummary{},
		Teams:        []string{},
		StartedAt:    started.UTC(),
		Duration:     finished.Sub(started),
	}
	if cfg != nil {
		s.BlueprintID = cfg.ID
		s.Name = cfg.DisplayName()
		s.Version = cfg.Version
	}

	if info != nil {
		s.Version = info.Version
		s.ServerVersion = info.Cluster.ServerVersion
		s.Endpoint = info.Cluster.Endpoint
		if info.Cluster.Network.ID != "" {
			h := info.Cluster.Network
			s.Network = &h
		}
		s.AddOns = registeredAddOns(cfg, info)
		if cfg != nil {
			s.Teams = append(s.Teams, cfg.TeamNames()...)
		}
	}

	if err != nil {
		s.Error = err.Error()
		s.FailedPhase = failedPhase(err)
		var addOnErr *AddOnMaterializationError
		if s.FailedPhase == addOnPhaseName && errors.As(err, &addOnErr) {
			s.FailedAddOns = addOnErr.FailedIDs()
		}
	}
	return s
}

// registeredAddOns lists registry entries in configuration order, followed
// by any keys the configuration does not name.
func registeredAddOns(cfg *blueprint.Config, info *blueprint.ClusterInfo) []AddOnSummary {
	out := []AddOnSummary{}
	seen := make(map[string]bool)
	add := func(id string) {
		if seen[id] {
			return
		}
		if output, ok := info.ProvisionedAddOn(id); ok {
			seen[id] = true
			out = append(out, AddOnSummary{ID: id, Output: output})
		}
	}
	if cfg != nil {
		for _, id := range cfg.AddOnIDs() {
			add(id)
		}
	}
	for _, id := range info.ProvisionedAddOnKeys() {
		add(id)
	}
	return out
}

// failedPhase names the phase of the outermost phase error in err's chain.
// Causes wrapped inside a phase error never override it.
func failedPhase(err error) string {
	switch e := err.(type) {
	case nil:
		return ""
	case *PhaseError:
		return e.Phase
	case *blueprint.DuplicateTeamError, *blueprint.DuplicateAddOnError,
		*blueprint.InvalidConfigError, blueprint.ValidationErrors:
		return validationPhaseName
	case *NetworkError:
		return networkPhaseName
	case *ClusterBootstrapError:
		return clusterPhaseName
	case *AddOnMaterializationError:
		return addOnPhaseName
	case *TeamSetupError:
		return teamPhaseName
	case *PostDeployError:
		return hookPhaseName
	case interface{ Unwrap() error }:
		return failedPhase(e.Unwrap())
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if phase := failedPhase(inner); phase != "" {
				return phase
			}
		}
	}
	return ""
}
