package blueprint

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Validate checks a Config before any side effect. It is pure: no I/O and
// no calls into add-ons or teams beyond ID and Name.
//
// An empty Version is accepted; callers resolve defaults before provisioning.
func Validate(cfg *Config) error {
	if cfg == nil {
		return &InvalidConfigError{Field: "config", Message: "must not be nil"}
	}

	var errs ValidationErrors

	if cfg.Version != "" {
		if _, err := semver.NewVersion(cfg.Version); err != nil {
			errs = append(errs, &InvalidConfigError{
				Field:   "version",
				Message: fmt.Sprintf("%q is not a valid version: %v", cfg.Version, err),
			})
		}
	}

	seenTeams := make(map[string]bool, len(cfg.Teams))
	for i, t := range cfg.Teams {
		if t == nil {
			errs = append(errs, &InvalidConfigError{Field: fmt.Sprintf("teams[%d]", i), Message: "must not be nil"})
			continue
		}
		name := t.Name()
		if seenTeams[name] {
			errs = append(errs, &DuplicateTeamError{Name: name})
			continue
		}
		seenTeams[name] = true
	}

	for i, a := range cfg.AddOns {
		if a == nil {
			errs = append(errs, &InvalidConfigError{Field: fmt.Sprintf("addons[%d]", i), Message: "must not be nil"})
		}
	}

	if cfg.RejectDuplicateAddOns {
		for _, id := range DuplicateAddOnIDs(cfg) {
			errs = append(errs, &DuplicateAddOnError{ID: id})
		}
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errs
	}
}

// DuplicateAddOnIDs returns every add-on ID declared more than once, in the
// order of their second occurrence.
func DuplicateAddOnIDs(cfg *Config) []string {
	seen := make(map[string]int, len(cfg.AddOns))
	var dups []string
	for _, a := range cfg.AddOns {
		if a == nil {
			continue
		}
		id := a.ID()
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}
