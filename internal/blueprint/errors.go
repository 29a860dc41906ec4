package blueprint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration matches every configuration error via errors.Is.
var ErrConfiguration = errors.New("configuration error")

// DuplicateTeamError reports a team name used more than once.
type DuplicateTeamError struct {
	Name string
}

func (e *DuplicateTeamError) Error() string {
	return fmt.Sprintf("duplicate team name %q", e.Name)
}

// Is reports whether target is ErrConfiguration.
func (e *DuplicateTeamError) Is(target error) bool {
	return target == ErrConfiguration
}

// DuplicateAddOnError reports an add-on ID used more than once while
// duplicates are rejected.
type DuplicateAddOnError struct {
	ID string
}

func (e *DuplicateAddOnError) Error() string {
	return fmt.Sprintf("duplicate add-on id %q", e.ID)
}

// Is reports whether target is ErrConfiguration.
func (e *DuplicateAddOnError) Is(target error) bool {
	return target == ErrConfiguration
}

// InvalidConfigError reports any other invalid field.
type InvalidConfigError struct {
	Field   string
	Message string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrConfiguration.
func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// ValidationErrors collects several configuration errors.
type ValidationErrors []error

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return "configuration validation failed:\n  " + strings.Join(msgs, "\n  ")
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (ve ValidationErrors) Unwrap() []error {
	return ve
}
