package engine

import (
	"errors"
	"fmt"
)

// ErrNoSchedule reports that the search budget expired without a feasible
// assignment. Callers treat it as a normal negative outcome, not a crash.
var ErrNoSchedule = errors.New("no feasible assignment found within the time budget")

// ConfigError is raised before the search in strict mode when a role or
// skill requirement can never be met by the given staff.
type ConfigError struct {
	ShiftID  string
	Role     string
	Skill    string
	Required int
	Eligible int
}

func (e *ConfigError) Error() string {
	if e.Skill != "" {
		return fmt.Sprintf("shift %s: no eligible %s holds required skill %q", e.ShiftID, e.Role, e.Skill)
	}
	return fmt.Sprintf("shift %s: role %s requires %d staff but only %d are eligible", e.ShiftID, e.Role, e.Required, e.Eligible)
}
