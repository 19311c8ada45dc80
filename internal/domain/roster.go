package domain

import "time"

// SolveStatus is the quality of a persisted roster. Runs that produce no
// roster surface as an error, not a status.
type SolveStatus string

const (
	SolveOptimal  SolveStatus = "optimal"
	SolveFeasible SolveStatus = "feasible"
)

// RosterShift is one entry of the published artifact: every staff member
// assigned to the shift, with no role attribution retained.
type RosterShift struct {
	ShiftID  string   `json:"shift_id"`
	StaffIDs []string `json:"staff_ids"`
}

// Shortage records a role or skill requirement that the run could not fully
// satisfy. Skill is empty for plain headcount shortages.
type Shortage struct {
	ShiftID string `json:"shift_id"`
	Role    string `json:"role"`
	Skill   string `json:"skill,omitempty"`
	Missing int    `json:"missing"`
}

type Roster struct {
	ID            int64         `json:"id"`
	RunID         string        `json:"run_id"`
	Mode          string        `json:"mode"`
	Status        SolveStatus   `json:"status"`
	Objective     float64       `json:"objective"`
	Shifts        []RosterShift `json:"shifts"`
	Shortages     []Shortage    `json:"shortages"`
	SolveDuration time.Duration `json:"solve_duration"`
	CreatedAt     time.Time     `json:"created_at"`
	Version       int32         `json:"-"`
}
