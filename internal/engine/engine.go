// Package engine translates staff, shift and constraint records into a
// mixed-integer model, hands it to the search with a wall-clock budget and
// projects the solved variables back into a roster.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/caremesh-dev/shift-roster/internal/domain"
	"github.com/caremesh-dev/shift-roster/internal/milp"
)

// Mode selects how unmeetable role and skill requirements are handled.
// Strict aborts the run before solving; lenient absorbs them into the
// objective as penalized shortages. The two impose incompatible relations
// on the same coverage sums, so exactly one is active per run.
type Mode string

const (
	ModeStrict  Mode = "strict"
	ModeLenient Mode = "lenient"
)

const (
	defaultShiftDurationHours = 8
	defaultNightShiftLimit    = 2
)

type Options struct {
	Mode       Mode
	TimeBudget time.Duration
}

// Engine holds the state of a single scheduling run. Concurrent runs each
// build their own Engine; nothing here is shared.
type Engine struct {
	logger *slog.Logger
	staff  []*domain.Staff
	shifts []*domain.Shift
	cons   *domain.Constraints
	opts   Options

	staffIdx map[string]int
	shiftIdx map[string]int
	vars     [][]milp.Var // staff index × shift index

	roleShortfalls  []roleShortfall
	skillShortfalls []skillShortfall
}

// roleShortfall is a lenient-mode headcount gap variable, read back after
// the solve.
type roleShortfall struct {
	shiftID string
	role    string
	v       milp.Var
}

// skillShortfall is a unit penalty for a skill no eligible staff member
// holds; its variable is fixed to one.
type skillShortfall struct {
	shiftID string
	role    string
	skill   string
	v       milp.Var
}

func New(logger *slog.Logger, staff []*domain.Staff, shifts []*domain.Shift, cons *domain.Constraints, opts Options) (*Engine, error) {
	switch opts.Mode {
	case ModeStrict, ModeLenient:
	default:
		return nil, fmt.Errorf("engine: strictness mode must be %q or %q, got %q", ModeStrict, ModeLenient, opts.Mode)
	}
	if opts.TimeBudget <= 0 {
		opts.TimeBudget = milp.DefaultBudget
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		logger:   logger,
		staff:    staff,
		shifts:   shifts,
		cons:     cons,
		opts:     opts,
		staffIdx: make(map[string]int, len(staff)),
		shiftIdx: make(map[string]int, len(shifts)),
	}

	for i, s := range staff {
		if _, exists := e.staffIdx[s.ID]; exists {
			return nil, fmt.Errorf("engine: duplicate staff id %q", s.ID)
		}
		e.staffIdx[s.ID] = i
	}
	for j, sh := range shifts {
		if _, exists := e.shiftIdx[sh.ID]; exists {
			return nil, fmt.Errorf("engine: duplicate shift id %q", sh.ID)
		}
		e.shiftIdx[sh.ID] = j
	}

	return e, nil
}

// Run builds the model, invokes the search once and projects the result.
// Strict-mode configuration errors abort before the search; an exhausted
// budget or a proven-infeasible model yields ErrNoSchedule.
func (e *Engine) Run(ctx context.Context) (*domain.Roster, error) {
	model := milp.New("shift_roster")
	defer model.Close()

	e.createVariables(model)
	e.logger.Info("decision variables created", "staff", len(e.staff), "shifts", len(e.shifts), "variables", model.NumVars())

	if err := e.encodeCoverage(model); err != nil {
		return nil, err
	}
	e.encodeOneShiftPerDay(model)
	e.encodeUnavailability(model)
	e.encodeWeeklyShiftCap(model)
	e.composeObjective(model)

	budget := e.opts.TimeBudget
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < budget {
			budget = remaining
		}
	}

	e.logger.Info("solving", "mode", e.opts.Mode, "budget", budget)
	start := time.Now()
	sol, err := model.Solve(budget)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	switch sol.Status {
	case milp.Optimal, milp.Feasible:
	default:
		e.logger.Warn("no feasible assignment found", "status", sol.Status.String(), "elapsed", elapsed)
		return nil, ErrNoSchedule
	}

	e.logger.Info("schedule generated", "status", sol.Status.String(), "objective", sol.Objective, "elapsed", elapsed)
	return e.project(sol, elapsed), nil
}

// createVariables builds the dense (staff × shift) boolean matrix. Exactly
// one variable exists per pair.
func (e *Engine) createVariables(m *milp.Model) {
	e.vars = make([][]milp.Var, len(e.staff))
	for i, s := range e.staff {
		e.vars[i] = make([]milp.Var, len(e.shifts))
		for j, sh := range e.shifts {
			e.vars[i][j] = m.BoolVar(fmt.Sprintf("%s_works_%s", s.ID, sh.ID))
		}
	}
}

// shiftDuration is the single uniform shift length in hours.
func (e *Engine) shiftDuration() int {
	if d := e.cons.ShiftConfig.DefaultShiftDurationHours; d != nil && *d > 0 {
		return *d
	}
	return defaultShiftDurationHours
}

// nightShiftLimit tolerates this many night assignments per staff member
// before the excess penalty applies. Zero is a valid limit.
func (e *Engine) nightShiftLimit() int {
	if l := e.cons.Hard.NightShiftLimitPerWeek; l != nil {
		return *l
	}
	return defaultNightShiftLimit
}

// project collects, for each shift in input order, the staff whose variable
// solved true. No constraint re-checking happens here; correctness is
// guaranteed by the encoded model.
func (e *Engine) project(sol *milp.Solution, elapsed time.Duration) *domain.Roster {
	roster := &domain.Roster{
		RunID:         uuid.NewString(),
		Mode:          string(e.opts.Mode),
		Objective:     sol.Objective,
		Shifts:        make([]domain.RosterShift, len(e.shifts)),
		SolveDuration: elapsed,
	}

	switch sol.Status {
	case milp.Optimal:
		roster.Status = domain.SolveOptimal
	default:
		roster.Status = domain.SolveFeasible
	}

	for j, sh := range e.shifts {
		assigned := make([]string, 0)
		for i, s := range e.staff {
			if sol.IsTrue(e.vars[i][j]) {
				assigned = append(assigned, s.ID)
			}
		}
		roster.Shifts[j] = domain.RosterShift{ShiftID: sh.ID, StaffIDs: assigned}
	}

	for _, rs := range e.roleShortfalls {
		if missing := int(sol.Value(rs.v) + 0.5); missing > 0 {
			roster.Shortages = append(roster.Shortages, domain.Shortage{
				ShiftID: rs.shiftID,
				Role:    rs.role,
				Missing: missing,
			})
		}
	}
	for _, ss := range e.skillShortfalls {
		roster.Shortages = append(roster.Shortages, domain.Shortage{
			ShiftID: ss.shiftID,
			Role:    ss.role,
			Skill:   ss.skill,
			Missing: 1,
		})
	}

	return roster
}
