package engine

import (
	"fmt"

	"github.com/caremesh-dev/shift-roster/internal/domain"
	"github.com/caremesh-dev/shift-roster/internal/milp"
)

// encodeCoverage relates each (shift, role requirement) to its eligible
// staff. Strict mode pins the assigned sum to the required count and fails
// fast on requirements that can never be met; lenient mode introduces a
// bounded shortfall variable consumed by the objective. Skill coverage
// demands at least one assigned holder per required skill.
func (e *Engine) encodeCoverage(m *milp.Model) error {
	for _, shift := range e.shifts {
		j := e.shiftIdx[shift.ID]

		for _, req := range shift.RequiredRoles {
			eligible := EligibleStaff(shift, &req, e.staff)
			e.logger.Debug("resolved eligibility", "shift", shift.ID, "role", req.Role, "required", req.Count, "eligible", len(eligible))

			terms := make([]milp.Term, 0, len(eligible)+1)
			for _, s := range eligible {
				terms = append(terms, milp.Term{Var: e.vars[e.staffIdx[s.ID]][j], Coef: 1})
			}

			name := fmt.Sprintf("%s_%s_coverage", shift.ID, req.Role)

			switch e.opts.Mode {
			case ModeStrict:
				if len(eligible) < req.Count {
					return &ConfigError{ShiftID: shift.ID, Role: req.Role, Required: req.Count, Eligible: len(eligible)}
				}
				m.Equal(name, terms, float64(req.Count))

			case ModeLenient:
				if len(eligible) == 0 {
					// Nobody can ever fill this requirement; charge the
					// whole count and record it up front.
					v := m.IntVar(fmt.Sprintf("%s_%s_shortage", shift.ID, req.Role), req.Count, req.Count)
					e.roleShortfalls = append(e.roleShortfalls, roleShortfall{shiftID: shift.ID, role: req.Role, v: v})
					continue
				}
				shortage := m.IntVar(fmt.Sprintf("%s_%s_shortage", shift.ID, req.Role), 0, req.Count)
				terms = append(terms, milp.Term{Var: shortage, Coef: 1})
				m.Equal(name, terms, float64(req.Count))
				e.roleShortfalls = append(e.roleShortfalls, roleShortfall{shiftID: shift.ID, role: req.Role, v: shortage})
			}

			if err := e.encodeSkillCoverage(m, shift, j, &req, eligible); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) encodeSkillCoverage(m *milp.Model, shift *domain.Shift, j int, req *domain.RoleRequirement, eligible []*domain.Staff) error {
	for _, skill := range req.SkillsRequired {
		var holders []milp.Term
		for _, s := range eligible {
			if s.HasSkill(skill) {
				holders = append(holders, milp.Term{Var: e.vars[e.staffIdx[s.ID]][j], Coef: 1})
			}
		}

		if len(holders) == 0 {
			if e.opts.Mode == ModeStrict {
				return &ConfigError{ShiftID: shift.ID, Role: req.Role, Skill: skill}
			}
			e.logger.Warn("no eligible staff holds required skill", "shift", shift.ID, "role", req.Role, "skill", skill)
			v := m.IntVar(fmt.Sprintf("%s_%s_%s_mismatch", shift.ID, req.Role, skill), 1, 1)
			e.skillShortfalls = append(e.skillShortfalls, skillShortfall{shiftID: shift.ID, role: req.Role, skill: skill, v: v})
			continue
		}

		m.AtLeast(fmt.Sprintf("%s_%s_%s_skill", shift.ID, req.Role, skill), holders, 1)
	}
	return nil
}

// encodeOneShiftPerDay caps each staff member at one shift per calendar
// date, however many shifts share the date.
func (e *Engine) encodeOneShiftPerDay(m *milp.Model) {
	byDate := make(map[string][]int)
	var dates []string
	for j, sh := range e.shifts {
		if _, seen := byDate[sh.Date]; !seen {
			dates = append(dates, sh.Date)
		}
		byDate[sh.Date] = append(byDate[sh.Date], j)
	}

	for i, s := range e.staff {
		for _, date := range dates {
			js := byDate[date]
			if len(js) < 2 {
				continue
			}
			terms := make([]milp.Term, len(js))
			for k, j := range js {
				terms[k] = milp.Term{Var: e.vars[i][j], Coef: 1}
			}
			m.AtMost(fmt.Sprintf("%s_%s_one_shift", s.ID, date), terms, 1)
		}
	}
}

// encodeUnavailability fixes the variable to zero for every excluded
// (staff, shift) pair. An equality, not a penalty: the exclusion holds in
// every accepted solution.
func (e *Engine) encodeUnavailability(m *milp.Model) {
	for i, s := range e.staff {
		for j, sh := range e.shifts {
			if s.IsUnavailable(sh) {
				m.Equal(
					fmt.Sprintf("%s_%s_unavailable", s.ID, sh.ID),
					[]milp.Term{{Var: e.vars[i][j], Coef: 1}},
					0,
				)
			}
		}
	}
}

// encodeWeeklyShiftCap bounds each staff member's total assignments by the
// global max_shifts_per_week hard constraint.
func (e *Engine) encodeWeeklyShiftCap(m *milp.Model) {
	limit := e.cons.Hard.MaxShiftsPerWeek
	if limit <= 0 || limit >= len(e.shifts) {
		return
	}
	for i, s := range e.staff {
		terms := make([]milp.Term, len(e.shifts))
		for j := range e.shifts {
			terms[j] = milp.Term{Var: e.vars[i][j], Coef: 1}
		}
		m.AtMost(fmt.Sprintf("%s_shift_cap", s.ID), terms, float64(limit))
	}
}
