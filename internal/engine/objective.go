package engine

import (
	"fmt"

	"github.com/caremesh-dev/shift-roster/internal/domain"
	"github.com/caremesh-dev/shift-roster/internal/milp"
)

// composeObjective sums every weighted soft-constraint term into the single
// minimized objective. Each max(0, x) clamp is an auxiliary bounded integer
// variable with aux >= x; minimization drives it down to exactly
// max(0, x) because every weight is non-negative.
func (e *Engine) composeObjective(m *milp.Model) {
	weights := e.cons.Soft.Weights

	for _, rs := range e.roleShortfalls {
		m.AddObjective(rs.v, weights.UnderstaffedShiftPenalty)
	}
	for _, ss := range e.skillShortfalls {
		m.AddObjective(ss.v, weights.SkillMismatchPenalty)
	}

	duration := e.shiftDuration()

	for i, s := range e.staff {
		// Preferred-shift bonus: a reward, so the weight enters negated.
		for j, sh := range e.shifts {
			if s.Prefers(sh.Type) {
				m.AddObjective(e.vars[i][j], -weights.PreferredShiftMatch)
			}
		}

		maxHours := e.cons.Hard.MaxHoursPerWeek
		if s.MaxHoursPerWeek != nil {
			maxHours = *s.MaxHoursPerWeek
		}
		minHours := 0
		if s.MinHoursPerWeek != nil {
			minHours = *s.MinHoursPerWeek
		}

		hourTerms := func(coef float64) []milp.Term {
			terms := make([]milp.Term, 0, len(e.shifts)+1)
			for j := range e.shifts {
				terms = append(terms, milp.Term{Var: e.vars[i][j], Coef: coef})
			}
			return terms
		}

		// overtime >= duration*assigned - maxHours
		overtime := m.IntVar(fmt.Sprintf("%s_overtime", s.ID), 0, duration*len(e.shifts))
		terms := append(hourTerms(float64(-duration)), milp.Term{Var: overtime, Coef: 1})
		m.AtLeast(fmt.Sprintf("%s_overtime_def", s.ID), terms, float64(-maxHours))
		m.AddObjective(overtime, weights.OvertimePenalty)

		// underscheduled >= minHours - duration*assigned
		if minHours > 0 {
			under := m.IntVar(fmt.Sprintf("%s_underscheduled", s.ID), 0, minHours)
			terms := append(hourTerms(float64(duration)), milp.Term{Var: under, Coef: 1})
			m.AtLeast(fmt.Sprintf("%s_underscheduled_def", s.ID), terms, float64(minHours))
			m.AddObjective(under, weights.UnderschedulingPenalty)
		}

		e.composeNightShiftPenalty(m, i, s.ID)
	}
}

// composeNightShiftPenalty charges each night-type assignment beyond the
// weekly night-shift limit.
func (e *Engine) composeNightShiftPenalty(m *milp.Model, i int, staffID string) {
	var nights []milp.Term
	for j, sh := range e.shifts {
		if sh.Type == domain.ShiftNight {
			nights = append(nights, milp.Term{Var: e.vars[i][j], Coef: -1})
		}
	}
	if len(nights) == 0 {
		return
	}

	limit := e.nightShiftLimit()

	// excess >= assignedNights - limit
	excess := m.IntVar(fmt.Sprintf("%s_excess_night", staffID), 0, len(nights))
	terms := append(nights, milp.Term{Var: excess, Coef: 1})
	m.AtLeast(fmt.Sprintf("%s_excess_night_def", staffID), terms, float64(-limit))
	m.AddObjective(excess, e.cons.Soft.Weights.MaxNightShiftsPenalty)
}
