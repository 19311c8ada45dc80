package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caremesh-dev/shift-roster/internal/domain"
)

func TestEligibleStaff(t *testing.T) {
	shift := &domain.Shift{
		ID:   "2026-09-07_morning",
		Date: "2026-09-07",
		Type: domain.ShiftMorning,
	}
	req := &domain.RoleRequirement{Role: "nurse", Count: 1}

	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
		{ID: "d1", Name: "Ben Becker", Role: "doctor"},
		{ID: "n2", Name: "Carla Cruz", Role: "nurse", UnavailableDays: []string{"2026-09-07"}},
		{ID: "n3", Name: "David Dawson", Role: "nurse", UnavailableShifts: []string{"2026-09-07_morning"}},
		{ID: "n4", Name: "Elena Evans", Role: "nurse", UnavailableDays: []string{"2026-09-08"}},
	}

	eligible := EligibleStaff(shift, req, staff)

	ids := make([]string, 0, len(eligible))
	for _, s := range eligible {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"n1", "n4"}, ids, "wrong role and excluded staff must be filtered, input order kept")
}

func TestEligibleStaffIgnoresSkills(t *testing.T) {
	shift := &domain.Shift{ID: "s1", Date: "2026-09-07", Type: domain.ShiftMorning}
	req := &domain.RoleRequirement{Role: "nurse", Count: 1, SkillsRequired: []string{"ICU"}}

	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
	}

	eligible := EligibleStaff(shift, req, staff)
	assert.Len(t, eligible, 1, "skills do not gate eligibility")
}

func TestEligibleStaffEmpty(t *testing.T) {
	shift := &domain.Shift{ID: "s1", Date: "2026-09-07", Type: domain.ShiftMorning}
	req := &domain.RoleRequirement{Role: "doctor", Count: 1}

	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
	}

	assert.Empty(t, EligibleStaff(shift, req, staff))
}
