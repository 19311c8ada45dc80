package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremesh-dev/shift-roster/internal/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int {
	return &v
}

func testConstraints() *domain.Constraints {
	return &domain.Constraints{
		Hard: domain.HardConstraints{
			MaxHoursPerWeek:        40,
			MaxShiftsPerWeek:       7,
			NightShiftLimitPerWeek: intPtr(2),
		},
		Soft: domain.SoftConstraints{
			Weights: domain.SoftConstraintWeights{
				UnderstaffedShiftPenalty: 100,
				SkillMismatchPenalty:     50,
				PreferredShiftMatch:      5,
				OvertimePenalty:          20,
				UnderschedulingPenalty:   10,
				MaxNightShiftsPenalty:    15,
			},
		},
		ShiftConfig: domain.ShiftConfig{
			ShiftTypes: []domain.ShiftType{domain.ShiftMorning, domain.ShiftEvening, domain.ShiftNight},
			ShiftTimes: map[domain.ShiftType]domain.ShiftWindow{
				domain.ShiftMorning: {Start: "07:00", End: "15:00"},
				domain.ShiftEvening: {Start: "15:00", End: "23:00"},
				domain.ShiftNight:   {Start: "23:00", End: "07:00"},
			},
			DefaultShiftDurationHours: intPtr(8),
		},
	}
}

func nurseShift(id, date string, count int) *domain.Shift {
	return &domain.Shift{
		ID:   id,
		Date: date,
		Type: domain.ShiftMorning,
		RequiredRoles: []domain.RoleRequirement{
			{Role: "nurse", Count: count},
		},
	}
}

func runEngine(t *testing.T, mode Mode, staff []*domain.Staff, shifts []*domain.Shift) (*domain.Roster, error) {
	t.Helper()

	eng, err := New(quietLogger(), staff, shifts, testConstraints(), Options{
		Mode:       mode,
		TimeBudget: 30 * time.Second,
	})
	require.NoError(t, err)

	return eng.Run(context.Background())
}

func totalMissing(roster *domain.Roster) int {
	total := 0
	for _, s := range roster.Shortages {
		total += s.Missing
	}
	return total
}

func TestNewRejectsUnknownMode(t *testing.T) {
	_, err := New(quietLogger(), nil, nil, testConstraints(), Options{Mode: "relaxed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictness mode")
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
		{ID: "n1", Name: "Ben Becker", Role: "nurse"},
	}
	_, err := New(quietLogger(), staff, nil, testConstraints(), Options{Mode: ModeStrict})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate staff id")
}

func TestRunSkipsUnavailableStaff(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse", UnavailableDays: []string{"2026-09-07"}},
		{ID: "n2", Name: "Ben Becker", Role: "nurse"},
	}
	shifts := []*domain.Shift{nurseShift("s1", "2026-09-07", 1)}

	roster, err := runEngine(t, ModeStrict, staff, shifts)
	require.NoError(t, err)

	assert.Equal(t, domain.SolveOptimal, roster.Status)
	require.Len(t, roster.Shifts, 1)
	assert.Equal(t, "s1", roster.Shifts[0].ShiftID)
	assert.Equal(t, []string{"n2"}, roster.Shifts[0].StaffIDs)
	assert.Empty(t, roster.Shortages)
	assert.NotEmpty(t, roster.RunID)
}

func TestStrictModeRejectsImpossibleHeadcount(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
	}
	shifts := []*domain.Shift{nurseShift("s1", "2026-09-07", 2)}

	_, err := runEngine(t, ModeStrict, staff, shifts)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "s1", cfgErr.ShiftID)
	assert.Equal(t, "nurse", cfgErr.Role)
	assert.Equal(t, 2, cfgErr.Required)
	assert.Equal(t, 1, cfgErr.Eligible)
}

func TestStrictModeRejectsMissingSkill(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse", Skills: []string{"triage"}},
	}
	shifts := []*domain.Shift{{
		ID:   "s1",
		Date: "2026-09-07",
		Type: domain.ShiftMorning,
		RequiredRoles: []domain.RoleRequirement{
			{Role: "nurse", Count: 1, SkillsRequired: []string{"ICU"}},
		},
	}}

	_, err := runEngine(t, ModeStrict, staff, shifts)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "ICU", cfgErr.Skill)
}

func TestLenientModeRecordsSkillShortage(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse", Skills: []string{"triage"}},
	}
	shifts := []*domain.Shift{{
		ID:   "s1",
		Date: "2026-09-07",
		Type: domain.ShiftMorning,
		RequiredRoles: []domain.RoleRequirement{
			{Role: "nurse", Count: 1, SkillsRequired: []string{"ICU"}},
		},
	}}

	roster, err := runEngine(t, ModeLenient, staff, shifts)
	require.NoError(t, err)

	// Headcount is still met; only the skill is reported missing.
	assert.Equal(t, []string{"n1"}, roster.Shifts[0].StaffIDs)
	require.Len(t, roster.Shortages, 1)
	assert.Equal(t, domain.Shortage{ShiftID: "s1", Role: "nurse", Skill: "ICU", Missing: 1}, roster.Shortages[0])
}

func TestLenientModeReportsHeadcountShortage(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
	}
	shifts := []*domain.Shift{nurseShift("s1", "2026-09-07", 2)}

	roster, err := runEngine(t, ModeLenient, staff, shifts)
	require.NoError(t, err)

	assert.Equal(t, []string{"n1"}, roster.Shifts[0].StaffIDs)
	require.Len(t, roster.Shortages, 1)
	assert.Equal(t, domain.Shortage{ShiftID: "s1", Role: "nurse", Missing: 1}, roster.Shortages[0])
}

func TestLenientModeChargesUnfillableRequirement(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
	}
	shifts := []*domain.Shift{{
		ID:   "s1",
		Date: "2026-09-07",
		Type: domain.ShiftMorning,
		RequiredRoles: []domain.RoleRequirement{
			{Role: "nurse", Count: 1},
			{Role: "doctor", Count: 2},
		},
	}}

	roster, err := runEngine(t, ModeLenient, staff, shifts)
	require.NoError(t, err)

	require.Len(t, roster.Shortages, 1)
	assert.Equal(t, domain.Shortage{ShiftID: "s1", Role: "doctor", Missing: 2}, roster.Shortages[0])
}

func TestOneShiftPerDay(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
	}
	shifts := []*domain.Shift{
		nurseShift("s1", "2026-09-07", 1),
		{
			ID:   "s2",
			Date: "2026-09-07",
			Type: domain.ShiftEvening,
			RequiredRoles: []domain.RoleRequirement{
				{Role: "nurse", Count: 1},
			},
		},
	}

	roster, err := runEngine(t, ModeLenient, staff, shifts)
	require.NoError(t, err)

	assigned := len(roster.Shifts[0].StaffIDs) + len(roster.Shifts[1].StaffIDs)
	assert.Equal(t, 1, assigned, "a staff member works at most one shift per day")
	assert.Equal(t, 1, totalMissing(roster))
}

func TestWeeklyShiftCap(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
	}
	shifts := []*domain.Shift{
		nurseShift("s1", "2026-09-07", 1),
		nurseShift("s2", "2026-09-08", 1),
		nurseShift("s3", "2026-09-09", 1),
	}

	eng, err := New(quietLogger(), staff, shifts, func() *domain.Constraints {
		c := testConstraints()
		c.Hard.MaxShiftsPerWeek = 2
		return c
	}(), Options{Mode: ModeLenient, TimeBudget: 30 * time.Second})
	require.NoError(t, err)

	roster, err := eng.Run(context.Background())
	require.NoError(t, err)

	assigned := 0
	for _, rs := range roster.Shifts {
		assigned += len(rs.StaffIDs)
	}
	assert.Equal(t, 2, assigned)
	assert.Equal(t, 1, totalMissing(roster))
}

func TestPreferredShiftWins(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
		{ID: "n2", Name: "Ben Becker", Role: "nurse", PreferredShifts: []domain.ShiftType{domain.ShiftNight}},
	}
	shifts := []*domain.Shift{{
		ID:   "s1",
		Date: "2026-09-07",
		Type: domain.ShiftNight,
		RequiredRoles: []domain.RoleRequirement{
			{Role: "nurse", Count: 1},
		},
	}}

	roster, err := runEngine(t, ModeLenient, staff, shifts)
	require.NoError(t, err)

	assert.Equal(t, []string{"n2"}, roster.Shifts[0].StaffIDs)
	assert.InDelta(t, -5.0, roster.Objective, 1e-6)
}

func TestStrictInfeasibleReturnsErrNoSchedule(t *testing.T) {
	// Both shifts share the date, so the single nurse cannot satisfy two
	// strict-equality coverage rows at once.
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
	}
	shifts := []*domain.Shift{
		nurseShift("s1", "2026-09-07", 1),
		{
			ID:   "s2",
			Date: "2026-09-07",
			Type: domain.ShiftEvening,
			RequiredRoles: []domain.RoleRequirement{
				{Role: "nurse", Count: 1},
			},
		},
	}

	_, err := runEngine(t, ModeStrict, staff, shifts)
	assert.True(t, errors.Is(err, ErrNoSchedule))
}

func TestRosterPreservesShiftOrder(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
		{ID: "n2", Name: "Ben Becker", Role: "nurse"},
		{ID: "n3", Name: "Carla Cruz", Role: "nurse"},
	}
	shifts := []*domain.Shift{
		nurseShift("s3", "2026-09-09", 1),
		nurseShift("s1", "2026-09-07", 1),
		nurseShift("s2", "2026-09-08", 1),
	}

	roster, err := runEngine(t, ModeLenient, staff, shifts)
	require.NoError(t, err)

	require.Len(t, roster.Shifts, 3)
	assert.Equal(t, "s3", roster.Shifts[0].ShiftID)
	assert.Equal(t, "s1", roster.Shifts[1].ShiftID)
	assert.Equal(t, "s2", roster.Shifts[2].ShiftID)
}

func TestOvertimePenaltyCharged(t *testing.T) {
	// The personal cap of 8 hours covers one shift; strict coverage forces
	// two, so overtime = 2*8 - 8 = 8 hours at weight 20.
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse", MaxHoursPerWeek: intPtr(8)},
	}
	shifts := []*domain.Shift{
		nurseShift("s1", "2026-09-07", 1),
		nurseShift("s2", "2026-09-08", 1),
	}

	roster, err := runEngine(t, ModeStrict, staff, shifts)
	require.NoError(t, err)

	assert.Equal(t, []string{"n1"}, roster.Shifts[0].StaffIDs)
	assert.Equal(t, []string{"n1"}, roster.Shifts[1].StaffIDs)
	assert.InDelta(t, 160.0, roster.Objective, 1e-6)
}

func TestUnderschedulingPenaltyCharged(t *testing.T) {
	// One 8-hour shift against a 16-hour personal minimum leaves 8 hours
	// short at weight 10.
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse", MinHoursPerWeek: intPtr(16)},
	}
	shifts := []*domain.Shift{nurseShift("s1", "2026-09-07", 1)}

	roster, err := runEngine(t, ModeStrict, staff, shifts)
	require.NoError(t, err)

	assert.Equal(t, []string{"n1"}, roster.Shifts[0].StaffIDs)
	assert.InDelta(t, 80.0, roster.Objective, 1e-6)
}

func TestNightShiftLimitToleratesLimitNights(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
	}
	night := func(id, date string) *domain.Shift {
		return &domain.Shift{
			ID:   id,
			Date: date,
			Type: domain.ShiftNight,
			RequiredRoles: []domain.RoleRequirement{
				{Role: "nurse", Count: 1},
			},
		}
	}
	shifts := []*domain.Shift{
		night("s1", "2026-09-07"),
		night("s2", "2026-09-08"),
	}

	roster, err := runEngine(t, ModeStrict, staff, shifts)
	require.NoError(t, err)

	// Two nights sit exactly at the limit, so no penalty applies.
	assert.InDelta(t, 0.0, roster.Objective, 1e-6)
	assert.Equal(t, []string{"n1"}, roster.Shifts[0].StaffIDs)
	assert.Equal(t, []string{"n1"}, roster.Shifts[1].StaffIDs)
}

func TestExcessNightPenaltyCharged(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
	}
	night := func(id, date string) *domain.Shift {
		return &domain.Shift{
			ID:   id,
			Date: date,
			Type: domain.ShiftNight,
			RequiredRoles: []domain.RoleRequirement{
				{Role: "nurse", Count: 1},
			},
		}
	}
	shifts := []*domain.Shift{
		night("s1", "2026-09-07"),
		night("s2", "2026-09-08"),
		night("s3", "2026-09-09"),
	}

	roster, err := runEngine(t, ModeStrict, staff, shifts)
	require.NoError(t, err)

	// Three nights against a limit of two: one excess at weight 15.
	assert.InDelta(t, 15.0, roster.Objective, 1e-6)
}

func TestZeroNightLimitChargesEveryNight(t *testing.T) {
	staff := []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse"},
	}
	shifts := []*domain.Shift{{
		ID:   "s1",
		Date: "2026-09-07",
		Type: domain.ShiftNight,
		RequiredRoles: []domain.RoleRequirement{
			{Role: "nurse", Count: 1},
		},
	}}

	cons := testConstraints()
	cons.Hard.NightShiftLimitPerWeek = intPtr(0)

	eng, err := New(quietLogger(), staff, shifts, cons, Options{Mode: ModeStrict, TimeBudget: 30 * time.Second})
	require.NoError(t, err)

	roster, err := eng.Run(context.Background())
	require.NoError(t, err)

	// A zero limit is honored as-is; the single night costs the full weight.
	assert.InDelta(t, 15.0, roster.Objective, 1e-6)
}
