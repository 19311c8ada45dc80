package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremesh-dev/shift-roster/internal/domain"
)

func validStaff() []*domain.Staff {
	return []*domain.Staff{
		{ID: "n1", Name: "Alice Abbott", Role: "nurse", Skills: []string{"ICU"}},
		{ID: "n2", Name: "Ben Becker", Role: "nurse", UnavailableDays: []string{"2026-09-07"}},
	}
}

func validShifts() []*domain.Shift {
	return []*domain.Shift{
		{
			ID:   "s1",
			Date: "2026-09-07",
			Type: domain.ShiftMorning,
			RequiredRoles: []domain.RoleRequirement{
				{Role: "nurse", Count: 1},
			},
		},
	}
}

func validConstraints() *domain.Constraints {
	return &domain.Constraints{
		Hard: domain.HardConstraints{
			MaxHoursPerWeek:  40,
			MaxShiftsPerWeek: 5,
		},
		ShiftConfig: domain.ShiftConfig{
			ShiftTypes: []domain.ShiftType{domain.ShiftMorning, domain.ShiftEvening, domain.ShiftNight},
			ShiftTimes: map[domain.ShiftType]domain.ShiftWindow{
				domain.ShiftMorning: {Start: "07:00", End: "15:00"},
				domain.ShiftEvening: {Start: "15:00", End: "23:00"},
				domain.ShiftNight:   {Start: "23:00", End: "07:00"},
			},
		},
	}
}

func writeDataset(t *testing.T, staff []*domain.Staff, shifts []*domain.Shift, cons *domain.Constraints) string {
	t.Helper()

	dir := t.TempDir()
	for name, v := range map[string]any{
		StaffFile:       staff,
		ShiftsFile:      shifts,
		ConstraintsFile: cons,
	} {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeDataset(t, validStaff(), validShifts(), validConstraints())

	ds, err := Load(dir)
	require.NoError(t, err)

	assert.Len(t, ds.Staff, 2)
	assert.Len(t, ds.Shifts, 1)
	assert.Equal(t, 40, ds.Constraints.Hard.MaxHoursPerWeek)
}

func TestLoadAppliesDefaults(t *testing.T) {
	// Duration and night limit are omitted from the file.
	dir := writeDataset(t, validStaff(), validShifts(), validConstraints())

	ds, err := Load(dir)
	require.NoError(t, err)

	require.NotNil(t, ds.Constraints.ShiftConfig.DefaultShiftDurationHours)
	assert.Equal(t, 8, *ds.Constraints.ShiftConfig.DefaultShiftDurationHours)
	require.NotNil(t, ds.Constraints.Hard.NightShiftLimitPerWeek)
	assert.Equal(t, 2, *ds.Constraints.Hard.NightShiftLimitPerWeek)
}

func TestLoadKeepsExplicitZeroNightLimit(t *testing.T) {
	cons := validConstraints()
	zero := 0
	cons.Hard.NightShiftLimitPerWeek = &zero
	dir := writeDataset(t, validStaff(), validShifts(), cons)

	ds, err := Load(dir)
	require.NoError(t, err)

	require.NotNil(t, ds.Constraints.Hard.NightShiftLimitPerWeek)
	assert.Equal(t, 0, *ds.Constraints.Hard.NightShiftLimitPerWeek)
}

func TestLoadRejectsZeroShiftDuration(t *testing.T) {
	cons := validConstraints()
	zero := 0
	cons.ShiftConfig.DefaultShiftDurationHours = &zero
	dir := writeDataset(t, validStaff(), validShifts(), cons)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraints")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset:")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := writeDataset(t, validStaff(), validShifts(), validConstraints())
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, StaffFile),
		[]byte(`[{"id":"n1","name":"Alice Abbott","role":"nurse","shoe_size":42}]`),
		0o644,
	))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse staff.json")
}

func TestLoadRejectsEmptyStaff(t *testing.T) {
	dir := writeDataset(t, []*domain.Staff{}, validShifts(), validConstraints())

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no staff records")
}

func TestLoadRejectsDuplicateStaffID(t *testing.T) {
	staff := validStaff()
	staff[1].ID = staff[0].ID
	dir := writeDataset(t, staff, validShifts(), validConstraints())

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate staff id")
}

func TestLoadRejectsBadDate(t *testing.T) {
	staff := validStaff()
	staff[1].UnavailableDays = []string{"07/09/2026"}
	dir := writeDataset(t, staff, validShifts(), validConstraints())

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staff record 1")
}

func TestLoadRejectsUnlistedShiftType(t *testing.T) {
	cons := validConstraints()
	cons.ShiftConfig.ShiftTypes = []domain.ShiftType{domain.ShiftMorning}
	shifts := validShifts()
	shifts[0].Type = domain.ShiftNight
	dir := writeDataset(t, validStaff(), shifts, cons)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shift_config.shift_types")
}

func TestLoadRejectsDanglingUnavailableShift(t *testing.T) {
	staff := validStaff()
	staff[0].UnavailableShifts = []string{"nope"}
	dir := writeDataset(t, staff, validShifts(), validConstraints())

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown unavailable shift")
}
