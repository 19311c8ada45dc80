package domain

import "slices"

type Staff struct {
	ID                string      `json:"id" validate:"required"`
	Name              string      `json:"name" validate:"required"`
	Role              string      `json:"role" validate:"required"`
	Skills            []string    `json:"skills"`
	UnavailableDays   []string    `json:"unavailable_days" validate:"dive,datetime=2006-01-02"`
	UnavailableShifts []string    `json:"unavailable_shifts"`
	PreferredShifts   []ShiftType `json:"preferred_shifts" validate:"dive,oneof=morning evening night"`
	MinHoursPerWeek   *int        `json:"min_hours_per_week" validate:"omitempty,min=0"`
	MaxHoursPerWeek   *int        `json:"max_hours_per_week" validate:"omitempty,min=1"`
}

func (s *Staff) HasSkill(skill string) bool {
	return slices.Contains(s.Skills, skill)
}

func (s *Staff) Prefers(t ShiftType) bool {
	return slices.Contains(s.PreferredShifts, t)
}

// IsUnavailable reports whether the staff member is excluded from the shift,
// either by its calendar date or by its identifier.
func (s *Staff) IsUnavailable(sh *Shift) bool {
	return slices.Contains(s.UnavailableDays, sh.Date) || slices.Contains(s.UnavailableShifts, sh.ID)
}
