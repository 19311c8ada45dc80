package domain

type HardConstraints struct {
	MaxHoursPerWeek  int `json:"max_hours_per_week" validate:"required,min=1"`
	MaxShiftsPerWeek int `json:"max_shifts_per_week" validate:"required,min=1"`
	// A pointer so an explicit 0 (tolerate no nights) stays distinct from
	// an absent key, which defaults at dataset load.
	NightShiftLimitPerWeek *int `json:"night_shift_limit_per_week,omitempty" validate:"omitnil,min=0"`
}

type SoftConstraintWeights struct {
	UnderstaffedShiftPenalty float64 `json:"understaffed_shift_penalty" validate:"min=0"`
	SkillMismatchPenalty     float64 `json:"skill_mismatch_penalty" validate:"min=0"`
	PreferredShiftMatch      float64 `json:"preferred_shift_match" validate:"min=0"`
	OvertimePenalty          float64 `json:"overtime_penalty" validate:"min=0"`
	UnderschedulingPenalty   float64 `json:"underscheduling_penalty" validate:"min=0"`
	MaxNightShiftsPenalty    float64 `json:"max_night_shifts_penalty" validate:"min=0"`
}

type SoftConstraints struct {
	Weights SoftConstraintWeights `json:"weights"`
}

// ShiftWindow is a wall-clock range in "15:04" form. A night window wraps
// past midnight into the next day.
type ShiftWindow struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

type ShiftConfig struct {
	ShiftTypes                []ShiftType               `json:"shift_types" validate:"required,min=1,dive,oneof=morning evening night"`
	ShiftTimes                map[ShiftType]ShiftWindow `json:"shift_times" validate:"required,dive"`
	DefaultShiftDurationHours *int                      `json:"default_shift_duration_hours,omitempty" validate:"omitnil,min=1"`
}

type Constraints struct {
	Hard        HardConstraints `json:"hard_constraints" validate:"required"`
	Soft        SoftConstraints `json:"soft_constraints"`
	ShiftConfig ShiftConfig     `json:"shift_config" validate:"required"`
}
