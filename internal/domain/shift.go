package domain

type ShiftType string

const (
	ShiftMorning ShiftType = "morning"
	ShiftEvening ShiftType = "evening"
	ShiftNight   ShiftType = "night"
)

type RoleRequirement struct {
	Role           string   `json:"role" validate:"required"`
	Count          int      `json:"count" validate:"required,min=1"`
	SkillsRequired []string `json:"skills_required"`
}

type Shift struct {
	ID            string            `json:"id" validate:"required"`
	Date          string            `json:"date" validate:"required,datetime=2006-01-02"`
	Type          ShiftType         `json:"shift_type" validate:"required,oneof=morning evening night"`
	RequiredRoles []RoleRequirement `json:"required_roles" validate:"required,min=1,dive"`
}
