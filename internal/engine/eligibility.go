package engine

import "github.com/caremesh-dev/shift-roster/internal/domain"

// EligibleStaff returns, in input order, every staff member who holds the
// required role and is not excluded from the shift by date or by shift
// identifier. Skill requirements are not part of eligibility; they are
// covered separately over this set.
func EligibleStaff(shift *domain.Shift, req *domain.RoleRequirement, staff []*domain.Staff) []*domain.Staff {
	var eligible []*domain.Staff
	for _, s := range staff {
		if s.Role == req.Role && !s.IsUnavailable(shift) {
			eligible = append(eligible, s)
		}
	}
	return eligible
}
