// Package seed generates a demo dataset directory that the scheduler can be
// run against straight away.
package seed

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/caremesh-dev/shift-roster/internal/dataset"
	"github.com/caremesh-dev/shift-roster/internal/domain"
)

var firstNames = []string{
	"Alice", "Ben", "Carla", "David", "Elena", "Frank", "Grace", "Hassan",
	"Ingrid", "Jonas", "Katie", "Liam", "Maria", "Noah", "Olivia", "Pavel",
	"Quinn", "Rosa", "Samir", "Tara", "Umar", "Vera", "Wendy", "Yusuf",
}

var lastNames = []string{
	"Abbott", "Becker", "Cruz", "Dawson", "Evans", "Fischer", "Garcia",
	"Hughes", "Ivanov", "Jensen", "Keller", "Lindgren", "Moreau", "Novak",
	"Okafor", "Petrov", "Quint", "Rossi", "Schmidt", "Tanaka",
}

var roles = []string{"nurse", "nurse", "nurse", "doctor", "support"}

var skillsByRole = map[string][]string{
	"nurse":   {"ICU", "pediatrics", "triage"},
	"doctor":  {"ICU", "pediatrics"},
	"support": {"triage"},
}

type Options struct {
	Dir       string
	StaffSize int
	Days      int
	Seed      int64
}

// Generate writes staff.json, shifts.json and constraints.json into opts.Dir.
// The same seed always produces the same dataset.
func Generate(opts Options) error {
	if opts.StaffSize <= 0 {
		opts.StaffSize = 20
	}
	if opts.Days <= 0 {
		opts.Days = 14
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	start := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	dates := make([]string, opts.Days)
	for d := range dates {
		dates[d] = start.AddDate(0, 0, d).Format("2006-01-02")
	}

	staff := generateStaff(rng, opts.StaffSize, dates)
	shifts := generateShifts(dates)
	constraints := defaultConstraints()

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return err
	}

	files := map[string]any{
		dataset.StaffFile:       staff,
		dataset.ShiftsFile:      shifts,
		dataset.ConstraintsFile: constraints,
	}
	for name, v := range files {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(opts.Dir, name), data, 0o644); err != nil {
			return err
		}
	}

	return nil
}

func generateStaff(rng *rand.Rand, n int, dates []string) []*domain.Staff {
	staff := make([]*domain.Staff, 0, n)

	for i := 0; i < n; i++ {
		role := roles[rng.Intn(len(roles))]

		pool := skillsByRole[role]
		skills := make([]string, 0, 2)
		for _, skill := range pool {
			if rng.Float64() < 0.5 {
				skills = append(skills, skill)
			}
		}

		s := &domain.Staff{
			ID:     fmt.Sprintf("staff_%03d", i+1),
			Name:   fmt.Sprintf("%s %s", firstNames[rng.Intn(len(firstNames))], lastNames[rng.Intn(len(lastNames))]),
			Role:   role,
			Skills: skills,
		}

		// Roughly one in five has a couple of days off requested.
		if rng.Float64() < 0.2 {
			s.UnavailableDays = []string{
				dates[rng.Intn(len(dates))],
				dates[rng.Intn(len(dates))],
			}
		}

		if rng.Float64() < 0.3 {
			s.PreferredShifts = []domain.ShiftType{domain.ShiftMorning}
		} else if rng.Float64() < 0.2 {
			s.PreferredShifts = []domain.ShiftType{domain.ShiftNight}
		}

		if rng.Float64() < 0.25 {
			minHours := 16
			s.MinHoursPerWeek = &minHours
		}
		if rng.Float64() < 0.15 {
			maxHours := 32
			s.MaxHoursPerWeek = &maxHours
		}

		staff = append(staff, s)
	}

	return staff
}

func generateShifts(dates []string) []*domain.Shift {
	shifts := make([]*domain.Shift, 0, len(dates)*3)

	for _, date := range dates {
		for _, st := range []domain.ShiftType{domain.ShiftMorning, domain.ShiftEvening, domain.ShiftNight} {
			required := []domain.RoleRequirement{
				{Role: "nurse", Count: 2},
				{Role: "support", Count: 1},
			}
			if st != domain.ShiftNight {
				required = append(required, domain.RoleRequirement{
					Role:           "doctor",
					Count:          1,
					SkillsRequired: []string{"ICU"},
				})
			}

			shifts = append(shifts, &domain.Shift{
				ID:            fmt.Sprintf("%s_%s", date, st),
				Date:          date,
				Type:          st,
				RequiredRoles: required,
			})
		}
	}

	return shifts
}

func defaultConstraints() *domain.Constraints {
	nightLimit := 2
	duration := 8
	return &domain.Constraints{
		Hard: domain.HardConstraints{
			MaxHoursPerWeek:        40,
			MaxShiftsPerWeek:       5,
			NightShiftLimitPerWeek: &nightLimit,
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
			DefaultShiftDurationHours: &duration,
		},
	}
}
