// Package dataset loads and validates the scheduling input records from a
// data directory: staff.json, shifts.json and constraints.json. The engine
// consumes the returned records as-is; everything invalid is rejected here.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/caremesh-dev/shift-roster/internal/domain"
)

const (
	StaffFile       = "staff.json"
	ShiftsFile      = "shifts.json"
	ConstraintsFile = "constraints.json"

	defaultShiftDurationHours = 8
	defaultNightShiftLimit    = 2
)

type Dataset struct {
	Staff       []*domain.Staff
	Shifts      []*domain.Shift
	Constraints *domain.Constraints
}

// Load reads the three dataset files from dir, validates every record and
// applies the config defaults (shift duration, night-shift limit).
func Load(dir string) (*Dataset, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	var staff []*domain.Staff
	if err := loadJSON(filepath.Join(dir, StaffFile), &staff); err != nil {
		return nil, err
	}
	var shifts []*domain.Shift
	if err := loadJSON(filepath.Join(dir, ShiftsFile), &shifts); err != nil {
		return nil, err
	}
	constraints := &domain.Constraints{}
	if err := loadJSON(filepath.Join(dir, ConstraintsFile), constraints); err != nil {
		return nil, err
	}

	applyDefaults(constraints)

	ds := &Dataset{Staff: staff, Shifts: shifts, Constraints: constraints}
	if err := ds.validate(validate); err != nil {
		return nil, err
	}
	return ds, nil
}

func loadJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("dataset: parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// applyDefaults fills in only absent keys. An explicit zero night limit is
// a real choice (no nights tolerated) and is left alone.
func applyDefaults(c *domain.Constraints) {
	if c.ShiftConfig.DefaultShiftDurationHours == nil {
		d := defaultShiftDurationHours
		c.ShiftConfig.DefaultShiftDurationHours = &d
	}
	if c.Hard.NightShiftLimitPerWeek == nil {
		n := defaultNightShiftLimit
		c.Hard.NightShiftLimitPerWeek = &n
	}
}

func (ds *Dataset) validate(validate *validator.Validate) error {
	if len(ds.Staff) == 0 {
		return fmt.Errorf("dataset: %s contains no staff records", StaffFile)
	}
	if len(ds.Shifts) == 0 {
		return fmt.Errorf("dataset: %s contains no shift records", ShiftsFile)
	}

	staffIDs := make(map[string]bool, len(ds.Staff))
	for i, s := range ds.Staff {
		if err := validate.Struct(s); err != nil {
			return fmt.Errorf("dataset: staff record %d: %w", i, err)
		}
		if staffIDs[s.ID] {
			return fmt.Errorf("dataset: duplicate staff id %q", s.ID)
		}
		staffIDs[s.ID] = true
	}

	shiftIDs := make(map[string]bool, len(ds.Shifts))
	for i, sh := range ds.Shifts {
		if err := validate.Struct(sh); err != nil {
			return fmt.Errorf("dataset: shift record %d: %w", i, err)
		}
		if shiftIDs[sh.ID] {
			return fmt.Errorf("dataset: duplicate shift id %q", sh.ID)
		}
		shiftIDs[sh.ID] = true
	}

	if err := validate.Struct(ds.Constraints); err != nil {
		return fmt.Errorf("dataset: constraints: %w", err)
	}

	// Shift types must come from the configured enumeration, and every
	// unavailable-shift reference must resolve.
	for _, sh := range ds.Shifts {
		if !slices.Contains(ds.Constraints.ShiftConfig.ShiftTypes, sh.Type) {
			return fmt.Errorf("dataset: shift %s has type %q not listed in shift_config.shift_types", sh.ID, sh.Type)
		}
	}
	for _, s := range ds.Staff {
		for _, ref := range s.UnavailableShifts {
			if !shiftIDs[ref] {
				return fmt.Errorf("dataset: staff %s lists unknown unavailable shift %q", s.ID, ref)
			}
		}
	}

	return nil
}
