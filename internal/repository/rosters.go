package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/caremesh-dev/shift-roster/internal/domain"
)

func (r *Repository) InsertRoster(roster *domain.Roster) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO rosters (run_id, mode, status, objective, solve_ms)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	if err := tx.QueryRowContext(ctx, query,
		roster.RunID,
		roster.Mode,
		roster.Status,
		roster.Objective,
		roster.SolveDuration.Milliseconds(),
	).Scan(&roster.ID, &roster.CreatedAt, &roster.Version); err != nil {
		return err
	}

	for position, shift := range roster.Shifts {
		query := `
			INSERT INTO roster_shifts (roster_id, shift_id, position)
			VALUES ($1, $2, $3)
			RETURNING id
		`

		var shiftRowID int64
		if err := tx.QueryRowContext(ctx, query, roster.ID, shift.ShiftID, position).Scan(&shiftRowID); err != nil {
			return err
		}

		for _, staffID := range shift.StaffIDs {
			query := `
				INSERT INTO roster_shift_staff (roster_shift_id, staff_id)
				VALUES ($1, $2)
			`

			if _, err := tx.ExecContext(ctx, query, shiftRowID, staffID); err != nil {
				return err
			}
		}
	}

	for _, shortage := range roster.Shortages {
		query := `
			INSERT INTO roster_shortages (roster_id, shift_id, role, skill, missing)
			VALUES ($1, $2, $3, $4, $5)
		`

		if _, err := tx.ExecContext(ctx, query, roster.ID, shortage.ShiftID, shortage.Role, shortage.Skill, shortage.Missing); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetRosterByRunID(runID string) (*domain.Roster, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			r.id,
			r.mode,
			r.status,
			r.objective,
			r.solve_ms,
			r.created_at,
			r.version,
			rs.shift_id,
			rss.staff_id
		FROM rosters r
		LEFT JOIN roster_shifts rs ON r.id = rs.roster_id
		LEFT JOIN roster_shift_staff rss ON rs.id = rss.roster_shift_id
		WHERE r.run_id = $1
		ORDER BY rs.position, rss.staff_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := &domain.Roster{RunID: runID}

	shiftIdx := make(map[string]int)

	for rows.Next() {
		var (
			solveMS int64
			shiftID sql.NullString
			staffID sql.NullString
		)

		dst := []any{
			&roster.ID,
			&roster.Mode,
			&roster.Status,
			&roster.Objective,
			&solveMS,
			&roster.CreatedAt,
			&roster.Version,
			&shiftID,
			&staffID,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		roster.SolveDuration = time.Duration(solveMS) * time.Millisecond

		if !shiftID.Valid {
			// A roster with no shifts cannot be produced by a run, but
			// the row shape allows it.
			continue
		}

		idx, exists := shiftIdx[shiftID.String]
		if !exists {
			idx = len(roster.Shifts)
			shiftIdx[shiftID.String] = idx
			roster.Shifts = append(roster.Shifts, domain.RosterShift{
				ShiftID:  shiftID.String,
				StaffIDs: make([]string, 0),
			})
		}

		if staffID.Valid {
			roster.Shifts[idx].StaffIDs = append(roster.Shifts[idx].StaffIDs, staffID.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if roster.ID == 0 {
		return nil, sql.ErrNoRows
	}

	shortages, err := r.getShortages(ctx, roster.ID)
	if err != nil {
		return nil, err
	}
	roster.Shortages = shortages

	return roster, nil
}

func (r *Repository) getShortages(ctx context.Context, rosterID int64) ([]domain.Shortage, error) {
	query := `
		SELECT shift_id, role, skill, missing
		FROM roster_shortages
		WHERE roster_id = $1
		ORDER BY shift_id, role, skill
	`

	rows, err := r.dbpool.QueryContext(ctx, query, rosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shortages []domain.Shortage
	for rows.Next() {
		var s domain.Shortage
		if err := rows.Scan(&s.ShiftID, &s.Role, &s.Skill, &s.Missing); err != nil {
			return nil, err
		}
		shortages = append(shortages, s)
	}

	return shortages, rows.Err()
}

func (r *Repository) GetLatestRunID() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT run_id FROM rosters ORDER BY created_at DESC, id DESC LIMIT 1`

	var runID string
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(&runID); err != nil {
		return "", err
	}

	return runID, nil
}

// ListRosters returns run metadata without shift detail, newest first.
func (r *Repository) ListRosters() ([]*domain.Roster, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, run_id, mode, status, objective, solve_ms, created_at, version
		FROM rosters
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rosters []*domain.Roster
	for rows.Next() {
		roster := &domain.Roster{}
		var solveMS int64

		dst := []any{
			&roster.ID,
			&roster.RunID,
			&roster.Mode,
			&roster.Status,
			&roster.Objective,
			&solveMS,
			&roster.CreatedAt,
			&roster.Version,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		roster.SolveDuration = time.Duration(solveMS) * time.Millisecond
		rosters = append(rosters, roster)
	}

	return rosters, rows.Err()
}
