package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hatmapp/hatm/internal/models"
)

// CreateHatm persists a hatm and its juz assignments in one transaction.
// Either the hatm plus all 30 assignments land, or nothing does.
func (s *SQLiteStore) CreateHatm(ctx context.Context, hatm *models.Hatm, assignments []*models.JuzAssignment) error {
	if hatm.ID == "" {
		hatm.ID = uuid.New().String()
	}
	if hatm.CreatedAt == 0 {
		hatm.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO hatms (id, group_id, duration_days, participants_count, status, started_at, ends_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		hatm.ID, hatm.GroupID, hatm.DurationDays, hatm.ParticipantsCount,
		hatm.Status, hatm.StartedAt, hatm.EndsAt, hatm.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert hatm: %w", err)
	}

	for _, juz := range assignments {
		if juz.ID == "" {
			juz.ID = uuid.New().String()
		}
		juz.HatmID = hatm.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO juz_assignments (id, hatm_id, user_id, juz_number, status, completed_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			juz.ID, juz.HatmID, juz.UserID, juz.JuzNumber, juz.Status, juz.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert juz assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetHatm retrieves a hatm by ID.
func (s *SQLiteStore) GetHatm(ctx context.Context, id string) (*models.Hatm, error) {
	return s.scanHatm(s.db.QueryRowContext(ctx,
		`SELECT id, group_id, duration_days, participants_count, status, started_at, ends_at, created_at
		 FROM hatms WHERE id = ?`, id))
}

// GetActiveHatm retrieves the group's active hatm, if any.
func (s *SQLiteStore) GetActiveHatm(ctx context.Context, groupID string) (*models.Hatm, error) {
	return s.scanHatm(s.db.QueryRowContext(ctx,
		`SELECT id, group_id, duration_days, participants_count, status, started_at, ends_at, created_at
		 FROM hatms WHERE group_id = ? AND status = ?`, groupID, models.HatmActive))
}

func (s *SQLiteStore) scanHatm(row *sql.Row) (*models.Hatm, error) {
	hatm := &models.Hatm{}
	err := row.Scan(&hatm.ID, &hatm.GroupID, &hatm.DurationDays, &hatm.ParticipantsCount,
		&hatm.Status, &hatm.StartedAt, &hatm.EndsAt, &hatm.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Hatm not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hatm: %w", err)
	}
	return hatm, nil
}

// ListHatmsByGroup retrieves a group's hatms, newest first.
func (s *SQLiteStore) ListHatmsByGroup(ctx context.Context, groupID string) ([]*models.Hatm, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, duration_days, participants_count, status, started_at, ends_at, created_at
		 FROM hatms WHERE group_id = ? ORDER BY created_at DESC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hatms: %w", err)
	}
	defer rows.Close()

	var hatms []*models.Hatm
	for rows.Next() {
		hatm := &models.Hatm{}
		if err := rows.Scan(&hatm.ID, &hatm.GroupID, &hatm.DurationDays, &hatm.ParticipantsCount,
			&hatm.Status, &hatm.StartedAt, &hatm.EndsAt, &hatm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hatm: %w", err)
		}
		hatms = append(hatms, hatm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hatms: %w", err)
	}

	return hatms, nil
}

// UpdateHatm updates a hatm's status and timestamps.
func (s *SQLiteStore) UpdateHatm(ctx context.Context, hatm *models.Hatm) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE hatms SET status = ?, started_at = ?, ends_at = ? WHERE id = ?",
		hatm.Status, hatm.StartedAt, hatm.EndsAt, hatm.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update hatm: %w", err)
	}
	return nil
}
