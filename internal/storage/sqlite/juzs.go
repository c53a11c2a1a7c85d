package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hatmapp/hatm/internal/models"
)

// GetJuz retrieves a juz assignment by ID.
func (s *SQLiteStore) GetJuz(ctx context.Context, id string) (*models.JuzAssignment, error) {
	juz := &models.JuzAssignment{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, hatm_id, user_id, juz_number, status, completed_at
		 FROM juz_assignments WHERE id = ?`, id,
	).Scan(&juz.ID, &juz.HatmID, &juz.UserID, &juz.JuzNumber, &juz.Status, &juz.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Assignment not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get juz assignment: %w", err)
	}
	return juz, nil
}

// ListJuzByHatm retrieves a hatm's assignments ordered by juz number.
func (s *SQLiteStore) ListJuzByHatm(ctx context.Context, hatmID string) ([]*models.JuzAssignment, error) {
	return s.listJuz(ctx,
		`SELECT id, hatm_id, user_id, juz_number, status, completed_at
		 FROM juz_assignments WHERE hatm_id = ? ORDER BY juz_number`, hatmID)
}

// ListJuzByUser retrieves every assignment held by a user, ordered by
// juz number.
func (s *SQLiteStore) ListJuzByUser(ctx context.Context, userID string) ([]*models.JuzAssignment, error) {
	return s.listJuz(ctx,
		`SELECT id, hatm_id, user_id, juz_number, status, completed_at
		 FROM juz_assignments WHERE user_id = ? ORDER BY juz_number`, userID)
}

func (s *SQLiteStore) listJuz(ctx context.Context, query string, arg interface{}) ([]*models.JuzAssignment, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list juz assignments: %w", err)
	}
	defer rows.Close()

	var juzs []*models.JuzAssignment
	for rows.Next() {
		juz := &models.JuzAssignment{}
		if err := rows.Scan(&juz.ID, &juz.HatmID, &juz.UserID, &juz.JuzNumber, &juz.Status, &juz.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan juz assignment: %w", err)
		}
		juzs = append(juzs, juz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating juz assignments: %w", err)
	}

	return juzs, nil
}

// UpdateJuz updates an assignment's owner, status and completion time.
func (s *SQLiteStore) UpdateJuz(ctx context.Context, juz *models.JuzAssignment) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE juz_assignments SET user_id = ?, status = ?, completed_at = ? WHERE id = ?",
		juz.UserID, juz.Status, juz.CompletedAt, juz.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update juz assignment: %w", err)
	}
	return nil
}

// MarkPendingAsDebt flips every pending assignment of a hatm to debt.
func (s *SQLiteStore) MarkPendingAsDebt(ctx context.Context, hatmID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE juz_assignments SET status = ? WHERE hatm_id = ? AND status = ?",
		models.JuzDebt, hatmID, models.JuzPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark debts: %w", err)
	}
	return nil
}
