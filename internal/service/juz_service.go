package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/hatmapp/hatm/internal/models"
	"github.com/hatmapp/hatm/internal/storage"
	"github.com/hatmapp/hatm/pkg/api"
)

// JuzService handles per-portion reads and the one per-portion
// transition a user can make: marking their own juz as read.
type JuzService struct {
	store storage.Store
	hatms *HatmService
}

// NewJuzService creates a new JuzService with the given storage backend.
func NewJuzService(store storage.Store, hatms *HatmService) *JuzService {
	return &JuzService{store: store, hatms: hatms}
}

// Complete marks a juz as read. Only the assigned reader may complete
// it, and re-completing an already-read juz is a no-op so a count can
// never be bumped twice. Completing a debt juz repays it, even after
// the owning hatm has completed; a still-pending juz of a completed
// hatm is rejected instead.
func (s *JuzService) Complete(ctx context.Context, juzID, userID string) (*api.Juz, error) {
	juz, err := s.store.GetJuz(ctx, juzID)
	if err != nil {
		return nil, err
	}
	if juz == nil {
		return nil, ErrJuzNotFound
	}
	if juz.UserID != userID {
		return nil, ErrNotYourJuz
	}

	hatm, err := s.store.GetHatm(ctx, juz.HatmID)
	if err != nil {
		return nil, err
	}
	if hatm != nil {
		if err := s.hatms.sweepExpired(ctx, hatm); err != nil {
			return nil, err
		}
		// The sweep may just have turned this pending juz into a debt.
		juz, err = s.store.GetJuz(ctx, juzID)
		if err != nil {
			return nil, err
		}
	}

	if juz.Status != models.JuzCompleted {
		if hatm != nil && hatm.Status == models.HatmCompleted && juz.Status != models.JuzDebt {
			return nil, ErrHatmCompleted
		}
		juz.Status = models.JuzCompleted
		juz.CompletedAt = time.Now().Unix()
		if err := s.store.UpdateJuz(ctx, juz); err != nil {
			return nil, err
		}
		slog.Info("Juz completed", "juz_id", juz.ID, "juz_number", juz.JuzNumber, "user_id", userID)
	}

	reader, err := s.store.GetUserByID(ctx, juz.UserID)
	if err != nil {
		return nil, err
	}
	wire := toAPIJuz(juz, reader)
	return &wire, nil
}

// Stats summarizes every assignment the user holds across all hatms.
func (s *JuzService) Stats(ctx context.Context, userID string) (*api.UserJuzStats, error) {
	juzs, err := s.store.ListJuzByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &api.UserJuzStats{
		TotalAssigned: len(juzs),
		Juzs:          make([]api.Juz, len(juzs)),
	}
	for i, j := range juzs {
		switch j.Status {
		case models.JuzCompleted:
			stats.Completed++
		case models.JuzPending:
			stats.Pending++
		case models.JuzDebt:
			stats.Debts++
		}
		stats.Juzs[i] = toAPIJuz(j, nil)
	}
	return stats, nil
}

// Debts lists the user's outstanding debt portions.
func (s *JuzService) Debts(ctx context.Context, userID string) (*api.UserDebts, error) {
	juzs, err := s.store.ListJuzByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	debts := &api.UserDebts{Debts: []api.Juz{}}
	for _, j := range juzs {
		if j.Status == models.JuzDebt {
			debts.Debts = append(debts.Debts, toAPIJuz(j, nil))
		}
	}
	debts.TotalDebts = len(debts.Debts)
	return debts, nil
}
