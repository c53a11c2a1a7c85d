package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/hatmapp/hatm/internal/distribution"
	"github.com/hatmapp/hatm/internal/models"
	"github.com/hatmapp/hatm/internal/storage"
	"github.com/hatmapp/hatm/pkg/api"
)

// HatmService drives the hatm lifecycle: creation with its 30 juz
// assignments, the pending -> active -> completed transitions, the
// progress aggregate, and the expiry sweep that turns unread portions
// into debts.
type HatmService struct {
	store storage.Store
}

// NewHatmService creates a new HatmService with the given storage backend.
func NewHatmService(store storage.Store) *HatmService {
	return &HatmService{store: store}
}

// Create makes a new pending hatm in the group together with all 30
// assignments. The group's current members fill the first reader slots;
// the rest of the juz stay unassigned until more members join.
func (s *HatmService) Create(ctx context.Context, groupID, userID string, durationDays, participantsCount int) (*api.Hatm, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if err := requireMember(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}

	active, err := s.store.GetActiveHatm(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveHatmExists
	}

	slots, err := distribution.Distribute(participantsCount)
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	hatm := &models.Hatm{
		GroupID:           groupID,
		DurationDays:      durationDays,
		ParticipantsCount: participantsCount,
		Status:            models.HatmPending,
	}

	var assignments []*models.JuzAssignment
	for i, slot := range slots {
		readerID := ""
		if i < len(members) {
			readerID = members[i].UserID
		}
		for _, number := range slot {
			assignments = append(assignments, &models.JuzAssignment{
				UserID:    readerID,
				JuzNumber: number,
				Status:    models.JuzPending,
			})
		}
	}

	if err := s.store.CreateHatm(ctx, hatm, assignments); err != nil {
		return nil, err
	}

	slog.Info("Hatm created",
		"hatm_id", hatm.ID,
		"group_id", groupID,
		"duration_days", durationDays,
		"participants_count", participantsCount,
	)

	return toAPIHatm(hatm), nil
}

// Start transitions a pending hatm to active and stamps the reading
// window. Starting a hatm that is not pending is a domain error, so a
// second start can never open a second active period.
func (s *HatmService) Start(ctx context.Context, hatmID, userID string) (*api.Hatm, error) {
	hatm, err := s.get(ctx, hatmID, userID)
	if err != nil {
		return nil, err
	}

	if hatm.Status != models.HatmPending {
		return nil, ErrHatmNotPending
	}

	count, err := s.store.CountMembers(ctx, hatm.GroupID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoMembers
	}

	hatm.Status = models.HatmActive
	hatm.StartedAt = time.Now().Unix()
	hatm.EndsAt = hatm.StartedAt + int64(hatm.DurationDays)*24*60*60

	if err := s.store.UpdateHatm(ctx, hatm); err != nil {
		return nil, err
	}

	slog.Info("Hatm started", "hatm_id", hatm.ID, "ends_at", hatm.EndsAt)
	return toAPIHatm(hatm), nil
}

// Finish completes an active hatm on explicit user request. Remaining
// assignments keep whatever status they had: finishing is a manual
// override, not a claim that everything was read.
func (s *HatmService) Finish(ctx context.Context, hatmID, userID string) (*api.Hatm, error) {
	hatm, err := s.get(ctx, hatmID, userID)
	if err != nil {
		return nil, err
	}

	switch hatm.Status {
	case models.HatmCompleted:
		return nil, ErrHatmCompleted
	case models.HatmPending:
		return nil, ErrHatmNotStarted
	}

	hatm.Status = models.HatmCompleted
	if err := s.store.UpdateHatm(ctx, hatm); err != nil {
		return nil, err
	}

	slog.Info("Hatm completed manually", "hatm_id", hatm.ID)
	return toAPIHatm(hatm), nil
}

// Get retrieves a hatm for a member of its group.
func (s *HatmService) Get(ctx context.Context, hatmID, userID string) (*api.Hatm, error) {
	hatm, err := s.get(ctx, hatmID, userID)
	if err != nil {
		return nil, err
	}
	return toAPIHatm(hatm), nil
}

// Detail retrieves a hatm with its 30 assignments.
func (s *HatmService) Detail(ctx context.Context, hatmID, userID string) (*api.HatmDetail, error) {
	hatm, err := s.get(ctx, hatmID, userID)
	if err != nil {
		return nil, err
	}

	juzs, err := s.store.ListJuzByHatm(ctx, hatm.ID)
	if err != nil {
		return nil, err
	}
	wireJuzs, err := toAPIJuzList(ctx, s.store, juzs)
	if err != nil {
		return nil, err
	}

	return &api.HatmDetail{Hatm: *toAPIHatm(hatm), JuzAssignments: wireJuzs}, nil
}

// ListByGroup retrieves a group's hatms, newest first.
func (s *HatmService) ListByGroup(ctx context.Context, groupID, userID string) ([]*api.Hatm, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if err := requireMember(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}

	hatms, err := s.store.ListHatmsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	out := make([]*api.Hatm, len(hatms))
	for i, h := range hatms {
		out[i] = toAPIHatm(h)
	}
	return out, nil
}

// Progress builds the derived progress aggregate for a hatm.
func (s *HatmService) Progress(ctx context.Context, hatmID, userID string) (*api.HatmProgress, error) {
	hatm, err := s.get(ctx, hatmID, userID)
	if err != nil {
		return nil, err
	}

	juzs, err := s.store.ListJuzByHatm(ctx, hatm.ID)
	if err != nil {
		return nil, err
	}
	wireJuzs, err := toAPIJuzList(ctx, s.store, juzs)
	if err != nil {
		return nil, err
	}

	progress := &api.HatmProgress{
		TotalJuzs:      models.TotalJuz,
		JuzAssignments: wireJuzs,
	}
	for _, j := range juzs {
		switch j.Status {
		case models.JuzCompleted:
			progress.CompletedJuzs++
		case models.JuzPending:
			progress.PendingJuzs++
		case models.JuzDebt:
			progress.DebtJuzs++
		}
	}
	progress.ProgressPercent = int(math.Round(100 * float64(progress.CompletedJuzs) / float64(models.TotalJuz)))

	return progress, nil
}

// AssignToNewMember hands unassigned juz of the group's current hatm to
// a user who just joined. A user who already holds juz in the hatm, or
// a hatm whose reader slots are all taken, gets nothing; that is not an
// error.
func (s *HatmService) AssignToNewMember(ctx context.Context, groupID, userID string) error {
	hatms, err := s.store.ListHatmsByGroup(ctx, groupID)
	if err != nil {
		return err
	}

	var hatm *models.Hatm
	for _, h := range hatms {
		if h.Status != models.HatmCompleted {
			hatm = h
			break
		}
	}
	if hatm == nil {
		return nil
	}

	juzs, err := s.store.ListJuzByHatm(ctx, hatm.ID)
	if err != nil {
		return err
	}

	readers := make(map[string]bool)
	var unassigned []*models.JuzAssignment
	for _, j := range juzs {
		if j.UserID == "" {
			unassigned = append(unassigned, j)
			continue
		}
		if j.UserID == userID {
			return nil // already holds juz in this hatm
		}
		readers[j.UserID] = true
	}

	if len(readers) >= hatm.ParticipantsCount || len(unassigned) == 0 {
		return nil // all reader slots taken
	}

	count := distribution.SlotCount(hatm.ParticipantsCount, len(readers))
	if count > len(unassigned) {
		count = len(unassigned)
	}

	numbers := make([]int, 0, count)
	for _, j := range unassigned[:count] {
		j.UserID = userID
		if err := s.store.UpdateJuz(ctx, j); err != nil {
			return err
		}
		numbers = append(numbers, j.JuzNumber)
	}

	slog.Info("Juz assigned to new member",
		"hatm_id", hatm.ID,
		"user_id", userID,
		"juz_numbers", numbers,
	)
	return nil
}

// get loads a hatm, enforces group membership, and applies the expiry
// sweep before anything else sees the row.
func (s *HatmService) get(ctx context.Context, hatmID, userID string) (*models.Hatm, error) {
	hatm, err := s.store.GetHatm(ctx, hatmID)
	if err != nil {
		return nil, err
	}
	if hatm == nil {
		return nil, ErrHatmNotFound
	}
	if err := requireMember(ctx, s.store, hatm.GroupID, userID); err != nil {
		return nil, err
	}
	if err := s.sweepExpired(ctx, hatm); err != nil {
		return nil, err
	}
	return hatm, nil
}

// sweepExpired completes an active hatm whose window has closed and
// marks its unread portions as debt. The debt policy lives here and
// only here; clients treat the resulting statuses as read-only facts.
func (s *HatmService) sweepExpired(ctx context.Context, hatm *models.Hatm) error {
	if hatm.Status != models.HatmActive || hatm.EndsAt == 0 || time.Now().Unix() <= hatm.EndsAt {
		return nil
	}

	hatm.Status = models.HatmCompleted
	if err := s.store.MarkPendingAsDebt(ctx, hatm.ID); err != nil {
		return err
	}
	if err := s.store.UpdateHatm(ctx, hatm); err != nil {
		return err
	}

	slog.Info("Hatm expired, unread juz marked as debt", "hatm_id", hatm.ID)
	return nil
}
