package service

import (
	"context"

	"github.com/hatmapp/hatm/internal/models"
	"github.com/hatmapp/hatm/internal/storage"
	"github.com/hatmapp/hatm/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:         u.ID,
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FirstName:  u.FirstName,
	}
}

func toAPIHatm(h *models.Hatm) *api.Hatm {
	return &api.Hatm{
		ID:                h.ID,
		GroupID:           h.GroupID,
		DurationDays:      h.DurationDays,
		ParticipantsCount: h.ParticipantsCount,
		Status:            h.Status,
		StartedAt:         h.StartedAt,
		EndsAt:            h.EndsAt,
		CreatedAt:         h.CreatedAt,
	}
}

// toAPIJuz builds the wire shape of an assignment. The is_debt flag is
// derived from the status here and nowhere else.
func toAPIJuz(j *models.JuzAssignment, reader *models.User) api.Juz {
	juz := api.Juz{
		ID:          j.ID,
		JuzNumber:   j.JuzNumber,
		Status:      j.Status,
		UserID:      j.UserID,
		CompletedAt: j.CompletedAt,
		IsDebt:      j.Status == models.JuzDebt,
	}
	if reader != nil {
		juz.Username = reader.Username
		juz.FirstName = reader.FirstName
	}
	return juz
}

// toAPIJuzList converts assignments, batch-loading reader profiles in
// one query instead of one per assignment.
func toAPIJuzList(ctx context.Context, store storage.Store, juzs []*models.JuzAssignment) ([]api.Juz, error) {
	ids := make([]string, 0, len(juzs))
	seen := make(map[string]bool)
	for _, j := range juzs {
		if j.UserID != "" && !seen[j.UserID] {
			seen[j.UserID] = true
			ids = append(ids, j.UserID)
		}
	}

	users, err := store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]api.Juz, len(juzs))
	for i, j := range juzs {
		out[i] = toAPIJuz(j, users[j.UserID])
	}
	return out, nil
}

// requireMember returns ErrNotMember unless the user belongs to the group.
func requireMember(ctx context.Context, store storage.Store, groupID, userID string) error {
	member, err := store.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotMember
	}
	return nil
}
