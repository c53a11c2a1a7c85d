package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hatmapp/hatm/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hatm-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &models.User{TelegramID: 1001, Username: "aisha", FirstName: "Aisha"}

	t.Run("CreateUser generates ID and timestamp", func(t *testing.T) {
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetUserByTelegramID round trip", func(t *testing.T) {
		got, err := store.GetUserByTelegramID(ctx, 1001)
		if err != nil {
			t.Fatalf("GetUserByTelegramID failed: %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Fatalf("got %+v, want user %s", got, user.ID)
		}

		missing, err := store.GetUserByTelegramID(ctx, 4040)
		if err != nil {
			t.Fatalf("GetUserByTelegramID failed: %v", err)
		}
		if missing != nil {
			t.Errorf("expected nil for unknown telegram ID, got %+v", missing)
		}
	})

	group := &models.Group{Name: "Family", InviteCode: "ABCD1234", CreatorID: user.ID}

	t.Run("Group and membership round trip", func(t *testing.T) {
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		byCode, err := store.GetGroupByInviteCode(ctx, "ABCD1234")
		if err != nil {
			t.Fatalf("GetGroupByInviteCode failed: %v", err)
		}
		if byCode == nil || byCode.ID != group.ID {
			t.Fatalf("lookup by invite code returned %+v", byCode)
		}

		if err := store.AddMember(ctx, &models.Member{GroupID: group.ID, UserID: user.ID}); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}

		member, err := store.GetMember(ctx, group.ID, user.ID)
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if member == nil {
			t.Fatal("expected membership to exist")
		}

		count, err := store.CountMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("CountMembers failed: %v", err)
		}
		if count != 1 {
			t.Errorf("member count = %d, want 1", count)
		}

		groups, err := store.ListGroupsByUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListGroupsByUser failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("ListGroupsByUser = %+v", groups)
		}
	})

	t.Run("Duplicate membership violates unique constraint", func(t *testing.T) {
		err := store.AddMember(ctx, &models.Member{GroupID: group.ID, UserID: user.ID})
		if err == nil {
			t.Error("expected duplicate membership insert to fail")
		}
	})

	hatm := &models.Hatm{
		GroupID:           group.ID,
		DurationDays:      7,
		ParticipantsCount: 3,
		Status:            models.HatmPending,
	}

	t.Run("CreateHatm persists all assignments transactionally", func(t *testing.T) {
		assignments := make([]*models.JuzAssignment, models.TotalJuz)
		for i := range assignments {
			assignments[i] = &models.JuzAssignment{
				JuzNumber: i + 1,
				Status:    models.JuzPending,
			}
		}

		if err := store.CreateHatm(ctx, hatm, assignments); err != nil {
			t.Fatalf("CreateHatm failed: %v", err)
		}

		juzs, err := store.ListJuzByHatm(ctx, hatm.ID)
		if err != nil {
			t.Fatalf("ListJuzByHatm failed: %v", err)
		}
		if len(juzs) != models.TotalJuz {
			t.Fatalf("got %d assignments, want %d", len(juzs), models.TotalJuz)
		}
		for i, juz := range juzs {
			if juz.JuzNumber != i+1 {
				t.Errorf("assignment %d has juz number %d, want %d", i, juz.JuzNumber, i+1)
			}
		}
	})

	t.Run("GetActiveHatm sees only active status", func(t *testing.T) {
		active, err := store.GetActiveHatm(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetActiveHatm failed: %v", err)
		}
		if active != nil {
			t.Errorf("pending hatm reported active: %+v", active)
		}

		hatm.Status = models.HatmActive
		hatm.StartedAt = 1700000000
		hatm.EndsAt = 1700604800
		if err := store.UpdateHatm(ctx, hatm); err != nil {
			t.Fatalf("UpdateHatm failed: %v", err)
		}

		active, err = store.GetActiveHatm(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetActiveHatm failed: %v", err)
		}
		if active == nil || active.ID != hatm.ID {
			t.Fatalf("GetActiveHatm = %+v", active)
		}
		if active.StartedAt != 1700000000 || active.EndsAt != 1700604800 {
			t.Errorf("timestamps not persisted: %+v", active)
		}
	})

	t.Run("UpdateJuz and MarkPendingAsDebt", func(t *testing.T) {
		juzs, err := store.ListJuzByHatm(ctx, hatm.ID)
		if err != nil {
			t.Fatalf("ListJuzByHatm failed: %v", err)
		}

		first := juzs[0]
		first.UserID = user.ID
		first.Status = models.JuzCompleted
		first.CompletedAt = 1700000500
		if err := store.UpdateJuz(ctx, first); err != nil {
			t.Fatalf("UpdateJuz failed: %v", err)
		}

		if err := store.MarkPendingAsDebt(ctx, hatm.ID); err != nil {
			t.Fatalf("MarkPendingAsDebt failed: %v", err)
		}

		juzs, err = store.ListJuzByHatm(ctx, hatm.ID)
		if err != nil {
			t.Fatalf("ListJuzByHatm failed: %v", err)
		}
		completed, debt := 0, 0
		for _, juz := range juzs {
			switch juz.Status {
			case models.JuzCompleted:
				completed++
			case models.JuzDebt:
				debt++
			case models.JuzPending:
				t.Errorf("juz %d still pending after debt sweep", juz.JuzNumber)
			}
		}
		if completed != 1 || debt != models.TotalJuz-1 {
			t.Errorf("got %d completed and %d debt, want 1 and %d", completed, debt, models.TotalJuz-1)
		}

		mine, err := store.ListJuzByUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListJuzByUser failed: %v", err)
		}
		if len(mine) != 1 || mine[0].ID != first.ID {
			t.Errorf("ListJuzByUser = %+v", mine)
		}
	})
}
