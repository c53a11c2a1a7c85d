package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hatmapp/hatm/internal/models"
)

func TestComplete_DebtRepayment(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	hatms := NewHatmService(store)
	juzs := NewJuzService(store, hatms)
	ctx := context.Background()

	alice := seedUser(t, store, 111, "alice")
	group := seedGroup(t, store, alice)

	created, err := hatms.Create(ctx, group.ID, alice.ID, 1, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := hatms.Start(ctx, created.ID, alice.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Expire the hatm so every pending juz turns into a debt.
	row, _ := store.GetHatm(ctx, created.ID)
	row.EndsAt = time.Now().Unix() - 1000
	if err := store.UpdateHatm(ctx, row); err != nil {
		t.Fatalf("UpdateHatm failed: %v", err)
	}

	assignments, _ := store.ListJuzByHatm(ctx, created.ID)

	// The sweep runs inside Complete itself: the juz is still pending
	// in the database here, becomes debt, and is then repaid.
	repaid, err := juzs.Complete(ctx, assignments[0].ID, alice.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if repaid.Status != models.JuzCompleted {
		t.Errorf("status: expected completed, got %s", repaid.Status)
	}
	if repaid.IsDebt {
		t.Error("repaid juz must not still read as debt")
	}

	// The hatm itself completed via the sweep.
	hatm, _ := store.GetHatm(ctx, created.ID)
	if hatm.Status != models.HatmCompleted {
		t.Errorf("hatm status: expected completed, got %s", hatm.Status)
	}

	// Remaining debts are visible and repayable one by one.
	debts, err := juzs.Debts(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Debts failed: %v", err)
	}
	if debts.TotalDebts != 29 {
		t.Errorf("total_debts: expected 29, got %d", debts.TotalDebts)
	}
}

func TestComplete_OnlyOwner(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	hatms := NewHatmService(store)
	juzs := NewJuzService(store, hatms)
	ctx := context.Background()

	alice := seedUser(t, store, 111, "alice")
	bob := seedUser(t, store, 222, "bob")
	group := seedGroup(t, store, alice)

	created, err := hatms.Create(ctx, group.ID, alice.ID, 30, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := hatms.Start(ctx, created.ID, alice.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	assignments, _ := store.ListJuzByHatm(ctx, created.ID)
	if _, err := juzs.Complete(ctx, assignments[0].ID, bob.ID); !errors.Is(err, ErrNotYourJuz) {
		t.Errorf("expected ErrNotYourJuz, got %v", err)
	}
}

func TestComplete_PendingOnFinishedHatm(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	hatms := NewHatmService(store)
	juzs := NewJuzService(store, hatms)
	ctx := context.Background()

	alice := seedUser(t, store, 111, "alice")
	group := seedGroup(t, store, alice)

	created, err := hatms.Create(ctx, group.ID, alice.ID, 30, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := hatms.Start(ctx, created.ID, alice.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := hatms.Finish(ctx, created.ID, alice.ID); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	// A manual finish froze the juz statuses: the leftovers are
	// pending, not debt, and can no longer be completed.
	assignments, _ := store.ListJuzByHatm(ctx, created.ID)
	if _, err := juzs.Complete(ctx, assignments[0].ID, alice.ID); !errors.Is(err, ErrHatmCompleted) {
		t.Errorf("expected ErrHatmCompleted, got %v", err)
	}
}

func TestStats(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	hatms := NewHatmService(store)
	juzs := NewJuzService(store, hatms)
	ctx := context.Background()

	alice := seedUser(t, store, 111, "alice")
	group := seedGroup(t, store, alice)

	created, err := hatms.Create(ctx, group.ID, alice.ID, 30, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := hatms.Start(ctx, created.ID, alice.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	assignments, _ := store.ListJuzByHatm(ctx, created.ID)
	for _, a := range assignments[:4] {
		if _, err := juzs.Complete(ctx, a.ID, alice.ID); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
	}

	stats, err := juzs.Stats(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalAssigned != 30 {
		t.Errorf("total_assigned: expected 30, got %d", stats.TotalAssigned)
	}
	if stats.Completed != 4 {
		t.Errorf("completed: expected 4, got %d", stats.Completed)
	}
	if stats.Pending != 26 {
		t.Errorf("pending: expected 26, got %d", stats.Pending)
	}
	if stats.Debts != 0 {
		t.Errorf("debts: expected 0, got %d", stats.Debts)
	}
}
