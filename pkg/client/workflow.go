package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hatmapp/hatm/internal/distribution"
	"github.com/hatmapp/hatm/internal/models"
	"github.com/hatmapp/hatm/pkg/api"
)

// ErrBusy means a juz completion is already in flight. The view keeps
// its current snapshot and tells the user to wait.
var ErrBusy = errors.New("another completion is in progress")

// Snapshot is one consistent view of a hatm. Workflow replaces the
// whole snapshot on every successful load or mutation; a failed
// mutation leaves the previous snapshot untouched.
type Snapshot struct {
	Me       *api.User
	Hatm     *api.HatmDetail
	Progress *api.HatmProgress
}

// Workflow drives one hatm through its lifecycle on behalf of a view.
// Safe for concurrent use; juz completion is additionally single-flight.
type Workflow struct {
	client *Client
	hatmID string

	mu       sync.RWMutex
	snapshot Snapshot

	completing atomic.Bool
}

// NewWorkflow creates a controller for one hatm. Call Load before
// reading the snapshot.
func NewWorkflow(client *Client, hatmID string) *Workflow {
	return &Workflow{client: client, hatmID: hatmID}
}

// Load fetches identity, hatm and progress in order and installs them
// as the current snapshot.
func (w *Workflow) Load(ctx context.Context) (Snapshot, error) {
	me, err := w.client.Me(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	hatm, err := w.client.GetHatm(ctx, w.hatmID)
	if err != nil {
		return Snapshot{}, err
	}
	progress, err := w.client.HatmProgress(ctx, w.hatmID)
	if err != nil {
		return Snapshot{}, err
	}

	next := Snapshot{Me: me, Hatm: hatm, Progress: progress}
	w.mu.Lock()
	w.snapshot = next
	w.mu.Unlock()
	return next, nil
}

// Snapshot returns the current snapshot.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshot
}

// CanStart reports whether the start affordance should be offered.
func (w *Workflow) CanStart() bool {
	s := w.Snapshot()
	return s.Hatm != nil && s.Hatm.Status == models.HatmPending
}

// CanFinish reports whether the finish affordance should be offered.
func (w *Workflow) CanFinish() bool {
	s := w.Snapshot()
	return s.Hatm != nil && s.Hatm.Status == models.HatmActive
}

// CanComplete reports whether the caller can mark the given juz as
// read: they hold it, it is not yet completed, and the hatm either is
// still running or the juz is a repayable debt.
func (w *Workflow) CanComplete(juz api.Juz) bool {
	s := w.Snapshot()
	if s.Me == nil || s.Hatm == nil {
		return false
	}
	if juz.UserID != s.Me.ID || juz.Status == models.JuzCompleted {
		return false
	}
	if s.Hatm.Status == models.HatmCompleted && !juz.Debt() {
		return false
	}
	return true
}

// Start starts the hatm and refreshes the snapshot.
func (w *Workflow) Start(ctx context.Context) (Snapshot, error) {
	if _, err := w.client.StartHatm(ctx, w.hatmID); err != nil {
		return w.Snapshot(), err
	}
	return w.Load(ctx)
}

// Finish completes the hatm and refreshes the snapshot.
func (w *Workflow) Finish(ctx context.Context) (Snapshot, error) {
	if _, err := w.client.CompleteHatm(ctx, w.hatmID); err != nil {
		return w.Snapshot(), err
	}
	return w.Load(ctx)
}

// CompleteJuz marks one juz as read and refreshes the snapshot. At
// most one completion runs at a time; a concurrent second call fails
// fast with ErrBusy instead of queuing.
func (w *Workflow) CompleteJuz(ctx context.Context, juzID string) (Snapshot, error) {
	if !w.completing.CompareAndSwap(false, true) {
		return w.Snapshot(), ErrBusy
	}
	defer w.completing.Store(false)

	if _, err := w.client.CompleteJuz(ctx, juzID); err != nil {
		return w.Snapshot(), err
	}
	return w.Load(ctx)
}

// PreviewDistribution computes the juz split for a creation form
// locally, without a network call.
func PreviewDistribution(participants int) ([]int, error) {
	return distribution.Plan(participants)
}
