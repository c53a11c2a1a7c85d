package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/hatmapp/hatm/internal/models"
)

// fakeBackend serves just enough of the API for workflow tests. The
// hatm status and completion behavior are adjustable per test.
type fakeBackend struct {
	mu         sync.Mutex
	hatmStatus models.HatmStatus
	completed  int

	// completeStarted/completeRelease gate the complete handler so a
	// test can hold one completion in flight.
	completeStarted chan struct{}
	completeRelease chan struct{}
	completeStatus  int
}

func newFakeBackend(status models.HatmStatus) *fakeBackend {
	return &fakeBackend{
		hatmStatus:      status,
		completeStarted: make(chan struct{}, 8),
		completeRelease: make(chan struct{}),
		completeStatus:  http.StatusOK,
	}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u1","telegram_id":111,"first_name":"Dev"}`))
	})
	mux.HandleFunc("GET /api/hatms/h1", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status := f.hatmStatus
		f.mu.Unlock()
		w.Write([]byte(`{"id":"h1","group_id":"g1","duration_days":30,"participants_count":1,"status":"` +
			string(status) + `","created_at":1,"juz_assignments":[` +
			`{"id":"j1","juz_number":1,"status":"pending","user_id":"u1","is_debt":false}]}`))
	})
	mux.HandleFunc("GET /api/hatms/h1/progress", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_juzs":30,"completed_juzs":0,"pending_juzs":30,"debt_juzs":0,"progress_percent":0,"juz_assignments":[]}`))
	})
	mux.HandleFunc("POST /api/hatms/h1/start", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hatmStatus = models.HatmActive
		f.mu.Unlock()
		w.Write([]byte(`{"id":"h1","group_id":"g1","duration_days":30,"participants_count":1,"status":"active","created_at":1}`))
	})
	mux.HandleFunc("POST /api/juzs/{id}/complete", func(w http.ResponseWriter, r *http.Request) {
		f.completeStarted <- struct{}{}
		<-f.completeRelease
		f.mu.Lock()
		status := f.completeStatus
		if status == http.StatusOK {
			f.completed++
		}
		f.mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"detail":"not your juz"}`))
			return
		}
		w.Write([]byte(`{"id":"` + r.PathValue("id") + `","juz_number":1,"status":"completed","user_id":"u1","completed_at":1,"is_debt":false}`))
	})
	return mux
}

func setupWorkflow(t *testing.T, status models.HatmStatus) (*Workflow, *fakeBackend, func()) {
	t.Helper()
	backend := newFakeBackend(status)
	ts := httptest.NewServer(backend.handler())
	c := New(ts.URL, SessionFromInitData("user=x&hash=y"))
	return NewWorkflow(c, "h1"), backend, ts.Close
}

func TestWorkflow_LoadAndAffordances(t *testing.T) {
	w, _, cleanup := setupWorkflow(t, models.HatmPending)
	defer cleanup()

	snap, err := w.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Me == nil || snap.Hatm == nil || snap.Progress == nil {
		t.Fatal("expected a full snapshot")
	}

	if !w.CanStart() {
		t.Error("pending hatm must offer start")
	}
	if w.CanFinish() {
		t.Error("pending hatm must not offer finish")
	}

	if _, err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if w.CanStart() {
		t.Error("active hatm must not offer start")
	}
	if !w.CanFinish() {
		t.Error("active hatm must offer finish")
	}

	juz := w.Snapshot().Hatm.JuzAssignments[0]
	if !w.CanComplete(juz) {
		t.Error("owner must be able to complete their pending juz")
	}
	other := juz
	other.UserID = "someone-else"
	if w.CanComplete(other) {
		t.Error("someone else's juz must not be completable")
	}
}

func TestWorkflow_SingleFlightCompletion(t *testing.T) {
	w, backend, cleanup := setupWorkflow(t, models.HatmActive)
	defer cleanup()

	if _, err := w.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	errs := make(chan error, 1)
	go func() {
		_, err := w.CompleteJuz(context.Background(), "j1")
		errs <- err
	}()
	<-backend.completeStarted // first completion is now in flight

	// The second attempt fails fast instead of queueing.
	if _, err := w.CompleteJuz(context.Background(), "j1"); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(backend.completeRelease)
	if err := <-errs; err != nil {
		t.Fatalf("first completion failed: %v", err)
	}
	if backend.completed != 1 {
		t.Errorf("expected exactly 1 completion, got %d", backend.completed)
	}

	// The guard resets after the flight lands.
	if _, err := w.CompleteJuz(context.Background(), "j1"); err != nil {
		t.Errorf("follow-up completion failed: %v", err)
	}
}

func TestWorkflow_FailedMutationKeepsSnapshot(t *testing.T) {
	w, backend, cleanup := setupWorkflow(t, models.HatmActive)
	defer cleanup()
	close(backend.completeRelease) // no blocking in this test

	before, err := w.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	backend.mu.Lock()
	backend.completeStatus = http.StatusForbidden
	backend.mu.Unlock()

	after, err := w.CompleteJuz(context.Background(), "j1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", apiErr.StatusCode)
	}
	if after != before {
		t.Error("failed mutation must leave the snapshot untouched")
	}
}
