package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hatmapp/hatm/internal/auth"
)

func TestDo_StructuredErrorDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"hatm not found"}`))
	}))
	defer ts.Close()

	c := New(ts.URL, SessionFromInitData("user=x&hash=y"))
	_, err := c.GetHatm(context.Background(), "nope")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status: expected 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "hatm not found" {
		t.Errorf("detail: expected 'hatm not found', got %q", apiErr.Detail)
	}
}

func TestDo_MalformedErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>nginx exploded</html>"))
	}))
	defer ts.Close()

	c := New(ts.URL, SessionFromInitData("user=x&hash=y"))
	_, err := c.Me(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Detail != "Unknown error" {
		t.Errorf("detail: expected fallback 'Unknown error', got %q", apiErr.Detail)
	}
}

func TestDo_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused from here on

	c := New(ts.URL, SessionFromInitData("user=x&hash=y"))
	_, err := c.Me(context.Background())

	if err == nil {
		t.Fatal("expected an error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure must not look like a server response, got %v", apiErr)
	}
}

func TestDo_AttachesInitDataHeader(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(InitDataHeader)
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := New(ts.URL, SessionFromInitData("user=x&hash=y"))
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if got != "user=x&hash=y" {
		t.Errorf("init data header: expected 'user=x&hash=y', got %q", got)
	}
}

func TestJoinGroup_ValidatesLocally(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := New(ts.URL, SessionFromInitData("user=x&hash=y"))

	if _, err := c.JoinGroup(context.Background(), "short"); err == nil {
		t.Error("expected error for short invite code")
	}
	if _, err := c.JoinGroup(context.Background(), "with spc!"); err == nil {
		t.Error("expected error for invalid characters")
	}
	if calls != 0 {
		t.Errorf("invalid codes must be rejected before any network call, got %d calls", calls)
	}

	// Lowercase input normalizes and goes through.
	if _, err := c.JoinGroup(context.Background(), "abcd1234"); err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls)
	}
}

func TestNewSession_EnvOverridesSentinel(t *testing.T) {
	t.Setenv("TELEGRAM_INIT_DATA", "user=real&hash=abc")

	s := NewSession()
	if s.Dev {
		t.Error("expected a non-dev session")
	}
	if s.InitData != "user=real&hash=abc" {
		t.Errorf("init data: expected env value, got %q", s.InitData)
	}
}

func TestNewSession_SentinelFallback(t *testing.T) {
	t.Setenv("TELEGRAM_INIT_DATA", "")

	s := NewSession()
	if !s.Dev {
		t.Error("expected a dev session")
	}
	if s.User() == "" {
		t.Error("sentinel init data must carry a user")
	}

	// A dev-mode server accepts the sentinel; production rejects it.
	if _, err := auth.NewValidator("bot-token", true).Validate(s.InitData); err != nil {
		t.Errorf("dev validator rejected the sentinel: %v", err)
	}
	if _, err := auth.NewValidator("bot-token", false).Validate(s.InitData); err == nil {
		t.Error("production validator must reject the sentinel")
	}
}
