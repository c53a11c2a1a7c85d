package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hatmapp/hatm/internal/invite"
	"github.com/hatmapp/hatm/pkg/api"
)

// InitDataHeader carries the raw Telegram init data on every request.
const InitDataHeader = "X-Telegram-Init-Data"

// APIError is a non-2xx response from the server, carrying the detail
// string from the {"detail": ...} envelope.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
}

// Client talks to the hatm REST API. All methods are safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    Session
}

// New creates a Client against baseURL authenticated by the session.
func New(baseURL string, session Session) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
	}
}

// do performs one request. Body (if non-nil) is JSON encoded; on 2xx
// the response is decoded into out (if non-nil); otherwise an *APIError
// is returned. There are no retries and no queuing: a failed mutation
// surfaces immediately and the caller decides.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(InitDataHeader, c.session.InitData)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// decodeError turns a non-2xx response into an *APIError. A body that
// is not the expected envelope still yields a usable error.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Detail: "Unknown error"}
	var envelope api.Error
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Detail != "" {
		apiErr.Detail = envelope.Detail
	}
	return apiErr
}

// Me returns the authenticated user, creating the account on first call.
func (c *Client) Me(ctx context.Context) (*api.User, error) {
	var user api.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// MyJuzs returns the caller's assignments across all hatms.
func (c *Client) MyJuzs(ctx context.Context) (*api.UserJuzStats, error) {
	var stats api.UserJuzStats
	if err := c.do(ctx, http.MethodGet, "/api/users/me/juzs", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// MyDebts returns the caller's outstanding debt portions.
func (c *Client) MyDebts(ctx context.Context) (*api.UserDebts, error) {
	var debts api.UserDebts
	if err := c.do(ctx, http.MethodGet, "/api/users/me/debts", nil, &debts); err != nil {
		return nil, err
	}
	return &debts, nil
}

// ListGroups returns the caller's groups.
func (c *Client) ListGroups(ctx context.Context) ([]*api.Group, error) {
	var groups []*api.Group
	if err := c.do(ctx, http.MethodGet, "/api/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateGroup creates a group and joins the caller to it.
func (c *Client) CreateGroup(ctx context.Context, name string) (*api.Group, error) {
	var group api.Group
	req := api.CreateGroupRequest{Name: name}
	if err := c.do(ctx, http.MethodPost, "/api/groups", req, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// JoinGroup joins the group behind an invite code. The code is
// normalized and checked locally before any network call.
func (c *Client) JoinGroup(ctx context.Context, code string) (*api.Group, error) {
	code = invite.Normalize(code)
	if err := invite.Validate(code); err != nil {
		return nil, err
	}

	var group api.Group
	req := api.JoinGroupRequest{InviteCode: code}
	if err := c.do(ctx, http.MethodPost, "/api/groups/join", req, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGroup returns the full group view with members and the active hatm.
func (c *Client) GetGroup(ctx context.Context, groupID string) (*api.GroupDetail, error) {
	var detail api.GroupDetail
	if err := c.do(ctx, http.MethodGet, "/api/groups/"+groupID, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListHatms returns the group's hatms, newest first.
func (c *Client) ListHatms(ctx context.Context, groupID string) ([]*api.Hatm, error) {
	var hatms []*api.Hatm
	if err := c.do(ctx, http.MethodGet, "/api/groups/"+groupID+"/hatms", nil, &hatms); err != nil {
		return nil, err
	}
	return hatms, nil
}

// CreateHatm creates a hatm in the group. All 30 juz assignments exist
// from this moment; starting only sets the reading window.
func (c *Client) CreateHatm(ctx context.Context, groupID string, durationDays, participantsCount int) (*api.Hatm, error) {
	var hatm api.Hatm
	req := api.CreateHatmRequest{DurationDays: durationDays, ParticipantsCount: participantsCount}
	if err := c.do(ctx, http.MethodPost, "/api/groups/"+groupID+"/hatms", req, &hatm); err != nil {
		return nil, err
	}
	return &hatm, nil
}

// GetHatm returns the hatm with its 30 juz assignments.
func (c *Client) GetHatm(ctx context.Context, hatmID string) (*api.HatmDetail, error) {
	var detail api.HatmDetail
	if err := c.do(ctx, http.MethodGet, "/api/hatms/"+hatmID, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// StartHatm starts a pending hatm, opening its reading window.
func (c *Client) StartHatm(ctx context.Context, hatmID string) (*api.Hatm, error) {
	var hatm api.Hatm
	if err := c.do(ctx, http.MethodPost, "/api/hatms/"+hatmID+"/start", nil, &hatm); err != nil {
		return nil, err
	}
	return &hatm, nil
}

// HatmProgress returns the derived progress aggregate for the hatm.
func (c *Client) HatmProgress(ctx context.Context, hatmID string) (*api.HatmProgress, error) {
	var progress api.HatmProgress
	if err := c.do(ctx, http.MethodGet, "/api/hatms/"+hatmID+"/progress", nil, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// CompleteHatm finishes the hatm regardless of how many juzs are read.
func (c *Client) CompleteHatm(ctx context.Context, hatmID string) (*api.Hatm, error) {
	var hatm api.Hatm
	if err := c.do(ctx, http.MethodPost, "/api/hatms/"+hatmID+"/complete", nil, &hatm); err != nil {
		return nil, err
	}
	return &hatm, nil
}

// CompleteJuz marks the caller's assignment as read.
func (c *Client) CompleteJuz(ctx context.Context, juzID string) (*api.Juz, error) {
	var juz api.Juz
	if err := c.do(ctx, http.MethodPost, "/api/juzs/"+juzID+"/complete", nil, &juz); err != nil {
		return nil, err
	}
	return &juz, nil
}
