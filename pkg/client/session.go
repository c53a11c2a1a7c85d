// Package client is the Go client for the hatm REST API: session
// bootstrap, a typed HTTP gateway, and a workflow controller that keeps
// a consistent snapshot of one hatm across mutations.
package client

import (
	"net/url"
	"os"
)

// DevInitData is the sentinel payload used when no real Telegram init
// data is available. It is well formed and carries a fixed development
// profile, so a dev-mode server accepts it while a production server
// rejects the fabricated hash.
const DevInitData = `user=%7B%22id%22%3A99281932%2C%22first_name%22%3A%22Dev%22%2C%22username%22%3A%22devuser%22%7D&auth_date=1700000000&hash=dev`

// Session is the identity handed to every request. It is resolved once
// at startup and never changes afterwards.
type Session struct {
	// InitData is the raw Telegram init-data payload sent in the
	// X-Telegram-Init-Data header.
	InitData string

	// Dev is true when the session fell back to the sentinel payload.
	Dev bool
}

// NewSession resolves the session from the host environment. Outside
// Telegram the TELEGRAM_INIT_DATA variable plays the role of the web
// app bridge; when it is empty the session falls back to DevInitData.
// Either way the session is usable immediately.
func NewSession() Session {
	if raw := os.Getenv("TELEGRAM_INIT_DATA"); raw != "" {
		return Session{InitData: raw}
	}
	return Session{InitData: DevInitData, Dev: true}
}

// SessionFromInitData wraps an explicit init-data payload, for callers
// that obtained one out of band.
func SessionFromInitData(initData string) Session {
	return Session{InitData: initData}
}

// User returns the raw user JSON embedded in the init data, or "" if
// the payload has none. The server is the authority on identity; this
// is only for display before the first /users/me round trip.
func (s Session) User() string {
	values, err := url.ParseQuery(s.InitData)
	if err != nil {
		return ""
	}
	return values.Get("user")
}
