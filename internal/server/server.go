// Package server exposes the hatm services over the REST/JSON contract
// consumed by the Mini App and the CLI client.
package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hatmapp/hatm/internal/auth"
	"github.com/hatmapp/hatm/internal/service"
	"github.com/hatmapp/hatm/internal/storage"
)

// Server wires the service layer to HTTP handlers.
type Server struct {
	users  *service.UserService
	groups *service.GroupService
	hatms  *service.HatmService
	juzs   *service.JuzService

	initData *auth.Validator
	validate *validator.Validate
}

// New creates a Server over the given store. The auth validator decides
// whether init-data signatures are enforced (production) or not (dev).
func New(store storage.Store, initData *auth.Validator) *Server {
	hatms := service.NewHatmService(store)
	return &Server{
		users:    service.NewUserService(store),
		groups:   service.NewGroupService(store, hatms),
		hatms:    hatms,
		juzs:     service.NewJuzService(store, hatms),
		initData: initData,
		validate: validator.New(),
	}
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/users/me", s.requireUser(s.handleMe))
	mux.HandleFunc("GET /api/users/me/juzs", s.requireUser(s.handleMyJuzs))
	mux.HandleFunc("GET /api/users/me/debts", s.requireUser(s.handleMyDebts))

	mux.HandleFunc("GET /api/groups", s.requireUser(s.handleListGroups))
	mux.HandleFunc("POST /api/groups", s.requireUser(s.handleCreateGroup))
	mux.HandleFunc("POST /api/groups/join", s.requireUser(s.handleJoinGroup))
	mux.HandleFunc("GET /api/groups/{id}", s.requireUser(s.handleGetGroup))
	mux.HandleFunc("GET /api/groups/{id}/hatms", s.requireUser(s.handleListHatms))
	mux.HandleFunc("POST /api/groups/{id}/hatms", s.requireUser(s.handleCreateHatm))

	mux.HandleFunc("GET /api/hatms/{id}", s.requireUser(s.handleGetHatm))
	mux.HandleFunc("POST /api/hatms/{id}/start", s.requireUser(s.handleStartHatm))
	mux.HandleFunc("GET /api/hatms/{id}/progress", s.requireUser(s.handleHatmProgress))
	mux.HandleFunc("POST /api/hatms/{id}/complete", s.requireUser(s.handleCompleteHatm))

	mux.HandleFunc("POST /api/juzs/{id}/complete", s.requireUser(s.handleCompleteJuz))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", handleHealth)

	return metricsMiddleware(loggingMiddleware(corsMiddleware(mux)))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
