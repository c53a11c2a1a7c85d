package server

import (
	"net/http"

	"github.com/hatmapp/hatm/pkg/api"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	respondJSON(w, http.StatusOK, api.User{
		ID:         user.ID,
		TelegramID: user.TelegramID,
		Username:   user.Username,
		FirstName:  user.FirstName,
	})
}

func (s *Server) handleMyJuzs(w http.ResponseWriter, r *http.Request) {
	stats, err := s.juzs.Stats(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleMyDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.juzs.Debts(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, debts)
}
