package server

import (
	"net/http"

	"github.com/hatmapp/hatm/pkg/api"
)

func (s *Server) handleListHatms(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	hatms, err := s.hatms.ListByGroup(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if hatms == nil {
		hatms = []*api.Hatm{}
	}
	respondJSON(w, http.StatusOK, hatms)
}

func (s *Server) handleCreateHatm(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req api.CreateHatmRequest
	if err := s.decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "duration and participants must be between 1 and 30")
		return
	}

	hatm, err := s.hatms.Create(r.Context(), r.PathValue("id"), user.ID, req.DurationDays, req.ParticipantsCount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, hatm)
}

func (s *Server) handleGetHatm(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	detail, err := s.hatms.Detail(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleStartHatm(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	hatm, err := s.hatms.Start(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hatm)
}

func (s *Server) handleHatmProgress(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	progress, err := s.hatms.Progress(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

func (s *Server) handleCompleteHatm(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	hatm, err := s.hatms.Finish(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hatm)
}

func (s *Server) handleCompleteJuz(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	juz, err := s.juzs.Complete(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, juz)
}
