package server

import (
	"net/http"

	"github.com/hatmapp/hatm/pkg/api"
)

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.List(r.Context(), userFrom(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if groups == nil {
		groups = []*api.Group{}
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req api.CreateGroupRequest
	if err := s.decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "group name is required")
		return
	}

	group, err := s.groups.Create(r.Context(), userFrom(r.Context()), req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req api.JoinGroupRequest
	if err := s.decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invite code must be 8 letters or digits")
		return
	}

	group, err := s.groups.Join(r.Context(), userFrom(r.Context()), req.InviteCode)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	detail, err := s.groups.Detail(r.Context(), r.PathValue("id"), userFrom(r.Context()).ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}
