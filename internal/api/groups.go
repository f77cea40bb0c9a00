package api

import (
	"net/http"

	"wordtrainer/internal/domain"

	"github.com/samber/lo"
)

type groupResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type createGroupRequest struct {
	Name string `json:"name" validate:"required"`
}

type renameGroupRequest struct {
	OldName string `json:"oldName" validate:"required"`
	NewName string `json:"newName" validate:"required"`
}

func toGroupResponse(g domain.Group) groupResponse {
	return groupResponse{ID: g.ID, Name: g.Name}
}

// listGroups handles GET /api/groups
func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.members.Groups(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, lo.Map(groups, func(g domain.Group, _ int) groupResponse {
		return toGroupResponse(g)
	}))
}

// createGroup handles POST /api/groups
func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeRequest(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	group, err := s.members.CreateGroup(r.Context(), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toGroupResponse(*group))
}

// renameGroup handles PUT /api/groups/rename
func (s *Server) renameGroup(w http.ResponseWriter, r *http.Request) {
	var req renameGroupRequest
	if err := decodeRequest(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	group, err := s.members.RenameGroup(r.Context(), req.OldName, req.NewName)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toGroupResponse(*group))
}

// deleteGroup handles DELETE /api/groups/{id}
func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.members.DeleteGroup(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listGroupWords handles GET /api/groups/{id}/words
func (s *Server) listGroupWords(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	words, err := s.members.ListWordsInGroup(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toWordResponses(words))
}

// addWordToGroup handles PUT /api/groups/{id}/words/{wordID}
func (s *Server) addWordToGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	wordID, err := pathID(r, "wordID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.members.AddWordToGroup(r.Context(), groupID, wordID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addWordsToGroup handles PUT /api/groups/{id}/words with a body of word ids
func (s *Server) addWordsToGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req idsRequest
	if err := decodeRequest(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.members.AddWordsToGroup(r.Context(), groupID, req.IDs); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
