package api

import (
	"net/http"
	"time"

	"wordtrainer/internal/domain"

	"github.com/samber/lo"
)

type wordResponse struct {
	ID             int64     `json:"id"`
	ForeignWord    string    `json:"foreignWord"`
	TranslatedWord string    `json:"translatedWord"`
	Forms          []string  `json:"forms"`
	GroupID        *int64    `json:"groupId"`
	CreatedAt      time.Time `json:"createdAt"`
}

type createWordRequest struct {
	ForeignWord    string `json:"foreignWord" validate:"required"`
	TranslatedWord string `json:"translatedWord" validate:"required"`
	GroupID        *int64 `json:"groupId" validate:"omitempty,gt=0"`
}

type updateWordRequest struct {
	ForeignWord    string `json:"foreignWord" validate:"required"`
	TranslatedWord string `json:"translatedWord" validate:"required"`
}

type idsRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

func toWordResponse(w domain.Word) wordResponse {
	return wordResponse{
		ID:             w.ID,
		ForeignWord:    w.ForeignWord,
		TranslatedWord: w.TranslatedWord,
		Forms:          w.Forms(),
		GroupID:        w.GroupID,
		CreatedAt:      w.CreatedAt,
	}
}

func toWordResponses(words []domain.Word) []wordResponse {
	return lo.Map(words, func(w domain.Word, _ int) wordResponse { return toWordResponse(w) })
}

// listWords handles GET /api/words
func (s *Server) listWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.members.Words(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toWordResponses(words))
}

// createWord handles POST /api/words
func (s *Server) createWord(w http.ResponseWriter, r *http.Request) {
	var req createWordRequest
	if err := decodeRequest(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	word, err := s.members.CreateWord(r.Context(), req.ForeignWord, req.TranslatedWord, req.GroupID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toWordResponse(*word))
}

// updateWord handles PUT /api/words/{id}
func (s *Server) updateWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req updateWordRequest
	if err := decodeRequest(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	word, err := s.members.UpdateWord(r.Context(), id, req.ForeignWord, req.TranslatedWord)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toWordResponse(*word))
}

// deleteWords handles DELETE /api/words with a body of ids
func (s *Server) deleteWords(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := decodeRequest(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.members.DeleteWords(r.Context(), req.IDs); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteWord handles DELETE /api/words/{id}
func (s *Server) deleteWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.members.DeleteWords(r.Context(), []int64{id}); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// removeWordFromGroup handles DELETE /api/words/{id}/group
func (s *Server) removeWordFromGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.members.RemoveWordFromGroup(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
