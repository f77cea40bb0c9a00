package api

import (
	"net/http"
	"strings"

	"wordtrainer/internal/domain"
	"wordtrainer/internal/service"

	"github.com/go-chi/chi/v5"
)

type answerResponse struct {
	Correct            bool   `json:"correct"`
	ForeignWord        string `json:"foreignWord"`
	CorrectTranslation string `json:"correctTranslation"`
	UserAnswer         string `json:"userAnswer"`
	Reason             string `json:"reason,omitempty"`
}

type sessionResponse struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	DeckSize   int             `json:"deckSize"`
	Index      int             `json:"index"`
	Current    *promptResponse `json:"current,omitempty"`
	LastAnswer *answerResponse `json:"lastAnswer,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// promptResponse shows the word to translate without its translation
type promptResponse struct {
	ID    int64    `json:"id"`
	Forms []string `json:"forms"`
}

type checkAnswerRequest struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	UserWord string `json:"userWord"`
}

type startSessionRequest struct {
	IDs []int64 `json:"ids" validate:"omitempty,dive,gt=0"`
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

type submitAnswerResponse struct {
	Result  answerResponse  `json:"result"`
	Session sessionResponse `json:"session"`
}

func toAnswerResponse(a domain.AnswerResult) answerResponse {
	return answerResponse{
		Correct:            a.Correct,
		ForeignWord:        a.ForeignWord,
		CorrectTranslation: a.CorrectTranslation,
		UserAnswer:         a.UserAnswer,
		Reason:             string(a.Reason),
	}
}

func toSessionResponse(id string, p *service.PracticeSession) sessionResponse {
	resp := sessionResponse{
		ID:       id,
		Status:   string(p.Status()),
		DeckSize: len(p.Deck()),
		Index:    p.Index(),
	}
	if word, ok := p.Current(); ok {
		resp.Current = &promptResponse{ID: word.ID, Forms: word.Forms()}
	}
	if last, ok := p.LastAnswer(); ok {
		answer := toAnswerResponse(last)
		resp.LastAnswer = &answer
	}
	if err := p.Err(); err != nil {
		resp.Error = safeMessage(err, statusFor(err))
	}
	return resp
}

// practiceWords handles GET /api/practice?ids=1,2,3
func (s *Server) practiceWords(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r, "ids")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	words, err := s.store.FetchWordsByIDs(r.Context(), ids)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toWordResponses(words))
}

// checkAnswer handles POST /api/practice
func (s *Server) checkAnswer(w http.ResponseWriter, r *http.Request) {
	var req checkAnswerRequest
	if err := decodeRequest(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.store.CheckAnswer(r.Context(), req.ID, strings.TrimSpace(req.UserWord))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toAnswerResponse(*result))
}

// startSession handles POST /api/practice/sessions
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeRequest(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	id, err := s.sessions.Create()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var resp sessionResponse
	err = s.sessions.With(id, func(p *service.PracticeSession) error {
		startErr := p.Start(r.Context(), req.IDs)
		resp = toSessionResponse(id, p)
		return startErr
	})
	if err != nil {
		// the session stays in Error so the client can inspect it
		s.requestLogger(r).Warn("Practice session failed to start", zapError(err, statusFor(err))...)
	}
	s.respondJSON(w, http.StatusCreated, resp)
}

// getSession handles GET /api/practice/sessions/{sessionID}
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var resp sessionResponse
	err := s.sessions.With(id, func(p *service.PracticeSession) error {
		resp = toSessionResponse(id, p)
		return nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// submitAnswer handles POST /api/practice/sessions/{sessionID}/answer
func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var req submitAnswerRequest
	if err := decodeRequest(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	var resp submitAnswerResponse
	err := s.sessions.With(id, func(p *service.PracticeSession) error {
		result, err := p.Submit(r.Context(), req.Answer)
		if err != nil {
			return err
		}
		resp = submitAnswerResponse{
			Result:  toAnswerResponse(*result),
			Session: toSessionResponse(id, p),
		}
		return nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// cancelSession handles DELETE /api/practice/sessions/{sessionID}
func (s *Server) cancelSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Remove(chi.URLParam(r, "sessionID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
