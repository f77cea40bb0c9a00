package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"wordtrainer/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// validate is shared by all request DTOs
var validate = validator.New()

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs), errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// safeMessage hides the cause of server side failures
func safeMessage(err error, status int) string {
	switch {
	case status == http.StatusBadGateway:
		return "storage is unavailable"
	case status >= http.StatusInternalServerError:
		return "internal error"
	default:
		return err.Error()
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.requestLogger(r).Error("Request failed", zapError(err, status)...)
	} else {
		s.requestLogger(r).Debug("Request rejected", zapError(err, status)...)
	}
	s.respondJSON(w, status, errorResponse{Error: safeMessage(err, status)})
}

// decodeRequest decodes a JSON body into v and validates its struct tags
func decodeRequest(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("body", fmt.Sprintf("is not valid JSON: %v", err))
	}
	return validate.Struct(v)
}

// pathID parses a positive integer path parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, fmt.Sprintf("must be a positive integer, got %q", raw))
	}
	return id, nil
}

// queryIDs parses a comma separated id list such as "ids=1,2,3"
func queryIDs(r *http.Request, name string) ([]int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, domain.NewValidationError(name, "is required")
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, domain.NewValidationError(name, fmt.Sprintf("has an invalid id %q", part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
