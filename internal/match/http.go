package match

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/kickoff-quiz/internal/question"
	httperrors "github.com/gokatarajesh/kickoff-quiz/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for match operations.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for match endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "match_http").Logger(),
	}
}

// Register mounts the match routes on mux.
func (h *HTTPHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/matches", h.Create)
	mux.HandleFunc("GET /v1/matches", h.List)
	mux.HandleFunc("GET /v1/matches/{id}", h.Get)
	mux.HandleFunc("GET /v1/matches/{id}/result", h.Result)
	mux.HandleFunc("POST /v1/matches/{id}/answers", h.SubmitAnswer)
	mux.HandleFunc("DELETE /v1/matches/{id}", h.Abort)
}

// Create handles POST /v1/matches
func (h *HTTPHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	snap, err := h.service.Create(r.Context(), req)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, cfgErr.Error(), cfgErr.Field)
			return
		}
		h.logger.Error().Err(err).Msg("failed to create match")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeMatchCreationFailed, "Could not create match")
		return
	}

	h.respondJSON(w, http.StatusCreated, snap)
}

// List handles GET /v1/matches
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{"matches": h.service.List()})
}

// Get handles GET /v1/matches/{id}
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

// Result handles GET /v1/matches/{id}/result
func (h *HTTPHandlers) Result(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Result(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

// SubmitAnswerRequest is the body of POST /v1/matches/{id}/answers. Seq must
// echo the seq of the question being answered.
type SubmitAnswerRequest struct {
	PlayerID string `json:"player_id"`
	Seq      uint64 `json:"seq"`
	Index    int    `json:"index"`
	Literal  string `json:"literal,omitempty"`
}

// SubmitAnswer handles POST /v1/matches/{id}/answers. Rejected answers are
// reported in the ack body, not as HTTP errors.
func (h *HTTPHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.PlayerID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "player_id is required", "player_id")
		return
	}
	if req.Seq == 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "seq is required", "seq")
		return
	}

	ack, err := h.service.Submit(r.Context(), r.PathValue("id"), req.PlayerID, Submission{
		Seq:    req.Seq,
		Answer: question.Answer{Index: req.Index, Literal: req.Literal},
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, ack)
}

// Abort handles DELETE /v1/matches/{id}
func (h *HTTPHandlers) Abort(w http.ResponseWriter, r *http.Request) {
	reason := r.URL.Query().Get("reason")
	if err := h.service.Abort(r.PathValue("id"), reason); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeMatchNotFound, "Match not found")
	case errors.Is(err, ErrAlreadyFinished):
		httperrors.RespondConflict(w, httperrors.ErrCodeMatchFinished, "Match already finished")
	case errors.Is(err, ErrMatchInProgress):
		httperrors.RespondConflict(w, httperrors.ErrCodeMatchInProgress, "Match still in progress")
	default:
		h.logger.Error().Err(err).Msg("match request failed")
		httperrors.RespondInternalError(w, "Request failed")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
