package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/logosreach/pathway-engine/pkg/apperrors"
	"github.com/logosreach/pathway-engine/pkg/models"
	"github.com/logosreach/pathway-engine/pkg/services"
)

// RecommendResponse is the POST /recommend response body. Success is false
// when the submission was accepted but no recommendation could be produced.
type RecommendResponse struct {
	Success          bool                          `json:"success"`
	Data             *models.PathwayRecommendation `json:"data,omitempty"`
	UserID           string                        `json:"user_id,omitempty"`
	RecommendationID string                        `json:"recommendation_id,omitempty"`
	Cached           bool                          `json:"cached"`
	Error            string                        `json:"error,omitempty"`
}

// HistoryResponse is the GET /users/{user_id}/history response body.
type HistoryResponse struct {
	Success         bool                           `json:"success"`
	UserID          string                         `json:"user_id"`
	Recommendations []models.RecommendationSummary `json:"recommendations"`
}

// RecommendationsHandler serves the recommendation pipeline and history
// endpoints.
type RecommendationsHandler struct {
	svc    services.RecommendationService
	logger *zap.Logger
}

// NewRecommendationsHandler creates a new RecommendationsHandler.
func NewRecommendationsHandler(svc services.RecommendationService, logger *zap.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the handler's routes on the given mux, wrapped in
// the provided middleware chain.
func (h *RecommendationsHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	mux.Handle("POST /recommend", wrap(http.HandlerFunc(h.Recommend)))
	mux.Handle("GET /users/{user_id}/history", wrap(http.HandlerFunc(h.History)))
}

// Recommend handles POST /recommend. Client faults are 4xx; upstream and
// persistence faults are reported in-band with success=false so clients can
// distinguish "your request is wrong" from "we could not serve it".
func (h *RecommendationsHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return
	}

	result, err := h.svc.Recommend(r.Context(), &req)
	if err != nil {
		h.writeRecommendError(w, err)
		return
	}

	response := RecommendResponse{
		Success:          true,
		Data:             result.Recommendation,
		UserID:           result.UserID.String(),
		RecommendationID: result.RecommendationID.String(),
		Cached:           result.Cached,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode recommend response", zap.Error(err))
	}
}

func (h *RecommendationsHandler) writeRecommendError(w http.ResponseWriter, err error) {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		_ = ErrorResponse(w, http.StatusBadRequest, "validation_error", ve.Error())
		return
	}

	// A missing upstream credential is client-actionable in the sense that
	// retrying won't help; report it as a request-level error, generically.
	if errors.Is(err, apperrors.ErrNotConfigured) {
		_ = ErrorResponse(w, http.StatusBadRequest, "not_configured",
			"recommendation service is not configured")
		return
	}

	// The failure detail stays in logs; clients get a generic message.
	h.logger.Error("Recommendation pipeline failed", zap.Error(err))

	_ = WriteJSON(w, http.StatusOK, RecommendResponse{
		Success: false,
		Error:   "recommendation could not be generated, please try again later",
	})
}

// History handles GET /users/{user_id}/history.
func (h *RecommendationsHandler) History(w http.ResponseWriter, r *http.Request) {
	externalUserID := r.PathValue("user_id")
	if externalUserID == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	summaries, err := h.svc.History(r.Context(), externalUserID)
	if err != nil {
		h.logger.Error("History lookup failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to load history")
		return
	}

	response := HistoryResponse{
		Success:         true,
		UserID:          externalUserID,
		Recommendations: summaries,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode history response", zap.Error(err))
	}
}
