package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/logosreach/pathway-engine/pkg/apperrors"
	"github.com/logosreach/pathway-engine/pkg/models"
	"github.com/logosreach/pathway-engine/pkg/questionbank"
)

// QuestionsResponse is the GET /questions/{entry_type} response body.
type QuestionsResponse struct {
	EntryType       models.EntryType        `json:"entry_type"`
	InitialQuestion string                  `json:"initial_question"`
	Questions       []questionbank.Question `json:"questions"`
}

// QuestionsHandler serves questionnaire flows.
type QuestionsHandler struct {
	bank   *questionbank.Bank
	logger *zap.Logger
}

// NewQuestionsHandler creates a new QuestionsHandler.
func NewQuestionsHandler(bank *questionbank.Bank, logger *zap.Logger) *QuestionsHandler {
	return &QuestionsHandler{bank: bank, logger: logger}
}

// RegisterRoutes registers the handler's routes on the given mux, wrapped in
// the provided middleware chain.
func (h *QuestionsHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	mux.Handle("GET /questions/{entry_type}", wrap(http.HandlerFunc(h.GetQuestions)))
}

// GetQuestions handles GET /questions/{entry_type}.
func (h *QuestionsHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	entryType := r.PathValue("entry_type")
	if !models.IsValidEntryType(entryType) {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_entry_type",
			"entry_type must be 'yes_i_know' or 'no_im_new'")
		return
	}

	questions, err := h.bank.Questions(models.EntryType(entryType))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "flow_not_found",
				"no question flow for this entry type")
			return
		}
		h.logger.Error("Question bank read failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error",
			"failed to load questions")
		return
	}

	response := QuestionsResponse{
		EntryType:       models.EntryType(entryType),
		InitialQuestion: h.bank.InitialQuestion(),
		Questions:       questions,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode questions response", zap.Error(err))
	}
}
