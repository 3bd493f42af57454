package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/logosreach/pathway-engine/pkg/models"
)

// PathwaysResponse is the GET /pathways response body.
type PathwaysResponse struct {
	Pathways []models.Pathway `json:"pathways"`
}

// PathwaysHandler serves the static pathway registry.
type PathwaysHandler struct {
	pathways []models.Pathway
	logger   *zap.Logger
}

// NewPathwaysHandler creates a new PathwaysHandler.
func NewPathwaysHandler(pathways []models.Pathway, logger *zap.Logger) *PathwaysHandler {
	return &PathwaysHandler{pathways: pathways, logger: logger}
}

// RegisterRoutes registers the handler's routes on the given mux, wrapped in
// the provided middleware chain.
func (h *PathwaysHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	mux.Handle("GET /pathways", wrap(http.HandlerFunc(h.GetPathways)))
}

// GetPathways handles GET /pathways.
func (h *PathwaysHandler) GetPathways(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, PathwaysResponse{Pathways: h.pathways}); err != nil {
		h.logger.Error("Failed to encode pathways response", zap.Error(err))
	}
}
