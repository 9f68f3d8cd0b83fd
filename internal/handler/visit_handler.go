package handler

import (
	"log/slog"
	"marksentry/internal/service"
	"net/http"

	"github.com/go-chi/render"
)

type VisitHandler struct {
	visits *service.VisitCounter
	logger *slog.Logger
}

func NewVisitHandler(visits *service.VisitCounter, logger *slog.Logger) *VisitHandler {
	return &VisitHandler{
		visits: visits,
		logger: logger.With(slog.String("handler", "visits")),
	}
}

// GetVisits returns the number of distinct visitors.
func (h *VisitHandler) GetVisits(w http.ResponseWriter, r *http.Request) {
	count, err := h.visits.Count(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read visit count", slog.String("error", err.Error()))
		renderError(w, r, http.StatusInternalServerError, "failed to read visit count")
		return
	}
	render.JSON(w, r, map[string]int{"count": count})
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
