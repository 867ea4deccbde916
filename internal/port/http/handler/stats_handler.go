package handler

import (
	"net/http"

	"github.com/homenest/property-service/internal/platform/logger"
	"github.com/homenest/property-service/internal/usecase"
	"go.uber.org/zap"
)

// StatsHandler serves the marketplace summary endpoint.
type StatsHandler struct {
	stats  *usecase.StatsUsecase
	logger *logger.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stats *usecase.StatsUsecase, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		logger: log.Named("StatsHandler"),
	}
}

// HandleStats handles GET /api/stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute stats", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// HandleStatus handles GET /: the plain-text server status line.
func HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("HomeNest Server is running smoothly!"))
}
