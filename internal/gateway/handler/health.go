package handler

import (
	"net/http"

	"github.com/xela07ax/gigmarket-gateway/internal/gateway/respond"
)

// ReadinessReporter отдает состояние поисковой зависимости.
// Реализуется search.HealthMonitor.
type ReadinessReporter interface {
	Healthy() bool
}

type HealthHandler struct {
	search ReadinessReporter
}

func NewHealthHandler(search ReadinessReporter) *HealthHandler {
	return &HealthHandler{search: search}
}

// Health — liveness всегда OK (иначе до хендлера бы не дошло),
// готовность поиска отдается отдельным полем для admission-гейта.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"message":     "API Gateway service is healthy and OK.",
		"searchReady": h.search.Healthy(),
	})
}
