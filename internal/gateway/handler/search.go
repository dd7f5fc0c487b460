package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/respond"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/service"
	"go.uber.org/zap"
)

// SearchHandler — pass-through поиска гигов. Шлюз ничего не знает про
// структуру выдачи, просто транслирует конверт бэкенда.
type SearchHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

func NewSearchHandler(s *service.AuthService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{service: s, logger: logger.Named("search-handler")}
}

func (h *SearchHandler) Gigs(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Gigs(
		r.Context(),
		chi.URLParam(r, "from"),
		chi.URLParam(r, "size"),
		chi.URLParam(r, "type"),
		r.URL.RawQuery,
	)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *SearchHandler) Gig(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Gig(r.Context(), chi.URLParam(r, "gigId"))
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *SearchHandler) Seed(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Seed(r.Context(), chi.URLParam(r, "count"))
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}
