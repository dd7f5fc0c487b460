package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/gigmarket-gateway/internal/domain"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/respond"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/service"
	"github.com/xela07ax/gigmarket-gateway/internal/infra/auth"
	"go.uber.org/zap"
)

// CurrentUserHandler — операции, доступные только с живой сессией.
type CurrentUserHandler struct {
	service *service.AuthService
	session *auth.Session
	logger  *zap.Logger
}

func NewCurrentUserHandler(s *service.AuthService, session *auth.Session, logger *zap.Logger) *CurrentUserHandler {
	return &CurrentUserHandler{service: s, session: session, logger: logger.Named("current-user-handler")}
}

func (h *CurrentUserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CurrentUser(r.Context())
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, domain.AuthResponse{Message: resp.Message, User: resp.User})
}

func (h *CurrentUserHandler) ResendEmail(w http.ResponseWriter, r *http.Request) {
	var req domain.ResendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, domain.NewBadRequest("Invalid request body.", "CurrentUser resendEmail()"))
		return
	}

	resp, err := h.service.ResendEmail(r.Context(), req)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, domain.AuthResponse{Message: resp.Message, User: resp.User})
}

// RefreshToken просит бэкенд выпустить свежий bearer-токен и тут же
// перевыпускает сессию — ротация артефакта без релогина.
func (h *CurrentUserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	resp, err := h.service.RefreshToken(r.Context(), username)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	if err := h.session.Write(w, resp.Token); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, domain.AuthResponse{Message: resp.Message, User: resp.User})
}
