package handler

import (
	"encoding/json"
	"net/http"

	"github.com/xela07ax/gigmarket-gateway/internal/domain"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/respond"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/service"
	"go.uber.org/zap"
)

type VerifyEmailHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

func NewVerifyEmailHandler(s *service.AuthService, logger *zap.Logger) *VerifyEmailHandler {
	return &VerifyEmailHandler{service: s, logger: logger.Named("verify-email-handler")}
}

func (h *VerifyEmailHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, domain.NewBadRequest("Invalid request body.", "VerifyEmail update()"))
		return
	}

	resp, err := h.service.VerifyEmail(r.Context(), req.Token)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, domain.AuthResponse{Message: resp.Message, User: resp.User})
}
