package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/gigmarket-gateway/internal/domain"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/respond"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/service"
	"go.uber.org/zap"
)

// PasswordHandler — контроллеры восстановления и смены пароля.
type PasswordHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

func NewPasswordHandler(s *service.AuthService, logger *zap.Logger) *PasswordHandler {
	return &PasswordHandler{service: s, logger: logger.Named("password-handler")}
}

func (h *PasswordHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, domain.NewBadRequest("Invalid request body.", "Password forgotPassword()"))
		return
	}

	resp, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": resp.Message})
}

func (h *PasswordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req domain.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, domain.NewBadRequest("Invalid request body.", "Password resetPassword()"))
		return
	}

	resp, err := h.service.ResetPassword(r.Context(), token, req.Password, req.ConfirmPassword)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": resp.Message})
}

func (h *PasswordHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, domain.NewBadRequest("Invalid request body.", "Password changePassword()"))
		return
	}

	resp, err := h.service.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": resp.Message})
}
