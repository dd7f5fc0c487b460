package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/xela07ax/gigmarket-gateway/internal/domain"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/respond"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/service"
	"github.com/xela07ax/gigmarket-gateway/internal/infra/auth"
	"go.uber.org/zap"
)

// AuthHandler — контроллеры signup/signin/signout.
// После успешного входа бэкендовский токен заворачивается в браузерную
// сессию: клиент сам bearer-токен никогда не видит.
type AuthHandler struct {
	service *service.AuthService
	session *auth.Session
	logger  *zap.Logger
}

func NewAuthHandler(s *service.AuthService, session *auth.Session, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, session: session, logger: logger.Named("auth-handler")}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(r)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	resp, err := h.service.SignUp(r.Context(), body)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	if err := h.session.Write(w, resp.Token); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	// Токен наружу не отдаем — он живет только внутри подписанной cookie
	respond.JSON(w, http.StatusCreated, domain.AuthResponse{Message: resp.Message, User: resp.User})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(r)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	resp, err := h.service.SignIn(r.Context(), body)
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

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.session.Clear(w)
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Logout successful."})
}

// readJSONBody читает тело как есть для проксирования на бэкенд,
// отсекая только откровенный мусор.
func readJSONBody(r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 || !json.Valid(body) {
		return nil, domain.NewBadRequest("Invalid request body.", "GatewayService readJSONBody()")
	}
	return body, nil
}
