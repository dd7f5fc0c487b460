package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/xela07ax/gigmarket-gateway/internal/domain"
	"github.com/xela07ax/gigmarket-gateway/internal/infra"
	"github.com/xela07ax/gigmarket-gateway/internal/infra/auth"
	"go.uber.org/zap"
)

// AuthService — типизированный фасад над HTTP-поверхностью auth-сервиса.
// Одна операция — один метод. Ретраев нет: транзиентные сбои бэкенда не
// забота шлюза, ошибка уходит в конвейер ошибок как есть.
//
// Bearer-токен вызывающего не хранится ни в каком разделяемом состоянии —
// он читается из контекста конкретного запроса прямо при сборке исходящего
// вызова, поэтому конкурентные сессии не могут перезатереть друг друга.
type AuthService struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
	metrics    *infra.Metrics
}

func NewAuthService(apiURL string, logger *zap.Logger, metrics *infra.Metrics) *AuthService {
	return &AuthService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    apiURL + "/api/v1/auth",
		logger:     logger.Named("auth-service"),
		metrics:    metrics,
	}
}

// SignUp регистрирует нового пользователя. Тело проксируется без изменений,
// валидацией занимается бэкенд.
func (s *AuthService) SignUp(ctx context.Context, body json.RawMessage) (*domain.AuthResponse, error) {
	return s.doAuth(ctx, http.MethodPost, "/signup", body, "signup")
}

// SignIn аутентифицирует пользователя; ответ несет bearer-токен,
// который контроллер завернет в браузерную сессию.
func (s *AuthService) SignIn(ctx context.Context, body json.RawMessage) (*domain.AuthResponse, error) {
	return s.doAuth(ctx, http.MethodPost, "/signin", body, "signin")
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*domain.AuthResponse, error) {
	return s.doAuth(ctx, http.MethodPut, "/forgot-password", domain.ForgotPasswordRequest{Email: email}, "forgotPassword")
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirmPassword string) (*domain.AuthResponse, error) {
	body := domain.ResetPasswordRequest{Password: password, ConfirmPassword: confirmPassword}
	return s.doAuth(ctx, http.MethodPut, "/reset-password/"+url.PathEscape(token), body, "resetPassword")
}

func (s *AuthService) ChangePassword(ctx context.Context, currentPassword, newPassword string) (*domain.AuthResponse, error) {
	body := domain.ChangePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}
	return s.doAuth(ctx, http.MethodPost, "/change-password", body, "changePassword")
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.AuthResponse, error) {
	return s.doAuth(ctx, http.MethodPut, "/verify-email", domain.VerifyEmailRequest{Token: token}, "verifyEmail")
}

func (s *AuthService) ResendEmail(ctx context.Context, req domain.ResendEmailRequest) (*domain.AuthResponse, error) {
	return s.doAuth(ctx, http.MethodPost, "/resend-email", req, "resendEmail")
}

func (s *AuthService) CurrentUser(ctx context.Context) (*domain.AuthResponse, error) {
	return s.doAuth(ctx, http.MethodGet, "/currentuser", nil, "getCurrentUser")
}

func (s *AuthService) RefreshToken(ctx context.Context, username string) (*domain.AuthResponse, error) {
	return s.doAuth(ctx, http.MethodGet, "/refresh-token/"+url.PathEscape(username), nil, "getRefreshToken")
}

// Gigs — pass-through поиска гигов. query уже закодирована как RawQuery.
func (s *AuthService) Gigs(ctx context.Context, from, size, gigType, query string) (*domain.SearchResponse, error) {
	path := fmt.Sprintf("/search/gigs/%s/%s/%s", url.PathEscape(from), url.PathEscape(size), url.PathEscape(gigType))
	if query != "" {
		path += "?" + query
	}
	out := &domain.SearchResponse{}
	if err := s.do(ctx, http.MethodGet, path, nil, out, "getGigs"); err != nil {
		return nil, err
	}
	return out, nil
}

// Gig возвращает один гиг по id.
func (s *AuthService) Gig(ctx context.Context, gigID string) (*domain.SearchResponse, error) {
	out := &domain.SearchResponse{}
	if err := s.do(ctx, http.MethodGet, "/search/gigs/"+url.PathEscape(gigID), nil, out, "getGig"); err != nil {
		return nil, err
	}
	return out, nil
}

// Seed просит бэкенд нагенерировать тестовых данных (dev-инструмент).
func (s *AuthService) Seed(ctx context.Context, count string) (*domain.AuthResponse, error) {
	return s.doAuth(ctx, http.MethodGet, "/seed/"+url.PathEscape(count), nil, "seed")
}

func (s *AuthService) doAuth(ctx context.Context, method, path string, body any, operation string) (*domain.AuthResponse, error) {
	out := &domain.AuthResponse{}
	if err := s.do(ctx, method, path, body, out, operation); err != nil {
		return nil, err
	}
	return out, nil
}

// do выполняет один исходящий вызов. Не-2xx ответ бэкенда транслируется
// вызывающему как есть (статус + message), транспортный сбой — как 503.
func (s *AuthService) do(ctx context.Context, method, path string, body, out any, operation string) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", operation, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Подстановка учетных данных: bearer именно этого запроса, из контекста
	if token, ok := auth.BearerToken(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.metrics.UpstreamErrors.WithLabelValues(operation).Inc()
		s.logger.Error("auth service unreachable", zap.String("operation", operation), zap.Error(err))
		return domain.NewUpstream(http.StatusServiceUnavailable, "Auth service is unavailable.", "AuthService "+operation)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", operation, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		s.metrics.UpstreamErrors.WithLabelValues(operation).Inc()
		return domain.NewUpstream(resp.StatusCode, upstreamMessage(respBody), "AuthService "+operation)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", operation, err)
		}
	}
	return nil
}

// upstreamMessage вытаскивает message из тела ошибки бэкенда.
func upstreamMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return "Auth service request failed."
}
