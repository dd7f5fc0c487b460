package auth

import (
	"context"
	"net/http"

	"github.com/xela07ax/gigmarket-gateway/internal/domain"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/respond"
	"go.uber.org/zap"
)

// Тип для ключа в контексте (избегаем коллизий)
type ctxKey string

const (
	bearerTokenKey ctxKey = "bearer_token"
	currentUserKey ctxKey = "current_user"
)

// WithBearerToken кладет bearer-токен вызывающего в контекст запроса.
// Токен живет ровно столько, сколько сам запрос: никакого разделяемого
// состояния между конкурентными запросами.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey, token)
}

// BearerToken достает bearer-токен текущего запроса, если он есть.
func BearerToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerTokenKey).(string)
	return token, ok && token != ""
}

// WithCurrentUser прикрепляет identity к контексту запроса.
func WithCurrentUser(ctx context.Context, payload *domain.AuthPayload) context.Context {
	return context.WithValue(ctx, currentUserKey, payload)
}

// CurrentUser достает identity, прикрепленную VerifyUser.
func CurrentUser(ctx context.Context) (*domain.AuthPayload, bool) {
	payload, ok := ctx.Value(currentUserKey).(*domain.AuthPayload)
	return payload, ok && payload != nil
}

// Middleware — цепочка проверок сессии на входе в шлюз.
type Middleware struct {
	session  *Session
	verifier *TokenVerifier
	logger   *zap.Logger
}

func NewMiddleware(session *Session, verifier *TokenVerifier, logger *zap.Logger) *Middleware {
	return &Middleware{
		session:  session,
		verifier: verifier,
		logger:   logger.Named("auth-middleware"),
	}
}

// PropagateSession выполняется на каждом запросе, включая незащищенные роуты:
// если cookie несет валидный артефакт, bearer-токен уезжает в контекст и
// дальше подставляется фасадом auth-сервиса в исходящий Authorization.
// Невалидная cookie здесь молча игнорируется — отказ отдает только VerifyUser.
func (m *Middleware) PropagateSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, err := m.session.Read(r); err == nil {
			r = r.WithContext(WithBearerToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

// verifyUser — чистое решение первого гейта: identity либо отказ.
// Отсутствие сессии и провал проверки дают один и тот же ответ, чтобы
// не подсказывать, что именно не так с артефактом.
func (m *Middleware) verifyUser(r *http.Request) (*domain.AuthPayload, *domain.Error) {
	token, ok := BearerToken(r.Context())
	if !ok {
		return nil, domain.NewNotAuthorized(
			"Token is not available. Please login again.",
			"GatewayService verifyUser()",
		)
	}

	payload, err := m.verifier.Verify(token)
	if err != nil {
		return nil, domain.NewNotAuthorized(
			"Token is not available. Please login again.",
			"GatewayService verifyUser() method invalid session error",
		)
	}

	return payload, nil
}

// VerifyUser — первый гейт: требует живую сессию и валидный bearer-токен.
// При отказе хендлер не выполняется.
func (m *Middleware) VerifyUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, denied := m.verifyUser(r)
		if denied != nil {
			respond.Error(w, m.logger, denied)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCurrentUser(r.Context(), payload)))
	})
}

// CheckAuthentication — второй гейт для роутов, которым нужна identity.
// Срабатывает, если VerifyUser по какой-то причине не отработал раньше.
func (m *Middleware) CheckAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			respond.Error(w, m.logger, domain.NewBadRequest(
				"Authentication is required to access this route.",
				"GatewayService checkAuthentication() method invalid session error",
			))
			return
		}

		next.ServeHTTP(w, r)
	})
}
