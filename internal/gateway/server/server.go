package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xela07ax/gigmarket-gateway/internal/domain"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/handler"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/respond"
	"github.com/xela07ax/gigmarket-gateway/internal/infra"
	"github.com/xela07ax/gigmarket-gateway/internal/infra/auth"
	"go.uber.org/zap"
)

type GatewayServer struct {
	router  *chi.Mux
	logger  *zap.Logger
	cfg     *infra.Config
	metrics *infra.Metrics

	// Гейты сессии: propagate -> verify -> check
	authMW *auth.Middleware

	// Обработчики по доменам шлюза
	authHandler        *handler.AuthHandler        // /api/v1/auth/signup|signin|signout
	passwordHandler    *handler.PasswordHandler    // forgot/reset/change password
	verifyEmailHandler *handler.VerifyEmailHandler // /api/v1/auth/verify-email
	currentUserHandler *handler.CurrentUserHandler // currentuser, resend-email, refresh-token
	searchHandler      *handler.SearchHandler      // pass-through поиска гигов
	healthHandler      *handler.HealthHandler      // /gateway-health
}

// NewGatewayServer инициализирует шлюз со всеми зависимостями
func NewGatewayServer(
	cfg *infra.Config,
	logger *zap.Logger,
	metrics *infra.Metrics,
	authMW *auth.Middleware,
	authH *handler.AuthHandler,
	passwordH *handler.PasswordHandler,
	verifyEmailH *handler.VerifyEmailHandler,
	currentUserH *handler.CurrentUserHandler,
	searchH *handler.SearchHandler,
	healthH *handler.HealthHandler,
) *GatewayServer {
	s := &GatewayServer{
		router:             chi.NewRouter(),
		logger:             logger.Named("gateway"),
		cfg:                cfg,
		metrics:            metrics,
		authMW:             authMW,
		authHandler:        authH,
		passwordHandler:    passwordH,
		verifyEmailHandler: verifyEmailH,
		currentUserHandler: currentUserH,
		searchHandler:      searchH,
		healthHandler:      healthH,
	}

	s.routes()
	return s
}

func (s *GatewayServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(TracingMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.metricsMiddleware)

	// Bearer из cookie уезжает в контекст на любом роуте, где cookie есть
	r.Use(s.authMW.PropagateSession)

	// Несматченный путь — первая стадия конвейера ошибок
	r.NotFound(s.notFound)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ (сессия не требуется) ---
	r.Group(func(r chi.Router) {
		// Кредо-выдающие эндпоинты прикрыты лимитером от перебора
		r.Use(NewIPRateLimiter(s.logger).Middleware)

		r.Post("/api/v1/auth/signup", s.authHandler.SignUp)
		r.Post("/api/v1/auth/signin", s.authHandler.SignIn)
	})

	r.Put("/api/v1/auth/forgot-password", s.passwordHandler.ForgotPassword)
	r.Put("/api/v1/auth/reset-password/{token}", s.passwordHandler.ResetPassword)
	r.Put("/api/v1/auth/verify-email", s.verifyEmailHandler.VerifyEmail)

	// Поиск гигов открыт: витрина доступна без входа
	r.Get("/api/v1/auth/search/gigs/{from}/{size}/{type}", s.searchHandler.Gigs)
	r.Get("/api/v1/auth/search/gigs/{gigId}", s.searchHandler.Gig)
	r.Get("/api/v1/auth/seed/{count}", s.searchHandler.Seed)

	r.Get("/gateway-health", s.healthHandler.Health)

	// --- 3. ЗАЩИЩЕННЫЙ ПЕРИМЕТР (оба гейта сессии) ---
	r.Group(func(r chi.Router) {
		r.Use(s.authMW.VerifyUser)
		r.Use(s.authMW.CheckAuthentication)

		r.Get("/api/v1/auth/currentuser", s.currentUserHandler.CurrentUser)
		r.Post("/api/v1/auth/resend-email", s.currentUserHandler.ResendEmail)
		r.Post("/api/v1/auth/refresh-token/{username}", s.currentUserHandler.RefreshToken)
		r.Post("/api/v1/auth/change-password", s.passwordHandler.ChangePassword)
		r.Post("/api/v1/auth/signout", s.authHandler.SignOut)
	})
}

// notFound логирует несматченный URL и отдает стабильный 404-контракт.
func (s *GatewayServer) notFound(w http.ResponseWriter, r *http.Request) {
	s.logger.Error("endpoint does not exist",
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()))

	respond.Error(w, s.logger, domain.NewNotFound("The endpoint called does not exist.", ""))
}

// ServeHTTP позволяет использовать GatewayServer как стандартный http.Handler
func (s *GatewayServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
