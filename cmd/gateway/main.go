package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xela07ax/gigmarket-gateway/internal/gateway/handler"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/server"
	"github.com/xela07ax/gigmarket-gateway/internal/gateway/service"
	"github.com/xela07ax/gigmarket-gateway/internal/infra"
	"github.com/xela07ax/gigmarket-gateway/internal/infra/auth"
	"github.com/xela07ax/gigmarket-gateway/internal/search"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Контекст для управления жизненным циклом фоновых горутин
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Метрики
	reg := prometheus.NewRegistry()
	metrics := infra.NewMetrics(reg)

	// Экспортируем метрики для Prometheus
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		log.Fatal(http.ListenAndServe(cfg.Metrics.Addr, mux))
	}()

	// 3. Поисковая зависимость: listen не блокируем, гейтим только readiness
	monitor, err := search.NewHealthMonitor(cfg.Search.ElasticURL, logger, metrics)
	if err != nil {
		log.Fatalf("failed to init elasticsearch client: %v", err)
	}
	go func() {
		if err := monitor.WaitForCluster(appCtx); err != nil {
			logger.Warn("elasticsearch wait cancelled", zap.Error(err))
		}
	}()

	// 4. Сессия и проверка токенов
	codec, err := auth.NewCodec(cfg.Session.Secrets(), cfg.Session.MaxAge)
	if err != nil {
		log.Fatalf("failed to init session codec: %v", err)
	}
	session := auth.NewSession(cfg.Session.Name, cfg.Session.MaxAge, cfg.Environment != "development", codec)
	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret)
	authMW := auth.NewMiddleware(session, verifier, logger)

	// 5. Фасад auth-сервиса и обработчики (Dependency Injection)
	authService := service.NewAuthService(cfg.Auth.APIURL, logger, metrics)

	gw := server.NewGatewayServer(
		cfg,
		logger,
		metrics,
		authMW,
		handler.NewAuthHandler(authService, session, logger),
		handler.NewPasswordHandler(authService, logger),
		handler.NewVerifyEmailHandler(authService, logger),
		handler.NewCurrentUserHandler(authService, session, logger),
		handler.NewSearchHandler(authService, logger),
		handler.NewHealthHandler(monitor),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      gw,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("gateway server started", zap.String("addr", srv.Addr), zap.Int("pid", os.Getpid()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("gateway server stopping...")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %+v", err)
	}
	logger.Info("gateway server exited properly")
}
