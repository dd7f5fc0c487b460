package server

import (
	"net"
	"net/http"
	"sync"

	"github.com/xela07ax/gigmarket-gateway/internal/gateway/respond"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// IPRateLimiter — токен-бакет на каждый клиентский IP для эндпоинтов,
// выдающих учетные данные. Лимиты консервативные: 5 rps, burst 10.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	logger   *zap.Logger
}

func NewIPRateLimiter(logger *zap.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		logger:   logger.Named("rate-limit"),
	}
}

func (l *IPRateLimiter) allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// RealIP уже перезаписал RemoteAddr; без порта берем адрес как есть
		host = remoteAddr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(5), 10)
		l.limiters[host] = limiter
	}
	return limiter.Allow()
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(r.RemoteAddr) {
			l.logger.Warn("rate limit exceeded", zap.String("remote", r.RemoteAddr))
			respond.JSON(w, http.StatusTooManyRequests, map[string]string{"message": "Too many requests. Please try again later."})
			return
		}

		next.ServeHTTP(w, r)
	})
}
