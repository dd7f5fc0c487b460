// Package respond — единственная точка, где ошибки превращаются в HTTP-ответ.
// Компоненты шлюза поднимают доменные ошибки как есть, без оборачивания,
// и не пишут в ResponseWriter сами.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xela07ax/gigmarket-gateway/internal/domain"
	"go.uber.org/zap"
)

// JSON сериализует payload и отдает его с указанным статусом.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// Error — финальная стадия конвейера ошибок. Распознанная доменная ошибка
// рендерится своим статусом и {message}; все остальное логируется с меткой
// происхождения и уходит наружу как одинаковая 500-ка, чтобы не светить
// внутренности. Ответ есть всегда — процесс от ошибки запроса не падает.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		if domainErr.ComingFrom != "" {
			logger.Warn("request failed",
				zap.String("coming_from", domainErr.ComingFrom),
				zap.Int("status", domainErr.StatusCode),
				zap.String("message", domainErr.Message))
		}
		JSON(w, domainErr.StatusCode, map[string]string{"message": domainErr.Message})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	JSON(w, http.StatusInternalServerError, map[string]string{"message": "Something went wrong. Please try again."})
}
