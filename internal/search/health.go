// Package search отвечает за готовность поисковой зависимости шлюза.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/xela07ax/gigmarket-gateway/internal/infra"
	"go.uber.org/zap"
)

// HealthMonitor один раз на старте процесса дожидается, когда кластер
// Elasticsearch ответит на cluster health. Недоступный поиск — восстановимое
// состояние инфраструктуры, а не ошибка программы, поэтому попытки не
// ограничены и процесс из-за них никогда не падает. Наружу торчит только
// односторонний флаг готовности.
type HealthMonitor struct {
	es      *elasticsearch.Client
	logger  *zap.Logger
	metrics *infra.Metrics
	ready   atomic.Bool
}

func NewHealthMonitor(elasticURL string, logger *zap.Logger, metrics *infra.Metrics) (*HealthMonitor, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{elasticURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &HealthMonitor{
		es:      es,
		logger:  logger.Named("elastic"),
		metrics: metrics,
	}, nil
}

// Healthy сообщает, отвечал ли кластер хоть раз. Обратно в false не уходит:
// probe гейтит только старт, непрерывным мониторингом не занимается.
func (m *HealthMonitor) Healthy() bool {
	return m.ready.Load()
}

// WaitForCluster крутит probe с экспоненциальным бэкоффом (с потолком),
// пока кластер не ответит или контекст не отменят. Запускается горутиной
// из main и возвращает ошибку только при отмене контекста.
func (m *HealthMonitor) WaitForCluster(ctx context.Context) error {
	m.logger.Info("connecting to Elasticsearch")

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(0), // без лимита попыток
		retry.Delay(100*time.Millisecond),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.BackOffDelay),
	)

	return r.Do(func() error {
		status, err := m.probe(ctx)
		if err != nil {
			m.logger.Warn("connection to Elasticsearch failed, retrying...", zap.Error(err))
			return err
		}

		m.logger.Info("Elasticsearch health status", zap.String("status", status))
		m.ready.Store(true)
		m.metrics.SearchReady.Set(1)
		return nil
	})
}

// probe дергает cluster health и требует непустое поле status в ответе.
func (m *HealthMonitor) probe(ctx context.Context) (string, error) {
	res, err := m.es.Cluster.Health(m.es.Cluster.Health.WithContext(ctx))
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", fmt.Errorf("cluster health returned %s", res.Status())
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return "", fmt.Errorf("failed to decode cluster health response: %w", err)
	}
	if health.Status == "" {
		return "", errors.New("cluster health response has no status")
	}
	return health.Status, nil
}
