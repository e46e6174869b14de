package status

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const defaultCleanupInterval = 10 * time.Minute

var (
	cooldownCleanupRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cop_status_cooldown_cleanup_runs_total",
		Help: "Total number of cooldown cleanup runs grouped by result.",
	}, []string{"result"})
	cooldownCleanupDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cop_status_cooldown_cleanup_deleted_total",
		Help: "Total number of deleted expired cooldown locks.",
	})
	cooldownCleanupLastDeleted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cop_status_cooldown_cleanup_last_deleted",
		Help: "Number of deleted cooldown locks during the last cleanup run.",
	})
)

// ExpiredCooldownStore удаляет истёкшие cooldown-записи. Требуется только
// хранилищам без нативного TTL (PostgreSQL); Redis истекает ключи сам.
type ExpiredCooldownStore interface {
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}

// CleanupOptions задает параметры воркера очистки cooldown-записей.
type CleanupOptions struct {
	Logger   *log.Entry
	Interval time.Duration
}

// CleanupOption настраивает CleanupWorker.
type CleanupOption func(*CleanupOptions)

// WithCleanupLogger задает logger для воркера.
func WithCleanupLogger(logger *log.Entry) CleanupOption {
	return func(opts *CleanupOptions) {
		opts.Logger = logger
	}
}

// WithCleanupInterval задает интервал между cleanup-циклами.
func WithCleanupInterval(interval time.Duration) CleanupOption {
	return func(opts *CleanupOptions) {
		opts.Interval = interval
	}
}

// CleanupWorker периодически удаляет просроченные cooldown-записи.
// Окно и так истекает логически при Acquire; уборка не даёт таблице
// cooldown_locks расти бесконечно.
type CleanupWorker struct {
	store    ExpiredCooldownStore
	logger   *log.Entry
	interval time.Duration
}

// NewCleanupWorker создает воркер очистки cooldown-записей.
func NewCleanupWorker(store ExpiredCooldownStore, options ...CleanupOption) *CleanupWorker {
	opts := CleanupOptions{Interval: defaultCleanupInterval}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "cooldown-cleanup-worker")
	}

	if opts.Interval <= 0 {
		opts.Interval = defaultCleanupInterval
	}

	return &CleanupWorker{
		store:    store,
		logger:   logger,
		interval: opts.Interval,
	}
}

// Run запускает периодическую очистку до отмены ctx.
func (w *CleanupWorker) Run(ctx context.Context) {
	if w.store == nil {
		w.logger.Warn("cooldown cleanup worker is disabled: store is nil")
		return
	}

	w.cleanup(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.cleanup(ctx)
		}
	}
}

func (w *CleanupWorker) cleanup(ctx context.Context) {
	deleted, err := w.store.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		cooldownCleanupRunsTotal.WithLabelValues("error").Inc()
		w.logger.WithError(err).Warn("cooldown cleanup run failed")
		return
	}

	cooldownCleanupRunsTotal.WithLabelValues("ok").Inc()
	cooldownCleanupLastDeleted.Set(float64(deleted))
	if deleted > 0 {
		cooldownCleanupDeletedTotal.Add(float64(deleted))
		w.logger.WithField("deleted", deleted).Info("cooldown cleanup completed")
	}
}
