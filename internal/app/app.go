package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/smartworking/order-processing/internal/health"
	"github.com/smartworking/order-processing/internal/metrics"
	"github.com/smartworking/order-processing/internal/service/rest"
	"github.com/smartworking/order-processing/internal/service/status"
	"github.com/smartworking/order-processing/internal/version"
)

// Run собирает зависимости и держит HTTP API до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := deps.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("failed to close storage connections")
		}
	}()

	kafkaProducer, notifier, eventPublisher := initKafkaNotifier(cfg.KafkaBrokers, logger)
	defer func() {
		if kafkaProducer == nil {
			return
		}
		if err := kafkaProducer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			logger.Info("kafka producer closed")
		}
	}()

	statusMetrics := metrics.NewStatusMetrics()
	service := status.NewService(
		deps.Repo,
		deps.Changelog,
		status.NewCooldownGuard(deps.Cooldown),
		notifier,
		eventPublisher,
		status.StaticSettings{
			Enabled:          cfg.StatusUpdateEnabled,
			CooldownLifetime: cfg.CooldownLifetime,
		},
		nil,
		statusMetrics,
		logger.WithField("component", "status-service"),
	)

	if sweeper := deps.CooldownSweeper(); sweeper != nil {
		cleanup := status.NewCleanupWorker(sweeper,
			status.WithCleanupLogger(logger.WithField("component", "cooldown-cleanup")))
		go cleanup.Run(ctx)
	}

	handler := rest.NewHandler(service, logger.WithField("component", "rest-handler"))
	router := rest.NewRouter(handler)

	v, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(v)
	deps.RegisterHealthCheckers(healthHandler)

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		drainPostCommitHooks(service, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		drainPostCommitHooks(service, logger)
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// drainPostCommitHooks дожидается фоновых задач журнала и уведомлений.
func drainPostCommitHooks(service *status.Service, logger *log.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := service.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("post-commit hooks did not drain in time")
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
