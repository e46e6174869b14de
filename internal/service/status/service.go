package status

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/smartworking/order-processing/internal/domain"
	"github.com/smartworking/order-processing/internal/metrics"
)

// UpdateResult — исход одной попытки смены статуса в терминах внешнего API.
// OK=true означает, что переход одобрен и сохранён.
type UpdateResult struct {
	OK      bool
	Kind    domain.RejectionKind
	Message string
}

const successMessage = "Order status updated successfully."

// Service реализует операцию смены статуса заказа поверх доменного
// валидатора и cooldown guard. Все отказы конвертируются в UpdateResult:
// наружу не пробрасывается ни одна бизнес-ошибка.
type Service struct {
	repo      domain.OrderRepository
	changelog domain.ChangelogRepository
	guard     *CooldownGuard
	notifier  domain.NotificationSender
	events    domain.StatusEventPublisher
	settings  SettingsProvider
	stateMap  StateMapProvider
	metrics   *metrics.StatusMetrics
	logger    *log.Entry

	hookMu     sync.Mutex
	hookClosed bool
	hookWG     sync.WaitGroup
}

// NewService конструирует сервис с зависимостями.
// notifier, events и metrics могут быть nil: уведомления, публикация
// событий и метрики отключаются.
func NewService(
	repo domain.OrderRepository,
	changelog domain.ChangelogRepository,
	guard *CooldownGuard,
	notifier domain.NotificationSender,
	events domain.StatusEventPublisher,
	settings SettingsProvider,
	stateMap StateMapProvider,
	statusMetrics *metrics.StatusMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "status-service")
	}
	if settings == nil {
		settings = StaticSettings{Enabled: true}
	}
	if stateMap == nil {
		stateMap = DefaultStateMapProvider{}
	}
	return &Service{
		repo:      repo,
		changelog: changelog,
		guard:     guard,
		notifier:  notifier,
		events:    events,
		settings:  settings,
		stateMap:  stateMap,
		metrics:   statusMetrics,
		logger:    logger,
	}
}

// UpdateOrderStatus обрабатывает запрос на смену статуса заказа.
//
// Порядок: feature flag → загрузка заказа → cooldown → валидация перехода →
// сохранение. Cooldown расходуется самой попыткой: окно записывается до
// валидации, и отказ валидатора его не возвращает. Журнал и уведомление
// выполняются после фиксации и не откатывают сохранённый статус.
func (s *Service) UpdateOrderStatus(ctx context.Context, req domain.TransitionRequest, clientAddr string) UpdateResult {
	started := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordEvaluateDuration(time.Since(started))
		}
	}()

	settings := s.settings.Settings(ctx)
	if !settings.Enabled {
		return s.reject(domain.RejectionFeatureDisabled, "This functionality is disabled, please contact us.")
	}

	req = req.Trimmed()
	if req.OrderID == "" || req.RequestedStatus == "" {
		return s.reject(domain.RejectionMissingFields, "Please provide valid order id and order status.")
	}
	if !domain.ValidOrderID(req.OrderID) {
		return s.reject(domain.RejectionInvalidInput, "Invalid order id format, please provide a valid order id.")
	}

	order, err := s.repo.Get(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.WithField("order_id", req.OrderID).Warn("order does not exist")
			return s.reject(domain.RejectionNotFound, "Order does not exist with order id "+req.OrderID+".")
		}
		s.logger.WithError(err).WithField("order_id", req.OrderID).Error("failed to load order")
		return s.reject(domain.RejectionUnexpected, "Failed to load order, please try again later.")
	}

	acquired, err := s.guard.Acquire(ctx, order.ID, order.StoreID, clientAddr, settings.CooldownLifetime)
	if err != nil {
		// Тихое отключение rate limiting небезопасно: отказ хранилища —
		// жёсткий стоп для всего запроса.
		if s.metrics != nil {
			s.metrics.RecordCooldownFailure()
		}
		s.logger.WithError(err).WithField("order_id", order.ID).Error("cooldown storage unavailable")
		return s.reject(domain.RejectionServiceUnavailable, "Service is temporarily unavailable, please try again later.")
	}
	if !acquired {
		if s.metrics != nil {
			s.metrics.RecordCooldownBlocked()
		}
		return s.reject(domain.RejectionTooManyRequests, "We have received too many requests for this order status change. Please wait for some time.")
	}

	outcome := domain.EvaluateTransition(order.Snapshot(), req, s.stateMap.StateMap(ctx))
	if !outcome.Approved {
		return s.reject(outcome.Reason, outcome.Message)
	}

	oldStatus := domain.NormalizeStatus(string(order.Status))
	if err := s.repo.UpdateStatus(ctx, order.ID, outcome.ResolvedState, outcome.ResolvedStatus, order.Version); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to save order status")
		if domain.IsVersionConflict(err) {
			return s.reject(domain.RejectionUnexpected, "Order was modified concurrently, please retry.")
		}
		return s.reject(domain.RejectionUnexpected, "Failed to save order status, please try again later.")
	}

	if s.metrics != nil {
		s.metrics.RecordApproved()
	}
	s.logger.WithFields(log.Fields{
		"order_id":   order.ID,
		"old_status": oldStatus,
		"new_status": outcome.ResolvedStatus,
		"new_state":  outcome.ResolvedState,
	}).Info("order status updated")

	// Переход зафиксирован: журнал и уведомление — независимые
	// post-commit задачи, их ошибки только логируются.
	order.State = outcome.ResolvedState
	order.Status = outcome.ResolvedStatus
	s.runPostCommit(ctx, order, oldStatus)

	return UpdateResult{OK: true, Message: successMessage}
}

// ListStatusChanges возвращает журнал смен статуса заказа.
func (s *Service) ListStatusChanges(ctx context.Context, orderID string) ([]domain.StatusChange, error) {
	orderID = trimmed(orderID)
	if orderID == "" {
		return nil, domain.ErrOrderIDRequired
	}

	if _, err := s.repo.Get(ctx, orderID); err != nil {
		return nil, err
	}

	return s.changelog.ListByOrder(ctx, orderID)
}

func (s *Service) reject(kind domain.RejectionKind, message string) UpdateResult {
	if s.metrics != nil {
		s.metrics.RecordRejected(string(kind))
	}
	return UpdateResult{Kind: kind, Message: message}
}

// Shutdown ожидает завершения фоновых post-commit задач.
func (s *Service) Shutdown(ctx context.Context) error {
	s.hookMu.Lock()
	s.hookClosed = true
	s.hookMu.Unlock()

	waitDone := make(chan struct{})
	go func() {
		s.hookWG.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
