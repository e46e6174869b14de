package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StatusMetrics содержит метрики операций смены статуса заказа.
type StatusMetrics struct {
	// Счётчики исходов
	transitionsApproved prometheus.Counter
	transitionsRejected *prometheus.CounterVec
	cooldownBlocked     prometheus.Counter
	cooldownFailures    prometheus.Counter

	// Гистограмма времени оценки перехода
	evaluateDuration prometheus.Histogram

	// Счётчики побочных эффектов
	changelogAppends  prometheus.Counter
	notificationsSent prometheus.Counter
}

// NewStatusMetrics создаёт новый экземпляр метрик смены статуса.
func NewStatusMetrics() *StatusMetrics {
	return newStatusMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newStatusMetricsWithRegisterer(registerer prometheus.Registerer) *StatusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StatusMetrics{
		transitionsApproved: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cop_status_transitions_approved_total",
			Help: "Total number of approved order status transitions",
		}),
		transitionsRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "cop_status_transitions_rejected_total",
			Help: "Total number of rejected order status transitions by reason",
		}, []string{"reason"}),
		cooldownBlocked: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cop_status_cooldown_blocked_total",
			Help: "Total number of attempts blocked by the cooldown window",
		}),
		cooldownFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cop_status_cooldown_failures_total",
			Help: "Total number of cooldown storage failures",
		}),
		evaluateDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "cop_status_evaluate_duration_seconds",
			Help:    "Duration of full status update evaluations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		changelogAppends: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cop_status_changelog_appends_total",
			Help: "Total number of status change log records appended",
		}),
		notificationsSent: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cop_status_notifications_sent_total",
			Help: "Total number of customer shipment notifications sent",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordApproved увеличивает счётчик одобренных переходов.
func (m *StatusMetrics) RecordApproved() {
	m.transitionsApproved.Inc()
}

// RecordRejected увеличивает счётчик отказов по причине.
func (m *StatusMetrics) RecordRejected(reason string) {
	m.transitionsRejected.WithLabelValues(reason).Inc()
}

// RecordCooldownBlocked увеличивает счётчик заблокированных попыток.
func (m *StatusMetrics) RecordCooldownBlocked() {
	m.cooldownBlocked.Inc()
}

// RecordCooldownFailure увеличивает счётчик отказов cooldown-хранилища.
func (m *StatusMetrics) RecordCooldownFailure() {
	m.cooldownFailures.Inc()
}

// RecordEvaluateDuration записывает длительность обработки запроса.
func (m *StatusMetrics) RecordEvaluateDuration(duration time.Duration) {
	m.evaluateDuration.Observe(duration.Seconds())
}

// RecordChangelogAppend увеличивает счётчик записей журнала.
func (m *StatusMetrics) RecordChangelogAppend() {
	m.changelogAppends.Inc()
}

// RecordNotificationSent увеличивает счётчик отправленных уведомлений.
func (m *StatusMetrics) RecordNotificationSent() {
	m.notificationsSent.Inc()
}
