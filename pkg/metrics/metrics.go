package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты попытки занять слот
const (
	ClaimResultSuccess   = "success"
	ClaimResultFull      = "slot_full"
	ClaimResultDuplicate = "duplicate"
	ClaimResultNotFound  = "not_found"
	ClaimResultError     = "error"
)

// Metrics набор prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя, поэтому метрики можно отключить конфигурацией.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbConnections   *prometheus.GaugeVec

	claimsTotal          *prometheus.CounterVec
	regenerationsTotal   prometheus.Counter
	discardedClaimsTotal prometheus.Counter
	horizonSlotsAppended prometheus.Counter
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry регистрирует метрики в указанном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		dbQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),
		dbQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: labels,
		}, []string{"state"}),
		claimsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_claims_total",
			Help:        "Slot claim attempts by result",
			ConstLabels: labels,
		}, []string{"result"}),
		regenerationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "template_regenerations_total",
			Help:        "Number of provider slot regenerations",
			ConstLabels: labels,
		}),
		discardedClaimsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "discarded_claims_total",
			Help:        "Claims discarded by template regeneration",
			ConstLabels: labels,
		}),
		horizonSlotsAppended: factory.NewCounter(prometheus.CounterOpts{
			Name:        "horizon_slots_appended_total",
			Help:        "Slots appended by rolling horizon extension",
			ConstLabels: labels,
		}),
	}
}

// ObserveHTTP фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil && err != sql.ErrNoRows {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBStats обновляет состояние пула соединений
func (m *Metrics) SetDBStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.dbConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(stats.Idle))
}

// RecordClaim фиксирует результат попытки занять слот
func (m *Metrics) RecordClaim(result string) {
	if m == nil {
		return
	}
	m.claimsTotal.WithLabelValues(result).Inc()
}

// RecordRegeneration фиксирует перегенерацию слотов и количество потерянных записей
func (m *Metrics) RecordRegeneration(discardedClaims int) {
	if m == nil {
		return
	}
	m.regenerationsTotal.Inc()
	m.discardedClaimsTotal.Add(float64(discardedClaims))
}

// RecordHorizonExtension фиксирует количество слотов, добавленных продлением горизонта
func (m *Metrics) RecordHorizonExtension(appended int) {
	if m == nil {
		return
	}
	m.horizonSlotsAppended.Add(float64(appended))
}
