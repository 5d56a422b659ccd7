package metrics

import (
	"time"

	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/prometheus/client_golang/prometheus"
)

var _ inventory.MovementObserver = (*MovementMetrics)(nil)

// MovementMetrics métricas Prometheus del registrador de movimientos.
type MovementMetrics struct {
	recorded      *prometheus.CounterVec
	failures      *prometheus.CounterVec
	publishErrors prometheus.Counter
	duration      prometheus.Histogram
}

// NewMovementMetrics crea y registra las métricas en reg.
func NewMovementMetrics(reg prometheus.Registerer) *MovementMetrics {
	m := &MovementMetrics{
		recorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "les",
			Name:      "movements_recorded_total",
			Help:      "Movimientos confirmados por tipo.",
		}, []string{"type"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "les",
			Name:      "movement_failures_total",
			Help:      "Movimientos rechazados o fallidos por motivo.",
		}, []string{"reason"}),
		publishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "les",
			Name:      "movement_publish_failures_total",
			Help:      "Eventos de movimiento que no se pudieron publicar.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "les",
			Name:      "movement_record_seconds",
			Help:      "Duración de la transacción de registro de movimientos.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.recorded, m.failures, m.publishErrors, m.duration)
	return m
}

func (m *MovementMetrics) MovementRecorded(typeCode string, elapsed time.Duration) {
	m.recorded.WithLabelValues(typeCode).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *MovementMetrics) MovementFailed(reason string) {
	m.failures.WithLabelValues(reason).Inc()
}

func (m *MovementMetrics) PublishFailed() {
	m.publishErrors.Inc()
}
