// Package metrics expone contadores Prometheus del libro de inventario y de las alertas.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los contadores. Se registra en un Registry propio para no chocar en tests.
type Metrics struct {
	Registry *prometheus.Registry

	Mutations         *prometheus.CounterVec // modo: decrement | set
	RejectedMutations *prometheus.CounterVec // motivo: invalid | insufficient | not_found
	Crossings         prometheus.Counter
	Notifications     *prometheus.CounterVec // resultado: sent | failed
	QueueDropped      prometheus.Counter
	Allocations       *prometheus.CounterVec // resultado: ok | collision | exhausted
}

// New crea y registra los contadores.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_mutations_total",
			Help: "Cambios de cantidad aceptados por el libro de inventario.",
		}, []string{"mode"}),
		RejectedMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_mutations_rejected_total",
			Help: "Cambios de cantidad rechazados.",
		}, []string{"reason"}),
		Crossings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_threshold_crossings_total",
			Help: "Cambios que dejaron la cantidad en o bajo el umbral.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_notifications_total",
			Help: "Correos de alerta por destinatario.",
		}, []string{"result"}),
		QueueDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_notification_rounds_dropped_total",
			Help: "Rondas de alerta descartadas por cola llena.",
		}),
		Allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_barcode_allocations_total",
			Help: "Intentos de asignación de código de barras.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.Mutations, m.RejectedMutations, m.Crossings, m.Notifications, m.QueueDropped, m.Allocations)
	return m
}
