// Package metrics expone contadores Prometheus de HTTP y del libro de stock.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "perfumes"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP en segundos.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de peticiones HTTP.",
		},
		[]string{"method", "route", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Peticiones HTTP en curso.",
	})

	// SalesTotal cuenta ventas por resultado: committed | insufficient_stock | not_found | invalid | error.
	SalesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "sales_total",
			Help:      "Ventas procesadas por resultado.",
		},
		[]string{"result"},
	)

	LotIntakesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "lot_intakes_total",
			Help:      "Ingresos de lote procesados por resultado.",
		},
		[]string{"result"},
	)

	// UnitsTotal unidades movidas: in (lotes) | out (ventas).
	UnitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "units_total",
			Help:      "Unidades de stock movidas por dirección.",
		},
		[]string{"direction"},
	)
)

// Registry registro propio de la aplicación.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		SalesTotal,
		LotIntakesTotal,
		UnitsTotal,
	)
}

// Middleware registra duración, total y peticiones en curso.
// Usa la ruta registrada (ej. /sales/:id) para no disparar la cardinalidad.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		RequestInFlight.Inc()
		defer RequestInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		s := strconv.Itoa(status)
		RequestDuration.WithLabelValues(c.Method(), route, s).Observe(time.Since(start).Seconds())
		RequestTotal.WithLabelValues(c.Method(), route, s).Inc()
		return err
	}
}

// Handler devuelve el handler net/http de exposición.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
