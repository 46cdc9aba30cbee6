package blog

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics - метрики сервиса в собственном реестре, чтобы несколько серверов в одном процессе не конфликтовали.
type Metrics struct {
	Registry    *prometheus.Registry
	ParseErrors prometheus.Counter
	Renders     *prometheus.CounterVec
	bootTime    prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "document_parse_errors_total",
			Help:      "Documents rejected by the TipTap parser",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "render_total",
			Help:      "Rendered documents by output format",
		}, []string{"format"}),
		bootTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blog",
			Name:      "boot_time",
			Help:      "Server startup time",
		}),
	}
	m.bootTime.Set(float64(time.Now().UnixMilli()))

	m.Registry.MustRegister(
		m.ParseErrors,
		m.Renders,
		m.bootTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware собирает метрики HTTP запросов.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "blog",
		Registerer: m.Registry,
	})
}

// Echo возвращает отдельный сервер с эндпоинтом /metrics.
func (m *Metrics) Echo() *echo.Echo {
	metrics := echo.New()
	metrics.HideBanner = true
	metrics.HidePort = true
	metrics.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: m.Registry}))
	return metrics
}
