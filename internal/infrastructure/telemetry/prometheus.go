package telemetry

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewPrometheusRegistry returns a registry with the Go runtime, process and
// connection pool collectors. sqlDB may be nil.
func NewPrometheusRegistry(sqlDB *sql.DB, dbName string, extra ...prometheus.Collector) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()

	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	if sqlDB != nil {
		cs = append(cs, collectors.NewDBStatsCollector(sqlDB, dbName))
	}
	cs = append(cs, extra...)

	for _, c := range cs {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// NewRowCountCollector exposes crm_<table>_rows gauges computed at scrape
// time. Count errors are reported as -1.
func NewRowCountCollector(counts map[string]func() (int64, error)) []prometheus.Collector {
	out := make([]prometheus.Collector, 0, len(counts))
	for table, count := range counts {
		out = append(out, prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "crm",
				Name:      table + "_rows",
				Help:      "Number of rows in the " + table + " table",
			},
			func() float64 {
				n, err := count()
				if err != nil {
					return -1
				}
				return float64(n)
			},
		))
	}
	return out
}

// PrometheusHandler serves the registry in the text exposition format
func PrometheusHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
