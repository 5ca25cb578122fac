package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ajvb/jobboard/job"

	"github.com/gorilla/mux"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// NewMetrics returns an instance of the Metrics struct for prometheus monitoring.
// Collectors live in their own registry so several servers can share a process.
func NewMetrics(version string, db job.JobDB) *Metrics {
	m := &Metrics{
		registry: prom.NewRegistry(),
		StartTime: prom.NewGauge(prom.GaugeOpts{
			Name:        "start_time_seconds",
			Help:        "heartbeat and version metrics",
			ConstLabels: prom.Labels{"version": version},
		}),
		StoredJobs: prom.NewGaugeFunc(prom.GaugeOpts{
			Name: "stored_jobs",
			Help: "Number of jobs currently in the job store",
		}, func() float64 {
			n, err := db.Count()
			if err != nil {
				log.Warnf("Error counting stored jobs: %s", err)
				return 0
			}
			return float64(n)
		}),
		RequestsTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "requests_total",
			Help: "Total number of requests based on code, method, path",
		}, []string{"code", "method", "path"}),
		RequestsDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Name: "requests_duration_seconds",
			Help: "Total request time based on code, method, path",
			Buckets: []float64{
				0.1, 0.5, 1, 2,
			},
		}, []string{"code", "method", "path"}),
	}
	m.StartTime.Set(float64(time.Now().UnixNano()) / float64(time.Second))
	m.registry.MustRegister(m.Collectors()...)
	return m
}

type Metrics struct {
	registry         *prom.Registry
	StartTime        prom.Gauge
	StoredJobs       prom.GaugeFunc
	RequestsTotal    *prom.CounterVec
	RequestsDuration *prom.HistogramVec
}

func (m *Metrics) Collectors() []prom.Collector {
	return []prom.Collector{
		m.StartTime,
		m.StoredJobs,
		m.RequestsTotal,
		m.RequestsDuration,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware is a mux middleware. Requests are labelled with the matched
// route template so ids don't blow up the label set.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		if path == "/metrics" {
			next.ServeHTTP(rw, r)
			return
		}

		res, ok := rw.(negroni.ResponseWriter)
		if !ok {
			res = negroni.NewResponseWriter(rw)
		}

		start := time.Now()
		next.ServeHTTP(res, r)

		code := fmt.Sprintf("%d", res.Status())
		m.RequestsTotal.WithLabelValues(code, r.Method, path).Inc()
		m.RequestsDuration.WithLabelValues(code, r.Method, path).Observe(time.Since(start).Seconds())
	})
}
