// Package metrics exposes this store's Prometheus instrumentation,
// grounded on IAmSoThirsty-Project-AI/octoreflex's internal/observability
// package: a dedicated prometheus.Registry (not the global default, so
// this process's metrics never collide with another instrumented
// library sharing the binary), one counter vector for request outcomes,
// one histogram for latency, and one counter vector for quorum acks,
// each satisfying spec.md §4.5's "measures wall-clock duration and
// emits a log line on entry and exit" with a histogram observation
// alongside the log line.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus descriptor this store registers.
type Metrics struct {
	registry *prometheus.Registry

	// ClientRequestsTotal counts ClientService calls, by operation and
	// outcome. Labels: op (read_from_file, write_to_file), status (ok,
	// error).
	ClientRequestsTotal *prometheus.CounterVec

	// ClientRequestDuration records wall-clock latency of ClientService
	// calls. Labels: op.
	ClientRequestDuration *prometheus.HistogramVec

	// QuorumAcksTotal counts successful quorum-member acknowledgements
	// during propagation. Labels: op (write_to_file).
	QuorumAcksTotal *prometheus.CounterVec
}

// New creates and registers every metric.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		ClientRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quorumfs",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total ClientService requests, by operation and outcome.",
		}, []string{"op", "status"}),

		ClientRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quorumfs",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "ClientService request latency in seconds, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),

		QuorumAcksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quorumfs",
			Subsystem: "quorum",
			Name:      "acks_total",
			Help:      "Total quorum-member acknowledgements during propagation, by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(
		m.ClientRequestsTotal,
		m.ClientRequestDuration,
		m.QuorumAcksTotal,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveRequest records one ClientService call's outcome and duration.
func (m *Metrics) ObserveRequest(op string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ClientRequestsTotal.WithLabelValues(op, status).Inc()
	m.ClientRequestDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// ObserveAck records one successful quorum-member acknowledgement.
func (m *Metrics) ObserveAck(op string) {
	m.QuorumAcksTotal.WithLabelValues(op).Inc()
}

// Serve starts the Prometheus HTTP endpoint on addr and blocks until
// ctx is cancelled or the server fails.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics: serve on %s: %w", addr, err)
	}
	return nil
}
