// Package metrics instruments the concurrency harness and hash expander with
// prometheus/client_golang counters and gauges (SPEC_FULL.md §5: "tasks
// spawned, trie size, tuples/sec, peak hash-map occupancy"), exposed over
// /metrics when the CLI is given --metrics-addr.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the gauges/counters a single verification run updates.
type Registry struct {
	reg *prometheus.Registry

	TasksSpawned   prometheus.Counter
	TrieSize       prometheus.Gauge
	TuplesExpanded prometheus.Counter
	HashMapPeak    prometheus.Gauge
}

// New builds a fresh Registry. Each CLI invocation owns its own registry
// rather than registering into prometheus's global default, so repeated
// invocations in the same process (e.g. the `-v` diagnostic sweeping several
// properties) never collide on duplicate metric names.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Registry{
		reg: reg,
		TasksSpawned: factory.NewCounter(prometheus.CounterOpts{
			Name: "ironmask_tasks_spawned_total",
			Help: "Search tasks submitted to the thread pool.",
		}),
		TrieSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ironmask_trie_size",
			Help: "Number of incompressible tuples currently stored in the trie.",
		}),
		TuplesExpanded: factory.NewCounter(prometheus.CounterOpts{
			Name: "ironmask_tuples_expanded_total",
			Help: "Tuples produced by the hash expander across all layers.",
		}),
		HashMapPeak: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ironmask_hashmap_peak_occupancy",
			Help: "Largest per-layer hash-map occupancy observed so far.",
		}),
	}
}

// Handler returns an http.Handler serving this registry's metrics in the
// Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Serve runs an HTTP server on addr exposing /metrics. It blocks until the
// server stops and returns http.ListenAndServe's error, so the CLI runs it
// in a background goroutine for the duration of the verification command.
func (r *Registry) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return http.ListenAndServe(addr, mux)
}
