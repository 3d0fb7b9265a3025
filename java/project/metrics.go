package project

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "livejava_parse_seconds",
		Help:    "Time spent parsing and resolving a source file.",
		Buckets: prometheus.DefBuckets,
	})

	ParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livejava_parse_errors_total",
		Help: "Total number of parsed files that had syntax errors.",
	})

	CompilationUnits = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livejava_compilation_units",
		Help: "Number of compilation units in the project.",
	})

	ResolveLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livejava_resolve_lookups_total",
		Help: "Qualified class lookups by where they were answered.",
	}, []string{"source", "result"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livejava_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
