// internal/server/metrics.go
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "max_protein_tool_calls_total",
			Help: "Total number of MCP tool calls by tool and HTTP status",
		},
		[]string{"tool", "status"},
	)

	selectorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "max_protein_selector_duration_seconds",
			Help:    "Time spent inside a selector",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12),
		},
		[]string{"algorithm"},
	)

	selectionProtein = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "max_protein_last_selection_protein_grams",
			Help: "Total protein of the most recent selection",
		},
		[]string{"algorithm"},
	)

	catalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "max_protein_catalog_foods",
			Help: "Number of foods in the loaded catalog",
		},
	)
)
