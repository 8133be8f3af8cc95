package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	extractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "specsheet_extractions_total",
			Help: "Count of extraction requests by outcome",
		},
		[]string{"endpoint", "status"},
	)

	extractionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "specsheet_extraction_duration_seconds",
			Help:    "End-to-end extraction latency",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"endpoint"},
	)

	checklistItems = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "specsheet_checklist_items",
			Help:    "Number of checklist items per extraction request",
			Buckets: prometheus.LinearBuckets(5, 10, 10),
		},
	)
)

func initMetrics() {
	prometheus.MustRegister(extractionsTotal)
	prometheus.MustRegister(extractionDuration)
	prometheus.MustRegister(checklistItems)
}
