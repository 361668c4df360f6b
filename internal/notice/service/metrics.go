package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noticesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fiscalis",
		Subsystem: "notice",
		Name:      "generated_total",
		Help:      "Number of fiscal notices generated.",
	})

	bulkItemFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fiscalis",
		Subsystem: "notice",
		Name:      "bulk_item_failures_total",
		Help:      "Number of per-taxpayer failures during bulk generation.",
	})
)
