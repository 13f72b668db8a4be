package services

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/batch"
	"github.com/iota-uz/agentlists/modules/lists/domain/entities/record"
	"github.com/iota-uz/agentlists/pkg/tabular"
)

type metrics struct {
	uploadsTotal   *prometheus.CounterVec
	recordsTotal   prometheus.Counter
	batchesTotal   prometheus.Counter
	uploadDuration *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		uploadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lists",
			Name:      "uploads_total",
			Help:      "Total number of list uploads by outcome.",
		}, []string{"format", "result"}),
		recordsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "lists",
			Name:      "records_distributed_total",
			Help:      "Total number of records assigned to agents.",
		}),
		batchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "lists",
			Name:      "batches_created_total",
			Help:      "Total number of per-agent lists created.",
		}),
		uploadDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lists",
			Name:      "upload_duration_seconds",
			Help:      "Latency distribution of the upload pipeline.",
			Buckets: []float64{
				0.005, 0.01, 0.025,
				0.05, 0.1, 0.25,
				0.5, 1, 2.5, 5, 10,
			},
		}, []string{"result"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

func uploadOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, tabular.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, tabular.ErrMalformedInput):
		return "malformed"
	case errors.Is(err, record.ErrValidation):
		return "invalid"
	case errors.Is(err, batch.ErrNoAgentsAvailable):
		return "no_agents"
	default:
		return "error"
	}
}

func observeUpload(format tabular.Format, res *UploadResult, err error, elapsed time.Duration) {
	m := getMetrics()
	result := uploadOutcome(err)
	if format == "" {
		format = "unknown"
	}
	m.uploadsTotal.WithLabelValues(string(format), result).Inc()
	m.uploadDuration.WithLabelValues(result).Observe(elapsed.Seconds())
	if res != nil {
		m.recordsTotal.Add(float64(res.RecordCount))
		m.batchesTotal.Add(float64(len(res.Batches)))
	}
}
