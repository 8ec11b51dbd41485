package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PipelineMetrics struct {
	DesignUploads    *prometheus.CounterVec
	OrderSubmissions *prometheus.CounterVec
}

func NewPipelineMetrics() *PipelineMetrics {
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tweeshirt",
		Name:      "design_uploads_total",
		Help:      "Total design uploads to the fulfillment partner.",
	}, []string{"status"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tweeshirt",
		Name:      "order_submissions_total",
		Help:      "Total order submissions to the order backend.",
	}, []string{"status"})

	prometheus.MustRegister(uploads, submissions)
	return &PipelineMetrics{DesignUploads: uploads, OrderSubmissions: submissions}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
