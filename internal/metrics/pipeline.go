package metrics

import "github.com/prometheus/client_golang/prometheus"

// Delivery pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagery",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"},
	)

	ProxyDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagery",
			Name:      "proxy_decisions_total",
			Help:      "Proxy rewrite decisions by target field",
		},
		[]string{"target", "proxied"},
	)

	WatermarkRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagery",
			Name:      "watermark_requests_total",
			Help:      "Total number of watermark requests",
		},
		[]string{"status"},
	)

	WatermarkRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "imagery",
			Name:      "watermark_render_duration_seconds",
			Help:      "Source fetch, composite, and encode duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	MetadataEmbedFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagery",
			Name:      "metadata_embed_failures_total",
			Help:      "Metadata embedding failures per channel",
		},
		[]string{"channel"}, // "exif" / "xmp"
	)

	DeadLinkProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagery",
			Name:      "dead_link_probes_total",
			Help:      "Dead-link verdicts by origin",
		},
		[]string{"verdict", "origin"}, // verdict "live"/"dead", origin "cache"/"probe"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers delivery pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(ProxyDecisionsTotal)
	prometheus.MustRegister(WatermarkRequestsTotal)
	prometheus.MustRegister(WatermarkRenderDuration)
	prometheus.MustRegister(MetadataEmbedFailuresTotal)
	prometheus.MustRegister(DeadLinkProbesTotal)
	pipelineMetricsRegistered = true
}
