package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: Namespace + "_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	CodeExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_code_exchanges_total",
			Help: "Total number of authorization code exchanges",
		},
		[]string{"result"},
	)

	ResourceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_resource_fetches_total",
			Help: "Total number of protected resource fetches",
		},
		[]string{"result"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_provider_request_duration_seconds",
			Help:    "Time to complete requests against the OAuth provider",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	ProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_provider_errors_total",
			Help: "Total number of failed requests against the OAuth provider",
		},
		[]string{"operation"},
	)

	SessionStoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_session_store_operation_duration_seconds",
			Help:    "Time to complete session store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "operation"},
	)

	SessionRecordsAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_session_records_appended_total",
			Help: "Total number of session records appended to the store",
		},
		[]string{"store"},
	)

	SessionLookupMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_session_lookup_misses_total",
			Help: "Total number of session token lookups with no matching record",
		},
		[]string{"store"},
	)

	SessionRecordsStored = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: Namespace + "_session_records_stored",
			Help: "Number of session records held by the store",
		},
		[]string{"store"},
	)

	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_job_runs_total",
			Help: "Total number of background job runs",
		},
		[]string{"job", "result"},
	)
)
