package observability

import (
	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, status code, and host
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nudll_http_requests_total",
			Help: "Total number of HTTP requests by method and status",
		},
		[]string{"method", "status_code", "host"},
	)

	// HTTPRequestDuration tracks HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nudll_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to 16s
		},
		[]string{"method", "host"},
	)

	// PackageDownloadsTotal counts archive downloads by status
	PackageDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nudll_package_downloads_total",
			Help: "Total number of package archive downloads by status",
		},
		[]string{"status"}, // success, failure
	)

	// PackageDownloadBytes counts archive bytes written to disk
	PackageDownloadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nudll_package_download_bytes_total",
			Help: "Total number of archive bytes written to disk",
		},
	)

	// PackagesProcessedTotal counts walk steps by outcome
	PackagesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nudll_packages_processed_total",
			Help: "Total number of packages processed by the dependency walk",
		},
		[]string{"outcome"}, // extracted, failed
	)

	// BinariesCopiedTotal counts library files copied to the output directory
	BinariesCopiedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nudll_binaries_copied_total",
			Help: "Total number of library files copied to the output directory",
		},
	)
)

// WriteMetricsFile writes every registered metric to path in the Prometheus
// text exposition format, replacing the file atomically.
func WriteMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// GetCounterValue retrieves the current value of a counter metric with the given labels
// This is primarily intended for testing
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}
