package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetCounterValue(t *testing.T) {
	before, err := GetCounterValue(PackagesProcessedTotal, "extracted")
	if err != nil {
		t.Fatalf("GetCounterValue() error = %v", err)
	}

	PackagesProcessedTotal.WithLabelValues("extracted").Inc()
	PackagesProcessedTotal.WithLabelValues("extracted").Inc()

	after, err := GetCounterValue(PackagesProcessedTotal, "extracted")
	if err != nil {
		t.Fatalf("GetCounterValue() error = %v", err)
	}

	if after-before != 2 {
		t.Errorf("counter delta = %v, want 2", after-before)
	}
}

func TestGetCounterValue_WrongLabelCount(t *testing.T) {
	if _, err := GetCounterValue(HTTPRequestsTotal, "GET"); err == nil {
		t.Error("GetCounterValue() with missing labels should fail")
	}
}

func TestWriteMetricsFile(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "200", "api.nuget.org").Inc()
	PackageDownloadsTotal.WithLabelValues("success").Inc()
	BinariesCopiedTotal.Inc()

	path := filepath.Join(t.TempDir(), "nudll.prom")
	if err := WriteMetricsFile(path); err != nil {
		t.Fatalf("WriteMetricsFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}

	body := string(data)
	for _, metric := range []string{
		"nudll_http_requests_total",
		"nudll_package_downloads_total",
		"nudll_binaries_copied_total",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics file missing %s", metric)
		}
	}
}
