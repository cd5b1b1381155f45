package metrics

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := New()
	at := time.Unix(1_700_000_000, 0)
	r.ImportSucceeded("ana", 6, map[string]int{"blocklist": 2, "duration": 0}, 150*time.Millisecond, at)
	r.ImportSucceeded("ana", 4, map[string]int{"blocklist": 1}, 50*time.Millisecond, at.Add(time.Hour))
	r.ImportFailed()
	r.Fetched(true)
	r.Fetched(false)
	r.Fetched(false)

	if got := testutil.ToFloat64(r.runs.WithLabelValues("success")); got != 2 {
		t.Errorf("success runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.runs.WithLabelValues("failure")); got != 1 {
		t.Errorf("failed runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.accepted.WithLabelValues("ana")); got != 10 {
		t.Errorf("accepted meetings = %v, want 10", got)
	}
	if got := testutil.ToFloat64(r.skipped.WithLabelValues("blocklist")); got != 3 {
		t.Errorf("blocklist skips = %v, want 3", got)
	}
	if got := testutil.CollectAndCount(r.skipped); got != 1 {
		t.Errorf("zero-count reasons should not create series, got %d", got)
	}
	if got := testutil.ToFloat64(r.lastSuccess.WithLabelValues("ana")); got != float64(at.Add(time.Hour).Unix()) {
		t.Errorf("last success = %v", got)
	}
	if got := testutil.ToFloat64(r.fetchCache.WithLabelValues("miss")); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ImportFailed()
	path := filepath.Join(t.TempDir(), "freeweek.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `freeweek_import_runs_total{result="failure"} 1`) {
		t.Errorf("unexpected textfile contents:\n%s", data)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Fetched(true)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `freeweek_fetch_total{cache="hit"} 1`) {
		t.Errorf("scrape output missing fetch counter:\n%s", rec.Body.String())
	}
}
