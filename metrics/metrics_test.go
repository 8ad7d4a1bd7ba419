package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCatalogRequestsCounter(t *testing.T) {
	before := testutil.ToFloat64(CatalogRequests.WithLabelValues("search", "success"))
	CatalogRequests.WithLabelValues("search", "success").Inc()
	after := testutil.ToFloat64(CatalogRequests.WithLabelValues("search", "success"))

	if after-before != 1 {
		t.Errorf("counter moved by %v, want 1", after-before)
	}
}

func TestCollectorsRegistered(t *testing.T) {
	HTTPRequests.WithLabelValues("/", "GET", "200").Inc()
	if n := testutil.CollectAndCount(HTTPRequests); n == 0 {
		t.Error("expected HTTPRequests to expose at least one series")
	}

	CircuitBreakerState.WithLabelValues("tmdb").Set(2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("tmdb")); got != 2 {
		t.Errorf("CircuitBreakerState = %v, want 2", got)
	}
}
