package worker

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ChuLiYu/cpusched/internal/metrics"
)

func collectorOutput(t *testing.T, c *metrics.Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}
