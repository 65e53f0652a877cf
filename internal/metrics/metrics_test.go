package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/p/:code/leads", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := counterValue(t, HTTPRequestsTotal.WithLabelValues("GET", "/p/:code/leads", "2xx"))

	for _, code := range []string{"acme", "north-shore"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p/"+code+"/leads", nil))
	}

	after := counterValue(t, HTTPRequestsTotal.WithLabelValues("GET", "/p/:code/leads", "2xx"))
	if after-before != 2 {
		t.Errorf("counter delta = %v, want 2 (route pattern label, not raw path)", after-before)
	}
}

func TestLeadsTotalLabels(t *testing.T) {
	before := counterValue(t, LeadsTotal.WithLabelValues("paused"))
	LeadsTotal.WithLabelValues("paused").Inc()
	after := counterValue(t, LeadsTotal.WithLabelValues("paused"))
	if after-before != 1 {
		t.Errorf("counter delta = %v, want 1", after-before)
	}
}

func TestStatusBucket(t *testing.T) {
	cases := map[int]string{
		102: "1xx",
		200: "2xx",
		201: "2xx",
		301: "3xx",
		404: "4xx",
		429: "4xx",
		500: "5xx",
		503: "5xx",
	}
	for code, want := range cases {
		if got := statusBucket(code); got != want {
			t.Errorf("statusBucket(%d) = %s, want %s", code, got, want)
		}
	}
}
