package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestAllowBurst(t *testing.T) {
	l := New(Config{RequestsPerMinute: 60, BurstSize: 5, CleanupInterval: time.Minute})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		if !l.Allow("ip1") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if l.Allow("ip1") {
		t.Error("request beyond burst allowed")
	}
}

func TestAllowIsPerKey(t *testing.T) {
	l := New(Config{RequestsPerMinute: 60, BurstSize: 1, CleanupInterval: time.Minute})
	defer l.Stop()

	if !l.Allow("ip1") {
		t.Fatal("first request for ip1 denied")
	}
	if l.Allow("ip1") {
		t.Error("second request for ip1 allowed")
	}
	if !l.Allow("ip2") {
		t.Error("first request for ip2 denied")
	}
}

func TestAllowRefills(t *testing.T) {
	// 600 rpm = 10 tokens/sec, so a drained bucket recovers quickly.
	l := New(Config{RequestsPerMinute: 600, BurstSize: 1, CleanupInterval: time.Minute})
	defer l.Stop()

	if !l.Allow("ip1") {
		t.Fatal("first request denied")
	}
	if l.Allow("ip1") {
		t.Fatal("bucket not drained")
	}
	time.Sleep(150 * time.Millisecond)
	if !l.Allow("ip1") {
		t.Error("bucket did not refill")
	}
}

func TestMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := New(Config{RequestsPerMinute: 60, BurstSize: 2, CleanupInterval: time.Minute})
	defer l.Stop()

	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	var last int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		r.ServeHTTP(w, req)
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}
