package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadgate/leadgate/internal/config"
	"github.com/leadgate/leadgate/internal/mail"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// countingSender records send attempts for route-level tests.
type countingSender struct {
	mu    sync.Mutex
	count int
}

func (c *countingSender) Send(_ context.Context, _, _, _ string) mail.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return mail.Result{Delivered: true}
}

// testConfig returns a minimal demo-mode config for testing.
func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Env:                "development",
		LogLevel:           "error",
		PlanDays:           30,
		ReminderWindowDays: 3,
		ReconcileInterval:  time.Hour,
		AdminSecret:        "test-secret",
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(testConfig(), WithSender(&countingSender{}))
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return s
}

func adminReq(method, path string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("X-Admin-Secret", "test-secret")
	return req
}

// ---------------------------------------------------------------------------
// Health endpoints
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}
}

func TestLivenessEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health/live", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

// ---------------------------------------------------------------------------
// Admin auth
// ---------------------------------------------------------------------------

func TestAdminRejectsMissingSecret(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/admin/clients", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestAdminRejectsWrongSecret(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/admin/clients", nil)
	req.Header.Set("X-Admin-Secret", "wrong")
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestAdminOpenInDevelopmentWithoutSecret(t *testing.T) {
	cfg := testConfig()
	cfg.AdminSecret = ""
	s, err := New(cfg, WithSender(&countingSender{}))
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/admin/clients", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 in development without secret, got %d", w.Code)
	}
}

// ---------------------------------------------------------------------------
// End-to-end admin flow (demo mode)
// ---------------------------------------------------------------------------

func TestCreateClientAndSubmitLead(t *testing.T) {
	s := newTestServer(t)

	// Create a client.
	body, _ := json.Marshal(map[string]string{
		"code":  "acme",
		"name":  "Acme Co",
		"email": "owner@acme.test",
	})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, adminReq("POST", "/v1/admin/clients", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("create client: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Submit a lead through the public page.
	leadBody, _ := json.Marshal(map[string]string{
		"name":  "Jordan",
		"email": "jordan@example.com",
	})
	w = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/p/acme/leads", bytes.NewReader(leadBody))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit lead: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// The lead shows up on the admin list.
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, adminReq("GET", "/v1/admin/leads", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list leads: expected 200, got %d", w.Code)
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("lead count = %d, want 1", resp.Count)
	}
}

func TestLeadToUnknownCodeIs404(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(map[string]string{
		"name":  "Jordan",
		"email": "jordan@example.com",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/p/ghost/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestIntakeApprovalFlow(t *testing.T) {
	s := newTestServer(t)

	// Public intake submission.
	body, _ := json.Marshal(map[string]string{
		"businessName": "Acme Plumbing",
		"contactName":  "Sam",
		"email":        "sam@acme.test",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/intake", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit intake: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var submitResp struct {
		Intake struct {
			ID string `json:"id"`
		} `json:"intake"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &submitResp); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	// Admin approves it.
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, adminReq("POST", "/v1/admin/intakes/"+submitResp.Intake.ID+"/approve", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var approveResp struct {
		Client struct {
			Code   string `json:"code"`
			Status string `json:"status"`
		} `json:"client"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &approveResp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if approveResp.Client.Code != "acmeplumbing" {
		t.Errorf("derived code = %q, want acmeplumbing", approveResp.Client.Code)
	}
	if approveResp.Client.Status != "active" {
		t.Errorf("client status = %q, want active", approveResp.Client.Status)
	}

	// Second approval conflicts.
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, adminReq("POST", "/v1/admin/intakes/"+submitResp.Intake.ID+"/approve", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("second approve: expected 409, got %d", w.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, adminReq("GET", "/v1/admin/dashboard", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	for _, key := range []string{"clients", "recentLeads", "pendingIntakes", "reconcile", "feed"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("dashboard response missing %q", key)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}
