package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// --- モック ---

type mockHTTPRecorder struct {
	method   string
	path     string
	status   int
	duration time.Duration
	calls    int
}

func (m *mockHTTPRecorder) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.method = method
	m.path = path
	m.status = statusCode
	m.duration = duration
	m.calls++
}

// --- テスト ---

func TestMetricsMiddleware_RecordsRequest(t *testing.T) {
	recorder := &mockHTTPRecorder{}

	handler := NewMetricsMiddleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if recorder.calls != 1 {
		t.Fatalf("RecordHTTPRequest calls = %d, want 1", recorder.calls)
	}
	if recorder.method != "POST" {
		t.Errorf("method = %q, want %q", recorder.method, "POST")
	}
	if recorder.path != "/signup" {
		t.Errorf("path = %q, want %q", recorder.path, "/signup")
	}
	if recorder.status != http.StatusCreated {
		t.Errorf("status = %d, want %d", recorder.status, http.StatusCreated)
	}
	if recorder.duration < 0 {
		t.Errorf("duration = %v, want >= 0", recorder.duration)
	}
}

func TestMetricsMiddleware_DefaultStatus200(t *testing.T) {
	recorder := &mockHTTPRecorder{}

	handler := NewMetricsMiddleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if recorder.status != http.StatusOK {
		t.Errorf("status = %d, want %d", recorder.status, http.StatusOK)
	}
}
