package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func reportOf(results ...NamedResult) ReportFunc {
	return func(ctx context.Context) Report {
		agg := NewAggregator()
		for _, r := range results {
			r := r
			agg.Register(r.Name, NewCheckerFunc(r.Name, func(ctx context.Context) Result {
				return r.Result
			}))
		}
		return agg.Report(ctx)
	}
}

func TestLivenessHandler(t *testing.T) {
	handler := LivenessHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Body = %v, want 'OK'", rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "text/plain" {
		t.Errorf("Content-Type = %v, want 'text/plain'", rec.Header().Get("Content-Type"))
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		wantCode int
		wantBody string
	}{
		{"healthy", Healthy("ok"), http.StatusOK, "OK"},
		{"disabled", Disabled("off"), http.StatusOK, "OK"},
		{"unhealthy", Unhealthy("down", nil), http.StatusServiceUnavailable, "UNHEALTHY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := ReadinessHandler(reportOf(NamedResult{"test", tt.result}))

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantCode)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("Body = %v, want %v", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestReportHandler_Healthy(t *testing.T) {
	handler := ReportHandler(reportOf(
		NamedResult{"filesystem", Healthy("ok")},
		NamedResult{"opcache", Healthy("ok").WithInfo("opcache_memory_usage", "12.34MB")},
	))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %v, want 'application/json'", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "\n    \"status\"") {
		t.Errorf("Body is not pretty-printed: %s", rec.Body.String())
	}

	var body struct {
		Status    string            `json:"status"`
		Timestamp int64             `json:"timestamp"`
		Checks    map[string]string `json:"checks"`
		Info      map[string]any    `json:"info"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if body.Status != "healthy" {
		t.Errorf("status = %v, want 'healthy'", body.Status)
	}
	if body.Timestamp == 0 {
		t.Error("timestamp should be set")
	}
	if body.Checks["filesystem"] != "healthy" || body.Checks["opcache"] != "healthy" {
		t.Errorf("checks = %v", body.Checks)
	}
	if body.Info["opcache_memory_usage"] != "12.34MB" {
		t.Errorf("info = %v", body.Info)
	}
}

func TestReportHandler_Unhealthy(t *testing.T) {
	handler := ReportHandler(reportOf(
		NamedResult{"database", Unhealthy("connection refused", nil)},
		NamedResult{"filesystem", Healthy("ok")},
	))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	checks := body["checks"].(map[string]any)
	if checks["database"] != "unhealthy: connection refused" {
		t.Errorf("checks.database = %v", checks["database"])
	}
}

func TestReportHandler_PanicDegradesTo503(t *testing.T) {
	handler := ReportHandler(func(ctx context.Context) Report {
		panic("internal fault")
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "unhealthy" {
		t.Errorf("status = %v, want 'unhealthy'", body["status"])
	}
}
