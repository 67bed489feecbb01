package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDisabled, "disabled"},
		{StatusUnhealthy, "unhealthy"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("Status.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHealthy(t *testing.T) {
	result := Healthy("test message")

	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", result.Status)
	}
	if result.Message != "test message" {
		t.Errorf("Message = %v, want 'test message'", result.Message)
	}
	if result.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
}

func TestDisabled(t *testing.T) {
	result := Disabled("switched off")

	if result.Status != StatusDisabled {
		t.Errorf("Status = %v, want StatusDisabled", result.Status)
	}
	if result.Message != "switched off" {
		t.Errorf("Message = %v, want 'switched off'", result.Message)
	}
}

func TestUnhealthy(t *testing.T) {
	err := errors.New("connection refused")
	result := Unhealthy("db down", err)

	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", result.Status)
	}
	if result.Error != err {
		t.Errorf("Error = %v, want %v", result.Error, err)
	}
}

func TestResult_Label(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"healthy", Healthy("ok"), "healthy"},
		{"disabled", Disabled("off"), "disabled"},
		{"unhealthy with message", Unhealthy("dial tcp: refused", nil), "unhealthy: dial tcp: refused"},
		{"unhealthy falls back to error", Unhealthy("", errors.New("boom")), "unhealthy: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResult_WithDetails(t *testing.T) {
	details := map[string]any{"key": "value"}
	result := Healthy("test").WithDetails(details)

	if result.Details["key"] != "value" {
		t.Errorf("Details[key] = %v, want 'value'", result.Details["key"])
	}
}

func TestResult_WithInfo(t *testing.T) {
	base := Healthy("test").WithInfo("a", 1)
	extended := base.WithInfo("b", "two")

	if len(base.Info) != 1 {
		t.Errorf("base Info len = %d, want 1 (WithInfo must copy)", len(base.Info))
	}
	if extended.Info["a"] != 1 || extended.Info["b"] != "two" {
		t.Errorf("extended Info = %v", extended.Info)
	}
}

func TestCheckerFunc(t *testing.T) {
	checker := NewCheckerFunc("test-checker", func(ctx context.Context) Result {
		return Healthy("from func")
	})

	if checker.Name() != "test-checker" {
		t.Errorf("Name() = %v, want 'test-checker'", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Check() Status = %v, want StatusHealthy", result.Status)
	}
	if result.Message != "from func" {
		t.Errorf("Check() Message = %v, want 'from func'", result.Message)
	}
}

func TestCheckerFunc_WithContext(t *testing.T) {
	checker := NewCheckerFunc("ctx-checker", func(ctx context.Context) Result {
		select {
		case <-ctx.Done():
			return Unhealthy("cancelled", ctx.Err())
		default:
			return Healthy("ok")
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := checker.Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("Check() Status = %v, want StatusUnhealthy", result.Status)
	}
}
