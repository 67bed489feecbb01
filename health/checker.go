package health

import (
	"context"
	"time"
)

// Status represents the health status of a dependency.
type Status int

const (
	// StatusHealthy indicates the dependency is functioning normally.
	StatusHealthy Status = iota
	// StatusDisabled indicates the dependency exists but is switched off.
	// A disabled dependency never makes the overall report unhealthy.
	StatusDisabled
	// StatusUnhealthy indicates the dependency is not functioning properly.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDisabled:
		return "disabled"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a health check.
type Result struct {
	// Status is the health status.
	Status Status

	// Message provides additional context about the status.
	Message string

	// Details contains arbitrary metadata about the check.
	Details map[string]any

	// Info holds entries promoted into the report's info section.
	Info map[string]any

	// Duration is how long the check took.
	Duration time.Duration

	// Timestamp is when the check was performed.
	Timestamp time.Time

	// Error is the error if the check failed.
	Error error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{
		Status:    StatusHealthy,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Disabled creates a disabled result.
func Disabled(message string) Result {
	return Result{
		Status:    StatusDisabled,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{
		Status:    StatusUnhealthy,
		Message:   message,
		Error:     err,
		Timestamp: time.Now(),
	}
}

// WithDetails adds details to a result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// WithInfo adds a report info entry to a result.
func (r Result) WithInfo(key string, value any) Result {
	info := make(map[string]any, len(r.Info)+1)
	for k, v := range r.Info {
		info[k] = v
	}
	info[key] = value
	r.Info = info
	return r
}

// Label renders the result the way it appears in the report's checks map:
// "healthy", "disabled", or "unhealthy: <message>".
func (r Result) Label() string {
	if r.Status != StatusUnhealthy {
		return r.Status.String()
	}
	msg := r.Message
	if msg == "" && r.Error != nil {
		msg = r.Error.Error()
	}
	return "unhealthy: " + msg
}

// Checker is the interface for health checks.
type Checker interface {
	// Name returns the name of this checker.
	Name() string

	// Check performs the health check and returns the result.
	Check(ctx context.Context) Result
}

// CheckerFunc is an adapter to allow ordinary functions to be used as Checkers.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc creates a new CheckerFunc.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the name of this checker.
func (f *CheckerFunc) Name() string {
	return f.name
}

// Check performs the health check.
func (f *CheckerFunc) Check(ctx context.Context) Result {
	return f.fn(ctx)
}
