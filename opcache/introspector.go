package opcache

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Status is a snapshot of the bytecode cache.
type Status struct {
	// Enabled reports whether the cache is switched on.
	Enabled bool

	// UsedMemory is the memory held by cached scripts, in bytes.
	UsedMemory uint64

	// FreeMemory is the unused part of the shared segment, in bytes.
	FreeMemory uint64

	// WastedMemory is memory lost to invalidated scripts, in bytes.
	WastedMemory uint64

	// HitRate is the cache hit percentage.
	HitRate float64

	// CachedScripts is the number of scripts in the cache.
	CachedScripts int
}

// UsedMemoryMB returns UsedMemory in megabytes rounded to two decimals.
func (s Status) UsedMemoryMB() float64 {
	return math.Round(float64(s.UsedMemory)/1024/1024*100) / 100
}

// Introspector reports the state of the bytecode cache.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Status must honor cancellation/deadlines.
// - Errors: an error means the state could not be determined.
type Introspector interface {
	Status(ctx context.Context) (Status, error)
}

// Static is an Introspector that always reports the same status.
type Static Status

// Status returns the fixed status.
func (s Static) Status(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}
	return Status(s), nil
}

// FromEnv resolves the introspection capability from the environment.
// It returns nil when OPCACHE_STATUS_URL is not set.
//
// A malformed OPCACHE_STATUS_TIMEOUT yields an introspector using the
// default timeout together with an error wrapping ErrInvalidTimeout, so
// callers choose between failing and carrying on.
func FromEnv(lookup func(string) (string, bool)) (Introspector, error) {
	url, ok := lookup("OPCACHE_STATUS_URL")
	if !ok || url == "" {
		return nil, nil
	}

	var timeoutErr error
	timeout := 2 * time.Second
	if raw, ok := lookup("OPCACHE_STATUS_TIMEOUT"); ok && raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			timeoutErr = fmt.Errorf("%w: %q", ErrInvalidTimeout, raw)
		} else {
			timeout = d
		}
	}

	in, err := NewHTTPIntrospector(HTTPConfig{URL: url, Timeout: timeout})
	if err != nil {
		return nil, err
	}
	return in, timeoutErr
}
