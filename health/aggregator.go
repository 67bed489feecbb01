package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// Timeout is the maximum time a single check may run.
	// Default: 10 seconds
	Timeout time.Duration

	// Parallel runs health checks concurrently when true.
	// Default: false
	Parallel bool

	// MaxConcurrency bounds the number of checks in flight when Parallel is set.
	// Default: 4
	MaxConcurrency int
}

// NamedResult pairs a check name with its result.
type NamedResult struct {
	Name   string
	Result Result
}

// Aggregator combines multiple health checkers into a single composite check.
// Checks run in registration order and every registered check is always
// attempted; one failing check never prevents the others from running.
type Aggregator struct {
	config   AggregatorConfig
	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string // Maintains registration order
}

// NewAggregator creates a new health aggregator.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	cfg := AggregatorConfig{
		Timeout:        10 * time.Second,
		MaxConcurrency: 4,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Timeout <= 0 {
			cfg.Timeout = 10 * time.Second
		}
		if cfg.MaxConcurrency <= 0 {
			cfg.MaxConcurrency = 4
		}
	}

	return &Aggregator{
		config:   cfg,
		checkers: make(map[string]Checker),
		order:    make([]string, 0),
	}
}

// Register adds a health checker to the aggregator.
func (a *Aggregator) Register(name string, checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = checker
}

// Unregister removes a health checker from the aggregator.
func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.checkers, name)

	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// CheckerNames returns the names of all registered checkers in order.
func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// Check runs a single named health check.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()

	if !ok {
		return Result{}, ErrCheckerNotFound
	}

	return a.runCheck(ctx, checker), nil
}

// CheckAll runs all registered health checks and returns the results in
// registration order.
func (a *Aggregator) CheckAll(ctx context.Context) []NamedResult {
	a.mu.RLock()
	results := make([]NamedResult, len(a.order))
	checkers := make([]Checker, len(a.order))
	for i, name := range a.order {
		results[i].Name = name
		checkers[i] = a.checkers[name]
	}
	a.mu.RUnlock()

	if !a.config.Parallel {
		for i, checker := range checkers {
			results[i].Result = a.runCheck(ctx, checker)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(a.config.MaxConcurrency)
	for i, checker := range checkers {
		g.Go(func() error {
			results[i].Result = a.runCheck(ctx, checker)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// OverallStatus computes the overall health status from a set of results.
// Returns Unhealthy if any check is unhealthy, Healthy otherwise. Disabled
// checks do not affect the verdict.
func (a *Aggregator) OverallStatus(results []NamedResult) Status {
	for _, r := range results {
		if r.Result.Status == StatusUnhealthy {
			return StatusUnhealthy
		}
	}
	return StatusHealthy
}

// Report runs all checks and folds them into a Report. Info entries provided
// by individual results are merged into the report's info section.
func (a *Aggregator) Report(ctx context.Context) Report {
	results := a.CheckAll(ctx)

	report := Report{
		Status:    a.OverallStatus(results),
		Timestamp: time.Now(),
		Checks:    results,
		Info:      NewInfo(),
	}

	for _, r := range results {
		keys := make([]string, 0, len(r.Result.Info))
		for k := range r.Result.Info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			report.Info.Set(k, r.Result.Info[k])
		}
	}

	return report
}

func (a *Aggregator) runCheck(ctx context.Context, checker Checker) Result {
	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	start := time.Now()

	resultCh := make(chan Result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resultCh <- Result{
					Status:    StatusUnhealthy,
					Message:   fmt.Sprintf("check panicked: %v", rec),
					Error:     ErrCheckPanicked,
					Duration:  time.Since(start),
					Timestamp: start,
				}
			}
		}()

		result := checker.Check(ctx)
		result.Duration = time.Since(start)
		if result.Timestamp.IsZero() {
			result.Timestamp = start
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		return result
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
}
