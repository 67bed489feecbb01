package probe

import (
	"context"
	"fmt"

	"github.com/jonwraymond/healthprobe/health"
	"github.com/jonwraymond/healthprobe/opcache"
)

// InfoOpcacheMemory is the info key carrying the bytecode cache memory usage.
const InfoOpcacheMemory = "opcache_memory_usage"

// OpcacheChecker reports the bytecode cache state. A disabled cache, or one
// whose state cannot be read, is reported as Disabled and never flips the
// overall verdict.
type OpcacheChecker struct {
	introspector opcache.Introspector
}

// NewOpcacheChecker creates a checker backed by introspector.
func NewOpcacheChecker(introspector opcache.Introspector) *OpcacheChecker {
	return &OpcacheChecker{introspector: introspector}
}

// Name returns "opcache".
func (c *OpcacheChecker) Name() string {
	return "opcache"
}

// Check queries the introspector once.
func (c *OpcacheChecker) Check(ctx context.Context) health.Result {
	status, err := c.introspector.Status(ctx)
	if err != nil {
		return health.Disabled(err.Error())
	}
	if !status.Enabled {
		return health.Disabled("opcache disabled")
	}

	return health.Healthy("opcache enabled").
		WithDetails(map[string]any{
			"cached_scripts": status.CachedScripts,
			"hit_rate":       status.HitRate,
		}).
		WithInfo(InfoOpcacheMemory, fmt.Sprintf("%.2fMB", status.UsedMemoryMB()))
}
