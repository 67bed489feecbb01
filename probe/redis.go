package probe

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/healthprobe/health"
)

// RedisChecker connects to Redis and issues PING.
type RedisChecker struct {
	config  RedisConfig
	timeout time.Duration
}

// NewRedisChecker creates a new Redis checker.
func NewRedisChecker(config RedisConfig, timeout time.Duration) *RedisChecker {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &RedisChecker{config: config, timeout: timeout}
}

// Name returns "redis".
func (c *RedisChecker) Name() string {
	return "redis"
}

// options accepts either a redis:// URL or a bare host plus port.
func (c *RedisChecker) options() (*redis.Options, error) {
	var opt *redis.Options
	if c.config.URL() {
		parsed, err := redis.ParseURL(c.config.Host)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opt = parsed
	} else {
		if _, err := strconv.ParseUint(c.config.Port, 10, 16); err != nil {
			return nil, fmt.Errorf("REDIS_PORT %q: %w", c.config.Port, err)
		}
		opt = &redis.Options{Addr: c.config.Addr()}
	}

	opt.DialTimeout = c.timeout
	opt.ReadTimeout = c.timeout
	opt.WriteTimeout = c.timeout
	opt.MaxRetries = -1
	opt.PoolSize = 1
	opt.DisableIndentity = true
	return opt, nil
}

// Check dials Redis and pings it once.
func (c *RedisChecker) Check(ctx context.Context) health.Result {
	if err := c.config.ResolveErr; err != nil {
		return unresolved(err)
	}

	opt, err := c.options()
	if err != nil {
		return health.Unhealthy(err.Error(), fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	details := map[string]any{"addr": opt.Addr}

	client := redis.NewClient(opt)
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*c.timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		cause := ErrDependencyUnreachable
		if _, ok := err.(redis.Error); ok {
			cause = ErrDependencyRejected
		}
		return health.Unhealthy(err.Error(), fmt.Errorf("%w: %v", cause, err)).WithDetails(details)
	}

	return health.Healthy("redis reachable").WithDetails(details)
}
