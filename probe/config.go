package probe

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultCheckTimeout bounds each dependency connection attempt.
const DefaultCheckTimeout = 2 * time.Second

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// ResolveFunc turns the raw value of key into the value a check uses, for
// example by dereferencing a secret reference.
type ResolveFunc func(key, value string) (string, error)

// CheckConfig is a read-only snapshot of the environment-derived settings the
// checks consume. A nil section means the dependency is not configured and
// its check is skipped.
type CheckConfig struct {
	Database *DatabaseConfig
	Redis    *RedisConfig

	// TempDir is where the filesystem check writes its scratch file.
	TempDir string

	// Timeout bounds each connection attempt and query.
	Timeout time.Duration
}

// DatabaseConfig describes the MySQL connection.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string

	// ResolveErr is set when one of the variables above could not be
	// resolved. The check then fails without dialing.
	ResolveErr error
}

// Addr returns host:port. A host that already carries a port is kept as is.
func (c DatabaseConfig) Addr() string {
	if _, _, err := net.SplitHostPort(c.Host); err == nil {
		return c.Host
	}
	return net.JoinHostPort(c.Host, c.Port)
}

// RedisConfig describes the Redis connection.
type RedisConfig struct {
	Host string
	Port string

	// ResolveErr is set when REDIS_HOST or REDIS_PORT could not be resolved.
	ResolveErr error
}

// URL reports whether Host holds a redis:// or rediss:// URL.
func (c RedisConfig) URL() bool {
	return strings.HasPrefix(c.Host, "redis://") || strings.HasPrefix(c.Host, "rediss://")
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// LoadCheckConfig resolves a CheckConfig from lookup. For each setting the
// first non-empty variable wins, then the hardcoded default. A malformed
// HEALTH_CHECK_TIMEOUT falls back to DefaultCheckTimeout.
//
// resolve, when non-nil, is applied to every value found. Whether a
// dependency is configured is decided from the raw variables, so a host
// whose value fails to resolve still yields a section, with ResolveErr set.
func LoadCheckConfig(lookup LookupFunc, resolve ResolveFunc) CheckConfig {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := &environ{lookup: lookup, resolve: resolve}

	cfg := CheckConfig{
		TempDir: env.get(os.TempDir(), "HEALTH_TMP_DIR"),
		Timeout: DefaultCheckTimeout,
	}

	if raw := env.get("", "HEALTH_CHECK_TIMEOUT"); raw != "" {
		if d, err := parseTimeout(raw); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if env.present("DB_HOST", "MYSQL_HOST") {
		env.err = nil
		cfg.Database = &DatabaseConfig{
			Host:     env.get("localhost", "DB_HOST", "MYSQL_HOST"),
			Port:     env.get("3306", "DB_PORT", "MYSQL_PORT"),
			User:     env.get("root", "DB_USER", "MYSQL_USER"),
			Password: env.get("", "DB_PASSWORD", "MYSQL_PASSWORD"),
			Name:     env.get("test", "DB_NAME", "MYSQL_DATABASE"),
		}
		cfg.Database.ResolveErr = env.err
	}

	if env.present("REDIS_HOST") {
		env.err = nil
		cfg.Redis = &RedisConfig{
			Host: env.get("", "REDIS_HOST"),
			Port: env.get("6379", "REDIS_PORT"),
		}
		cfg.Redis.ResolveErr = env.err
	}

	return cfg
}

// parseTimeout accepts a Go duration ("1500ms") or whole seconds ("2").
func parseTimeout(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

// environ reads settings through lookup and resolve, keeping the first
// resolution failure in err.
type environ struct {
	lookup  LookupFunc
	resolve ResolveFunc
	err     error
}

// present reports whether any of keys holds a non-empty raw value.
func (e *environ) present(keys ...string) bool {
	for _, key := range keys {
		if v, ok := e.lookup(key); ok && v != "" {
			return true
		}
	}
	return false
}

// get returns the resolved value of the first non-empty key, or fallback.
// A value that fails to resolve records the error and yields fallback.
func (e *environ) get(fallback string, keys ...string) string {
	for _, key := range keys {
		v, ok := e.lookup(key)
		if !ok || v == "" {
			continue
		}
		if e.resolve == nil {
			return v
		}
		resolved, err := e.resolve(key, v)
		if err != nil {
			if e.err == nil {
				e.err = fmt.Errorf("%s: %w", key, err)
			}
			return fallback
		}
		return resolved
	}
	return fallback
}
