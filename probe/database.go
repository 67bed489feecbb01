package probe

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/jonwraymond/healthprobe/health"
)

// DatabaseChecker connects to MySQL and runs a validation query.
type DatabaseChecker struct {
	config    DatabaseConfig
	timeout   time.Duration
	connector func(*mysql.Config) (driver.Connector, error)
}

// NewDatabaseChecker creates a new MySQL checker.
func NewDatabaseChecker(config DatabaseConfig, timeout time.Duration) *DatabaseChecker {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &DatabaseChecker{config: config, timeout: timeout, connector: mysql.NewConnector}
}

// Name returns "database".
func (c *DatabaseChecker) Name() string {
	return "database"
}

// driverConfig builds the driver settings. Credentials never leave this
// struct; FormatDSN is not logged.
func (c *DatabaseChecker) driverConfig() *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = c.config.User
	cfg.Passwd = c.config.Password
	cfg.Net = "tcp"
	cfg.Addr = c.config.Addr()
	cfg.DBName = c.config.Name
	cfg.Timeout = c.timeout
	cfg.ReadTimeout = c.timeout
	cfg.WriteTimeout = c.timeout
	return cfg
}

// Check opens a single connection and issues SELECT 1.
func (c *DatabaseChecker) Check(ctx context.Context) health.Result {
	if err := c.config.ResolveErr; err != nil {
		return unresolved(err)
	}

	details := map[string]any{
		"addr":     c.config.Addr(),
		"database": c.config.Name,
	}

	connector, err := c.connector(c.driverConfig())
	if err != nil {
		return health.Unhealthy(err.Error(), fmt.Errorf("%w: %v", ErrInvalidConfig, err)).WithDetails(details)
	}

	db := sql.OpenDB(connector)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, 2*c.timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return health.Unhealthy(err.Error(), fmt.Errorf("%w: %v", ErrDependencyUnreachable, err)).WithDetails(details)
	}

	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return health.Unhealthy(err.Error(), fmt.Errorf("%w: %v", ErrDependencyRejected, err)).WithDetails(details)
	}

	return health.Healthy("database reachable").WithDetails(details)
}
