package errreport

import "errors"

var (
	// ErrMissingDSN indicates reporting was enabled without SENTRY_DSN.
	ErrMissingDSN = errors.New("errreport: SENTRY_ENABLED is true but SENTRY_DSN is not set")

	// ErrInit indicates the Sentry client could not be created.
	ErrInit = errors.New("errreport: sentry init failed")
)
