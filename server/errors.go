package server

import "errors"

var (
	// ErrInvalidPath indicates a report path that does not contain /health.
	// Such a path would escape the error reporter's health filter.
	ErrInvalidPath = errors.New("server: report path must contain /health")

	// ErrMissingAddr indicates an empty listen address.
	ErrMissingAddr = errors.New("server: listen address is required")

	// ErrNilProber indicates the server was built without a prober.
	ErrNilProber = errors.New("server: prober is required")
)
