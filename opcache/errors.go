package opcache

import "errors"

var (
	// ErrMissingURL indicates HTTPConfig.URL is empty.
	ErrMissingURL = errors.New("opcache: status url is required")

	// ErrUnexpectedStatus indicates the status endpoint answered with a non-2xx code.
	ErrUnexpectedStatus = errors.New("opcache: unexpected status code")

	// ErrInvalidTimeout indicates OPCACHE_STATUS_TIMEOUT is not a duration.
	ErrInvalidTimeout = errors.New("opcache: invalid status timeout")

	// ErrMalformedStatus indicates the status payload could not be decoded.
	ErrMalformedStatus = errors.New("opcache: malformed status payload")
)
