package probe

import "errors"

var (
	// ErrDependencyUnreachable indicates a dependency could not be reached.
	ErrDependencyUnreachable = errors.New("probe: dependency unreachable")

	// ErrDependencyRejected indicates a dependency answered with an error.
	ErrDependencyRejected = errors.New("probe: dependency rejected request")

	// ErrIntegrityMismatch indicates the filesystem round-trip returned different content.
	ErrIntegrityMismatch = errors.New("probe: filesystem read/write mismatch")

	// ErrFilesystem indicates a scratch file operation failed.
	ErrFilesystem = errors.New("probe: filesystem operation failed")

	// ErrInvalidConfig indicates a malformed configuration value.
	ErrInvalidConfig = errors.New("probe: invalid configuration")

	// ErrUnresolved indicates a configuration value could not be resolved.
	ErrUnresolved = errors.New("probe: secret reference not resolved")
)
