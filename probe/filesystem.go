package probe

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/jonwraymond/healthprobe/health"
)

// FilesystemChecker writes, reads back, and deletes a scratch file.
type FilesystemChecker struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewFilesystemChecker creates a checker that uses dir on fs.
// A nil fs means the OS filesystem.
func NewFilesystemChecker(fs afero.Fs, dir string) *FilesystemChecker {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FilesystemChecker{fs: fs, dir: dir, now: time.Now}
}

// Name returns "filesystem".
func (c *FilesystemChecker) Name() string {
	return "filesystem"
}

// scratchName includes the unix time and a random suffix so concurrent
// probes never share a file.
func (c *FilesystemChecker) scratchName() string {
	return filepath.Join(c.dir, fmt.Sprintf("health_check_%d_%s", c.now().Unix(), uuid.NewString()))
}

// Check performs the round trip. The scratch file is removed on every path
// once it has been created, including a content mismatch.
func (c *FilesystemChecker) Check(ctx context.Context) health.Result {
	if err := ctx.Err(); err != nil {
		return health.Unhealthy(err.Error(), err)
	}

	name := c.scratchName()
	want := []byte("health_check_" + uuid.NewString())
	details := map[string]any{"dir": c.dir}

	if err := afero.WriteFile(c.fs, name, want, 0o600); err != nil {
		// A partial write may still have created the file.
		_ = c.fs.Remove(name)
		return health.Unhealthy(err.Error(), fmt.Errorf("%w: write: %v", ErrFilesystem, err)).WithDetails(details)
	}

	got, readErr := afero.ReadFile(c.fs, name)
	removeErr := c.fs.Remove(name)

	if readErr != nil {
		return health.Unhealthy(readErr.Error(), fmt.Errorf("%w: read: %v", ErrFilesystem, readErr)).WithDetails(details)
	}
	if removeErr != nil {
		return health.Unhealthy(removeErr.Error(), fmt.Errorf("%w: delete: %v", ErrFilesystem, removeErr)).WithDetails(details)
	}
	if !bytes.Equal(got, want) {
		return health.Unhealthy("read/write mismatch", ErrIntegrityMismatch).WithDetails(details)
	}

	return health.Healthy("filesystem writable").WithDetails(details)
}
