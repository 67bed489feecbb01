package secret

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
}

// EnvProvider resolves a reference as the name of another variable.
type EnvProvider struct {
	lookup func(string) (string, bool)
}

// NewEnvProvider creates an env provider. A nil lookup uses os.LookupEnv.
func NewEnvProvider(lookup func(string) (string, bool)) *EnvProvider {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &EnvProvider{lookup: lookup}
}

// Name returns "env".
func (p *EnvProvider) Name() string { return "env" }

// Resolve returns the value of the variable named ref.
func (p *EnvProvider) Resolve(ctx context.Context, ref string) (string, error) {
	v, ok := p.lookup(ref)
	if !ok {
		return "", fmt.Errorf("%w: env %s", ErrNotFound, ref)
	}
	return v, nil
}

// FileProvider resolves a reference as a file path, the way container
// runtimes mount secrets.
type FileProvider struct {
	fs   afero.Fs
	root string
}

// NewFileProvider creates a file provider. Relative references are joined
// to root. A nil fs means the OS filesystem.
func NewFileProvider(fsys afero.Fs, root string) *FileProvider {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FileProvider{fs: fsys, root: root}
}

// Name returns "file".
func (p *FileProvider) Name() string { return "file" }

// Resolve returns the file content without its trailing newline.
func (p *FileProvider) Resolve(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := ref
	if !filepath.IsAbs(path) && p.root != "" {
		path = filepath.Join(p.root, path)
	}

	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: file %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("secret: read %s: %w", path, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
