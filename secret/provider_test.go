package secret

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/afero"
)

var (
	_ Provider = (*EnvProvider)(nil)
	_ Provider = (*FileProvider)(nil)
)

func TestEnvProvider(t *testing.T) {
	p := NewEnvProvider(mapLookup(map[string]string{"VAULT_DB": "pw"}))

	got, err := p.Resolve(context.Background(), "VAULT_DB")
	if err != nil || got != "pw" {
		t.Errorf("Resolve() = %q, %v; want pw, nil", got, err)
	}
	if _, err := p.Resolve(context.Background(), "ABSENT"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(ABSENT) error = %v, want ErrNotFound", err)
	}
}

func TestFileProvider(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/run/secrets/db_password", []byte("hunter2\n"), 0o400); err != nil {
		t.Fatal(err)
	}
	p := NewFileProvider(fs, "/run/secrets")

	tests := []struct {
		ref  string
		want string
	}{
		{"/run/secrets/db_password", "hunter2"},
		{"db_password", "hunter2"},
	}

	for _, tt := range tests {
		got, err := p.Resolve(context.Background(), tt.ref)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", tt.ref, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}

	if _, err := p.Resolve(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(absent) error = %v, want ErrNotFound", err)
	}
}

func TestFileProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFileProvider(afero.NewMemMapFs(), "").Resolve(ctx, "/x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

func ExampleResolver_Lookup() {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/run/secrets/db_password", []byte("hunter2\n"), 0o400)

	r := NewResolver(true, NewFileProvider(fs, "/run/secrets"))
	lookup := r.Lookup(func(key string) (string, bool) {
		return "secretref:file:db_password", key == "DB_PASSWORD"
	}, nil)

	v, _ := lookup("DB_PASSWORD")
	fmt.Println(v)
	// Output: hunter2
}
