package secret

import (
	"context"
	"fmt"
	"strings"
)

// Resolver resolves secret references using registered providers.
//
// Values with the prefix "secretref:" are resolved via providers.
// Other values are returned as is.
type Resolver struct {
	providers map[string]Provider
	strict    bool
}

// NewResolver creates a resolver.
func NewResolver(strict bool, providers ...Provider) *Resolver {
	r := &Resolver{
		providers: make(map[string]Provider),
		strict:    strict,
	}
	for _, p := range providers {
		if p == nil {
			continue
		}
		r.providers[p.Name()] = p
	}
	return r
}

// Register registers a provider with the resolver.
func (r *Resolver) Register(provider Provider) {
	if r == nil || provider == nil {
		return
	}
	if r.providers == nil {
		r.providers = make(map[string]Provider)
	}
	r.providers[provider.Name()] = provider
}

// ResolveValue resolves value if it is a secret reference.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	providerName, ref, ok := ParseSecretRef(value)
	if !ok {
		return value, nil
	}
	if r == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, providerName)
	}

	provider, ok := r.providers[providerName]
	if !ok || provider == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, providerName)
	}
	resolved, err := provider.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if r.strict && resolved == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptySecret, providerName)
	}
	return resolved, nil
}

// ParseSecretRef parses a full secret reference of the form:
//
//	secretref:<provider>:<ref>
func ParseSecretRef(value string) (provider string, ref string, ok bool) {
	const prefix = "secretref:"
	if !strings.HasPrefix(value, prefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(value, prefix), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// ResolveFunc returns a function that resolves the value read from a named
// variable. Failures are reported to onError (if set) and returned, so the
// caller can tell an unresolved reference from an unset variable.
func (r *Resolver) ResolveFunc(onError func(key string, err error)) func(key, value string) (string, error) {
	return func(key, value string) (string, error) {
		resolved, err := r.ResolveValue(context.Background(), value)
		if err != nil {
			if onError != nil {
				onError(key, err)
			}
			return "", err
		}
		return resolved, nil
	}
}

// Lookup wraps base so that every value it returns is resolved first.
// A reference that fails to resolve is reported to onError (if set) and
// looked up as an empty value, so the raw reference never reaches the
// caller. Settings that must fail when unresolved read base directly and
// resolve through ResolveFunc.
func (r *Resolver) Lookup(base func(string) (string, bool), onError func(key string, err error)) func(string) (string, bool) {
	resolve := r.ResolveFunc(onError)
	return func(key string) (string, bool) {
		v, ok := base(key)
		if !ok {
			return v, ok
		}
		resolved, err := resolve(key, v)
		if err != nil {
			return "", true
		}
		return resolved, true
	}
}
