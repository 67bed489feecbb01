// Package opcache exposes bytecode-cache introspection as an optional
// capability.
//
// An Introspector reports whether the runtime's compiled-code cache is
// enabled and how much memory it uses. HTTPIntrospector reads the JSON form
// of PHP's opcache_get_status(false) from a status URL served next to the
// application; Static returns a fixed status. When no introspector is
// configured the capability is absent and callers skip the check entirely.
package opcache
