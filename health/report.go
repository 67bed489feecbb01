package health

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// Report is the aggregate outcome of one health check run. It is built fresh
// for every run and is not modified after being returned.
type Report struct {
	// Status is the overall verdict.
	Status Status

	// Timestamp is when the report was assembled.
	Timestamp time.Time

	// Checks holds the per-check results in execution order.
	Checks []NamedResult

	// Info holds informational entries (runtime version, hostname, metrics).
	Info *Info
}

// Check returns the result recorded under name.
func (r Report) Check(name string) (Result, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c.Result, true
		}
	}
	return Result{}, false
}

// CheckNames returns the names of the recorded checks in order.
func (r Report) CheckNames() []string {
	names := make([]string, len(r.Checks))
	for i, c := range r.Checks {
		names[i] = c.Name
	}
	return names
}

// Healthy reports whether the overall status is healthy.
func (r Report) Healthy() bool {
	return r.Status != StatusUnhealthy
}

// HTTPStatus maps the overall status to a response code: 200 when healthy,
// 503 otherwise.
func (r Report) HTTPStatus() int {
	if r.Healthy() {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

// MarshalJSON encodes the report with checks and info in insertion order.
func (r Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"status":`)
	if err := writeJSON(&buf, r.Status.String()); err != nil {
		return nil, err
	}
	buf.WriteString(`,"timestamp":`)
	if err := writeJSON(&buf, r.Timestamp.Unix()); err != nil {
		return nil, err
	}

	buf.WriteString(`,"checks":{`)
	for i, c := range r.Checks {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, c.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, c.Result.Label()); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`},"info":`)

	info := r.Info
	if info == nil {
		info = NewInfo()
	}
	data, err := info.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(data)
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Info is an insertion-ordered set of informational report entries.
// Values are strings or numbers.
type Info struct {
	keys   []string
	values map[string]any
}

// NewInfo creates an empty Info.
func NewInfo() *Info {
	return &Info{values: make(map[string]any)}
}

// Set stores value under key, keeping the position of an existing key.
func (i *Info) Set(key string, value any) {
	if _, ok := i.values[key]; !ok {
		i.keys = append(i.keys, key)
	}
	i.values[key] = value
}

// Get returns the value stored under key.
func (i *Info) Get(key string) (any, bool) {
	v, ok := i.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (i *Info) Keys() []string {
	keys := make([]string, len(i.keys))
	copy(keys, i.keys)
	return keys
}

// Len returns the number of entries.
func (i *Info) Len() int {
	return len(i.keys)
}

// MarshalJSON encodes the entries as a JSON object in insertion order.
func (i *Info) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for n, k := range i.keys {
		if n > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, i.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
