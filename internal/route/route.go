// Package route carries screen parameters the way the mobile app passes them
// between screens: every value is a JSON string keyed by name.
package route

import (
	"encoding/json"
	"fmt"
)

// Screen paths.
const (
	Preview  = "/preview"
	Splitter = "/splitter"
	Home     = "/home"
	Review   = "/review"
)

// Route is a navigation target and its encoded parameters.
type Route struct {
	Path   string
	Params map[string]string
}

// New creates a route with no parameters.
func New(path string) Route {
	return Route{Path: path, Params: map[string]string{}}
}

// With returns a copy of r with key set to the JSON encoding of v.
func (r Route) With(key string, v any) (Route, error) {
	encoded, err := Encode(v)
	if err != nil {
		return r, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	params := make(map[string]string, len(r.Params)+1)
	for k, val := range r.Params {
		params[k] = val
	}
	params[key] = encoded
	return Route{Path: r.Path, Params: params}, nil
}

// Param decodes the parameter key into v. A missing parameter leaves v at its zero value.
func (r Route) Param(key string, v any) error {
	if err := Decode(r.Params[key], v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// Encode serializes v to a JSON string.
func Encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses s into v. An empty s is treated as absent and leaves v untouched.
func Decode(s string, v any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
