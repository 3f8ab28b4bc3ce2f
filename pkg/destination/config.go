package destination

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// RawConfig is the untyped destination configuration supplied by the orchestrator.
// Required fields differ per vendor, so every vendor validates what it reads.
type RawConfig map[string]interface{}

// ParseRawConfig decodes a JSON object into a RawConfig.
func ParseRawConfig(data []byte) (RawConfig, error) {
	cfg := RawConfig{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, ErrConfiguration.GenWithStackByArgs(fmt.Sprintf("config is not a JSON object: %v", err))
	}
	return cfg, nil
}

// Has reports whether key is present with a non-null value.
func (c RawConfig) Has(key string) bool {
	v, ok := c[key]
	return ok && v != nil
}

// OptionalString returns the text value of key. ok is false when the key is
// absent or null. Values which cannot be read as text are rejected.
func (c RawConfig) OptionalString(key string) (value string, ok bool, err error) {
	v, present := c[key]
	if !present || v == nil {
		return "", false, nil
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return "", false, ErrConfiguration.GenWithStackByArgs(fmt.Sprintf("field %q must be text, got %T", key, v))
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false, ErrConfiguration.GenWithStackByArgs(fmt.Sprintf("field %q must be text: %v", key, err))
	}
	return s, true, nil
}

// RequiredString returns the text value of key, failing if it is absent or blank.
func (c RawConfig) RequiredString(key string) (string, error) {
	s, ok, err := c.OptionalString(key)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(s) == "" {
		return "", ErrConfiguration.GenWithStackByArgs(fmt.Sprintf("missing required field %q", key))
	}
	return s, nil
}

// StringOrDefault returns the text value of key, or def if it is absent or empty.
func (c RawConfig) StringOrDefault(key, def string) (string, error) {
	s, ok, err := c.OptionalString(key)
	if err != nil {
		return "", err
	}
	if !ok || s == "" {
		return def, nil
	}
	return s, nil
}

// RequiredPort returns key as a TCP port.
func (c RawConfig) RequiredPort(key string) (int, error) {
	s, err := c.RequiredString(key)
	if err != nil {
		return 0, err
	}
	return parsePort(key, s)
}

// PortOrDefault returns key as a TCP port, or def if it is absent.
func (c RawConfig) PortOrDefault(key string, def int) (int, error) {
	s, ok, err := c.OptionalString(key)
	if err != nil {
		return 0, err
	}
	if !ok || s == "" {
		return def, nil
	}
	return parsePort(key, s)
}

func parsePort(key, s string) (int, error) {
	port, err := cast.ToIntE(s)
	if err != nil || port <= 0 || port > 65535 {
		return 0, ErrConfiguration.GenWithStackByArgs(fmt.Sprintf("field %q must be a port number, got %q", key, s))
	}
	return port, nil
}

// OptionalPassword returns a pointer to the password, or nil when absent.
func (c RawConfig) OptionalPassword(key string) (*string, error) {
	s, ok, err := c.OptionalString(key)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}
