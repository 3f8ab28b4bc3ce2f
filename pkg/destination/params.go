package destination

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ExtraParamsKey is the configuration field holding extra connection parameters.
const ExtraParamsKey = "jdbc_url_params"

// ParseParameters parses "key1=value1&key2=value2" into a map.
// Blank input yields an empty map. Every pair must split into exactly one non-empty
// key and one non-empty value. Values cannot contain '&' or '=': no decoding is done.
func ParseParameters(text string) (map[string]string, error) {
	params := make(map[string]string)
	if strings.TrimSpace(text) == "" {
		return params, nil
	}
	for _, kv := range strings.Split(text, "&") {
		parts := strings.Split(kv, "=")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, ErrMalformedParameter.GenWithStackByArgs(ExtraParamsKey, text)
		}
		params[parts[0]] = parts[1]
	}
	return params, nil
}

// ParseParametersFromConfig parses the parameter string stored under key.
// An absent key yields an empty map.
func ParseParametersFromConfig(cfg RawConfig, key string) (map[string]string, error) {
	text, ok, err := cfg.OptionalString(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return make(map[string]string), nil
	}
	params, err := ParseParameters(text)
	if err != nil {
		return nil, err
	}
	return params, nil
}

// PropertyPrecedence decides which side wins when the vendor's connection
// properties and the user's extra parameters share a key.
type PropertyPrecedence int

const (
	// VendorPropertiesWin pins the vendor's properties; user values for those keys are ignored.
	VendorPropertiesWin PropertyPrecedence = iota
	// UserPropertiesWin treats the vendor's properties as defaults.
	UserPropertiesWin
)

func (p PropertyPrecedence) String() string {
	switch p {
	case VendorPropertiesWin:
		return "vendor-wins"
	case UserPropertiesWin:
		return "user-wins"
	default:
		return fmt.Sprintf("PropertyPrecedence(%d)", int(p))
	}
}

// MergeProperties merges vendor and user properties according to precedence.
// It returns the merged map and the user keys that were overridden by the vendor.
// Neither input is modified.
func MergeProperties(precedence PropertyPrecedence, vendor, user map[string]string) (map[string]string, []string) {
	merged := make(map[string]string, len(vendor)+len(user))
	var overridden []string
	switch precedence {
	case UserPropertiesWin:
		for k, v := range vendor {
			merged[k] = v
		}
		for k, v := range user {
			merged[k] = v
		}
	default:
		for k, v := range user {
			merged[k] = v
		}
		for k, v := range vendor {
			if uv, ok := user[k]; ok && uv != v {
				overridden = append(overridden, k)
			}
			merged[k] = v
		}
	}
	slices.Sort(overridden)
	return merged, overridden
}
