package destination

import "github.com/pingcap/errors"

var (
	// ErrConfiguration is returned when a required field is missing or malformed.
	ErrConfiguration = errors.Normalize("invalid configuration: %s",
		errors.RFCCodeText("DWSink:ErrConfiguration"))
	// ErrMalformedParameter is returned when the extra connection parameters
	// do not follow the key=value&key=value grammar.
	ErrMalformedParameter = errors.Normalize(
		"%s must be formatted as 'key=value' pairs separated by the symbol '&'. "+
			"(example: key1=value1&key2=value2&key3=value3). Got %s",
		errors.RFCCodeText("DWSink:ErrMalformedParameter"))
	// ErrConnectivity is returned when the connection or the metadata probe fails.
	ErrConnectivity = errors.Normalize("failed to reach destination: %s",
		errors.RFCCodeText("DWSink:ErrConnectivity"))
	// ErrPermission is returned when the schema or probe table cannot be created or dropped.
	ErrPermission = errors.Normalize("failed to verify write permission on schema %s: %s",
		errors.RFCCodeText("DWSink:ErrPermission"))
)

func IsConfigurationError(err error) bool {
	return ErrConfiguration.Equal(err) || ErrMalformedParameter.Equal(err)
}

func IsConnectivityError(err error) bool {
	return ErrConnectivity.Equal(err)
}

func IsPermissionError(err error) bool {
	return ErrPermission.Equal(err)
}

// ErrorClass names the failure class of err for logs and status reporting.
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case IsConfigurationError(err):
		return "configuration"
	case IsConnectivityError(err):
		return "connectivity"
	case IsPermissionError(err):
		return "permission"
	default:
		return "internal"
	}
}
