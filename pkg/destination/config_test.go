package destination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRawConfig(t *testing.T) {
	cfg, err := ParseRawConfig([]byte(`{"host":"h","port":5439,"ssl":true,"password":null}`))
	require.NoError(t, err)
	require.True(t, cfg.Has("host"))
	require.False(t, cfg.Has("password"))
	require.False(t, cfg.Has("missing"))

	_, err = ParseRawConfig([]byte(`[1,2]`))
	require.True(t, IsConfigurationError(err))
}

func TestRawConfigCoercion(t *testing.T) {
	cfg := RawConfig{
		"host":   "example.com",
		"port":   float64(5439),
		"sport":  "4000",
		"bad":    "http",
		"range":  70000,
		"ssl":    true,
		"nested": map[string]interface{}{"a": 1},
		"empty":  "",
	}

	s, err := cfg.RequiredString("host")
	require.NoError(t, err)
	require.Equal(t, "example.com", s)

	s, err = cfg.RequiredString("ssl")
	require.NoError(t, err)
	require.Equal(t, "true", s)

	_, err = cfg.RequiredString("missing")
	require.True(t, ErrConfiguration.Equal(err))
	require.Contains(t, err.Error(), "missing")

	_, err = cfg.RequiredString("empty")
	require.True(t, ErrConfiguration.Equal(err))
	require.Contains(t, err.Error(), "empty")

	cfg["blank"] = "   "
	_, err = cfg.RequiredString("blank")
	require.True(t, ErrConfiguration.Equal(err))
	_, err = cfg.RequiredPort("blank")
	require.True(t, ErrConfiguration.Equal(err))

	_, err = cfg.RequiredString("nested")
	require.True(t, ErrConfiguration.Equal(err))

	s, err = cfg.StringOrDefault("empty", "def")
	require.NoError(t, err)
	require.Equal(t, "def", s)

	port, err := cfg.RequiredPort("port")
	require.NoError(t, err)
	require.Equal(t, 5439, port)

	port, err = cfg.PortOrDefault("sport", 1)
	require.NoError(t, err)
	require.Equal(t, 4000, port)

	port, err = cfg.PortOrDefault("missing", 443)
	require.NoError(t, err)
	require.Equal(t, 443, port)

	_, err = cfg.RequiredPort("bad")
	require.True(t, ErrConfiguration.Equal(err))
	_, err = cfg.RequiredPort("range")
	require.True(t, ErrConfiguration.Equal(err))

	password, err := cfg.OptionalPassword("password")
	require.NoError(t, err)
	require.Nil(t, password)
	password, err = cfg.OptionalPassword("empty")
	require.NoError(t, err)
	require.NotNil(t, password)
	require.Equal(t, "", *password)
}
