package redshiftsql

import (
	"testing"

	"github.com/pingcap-inc/dwsink/pkg/destination"
	"github.com/stretchr/testify/require"
)

func baseConfig() destination.RawConfig {
	return destination.RawConfig{
		"host":     "example.redshift.amazonaws.com",
		"port":     5439,
		"username": "user",
		"password": "secret",
		"database": "dev",
	}
}

func TestToDescriptor(t *testing.T) {
	desc, err := ToDescriptor(baseConfig())
	require.NoError(t, err)
	require.Equal(t, "user", desc.Username)
	require.Equal(t, "secret", desc.PasswordOrEmpty())
	require.Equal(t, "postgres://example.redshift.amazonaws.com:5439/dev", desc.URL)
	require.Equal(t, DefaultSchema, desc.Schema)
	require.Empty(t, desc.DriverOptions)
}

func TestToDescriptorMissingFields(t *testing.T) {
	for _, key := range []string{"host", "port", "username", "database"} {
		cfg := baseConfig()
		delete(cfg, key)
		_, err := ToDescriptor(cfg)
		require.Error(t, err, key)
		require.True(t, destination.IsConfigurationError(err), key)
		require.Contains(t, err.Error(), key)

		cfg = baseConfig()
		cfg[key] = ""
		desc, err := ToDescriptor(cfg)
		require.Nil(t, desc, key)
		require.True(t, destination.IsConfigurationError(err), key)
		require.Contains(t, err.Error(), key)
	}

	cfg := baseConfig()
	cfg["port"] = "not-a-port"
	_, err := ToDescriptor(cfg)
	require.True(t, destination.IsConfigurationError(err))
}

func TestToDescriptorIAM(t *testing.T) {
	cfg := baseConfig()
	delete(cfg, "password")
	_, err := ToDescriptor(cfg)
	require.True(t, destination.IsConfigurationError(err))

	cfg[optIAMClusterID] = "my-cluster"
	_, err = ToDescriptor(cfg)
	require.ErrorContains(t, err, optRegion)

	cfg[optRegion] = "us-west-2"
	desc, err := ToDescriptor(cfg)
	require.NoError(t, err)
	require.Nil(t, desc.Password)
	require.Equal(t, map[string]string{optIAMClusterID: "my-cluster", optRegion: "us-west-2"}, desc.DriverOptions)
}

func TestVendorPropertiesWin(t *testing.T) {
	cfg := baseConfig()
	cfg[destination.ExtraParamsKey] = "sslmode=disable&connect_timeout=10"
	d := destination.New(NewProfile(), nil)
	desc, err := d.Descriptor(cfg)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"sslmode": "require", "connect_timeout": "10"}, desc.Properties)
}
