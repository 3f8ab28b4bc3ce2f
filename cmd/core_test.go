package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pingcap-inc/dwsink/pkg/destination"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestProfiles(t *testing.T) {
	names := make([]string, 0)
	for kind, ids := range DestinationKindIds {
		profile, err := Profile(kind)
		require.NoError(t, err)
		require.Equal(t, ids[0], profile.Name)
		require.NotNil(t, profile.Driver)
		require.NotNil(t, profile.Naming)
		require.NotNil(t, profile.SQLOps)
		require.NotNil(t, profile.ToDescriptor)
		names = append(names, profile.Name)
	}
	require.ElementsMatch(t, []string{"redshift", "snowflake", "databricks", "tidb"}, names)
	require.Len(t, AllProfiles(), len(DestinationKindIds))

	_, err := Profile(DestinationKind(42))
	require.Error(t, err)
}

func TestReadConfig(t *testing.T) {
	_, err := readConfig("")
	require.True(t, destination.IsConfigurationError(err))

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"host":"h"}`), 0o600))
	cfg, err := readConfig(path)
	require.NoError(t, err)
	require.Equal(t, "h", cfg["host"])

	_, err = readConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.True(t, destination.IsConfigurationError(err))
}

func TestStreamLabel(t *testing.T) {
	require.Equal(t, "users", streamLabel(protocol.Stream{Name: "users"}))
	require.Equal(t, "shop.orders", streamLabel(protocol.Stream{Name: "orders", Namespace: "shop"}))
}

func TestCommonFlags(t *testing.T) {
	var flags commonFlags
	cmd := &cobra.Command{Use: "check"}
	flags.register(cmd, true)
	require.NoError(t, cmd.Flags().Parse(nil))
	require.Equal(t, DestinationRedshift, flags.kind)
	require.Equal(t, 30*time.Second, flags.connectTimeout)

	require.NoError(t, cmd.Flags().Parse([]string{"--destination", "TiDB", "--connect-timeout", "5s"}))
	require.Equal(t, DestinationTiDB, flags.kind)
	require.Equal(t, 5*time.Second, flags.connectTimeout)
	require.NotNil(t, flags.validatorOption())
}
