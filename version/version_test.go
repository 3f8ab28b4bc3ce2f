package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionString(t *testing.T) {
	v := NewDWSinkVersion()
	require.Equal(t, "DWSink", v.Name())
	require.Equal(t, "0.1.0", v.SemVer())
	require.True(t, strings.HasPrefix(v.String(), "0.1.0 DWSink\nGo Version: "))
}
