package destination

import (
	"testing"

	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

func TestFailedWith(t *testing.T) {
	status := FailedWith(errors.New("FATAL: password authentication failed\n\tfor user=bob password=hunter2"), "hunter2")
	require.False(t, status.IsSucceeded())
	require.Equal(t, protocol.StatusFailed, status.Status)
	require.Equal(t, FailurePrefix+"FATAL: password authentication failed for user=bob password=******", status.Message)

	// short passwords are left alone
	status = FailedWith(errors.New("a b"), "a")
	require.Equal(t, FailurePrefix+"a b", status.Message)
}

func TestStatusToMessage(t *testing.T) {
	msg := Succeeded().ToMessage()
	require.NoError(t, msg.Validate())
	require.Equal(t, protocol.MessageTypeConnectionStatus, msg.Type)
	require.Equal(t, protocol.StatusSucceeded, msg.ConnectionStatus.Status)
	require.Empty(t, msg.ConnectionStatus.Message)
	require.True(t, Succeeded().IsSucceeded())
}
