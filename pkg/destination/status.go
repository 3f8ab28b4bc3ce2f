package destination

import (
	"strings"

	"github.com/pingcap-inc/dwsink/pkg/protocol"
)

// FailurePrefix starts every failure message returned by a check.
const FailurePrefix = "Could not connect with provided configuration. "

// minRedactLength is the shortest password that is masked out of failure messages.
const minRedactLength = 3

// ConnectionStatus is the result of a check. There is no partial state.
type ConnectionStatus struct {
	Status  protocol.Status
	Message string
}

func Succeeded() ConnectionStatus {
	return ConnectionStatus{Status: protocol.StatusSucceeded}
}

func Failed(message string) ConnectionStatus {
	return ConnectionStatus{Status: protocol.StatusFailed, Message: message}
}

// FailedWith builds the single-line failure reported for err, with the
// password masked out.
func FailedWith(err error, password string) ConnectionStatus {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if len(password) >= minRedactLength {
		msg = strings.ReplaceAll(msg, password, "******")
	}
	return Failed(FailurePrefix + msg)
}

func (s ConnectionStatus) IsSucceeded() bool {
	return s.Status == protocol.StatusSucceeded
}

func (s ConnectionStatus) ToMessage() *protocol.Message {
	return &protocol.Message{
		Type: protocol.MessageTypeConnectionStatus,
		ConnectionStatus: &protocol.ConnectionStatus{
			Status:  s.Status,
			Message: s.Message,
		},
	}
}
