package protocol

import (
	"encoding/json"

	"github.com/pingcap/errors"
)

// MessageType is the type of a message exchanged with the orchestrator.
type MessageType string

const (
	MessageTypeRecord           MessageType = "RECORD"
	MessageTypeState            MessageType = "STATE"
	MessageTypeLog              MessageType = "LOG"
	MessageTypeSpec             MessageType = "SPEC"
	MessageTypeConnectionStatus MessageType = "CONNECTION_STATUS"
)

var errInvalidTypePayload = errors.New("message type and payload are invalid")

// Message is one line of the record stream. Exactly one payload matches Type.
type Message struct {
	Type             MessageType             `json:"type"`
	Record           *Record                 `json:"record,omitempty"`
	State            *State                  `json:"state,omitempty"`
	Log              *Log                    `json:"log,omitempty"`
	Spec             *ConnectorSpecification `json:"spec,omitempty"`
	ConnectionStatus *ConnectionStatus       `json:"connectionStatus,omitempty"`
}

// Validate checks that the payload matching Type is present.
func (m *Message) Validate() error {
	var ok bool
	switch m.Type {
	case MessageTypeRecord:
		ok = m.Record != nil
	case MessageTypeState:
		ok = m.State != nil
	case MessageTypeLog:
		ok = m.Log != nil
	case MessageTypeSpec:
		ok = m.Spec != nil
	case MessageTypeConnectionStatus:
		ok = m.ConnectionStatus != nil
	default:
		return errors.Errorf("unknown message type %q", m.Type)
	}
	if !ok {
		return errors.Annotatef(errInvalidTypePayload, "type %s", m.Type)
	}
	return nil
}

// Record is a single data point of a stream.
type Record struct {
	Stream    string          `json:"stream"`
	Namespace string          `json:"namespace,omitempty"`
	Data      json.RawMessage `json:"data"`
	EmittedAt int64           `json:"emitted_at"`
}

// State is an opaque checkpoint. It is echoed back once every record preceding it
// has been committed.
type State struct {
	Data json.RawMessage `json:"data"`
}

// LogLevel defines the log levels that can be emitted
type LogLevel string

const (
	LogLevelError LogLevel = "ERROR"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelDebug LogLevel = "DEBUG"
)

type Log struct {
	Level   LogLevel `json:"level"`
	Message string   `json:"message"`
}

// Status is the result of a connection check.
type Status string

const (
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

type ConnectionStatus struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// ConfiguredCatalog is the set of streams selected for a sync.
type ConfiguredCatalog struct {
	Streams []ConfiguredStream `json:"streams"`
}

// ConfiguredStream defines a single selected stream to sync
type ConfiguredStream struct {
	Stream              Stream              `json:"stream"`
	SyncMode            SyncMode            `json:"sync_mode"`
	DestinationSyncMode DestinationSyncMode `json:"destination_sync_mode"`
	CursorField         []string            `json:"cursor_field,omitempty"`
	PrimaryKey          [][]string          `json:"primary_key,omitempty"`
}

type Stream struct {
	Name       string          `json:"name"`
	Namespace  string          `json:"namespace,omitempty"`
	JSONSchema json.RawMessage `json:"json_schema"`
}

type SyncMode string

const (
	SyncModeFullRefresh SyncMode = "full_refresh"
	SyncModeIncremental SyncMode = "incremental"
)

type DestinationSyncMode string

const (
	DestinationSyncModeAppend      DestinationSyncMode = "append"
	DestinationSyncModeOverwrite   DestinationSyncMode = "overwrite"
	DestinationSyncModeAppendDedup DestinationSyncMode = "append_dedup"
)

// ConnectorSpecification describes the configuration a destination accepts.
type ConnectorSpecification struct {
	DocumentationURL              string                  `json:"documentationUrl,omitempty"`
	SupportsIncremental           bool                    `json:"supportsIncremental"`
	SupportsNormalization         bool                    `json:"supportsNormalization"`
	SupportsDBT                   bool                    `json:"supportsDBT"`
	SupportedDestinationSyncModes []DestinationSyncMode   `json:"supported_destination_sync_modes"`
	ConnectionSpecification       ConnectionSpecification `json:"connectionSpecification"`
}

// ConnectionSpecification is a JSON schema of the configuration object.
type ConnectionSpecification struct {
	Schema     string                  `json:"$schema"`
	Title      string                  `json:"title"`
	Type       string                  `json:"type"`
	Required   []string                `json:"required"`
	Properties map[string]PropertySpec `json:"properties"`
}

type PropertySpec struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Type        string      `json:"type"`
	Default     interface{} `json:"default,omitempty"`
	Examples    []string    `json:"examples,omitempty"`
	IsSecret    bool        `json:"airbyte_secret,omitempty"`
	Order       int         `json:"order"`
}
