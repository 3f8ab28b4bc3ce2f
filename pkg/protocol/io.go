package protocol

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/pingcap/errors"
)

// maxMessageSize bounds a single line of the record stream.
const maxMessageSize = 64 * 1024 * 1024

// OutputSink receives messages emitted back to the orchestrator.
type OutputSink interface {
	Emit(msg *Message) error
}

// JSONSink writes one JSON document per line. It is safe for concurrent use.
type JSONSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w)}
}

func (s *JSONSink) Emit(msg *Message) error {
	if err := msg.Validate(); err != nil {
		return errors.Trace(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Trace(s.enc.Encode(msg))
}

// MessageReader decodes the record stream line by line.
type MessageReader struct {
	scanner *bufio.Scanner
}

func NewMessageReader(r io.Reader) *MessageReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	return &MessageReader{scanner: scanner}
}

// Next returns the next message, or io.EOF at the end of the stream.
// Blank lines are skipped.
func (r *MessageReader) Next() (*Message, error) {
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		msg := &Message{}
		if err := json.Unmarshal(line, msg); err != nil {
			return nil, errors.Annotate(err, "failed to decode message")
		}
		if err := msg.Validate(); err != nil {
			return nil, errors.Trace(err)
		}
		return msg, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return nil, io.EOF
}

// UnmarshalFromPath decodes the JSON file at path into v.
func UnmarshalFromPath(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Annotatef(err, "failed to read %s", path)
	}
	return errors.Annotatef(json.Unmarshal(b, v), "failed to decode %s", path)
}

// ReadCatalog reads a configured catalog from path.
func ReadCatalog(path string) (*ConfiguredCatalog, error) {
	catalog := &ConfiguredCatalog{}
	if err := UnmarshalFromPath(path, catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}
