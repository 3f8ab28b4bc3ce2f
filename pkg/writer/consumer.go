package writer

import (
	"context"
	"database/sql"

	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/destination"
	"github.com/pingcap-inc/dwsink/pkg/metrics"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// flushThreshold is the number of buffered records of one stream that triggers an insert.
const flushThreshold = 5000

type streamWriter struct {
	stream    protocol.ConfiguredStream
	schema    string
	table     string
	buffer    []*protocol.Record
	committed int
}

// RawTableConsumer writes every stream of a catalog into its own raw table.
// It implements coreinterfaces.Consumer and is not safe for concurrent use.
type RawTableConsumer struct {
	db      *sql.DB
	ops     coreinterfaces.SQLOperations
	sink    protocol.OutputSink
	metrics *metrics.Metrics

	streams map[string]*streamWriter
	// order keeps flushes deterministic
	order  []string
	closed bool
}

func streamKey(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// NewFactory returns a destination.WriterFactory building RawTableConsumers.
// m may be nil.
func NewFactory(m *metrics.Metrics) destination.WriterFactory {
	return func(_ context.Context, params destination.WriterParams) (coreinterfaces.Consumer, error) {
		return NewRawTableConsumer(params, m)
	}
}

func NewRawTableConsumer(params destination.WriterParams, m *metrics.Metrics) (*RawTableConsumer, error) {
	if params.Catalog == nil {
		return nil, errors.New("configured catalog is required")
	}
	if params.Sink == nil {
		return nil, errors.New("output sink is required")
	}
	c := &RawTableConsumer{
		db:      params.DB,
		ops:     params.SQLOps,
		sink:    params.Sink,
		metrics: m,
		streams: make(map[string]*streamWriter, len(params.Catalog.Streams)),
	}
	for _, s := range params.Catalog.Streams {
		key := streamKey(s.Stream.Namespace, s.Stream.Name)
		if _, ok := c.streams[key]; ok {
			return nil, errors.Errorf("stream %s is configured more than once", key)
		}
		if s.DestinationSyncMode == protocol.DestinationSyncModeAppendDedup {
			return nil, errors.Errorf("stream %s: destination sync mode %s is not supported", key, s.DestinationSyncMode)
		}
		namespace := s.Stream.Namespace
		if namespace == "" {
			namespace = params.Schema
		}
		c.streams[key] = &streamWriter{
			stream: s,
			schema: params.Naming.Identifier(namespace),
			table:  params.Naming.RawTableName(s.Stream.Name),
		}
		c.order = append(c.order, key)
	}
	return c, nil
}

// Start creates the schema and raw table of every stream. Tables of overwrite
// streams are emptied.
func (c *RawTableConsumer) Start(ctx context.Context) error {
	for _, key := range c.order {
		w := c.streams[key]
		if err := c.ops.CreateSchemaIfNotExists(ctx, c.db, w.schema); err != nil {
			return errors.Annotatef(err, "failed to create schema %s", w.schema)
		}
		if err := c.ops.CreateTableIfNotExists(ctx, c.db, w.schema, w.table); err != nil {
			return errors.Annotatef(err, "failed to create table %s.%s", w.schema, w.table)
		}
		if w.stream.DestinationSyncMode == protocol.DestinationSyncModeOverwrite {
			if err := c.ops.TruncateTable(ctx, c.db, w.schema, w.table); err != nil {
				return errors.Annotatef(err, "failed to truncate table %s.%s", w.schema, w.table)
			}
		}
		log.Info("Stream prepared", zap.String("stream", key),
			zap.String("schema", w.schema), zap.String("table", w.table),
			zap.String("mode", string(w.stream.DestinationSyncMode)))
	}
	return nil
}

// Accept buffers records and commits state. A state is emitted only after every
// record received before it has been inserted.
func (c *RawTableConsumer) Accept(ctx context.Context, msg *protocol.Message) error {
	if c.closed {
		return errors.New("consumer is closed")
	}
	switch msg.Type {
	case protocol.MessageTypeRecord:
		key := streamKey(msg.Record.Namespace, msg.Record.Stream)
		w, ok := c.streams[key]
		if !ok {
			return errors.Errorf("message contained record from a stream that was not in the catalog: %s", key)
		}
		w.buffer = append(w.buffer, msg.Record)
		if len(w.buffer) >= flushThreshold {
			return c.flushStream(ctx, key, w)
		}
	case protocol.MessageTypeState:
		if err := c.flush(ctx); err != nil {
			return errors.Trace(err)
		}
		return errors.Trace(c.sink.Emit(msg))
	default:
		log.Debug("Ignored message", zap.String("type", string(msg.Type)))
	}
	return nil
}

func (c *RawTableConsumer) flush(ctx context.Context) error {
	for _, key := range c.order {
		if err := c.flushStream(ctx, key, c.streams[key]); err != nil {
			return err
		}
	}
	return nil
}

func (c *RawTableConsumer) flushStream(ctx context.Context, key string, w *streamWriter) error {
	if len(w.buffer) == 0 {
		return nil
	}
	if err := c.ops.InsertRecords(ctx, c.db, w.buffer, w.schema, w.table); err != nil {
		if c.metrics != nil {
			c.metrics.AddWriteError(key)
		}
		return errors.Annotatef(err, "failed to write stream %s", key)
	}
	w.committed += len(w.buffer)
	if c.metrics != nil {
		c.metrics.AddRecordsWritten(key, len(w.buffer))
	}
	log.Debug("Flushed records", zap.String("stream", key), zap.Int("count", len(w.buffer)))
	w.buffer = nil
	return nil
}

// Committed returns the number of records inserted for a stream.
func (c *RawTableConsumer) Committed(namespace, name string) int {
	if w, ok := c.streams[streamKey(namespace, name)]; ok {
		return w.committed
	}
	return 0
}

// Close flushes pending records unless hasFailed is set, then releases the
// connection. Calling Close twice is a no-op.
func (c *RawTableConsumer) Close(ctx context.Context, hasFailed bool) error {
	if c.closed {
		return nil
	}
	c.closed = true
	var err error
	if !hasFailed {
		err = c.flush(ctx)
	} else {
		log.Warn("Write failed, pending records are discarded")
	}
	if c.db != nil {
		if cerr := c.db.Close(); cerr != nil && err == nil {
			err = errors.Annotate(cerr, "failed to close connection")
		}
	}
	for _, key := range c.order {
		log.Info("Stream finished", zap.String("stream", key), zap.Int("records", c.streams[key].committed))
	}
	return err
}
