package coreinterfaces

import (
	"context"
	"database/sql"

	"github.com/pingcap-inc/dwsink/pkg/protocol"
)

/// NamingTransformer turns user supplied names into identifiers that are legal
/// and canonical in the destination's SQL dialect.

type NamingTransformer interface {
	// Identifier normalizes a schema or table name.
	Identifier(name string) string
	// RawTableName returns the raw table name for a stream.
	RawTableName(streamName string) string
}

/// SQLOperations are the dialect specific statements a destination plugs in.
/// All names passed in are already normalized by a NamingTransformer.

type SQLOperations interface {
	// CreateSchemaIfNotExists creates the schema unless it exists
	CreateSchemaIfNotExists(ctx context.Context, db *sql.DB, schemaName string) error
	// CreateTableIfNotExists creates a raw table unless it exists
	CreateTableIfNotExists(ctx context.Context, db *sql.DB, schemaName, tableName string) error
	// DropTableIfExists drops the table if it exists
	DropTableIfExists(ctx context.Context, db *sql.DB, schemaName, tableName string) error
	// TruncateTable removes every row of the table
	TruncateTable(ctx context.Context, db *sql.DB, schemaName, tableName string) error
	// InsertRecords inserts records into a raw table
	InsertRecords(ctx context.Context, db *sql.DB, records []*protocol.Record, schemaName, tableName string) error
}

/// Consumer is the write pipeline handed out by a destination.
/// One Consumer owns one connection for its whole lifetime.

type Consumer interface {
	// Start prepares the destination tables
	Start(ctx context.Context) error
	// Accept consumes one message of the record stream
	Accept(ctx context.Context, msg *protocol.Message) error
	// Close flushes pending records unless hasFailed is set, and releases the connection
	Close(ctx context.Context, hasFailed bool) error
}
