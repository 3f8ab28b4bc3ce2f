package redshiftsql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pingcap-inc/dwsink/pkg/naming"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/pingcap-inc/dwsink/pkg/utils"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"gitlab.com/tymonx/go-formatter/formatter"
	"go.uber.org/zap"
)

// insertBatchSize keeps a multi-row INSERT well below Redshift's statement size limit.
const insertBatchSize = 500

// RedshiftSQLOperations implements coreinterfaces.SQLOperations.
type RedshiftSQLOperations struct{}

func quote(name string) string {
	return utils.QuoteIdentifier(name, `"`)
}

func qualified(schemaName, tableName string) string {
	return utils.QualifiedName(schemaName, tableName, `"`)
}

func (o *RedshiftSQLOperations) CreateSchemaIfNotExists(ctx context.Context, db *sql.DB, schemaName string) error {
	sql := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", quote(schemaName))
	log.Info("Creating schema in Redshift if not exists", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

// CreateTableIfNotExists creates a raw table. _airbyte_data is stored as SUPER so
// it can be queried with PartiQL.
func (o *RedshiftSQLOperations) CreateTableIfNotExists(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql, err := formatter.Format(`
CREATE TABLE IF NOT EXISTS {tableName} (
    {abID} VARCHAR PRIMARY KEY,
    {data} SUPER,
    {emittedAt} TIMESTAMP WITH TIME ZONE DEFAULT GETDATE()
)`, formatter.Named{
		"tableName": qualified(schemaName, tableName),
		"abID":      naming.ColumnABID,
		"data":      naming.ColumnData,
		"emittedAt": naming.ColumnEmittedAt,
	})
	if err != nil {
		return errors.Trace(err)
	}
	log.Info("Creating table in Redshift if not exists", zap.String("query", sql))
	_, err = db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *RedshiftSQLOperations) DropTableIfExists(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s", qualified(schemaName, tableName))
	log.Info("Dropping table in Redshift if exists", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *RedshiftSQLOperations) TruncateTable(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql := fmt.Sprintf("TRUNCATE TABLE %s", qualified(schemaName, tableName))
	log.Info("Truncating table in Redshift", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *RedshiftSQLOperations) InsertRecords(ctx context.Context, db *sql.DB, records []*protocol.Record, schemaName, tableName string) error {
	target := qualified(schemaName, tableName)
	for _, chunk := range utils.ChunkRows(utils.ToRawRows(records, time.Now()), insertBatchSize) {
		values := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, 3*len(chunk))
		for i, row := range chunk {
			values = append(values, fmt.Sprintf("($%d, JSON_PARSE($%d), $%d)", 3*i+1, 3*i+2, 3*i+3))
			args = append(args, row.ID, row.Data, row.EmittedAt)
		}
		sql := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES %s",
			target, naming.ColumnABID, naming.ColumnData, naming.ColumnEmittedAt, strings.Join(values, ", "))
		if _, err := db.ExecContext(ctx, sql, args...); err != nil {
			return errors.Annotatef(err, "failed to insert %d records into %s", len(chunk), target)
		}
	}
	return nil
}
