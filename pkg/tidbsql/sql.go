package tidbsql

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

const insertBatchSize = 1000

// TiDBSQLOperations implements coreinterfaces.SQLOperations. Schemas are databases.
type TiDBSQLOperations struct{}

func qualified(schemaName, tableName string) string {
	return utils.QualifiedName(schemaName, tableName, "`")
}

func (o *TiDBSQLOperations) CreateSchemaIfNotExists(ctx context.Context, db *sql.DB, schemaName string) error {
	sql := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", utils.QuoteIdentifier(schemaName, "`"))
	log.Info("Creating database in TiDB if not exists", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *TiDBSQLOperations) CreateTableIfNotExists(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql, err := formatter.Format(`
CREATE TABLE IF NOT EXISTS {tableName} (
    {abID} VARCHAR(256) PRIMARY KEY,
    {data} JSON,
    {emittedAt} TIMESTAMP(6) DEFAULT CURRENT_TIMESTAMP(6)
) COLLATE utf8mb4_bin`, formatter.Named{
		"tableName": qualified(schemaName, tableName),
		"abID":      naming.ColumnABID,
		"data":      naming.ColumnData,
		"emittedAt": naming.ColumnEmittedAt,
	})
	if err != nil {
		return errors.Trace(err)
	}
	log.Info("Creating table in TiDB if not exists", zap.String("query", sql))
	_, err = db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *TiDBSQLOperations) DropTableIfExists(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s", qualified(schemaName, tableName))
	log.Info("Dropping table in TiDB if exists", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *TiDBSQLOperations) TruncateTable(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql := fmt.Sprintf("TRUNCATE TABLE %s", qualified(schemaName, tableName))
	log.Info("Truncating table in TiDB", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *TiDBSQLOperations) InsertRecords(ctx context.Context, db *sql.DB, records []*protocol.Record, schemaName, tableName string) error {
	target := qualified(schemaName, tableName)
	for _, chunk := range utils.ChunkRows(utils.ToRawRows(records, time.Now()), insertBatchSize) {
		values := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, 3*len(chunk))
		for _, row := range chunk {
			values = append(values, "(?, ?, ?)")
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
