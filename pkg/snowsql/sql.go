package snowsql

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

// SnowflakeSQLOperations implements coreinterfaces.SQLOperations.
type SnowflakeSQLOperations struct{}

func qualified(schemaName, tableName string) string {
	return utils.QualifiedName(schemaName, tableName, `"`)
}

func (o *SnowflakeSQLOperations) CreateSchemaIfNotExists(ctx context.Context, db *sql.DB, schemaName string) error {
	sql := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", utils.QuoteIdentifier(schemaName, `"`))
	log.Info("Creating schema in Snowflake if not exists", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *SnowflakeSQLOperations) CreateTableIfNotExists(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql, err := formatter.Format(`
CREATE TABLE IF NOT EXISTS {tableName} (
    {abID} VARCHAR PRIMARY KEY,
    {data} VARIANT,
    {emittedAt} TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP()
) DATA_RETENTION_TIME_IN_DAYS = 0`, formatter.Named{
		"tableName": qualified(schemaName, tableName),
		"abID":      naming.ColumnABID,
		"data":      naming.ColumnData,
		"emittedAt": naming.ColumnEmittedAt,
	})
	if err != nil {
		return errors.Trace(err)
	}
	log.Info("Creating table in Snowflake if not exists", zap.String("query", sql))
	_, err = db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *SnowflakeSQLOperations) DropTableIfExists(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s", qualified(schemaName, tableName))
	log.Info("Dropping table in Snowflake if exists", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *SnowflakeSQLOperations) TruncateTable(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql := fmt.Sprintf("TRUNCATE TABLE IF EXISTS %s", qualified(schemaName, tableName))
	log.Info("Truncating table in Snowflake", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

// InsertRecords inserts through a VALUES clause, since PARSE_JSON is not
// allowed directly in an INSERT ... VALUES list.
func (o *SnowflakeSQLOperations) InsertRecords(ctx context.Context, db *sql.DB, records []*protocol.Record, schemaName, tableName string) error {
	target := qualified(schemaName, tableName)
	for _, chunk := range utils.ChunkRows(utils.ToRawRows(records, time.Now()), insertBatchSize) {
		values := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, 3*len(chunk))
		for _, row := range chunk {
			values = append(values, "(?, ?, ?)")
			args = append(args, row.ID, row.Data, row.EmittedAt.Format(time.RFC3339Nano))
		}
		sql := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) SELECT column1, PARSE_JSON(column2), column3 FROM VALUES %s",
			target, naming.ColumnABID, naming.ColumnData, naming.ColumnEmittedAt, strings.Join(values, ", "))
		if _, err := db.ExecContext(ctx, sql, args...); err != nil {
			return errors.Annotatef(err, "failed to insert %d records into %s", len(chunk), target)
		}
	}
	return nil
}
