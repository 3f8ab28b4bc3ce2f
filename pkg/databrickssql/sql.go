// Copyright 2022 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package databrickssql

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

const insertBatchSize = 200

// DatabricksSQLOperations implements coreinterfaces.SQLOperations against Delta tables.
type DatabricksSQLOperations struct{}

func qualified(schemaName, tableName string) string {
	return utils.QualifiedName(schemaName, tableName, "`")
}

func (o *DatabricksSQLOperations) CreateSchemaIfNotExists(ctx context.Context, db *sql.DB, schemaName string) error {
	sql := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", utils.QuoteIdentifier(schemaName, "`"))
	log.Info("Creating schema in Databricks if not exists", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *DatabricksSQLOperations) CreateTableIfNotExists(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql, err := formatter.Format(`
CREATE TABLE IF NOT EXISTS {tableName} (
    {abID} STRING,
    {data} STRING,
    {emittedAt} TIMESTAMP
) USING DELTA`, formatter.Named{
		"tableName": qualified(schemaName, tableName),
		"abID":      naming.ColumnABID,
		"data":      naming.ColumnData,
		"emittedAt": naming.ColumnEmittedAt,
	})
	if err != nil {
		return errors.Trace(err)
	}
	log.Info("Creating table in Databricks if not exists", zap.String("query", sql))
	_, err = db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *DatabricksSQLOperations) DropTableIfExists(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s", qualified(schemaName, tableName))
	log.Info("Dropping table in Databricks if exists", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

func (o *DatabricksSQLOperations) TruncateTable(ctx context.Context, db *sql.DB, schemaName, tableName string) error {
	sql := fmt.Sprintf("TRUNCATE TABLE %s", qualified(schemaName, tableName))
	log.Info("Truncating table in Databricks", zap.String("query", sql))
	_, err := db.ExecContext(ctx, sql)
	return errors.Trace(err)
}

// InsertRecords renders rows as literals; the driver does not bind parameters.
func (o *DatabricksSQLOperations) InsertRecords(ctx context.Context, db *sql.DB, records []*protocol.Record, schemaName, tableName string) error {
	target := qualified(schemaName, tableName)
	for _, chunk := range utils.ChunkRows(utils.ToRawRows(records, time.Now()), insertBatchSize) {
		values := make([]string, 0, len(chunk))
		for _, row := range chunk {
			values = append(values, fmt.Sprintf("(%s, %s, %s)",
				stringLiteral(row.ID), stringLiteral(row.Data), timestampLiteral(row.EmittedAt)))
		}
		sql := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES %s",
			target, naming.ColumnABID, naming.ColumnData, naming.ColumnEmittedAt, strings.Join(values, ", "))
		if _, err := db.ExecContext(ctx, sql); err != nil {
			return errors.Annotatef(err, "failed to insert %d records into %s", len(chunk), target)
		}
	}
	return nil
}
