package redshiftsql

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/stretchr/testify/require"
)

func TestRedshiftSQLOperations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	ops := &RedshiftSQLOperations{}

	mock.ExpectExec(regexp.QuoteMeta(`CREATE SCHEMA IF NOT EXISTS "public"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "public"."t1" ( _airbyte_ab_id VARCHAR PRIMARY KEY, _airbyte_data SUPER,`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`TRUNCATE TABLE "public"."t1"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "public"."t1"`)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, ops.CreateSchemaIfNotExists(ctx, db, "public"))
	require.NoError(t, ops.CreateTableIfNotExists(ctx, db, "public", "t1"))
	require.NoError(t, ops.TruncateTable(ctx, db, "public", "t1"))
	require.NoError(t, ops.DropTableIfExists(ctx, db, "public", "t1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedshiftInsertRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	records := []*protocol.Record{
		{Stream: "users", Data: json.RawMessage(`{"id":1}`), EmittedAt: 1700000000000},
		{Stream: "users", Data: json.RawMessage(`{"id":2}`), EmittedAt: 1700000000001},
	}
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO "public"."t1" (_airbyte_ab_id, _airbyte_data, _airbyte_emitted_at) VALUES ($1, JSON_PARSE($2), $3), ($4, JSON_PARSE($5), $6)`)).
		WithArgs(sqlmock.AnyArg(), `{"id":1}`, sqlmock.AnyArg(), sqlmock.AnyArg(), `{"id":2}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, (&RedshiftSQLOperations{}).InsertRecords(context.Background(), db, records, "public", "t1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
