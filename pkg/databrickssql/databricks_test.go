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
	"encoding/json"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pingcap-inc/dwsink/pkg/destination"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/stretchr/testify/require"
)

func TestDescriptorAndDSN(t *testing.T) {
	cfg := destination.RawConfig{
		"databricks_server_hostname":       "abc-123.cloud.databricks.com",
		"databricks_http_path":             "sql/1.0/warehouses/0000",
		"databricks_personal_access_token": "dapi0123",
		destination.ExtraParamsKey:         "catalog=main&timeout=60",
	}
	d := destination.New(NewProfile(), nil)
	desc, err := d.Descriptor(cfg)
	require.NoError(t, err)
	require.Equal(t, "databricks://abc-123.cloud.databricks.com:443/sql/1.0/warehouses/0000", desc.URL)
	require.Equal(t, DefaultSchema, desc.Schema)
	require.Equal(t, "main", desc.Properties[propCatalog])

	dsn, err := NewDatabricksDriver().DSN(context.Background(), desc)
	require.NoError(t, err)
	require.Equal(t, "token:dapi0123@abc-123.cloud.databricks.com:443/sql/1.0/warehouses/0000?catalog=main&schema=default&timeout=60", dsn)

	for _, key := range []string{"databricks_server_hostname", "databricks_http_path", "databricks_personal_access_token"} {
		blank := destination.RawConfig{}
		for k, v := range cfg {
			blank[k] = v
		}
		blank[key] = ""
		_, err = d.Descriptor(blank)
		require.True(t, destination.IsConfigurationError(err), key)

		delete(blank, key)
		_, err = d.Descriptor(blank)
		require.True(t, destination.IsConfigurationError(err), key)
	}
}

func TestDatabricksInsertRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	records := []*protocol.Record{{Stream: "s", Data: json.RawMessage(`{"name":"O'Brien"}`), EmittedAt: 1700000000000}}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `default`.`t1` (_airbyte_ab_id, _airbyte_data, _airbyte_emitted_at) VALUES ('") +
		`[0-9a-f-]{36}` + regexp.QuoteMeta(`', '{"name":"O\'Brien"}', TIMESTAMP '2023-11-14 22:13:20.000000')`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, (&DatabricksSQLOperations{}).InsertRecords(context.Background(), db, records, "default", "t1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabricksDDL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	ops := &DatabricksSQLOperations{}

	mock.ExpectExec(regexp.QuoteMeta("CREATE SCHEMA IF NOT EXISTS `default`")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS `default`.`t1`")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("TRUNCATE TABLE `default`.`t1`")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS `default`.`t1`")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, ops.CreateSchemaIfNotExists(ctx, db, "default"))
	require.NoError(t, ops.CreateTableIfNotExists(ctx, db, "default", "t1"))
	require.NoError(t, ops.TruncateTable(ctx, db, "default", "t1"))
	require.NoError(t, ops.DropTableIfExists(ctx, db, "default", "t1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
