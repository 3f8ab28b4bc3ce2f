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
	"net/url"

	_ "github.com/databricks/databricks-sql-go"
	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/naming"
	"github.com/pingcap-inc/dwsink/pkg/utils"
	"github.com/pingcap/errors"
)

const DriverName = "databricks"

const maxIdentifierLength = 255

// DatabricksDriver implements coreinterfaces.Driver on top of databricks-sql-go.
type DatabricksDriver struct{}

func NewDatabricksDriver() *DatabricksDriver {
	return &DatabricksDriver{}
}

func (d *DatabricksDriver) Name() string {
	return DriverName
}

// DSN renders token:<pat>@host:port/http_path?catalog=..&schema=..
func (d *DatabricksDriver) DSN(_ context.Context, desc *coreinterfaces.ConnectionDescriptor) (string, error) {
	u, err := url.Parse(desc.URL)
	if err != nil {
		return "", errors.Annotate(err, "invalid Databricks url")
	}
	query := url.Values{}
	for _, k := range desc.SortedPropertyKeys() {
		query.Set(k, desc.Properties[k])
	}
	query.Set("schema", desc.Schema)
	dsn := url.URL{
		User:     url.UserPassword(desc.Username, desc.PasswordOrEmpty()),
		Host:     u.Host,
		Path:     u.Path,
		RawQuery: query.Encode(),
	}
	// the driver expects no scheme
	return dsn.String()[len("//"):], nil
}

func (d *DatabricksDriver) ListCatalogs(ctx context.Context, db *sql.DB) ([]string, error) {
	return utils.QueryColumn(ctx, db, "SHOW CATALOGS", "")
}

func NewNameTransformer() *naming.Transformer {
	return &naming.Transformer{Case: naming.CaseLower, MaxLength: maxIdentifierLength}
}
