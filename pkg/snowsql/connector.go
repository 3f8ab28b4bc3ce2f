package snowsql

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/naming"
	"github.com/pingcap-inc/dwsink/pkg/utils"
	"github.com/pingcap/errors"
	"github.com/snowflakedb/gosnowflake"
)

const DriverName = "snowflake"

const maxIdentifierLength = 255

// SnowflakeDriver implements coreinterfaces.Driver on top of gosnowflake.
type SnowflakeDriver struct{}

func NewSnowflakeDriver() *SnowflakeDriver {
	return &SnowflakeDriver{}
}

func (d *SnowflakeDriver) Name() string {
	return DriverName
}

// DSN maps the descriptor onto a gosnowflake.Config. Warehouse, role and
// application have dedicated fields; every other property is a session parameter.
func (d *SnowflakeDriver) DSN(_ context.Context, desc *coreinterfaces.ConnectionDescriptor) (string, error) {
	u, err := url.Parse(desc.URL)
	if err != nil {
		return "", errors.Annotate(err, "invalid Snowflake url")
	}
	sfConfig := &gosnowflake.Config{
		Account:  accountLocator(u.Hostname()),
		Host:     u.Hostname(),
		User:     desc.Username,
		Password: desc.PasswordOrEmpty(),
		Database: strings.TrimPrefix(u.Path, "/"),
		Schema:   desc.Schema,
		Params:   map[string]*string{},
	}
	for _, k := range desc.SortedPropertyKeys() {
		v := desc.Properties[k]
		switch strings.ToLower(k) {
		case propWarehouse:
			sfConfig.Warehouse = v
		case propRole:
			sfConfig.Role = v
		case propApplication:
			sfConfig.Application = v
		default:
			sfConfig.Params[k] = &v
		}
	}
	dsn, err := gosnowflake.DSN(sfConfig)
	if err != nil {
		return "", errors.Annotate(err, "Failed to generate Snowflake DSN")
	}
	return dsn, nil
}

// accountLocator is the first label of the host name,
// e.g. xy12345 in xy12345.us-east-2.aws.snowflakecomputing.com.
func accountLocator(host string) string {
	account, _, _ := strings.Cut(host, ".")
	return account
}

func (d *SnowflakeDriver) ListCatalogs(ctx context.Context, db *sql.DB) ([]string, error) {
	return utils.QueryColumn(ctx, db, "SHOW DATABASES", "name")
}

// NewNameTransformer folds identifiers to upper case, as Snowflake does.
func NewNameTransformer() *naming.Transformer {
	return &naming.Transformer{Case: naming.CaseUpper, MaxLength: maxIdentifierLength}
}
