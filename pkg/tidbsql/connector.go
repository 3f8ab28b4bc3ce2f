package tidbsql

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"net/url"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/naming"
	"github.com/pingcap-inc/dwsink/pkg/utils"
	"github.com/pingcap/errors"
)

const DriverName = "mysql"

const maxIdentifierLength = 64

// TiDBDriver implements coreinterfaces.Driver on top of go-sql-driver/mysql.
type TiDBDriver struct{}

func NewTiDBDriver() *TiDBDriver {
	return &TiDBDriver{}
}

func (d *TiDBDriver) Name() string {
	return DriverName
}

// DSN renders a go-sql-driver/mysql DSN. No default database is selected, so
// the connection works before the target database exists. Properties are
// appended as DSN parameters and validated by the driver's parser.
func (d *TiDBDriver) DSN(_ context.Context, desc *coreinterfaces.ConnectionDescriptor) (string, error) {
	u, err := url.Parse(desc.URL)
	if err != nil {
		return "", errors.Annotate(err, "invalid TiDB url")
	}
	tidbConfig := mysql.NewConfig()
	tidbConfig.User = desc.Username
	tidbConfig.Passwd = desc.PasswordOrEmpty()
	tidbConfig.Net = "tcp"
	tidbConfig.Addr = u.Host
	if caPath := desc.DriverOptions[optSSLCA]; caPath != "" {
		name, err := registerTLSConfig(u.Hostname(), caPath)
		if err != nil {
			return "", errors.Trace(err)
		}
		tidbConfig.TLSConfig = name
	}
	dsn := tidbConfig.FormatDSN()
	if len(desc.Properties) > 0 {
		params := make([]string, 0, len(desc.Properties))
		for _, k := range desc.SortedPropertyKeys() {
			params = append(params, url.QueryEscape(k)+"="+url.QueryEscape(desc.Properties[k]))
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + strings.Join(params, "&")
	}
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return "", errors.Annotate(err, "invalid TiDB connection parameters")
	}
	return dsn, nil
}

// registerTLSConfig registers a TLS config trusting the CA at caPath and
// returns the name it is registered under.
func registerTLSConfig(host, caPath string) (string, error) {
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return "", errors.Annotatef(err, "failed to read CA file %s", caPath)
	}
	rootCertPool := x509.NewCertPool()
	if ok := rootCertPool.AppendCertsFromPEM(pem); !ok {
		return "", errors.Errorf("Failed to append PEM from %s", caPath)
	}
	name := "dwsink-" + host + "-" + caPath
	err = mysql.RegisterTLSConfig(name, &tls.Config{
		RootCAs:    rootCertPool,
		MinVersion: tls.VersionTLS12,
		ServerName: host,
	})
	return name, errors.Trace(err)
}

func (d *TiDBDriver) ListCatalogs(ctx context.Context, db *sql.DB) ([]string, error) {
	return utils.QueryColumn(ctx, db, "SHOW DATABASES", "")
}

func NewNameTransformer() *naming.Transformer {
	return &naming.Transformer{Case: naming.CaseLower, MaxLength: maxIdentifierLength}
}
