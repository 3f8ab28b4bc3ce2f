package tidbsql

import (
	"net"
	"net/url"
	"strconv"

	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/destination"
)

const (
	DestinationName = "tidb"
	DefaultPort     = 4000

	optSSLCA = "ssl_ca"
)

type TiDBConfig struct {
	Host     string
	Port     int
	User     string
	Pass     *string
	Database string
	SSLCA    string
}

func NewTiDBConfig(cfg destination.RawConfig) (*TiDBConfig, error) {
	var (
		config TiDBConfig
		err    error
	)
	if config.Host, err = cfg.RequiredString("host"); err != nil {
		return nil, err
	}
	if config.Port, err = cfg.PortOrDefault("port", DefaultPort); err != nil {
		return nil, err
	}
	if config.Database, err = cfg.RequiredString("database"); err != nil {
		return nil, err
	}
	if config.User, err = cfg.RequiredString("username"); err != nil {
		return nil, err
	}
	if config.Pass, err = cfg.OptionalPassword("password"); err != nil {
		return nil, err
	}
	if config.SSLCA, err = cfg.StringOrDefault(optSSLCA, ""); err != nil {
		return nil, err
	}
	return &config, nil
}

// URL is mysql://host:port/database.
func (config *TiDBConfig) URL() string {
	u := url.URL{
		Scheme: "mysql",
		Host:   net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Path:   "/" + config.Database,
	}
	return u.String()
}

// Descriptor converts the config into a connection descriptor. In TiDB a
// schema is a database.
func (config *TiDBConfig) Descriptor() *coreinterfaces.ConnectionDescriptor {
	desc := &coreinterfaces.ConnectionDescriptor{
		Username:      config.User,
		Password:      config.Pass,
		URL:           config.URL(),
		Schema:        config.Database,
		DriverOptions: map[string]string{},
	}
	if config.SSLCA != "" {
		desc.DriverOptions[optSSLCA] = config.SSLCA
	}
	return desc
}

func ToDescriptor(cfg destination.RawConfig) (*coreinterfaces.ConnectionDescriptor, error) {
	config, err := NewTiDBConfig(cfg)
	if err != nil {
		return nil, err
	}
	return config.Descriptor(), nil
}

func DefaultProperties(_ destination.RawConfig) map[string]string {
	return map[string]string{
		"parseTime": "true",
		"charset":   "utf8mb4",
	}
}

var fields = []destination.Field{
	{Name: "host", Title: "Host", Description: "Hostname of the database.", Required: true},
	{Name: "port", Title: "Port", Type: "integer", Description: "Port of the database.", Default: DefaultPort},
	{Name: "database", Title: "Database", Description: "Name of the database.", Required: true},
	{Name: "username", Title: "User", Description: "Username to use to access the database.", Required: true},
	{Name: "password", Title: "Password", Description: "Password associated with the username.", Secret: true},
	{Name: optSSLCA, Title: "SSL CA", Description: "Path of a PEM encoded CA certificate. Enables TLS when set."},
}

func NewProfile() destination.VendorProfile {
	return destination.VendorProfile{
		Name:              DestinationName,
		Driver:            NewTiDBDriver(),
		Naming:            NewNameTransformer(),
		SQLOps:            &TiDBSQLOperations{},
		ToDescriptor:      ToDescriptor,
		DefaultProperties: DefaultProperties,
		Precedence:        destination.UserPropertiesWin,
		Fields:            fields,
		DocumentationURL:  "https://docs.pingcap.com/tidb/stable/dev-guide-sample-application-golang-sql-driver",
	}
}
