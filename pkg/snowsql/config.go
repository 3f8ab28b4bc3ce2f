package snowsql

import (
	"net/url"

	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/destination"
)

const (
	DestinationName = "snowflake"
	DefaultSchema   = "PUBLIC"

	propWarehouse   = "warehouse"
	propRole        = "role"
	propApplication = "application"

	applicationName = "dwsink"
)

type SnowflakeConfig struct {
	Host      string
	Role      string
	Warehouse string
	User      string
	Pass      string
	Database  string
	Schema    string
}

func NewSnowflakeConfig(cfg destination.RawConfig) (*SnowflakeConfig, error) {
	var (
		config SnowflakeConfig
		err    error
	)
	required := []struct {
		key string
		dst *string
	}{
		{"host", &config.Host},
		{"role", &config.Role},
		{"warehouse", &config.Warehouse},
		{"database", &config.Database},
		{"username", &config.User},
		{"password", &config.Pass},
	}
	for _, f := range required {
		if *f.dst, err = cfg.RequiredString(f.key); err != nil {
			return nil, err
		}
	}
	if config.Schema, err = cfg.StringOrDefault("schema", DefaultSchema); err != nil {
		return nil, err
	}
	return &config, nil
}

// URL is snowflake://host/database.
func (config *SnowflakeConfig) URL() string {
	u := url.URL{Scheme: "snowflake", Host: config.Host, Path: "/" + config.Database}
	return u.String()
}

func (config *SnowflakeConfig) Descriptor() *coreinterfaces.ConnectionDescriptor {
	pass := config.Pass
	return &coreinterfaces.ConnectionDescriptor{
		Username: config.User,
		Password: &pass,
		URL:      config.URL(),
		Schema:   config.Schema,
		Properties: map[string]string{
			propWarehouse: config.Warehouse,
			propRole:      config.Role,
		},
	}
}

func ToDescriptor(cfg destination.RawConfig) (*coreinterfaces.ConnectionDescriptor, error) {
	config, err := NewSnowflakeConfig(cfg)
	if err != nil {
		return nil, err
	}
	return config.Descriptor(), nil
}

// DefaultProperties tags sessions with the application name. Users may override it.
func DefaultProperties(_ destination.RawConfig) map[string]string {
	return map[string]string{propApplication: applicationName}
}

var fields = []destination.Field{
	{Name: "host", Title: "Host", Required: true,
		Description: "The host domain of the Snowflake instance (must include the account, region, cloud environment, and end with snowflakecomputing.com).",
		Examples:    []string{"accountname.us-east-2.aws.snowflakecomputing.com"}},
	{Name: "role", Title: "Role", Description: "The role you created for the connector to access Snowflake.", Required: true},
	{Name: "warehouse", Title: "Warehouse", Description: "The warehouse you created for the connector to sync data into.", Required: true},
	{Name: "database", Title: "Database", Description: "The database you created for the connector to sync data into.", Required: true},
	{Name: "schema", Title: "Default Schema", Description: "The default schema tables are written to.", Default: DefaultSchema},
	{Name: "username", Title: "Username", Description: "The username you created to allow the connector to access the database.", Required: true},
	{Name: "password", Title: "Password", Description: "The password associated with the username.", Required: true, Secret: true},
}

func NewProfile() destination.VendorProfile {
	return destination.VendorProfile{
		Name:              DestinationName,
		Driver:            NewSnowflakeDriver(),
		Naming:            NewNameTransformer(),
		SQLOps:            &SnowflakeSQLOperations{},
		ToDescriptor:      ToDescriptor,
		DefaultProperties: DefaultProperties,
		Precedence:        destination.UserPropertiesWin,
		Fields:            fields,
		DocumentationURL:  "https://docs.snowflake.com/en/developer-guide/golang/go-driver",
	}
}
