package redshiftsql

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/destination"
)

const (
	DestinationName = "redshift"
	DefaultSchema   = "public"
	DefaultPort     = 5439

	optIAMClusterID = "iam_cluster_id"
	optRegion       = "region"
)

// sslProperties are pinned on every Redshift connection.
var sslProperties = map[string]string{
	"sslmode": "require",
}

type RedshiftConfig struct {
	Host     string
	Port     int
	User     string
	Pass     *string
	Database string
	Schema   string

	// IAMClusterID and Region enable IAM authentication when Pass is nil.
	IAMClusterID string
	Region       string
}

// NewRedshiftConfig reads a RedshiftConfig from the raw configuration.
func NewRedshiftConfig(cfg destination.RawConfig) (*RedshiftConfig, error) {
	var (
		config RedshiftConfig
		err    error
	)
	if config.Host, err = cfg.RequiredString("host"); err != nil {
		return nil, err
	}
	if config.Port, err = cfg.RequiredPort("port"); err != nil {
		return nil, err
	}
	if config.User, err = cfg.RequiredString("username"); err != nil {
		return nil, err
	}
	if config.Database, err = cfg.RequiredString("database"); err != nil {
		return nil, err
	}
	if config.Schema, err = cfg.StringOrDefault("schema", DefaultSchema); err != nil {
		return nil, err
	}
	if config.IAMClusterID, err = cfg.StringOrDefault(optIAMClusterID, ""); err != nil {
		return nil, err
	}
	if config.Region, err = cfg.StringOrDefault(optRegion, ""); err != nil {
		return nil, err
	}
	if config.Pass, err = cfg.OptionalPassword("password"); err != nil {
		return nil, err
	}
	if config.Pass == nil {
		if config.IAMClusterID == "" {
			return nil, destination.ErrConfiguration.GenWithStackByArgs(
				fmt.Sprintf("missing required field %q (or %q for IAM authentication)", "password", optIAMClusterID))
		}
		if config.Region == "" {
			return nil, destination.ErrConfiguration.GenWithStackByArgs(
				fmt.Sprintf("field %q is required for IAM authentication", optRegion))
		}
	}
	return &config, nil
}

// URL is postgres://host:port/database, without credentials.
func (config *RedshiftConfig) URL() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Path:   "/" + config.Database,
	}
	return u.String()
}

// Descriptor converts the config into a connection descriptor.
func (config *RedshiftConfig) Descriptor() *coreinterfaces.ConnectionDescriptor {
	desc := &coreinterfaces.ConnectionDescriptor{
		Username:      config.User,
		Password:      config.Pass,
		URL:           config.URL(),
		Schema:        config.Schema,
		DriverOptions: map[string]string{},
	}
	if config.Pass == nil {
		desc.DriverOptions[optIAMClusterID] = config.IAMClusterID
		desc.DriverOptions[optRegion] = config.Region
	}
	return desc
}

// ToDescriptor maps a raw configuration into a Redshift descriptor.
func ToDescriptor(cfg destination.RawConfig) (*coreinterfaces.ConnectionDescriptor, error) {
	config, err := NewRedshiftConfig(cfg)
	if err != nil {
		return nil, err
	}
	return config.Descriptor(), nil
}

// DefaultProperties forces TLS. They win over user supplied parameters.
func DefaultProperties(_ destination.RawConfig) map[string]string {
	props := make(map[string]string, len(sslProperties))
	for k, v := range sslProperties {
		props[k] = v
	}
	return props
}

var fields = []destination.Field{
	{Name: "host", Title: "Host", Description: "Host endpoint of the Redshift cluster (without the port).", Required: true,
		Examples: []string{"example.redshift.amazonaws.com"}},
	{Name: "port", Title: "Port", Type: "integer", Description: "Port of the database.", Required: true, Default: DefaultPort},
	{Name: "username", Title: "Username", Description: "Username to use to access the database.", Required: true},
	{Name: "password", Title: "Password", Description: "Password associated with the username. Omit it to use IAM authentication.", Secret: true},
	{Name: "database", Title: "Database", Description: "Name of the database.", Required: true},
	{Name: "schema", Title: "Default Schema", Description: "The default schema tables are written to.", Default: DefaultSchema},
	{Name: optIAMClusterID, Title: "IAM cluster identifier", Description: "Cluster identifier used to fetch temporary credentials."},
	{Name: optRegion, Title: "AWS region", Description: "Region of the cluster, required with IAM authentication."},
}

// NewProfile returns the Redshift vendor profile.
func NewProfile() destination.VendorProfile {
	return destination.VendorProfile{
		Name:              DestinationName,
		Driver:            NewRedshiftDriver(),
		Naming:            NewNameTransformer(),
		SQLOps:            &RedshiftSQLOperations{},
		ToDescriptor:      ToDescriptor,
		DefaultProperties: DefaultProperties,
		Precedence:        destination.VendorPropertiesWin,
		Fields:            fields,
		DocumentationURL:  "https://docs.aws.amazon.com/redshift/latest/mgmt/connecting-to-cluster.html",
	}
}
