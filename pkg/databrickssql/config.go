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
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/destination"
)

const (
	DestinationName = "databricks"
	DefaultSchema   = "default"
	DefaultCatalog  = "hive_metastore"
	DefaultPort     = 443

	// tokenUser is the fixed user name of personal access token authentication.
	tokenUser = "token"

	propCatalog = "catalog"
)

type DataBricksConfig struct {
	Host     string
	Port     int
	Token    string
	HTTPPath string
	Catalog  string
	Schema   string
}

func NewDataBricksConfig(cfg destination.RawConfig) (*DataBricksConfig, error) {
	var (
		config DataBricksConfig
		err    error
	)
	if config.Host, err = cfg.RequiredString("databricks_server_hostname"); err != nil {
		return nil, err
	}
	if config.HTTPPath, err = cfg.RequiredString("databricks_http_path"); err != nil {
		return nil, err
	}
	if config.Token, err = cfg.RequiredString("databricks_personal_access_token"); err != nil {
		return nil, err
	}
	if config.Port, err = cfg.PortOrDefault("databricks_port", DefaultPort); err != nil {
		return nil, err
	}
	if config.Catalog, err = cfg.StringOrDefault("database", DefaultCatalog); err != nil {
		return nil, err
	}
	if config.Schema, err = cfg.StringOrDefault("schema", DefaultSchema); err != nil {
		return nil, err
	}
	return &config, nil
}

// URL is databricks://host:port/http_path.
func (config *DataBricksConfig) URL() string {
	u := url.URL{
		Scheme: "databricks",
		Host:   net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Path:   "/" + strings.TrimPrefix(config.HTTPPath, "/"),
	}
	return u.String()
}

func (config *DataBricksConfig) Descriptor() *coreinterfaces.ConnectionDescriptor {
	token := config.Token
	return &coreinterfaces.ConnectionDescriptor{
		Username:   tokenUser,
		Password:   &token,
		URL:        config.URL(),
		Schema:     config.Schema,
		Properties: map[string]string{propCatalog: config.Catalog},
	}
}

func ToDescriptor(cfg destination.RawConfig) (*coreinterfaces.ConnectionDescriptor, error) {
	config, err := NewDataBricksConfig(cfg)
	if err != nil {
		return nil, err
	}
	return config.Descriptor(), nil
}

var fields = []destination.Field{
	{Name: "databricks_server_hostname", Title: "Server Hostname", Required: true,
		Description: "Databricks Cluster Server Hostname.", Examples: []string{"abc-12345678-wxyz.cloud.databricks.com"}},
	{Name: "databricks_http_path", Title: "HTTP Path", Required: true,
		Description: "Databricks Cluster HTTP Path.", Examples: []string{"sql/1.0/warehouses/0000-1111111-abcd90"}},
	{Name: "databricks_port", Title: "Port", Type: "integer", Description: "Databricks Cluster Port.", Default: DefaultPort},
	{Name: "databricks_personal_access_token", Title: "Access Token", Required: true, Secret: true,
		Description: "Databricks Personal Access Token for making authenticated requests."},
	{Name: "database", Title: "Databricks catalog", Description: "The name of the catalog.", Default: DefaultCatalog},
	{Name: "schema", Title: "Default Schema", Description: "The default schema tables are written to.", Default: DefaultSchema},
}

func NewProfile() destination.VendorProfile {
	return destination.VendorProfile{
		Name:             DestinationName,
		Driver:           NewDatabricksDriver(),
		Naming:           NewNameTransformer(),
		SQLOps:           &DatabricksSQLOperations{},
		ToDescriptor:     ToDescriptor,
		Precedence:       destination.UserPropertiesWin,
		Fields:           fields,
		DocumentationURL: "https://docs.databricks.com/en/dev-tools/go-sql-driver.html",
	}
}
