package coreinterfaces

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

/// ConnectionDescriptor is the normalized form of a destination configuration.
/// It is derived fresh for every check or write and is never cached.

type ConnectionDescriptor struct {
	Username string
	// Password is nil when the configuration does not carry one.
	Password *string
	// URL never embeds credentials.
	URL    string
	Schema string
	// Properties are sent to the server as connection parameters.
	Properties map[string]string
	// DriverOptions are consumed by the Driver when it renders the DSN and are
	// never sent to the server.
	DriverOptions map[string]string
}

// PasswordOrEmpty returns the password, or "" if there is none.
func (d *ConnectionDescriptor) PasswordOrEmpty() string {
	if d.Password == nil {
		return ""
	}
	return *d.Password
}

// SortedPropertyKeys returns the property keys in lexical order so that rendered
// DSNs are deterministic.
func (d *ConnectionDescriptor) SortedPropertyKeys() []string {
	keys := maps.Keys(d.Properties)
	slices.Sort(keys)
	return keys
}

// String renders the descriptor with the password redacted.
func (d *ConnectionDescriptor) String() string {
	props := make([]string, 0, len(d.Properties))
	for _, k := range d.SortedPropertyKeys() {
		props = append(props, fmt.Sprintf("%s=%s", k, d.Properties[k]))
	}
	password := "<none>"
	if d.Password != nil {
		password = "******"
	}
	return fmt.Sprintf("{username: %s, password: %s, url: %s, schema: %s, properties: [%s]}",
		d.Username, password, d.URL, d.Schema, strings.Join(props, ", "))
}

/// Driver is the identity of a database/sql driver plus the vendor specific
/// knowledge needed to connect with it.

type Driver interface {
	// Name is the name the driver registered with database/sql.
	Name() string
	// DSN renders the descriptor into a data source name understood by Name().
	// It may perform I/O, e.g. to fetch temporary credentials.
	DSN(ctx context.Context, desc *ConnectionDescriptor) (string, error)
	// ListCatalogs lists the catalogs (databases) visible to the connection.
	// It is used as a cheap reachability probe.
	ListCatalogs(ctx context.Context, db *sql.DB) ([]string, error)
}
