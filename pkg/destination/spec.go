package destination

import (
	"github.com/pingcap-inc/dwsink/pkg/protocol"
)

// Field describes one configuration field of a destination.
type Field struct {
	Name        string
	Title       string
	Description string
	// Type is a JSON schema type, "string" when empty.
	Type     string
	Required bool
	Secret   bool
	Default  interface{}
	Examples []string
}

var extraParamsField = Field{
	Name:  ExtraParamsKey,
	Title: "Extra connection parameters",
	Description: "Additional properties to pass to the driver when connecting, formatted as " +
		"'key=value' pairs separated by the symbol '&'. (example: key1=value1&key2=value2&key3=value3).",
}

// Specification renders the destination's fields as a connector specification.
func (d *Destination) Specification() *protocol.ConnectorSpecification {
	fields := append(append([]Field{}, d.profile.Fields...), extraParamsField)
	props := make(map[string]protocol.PropertySpec, len(fields))
	required := make([]string, 0, len(fields))
	for i, f := range fields {
		tp := f.Type
		if tp == "" {
			tp = "string"
		}
		props[f.Name] = protocol.PropertySpec{
			Title:       f.Title,
			Description: f.Description,
			Type:        tp,
			Default:     f.Default,
			Examples:    f.Examples,
			IsSecret:    f.Secret,
			Order:       i,
		}
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return &protocol.ConnectorSpecification{
		DocumentationURL:    d.profile.DocumentationURL,
		SupportsIncremental: true,
		SupportedDestinationSyncModes: []protocol.DestinationSyncMode{
			protocol.DestinationSyncModeOverwrite,
			protocol.DestinationSyncModeAppend,
		},
		ConnectionSpecification: protocol.ConnectionSpecification{
			Schema:     "http://json-schema.org/draft-07/schema#",
			Title:      d.profile.Name + " destination spec",
			Type:       "object",
			Required:   required,
			Properties: props,
		},
	}
}
