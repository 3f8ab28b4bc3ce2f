package utils

import (
	"strings"
)

// QuoteIdentifier wraps name in quote, doubling any quote inside it.
// e.g. QuoteIdentifier(`my"table`, `"`) -> `"my""table"`
func QuoteIdentifier(name, quote string) string {
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

// QualifiedName quotes and joins a schema and table name.
// e.g. QualifiedName("public", "users", `"`) -> `"public"."users"`
func QualifiedName(schemaName, tableName, quote string) string {
	return QuoteIdentifier(schemaName, quote) + "." + QuoteIdentifier(tableName, quote)
}
