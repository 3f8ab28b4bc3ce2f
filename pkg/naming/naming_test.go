package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	lower := &Transformer{Case: CaseLower}
	upper := &Transformer{Case: CaseUpper}
	preserve := &Transformer{}

	require.Equal(t, "my_schema", lower.Identifier("My-Schema"))
	require.Equal(t, "MY_SCHEMA", upper.Identifier("My Schema"))
	require.Equal(t, "My_Schema", preserve.Identifier("My.Schema"))
	require.Equal(t, "cafe_creme", lower.Identifier("café crème"))
	require.Equal(t, "_1st_table", lower.Identifier("1st table"))
	require.Equal(t, "", lower.Identifier(""))
	require.Equal(t, "___", lower.Identifier("日本語"))

	short := &Transformer{Case: CaseLower, MaxLength: 10}
	require.Equal(t, "abcdefghij", short.Identifier(strings.Repeat("abcdefghij", 3)))
}

func TestTableNames(t *testing.T) {
	n := &Transformer{Case: CaseLower, MaxLength: 64}
	require.Equal(t, "_airbyte_raw_users", n.RawTableName("Users"))
	require.Equal(t, "_airbyte_raw_sales_2024", n.RawTableName("sales.2024"))
}
