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
	"fmt"
	"strings"
	"time"
	"unicode"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

var literalEscapes = map[rune]string{
	'\'': `\'`,
	'\\': `\\`,
	'\b': `\b`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	0:    `\0`,
}

// stringLiteral renders s as a single-quoted Spark SQL string literal.
// Control characters without a short escape become \uXXXX.
func stringLiteral(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for _, r := range s {
		if esc, ok := literalEscapes[r]; ok {
			sb.WriteString(esc)
			continue
		}
		if unicode.IsControl(r) {
			fmt.Fprintf(&sb, `\u%04x`, r)
			continue
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('\'')
	return sb.String()
}

// timestampLiteral renders t in UTC with microsecond precision.
func timestampLiteral(t time.Time) string {
	return "TIMESTAMP '" + t.UTC().Format(timestampLayout) + "'"
}
