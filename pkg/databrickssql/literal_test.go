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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStringLiteral(t *testing.T) {
	require.Equal(t, `'it\'s'`, stringLiteral(`it's`))
	require.Equal(t, `'a\\b'`, stringLiteral(`a\b`))
	require.Equal(t, `'{"k":"v\\"w"}'`, stringLiteral(`{"k":"v\"w"}`))
	require.Equal(t, `'line\nbreak\ttab'`, stringLiteral("line\nbreak\ttab"))
	require.Equal(t, `'\u001f\0'`, stringLiteral("\x1f\x00"))
	require.Equal(t, `'héllo 日本'`, stringLiteral("héllo 日本"))
	require.Equal(t, `''`, stringLiteral(""))
}

func TestTimestampLiteral(t *testing.T) {
	ts := time.Date(2024, 1, 2, 4, 4, 5, 123456789, time.FixedZone("X", 3600))
	require.Equal(t, "TIMESTAMP '2024-01-02 03:04:05.123456'", timestampLiteral(ts))
}
