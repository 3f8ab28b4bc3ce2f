package utils

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/pingcap/errors"
)

// QueryColumn runs query and collects the column named column from every row.
// An empty column name selects the first column. Names match case-insensitively.
func QueryColumn(ctx context.Context, db *sql.DB, query, column string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Trace(err)
	}
	idx := -1
	for i, c := range columns {
		if column == "" || strings.EqualFold(c, column) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.Errorf("column %s not found in result of %q", column, query)
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	result := make([]string, 0)
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Trace(err)
		}
		result = append(result, values[idx].String)
	}
	return result, errors.Trace(rows.Err())
}

// RawRow is one row of a raw table.
type RawRow struct {
	ID        string
	Data      string
	EmittedAt time.Time
}

// ToRawRows assigns every record a fresh id. A record without an emission time
// is stamped with now.
func ToRawRows(records []*protocol.Record, now time.Time) []RawRow {
	rows := make([]RawRow, 0, len(records))
	for _, r := range records {
		emittedAt := now
		if r.EmittedAt > 0 {
			emittedAt = time.UnixMilli(r.EmittedAt)
		}
		data := string(r.Data)
		if data == "" {
			data = "{}"
		}
		rows = append(rows, RawRow{
			ID:        uuid.NewString(),
			Data:      data,
			EmittedAt: emittedAt.UTC(),
		})
	}
	return rows
}

// ChunkRows splits rows into chunks of at most size rows.
func ChunkRows(rows []RawRow, size int) [][]RawRow {
	if len(rows) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(rows)
	}
	chunks := make([][]RawRow, 0, (len(rows)+size-1)/size)
	for len(rows) > 0 {
		n := min(size, len(rows))
		chunks = append(chunks, rows[:n])
		rows = rows[n:]
	}
	return chunks
}
