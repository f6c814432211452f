// Package financial owns the relational side of the dataset: relationship
// managers, clients, and stock holdings in PostgreSQL.
package financial

import (
	"bytes"
	"context"
	"encoding/json"

	"wealth-advisor/internal/common/database"
	"wealth-advisor/internal/common/errors"
	"wealth-advisor/internal/common/logger"
)

// Store executes model-generated SQL against the financial tables.
type Store struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewStore(db *database.PostgresClient, log logger.Logger) *Store {
	return &Store{db: db, logger: log}
}

// RunQuery executes an arbitrary SQL statement and renders the result set as
// a JSON array of objects, one per row, columns in SELECT order. The SQL is
// executed verbatim; callers are expected to absorb failures rather than
// surface them to users.
func (s *Store) RunQuery(ctx context.Context, sqlQuery string) (string, error) {
	rows, err := s.db.Query(ctx, sqlQuery)
	if err != nil {
		return "", errors.NewQueryExecutionFailedError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", errors.NewQueryExecutionFailedError(err)
	}

	var buf bytes.Buffer
	buf.WriteByte('[')

	values := make([]interface{}, len(columns))
	scanArgs := make([]interface{}, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	rowCount := 0
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return "", errors.NewQueryExecutionFailedError(err)
		}

		if rowCount > 0 {
			buf.WriteByte(',')
		}
		// Encode each row by hand so columns keep their SELECT order;
		// a map would shuffle them.
		buf.WriteByte('{')
		for i, col := range columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(col)
			buf.Write(key)
			buf.WriteByte(':')
			val, err := json.Marshal(normalizeValue(values[i]))
			if err != nil {
				return "", errors.NewQueryExecutionFailedError(err)
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
		rowCount++
	}
	if err := rows.Err(); err != nil {
		return "", errors.NewQueryExecutionFailedError(err)
	}

	buf.WriteByte(']')

	s.logger.Debug("sql query executed", map[string]interface{}{
		"rows": rowCount,
	})

	return buf.String(), nil
}

// Ping reports whether the underlying database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// normalizeValue converts driver values into JSON-friendly types.
// lib/pq hands back []byte for text and numeric columns.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	default:
		return v
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
