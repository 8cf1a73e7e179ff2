package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/logger"
)

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// countRows runs a COUNT(*) query built from q
func countRows(ctx context.Context, conn db.DBTX, q squirrel.SelectBuilder, what string) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("query", what).Msg("Error building count SQL")
		return 0, fmt.Errorf("failed to build count %s query: %w", what, err)
	}

	var total int64
	if err := conn.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("query", what).Msg("Error executing count query")
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return total, nil
}

// countGrouped runs a "<column>, COUNT(*) ... GROUP BY <column>" query into a map
func countGrouped(ctx context.Context, conn db.DBTX, q squirrel.SelectBuilder, what string) (map[string]int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", what, err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("query", what).Msg("Error executing grouped count query")
		return nil, fmt.Errorf("failed to count %s: %w", what, err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", what, err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
