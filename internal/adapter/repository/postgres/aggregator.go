package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TotalUniqueHits returns the sum of unique-hit counters over all original URLs, 0 when there are none.
func (s *Store) TotalUniqueHits(ctx context.Context) (int64, error) {
	const op = "adapter.repository.postgres.Store.TotalUniqueHits"
	const query = `SELECT COALESCE(SUM(unique_hit_count), 0)::BIGINT FROM original_urls`

	var total int64

	if err := sqlx.GetContext(ctx, s.db, &total, query); err != nil {
		return 0, fmt.Errorf("%s: failed to sum original_urls counters: %w", op, err)
	}

	return total, nil
}

// MostPopular returns at most n original URLs ordered by unique-hit count.
// Equal counts are ordered by creation time and then by id, earliest first.
func (s *Store) MostPopular(ctx context.Context, n int) ([]string, error) {
	const op = "adapter.repository.postgres.Store.MostPopular"
	const query = `SELECT url FROM original_urls
		ORDER BY unique_hit_count DESC, created_at ASC, id ASC
		LIMIT $1`

	urls := make([]string, 0, n)

	if err := sqlx.SelectContext(ctx, s.db, &urls, query, n); err != nil {
		return nil, fmt.Errorf("%s: failed to select from original_urls table: %w", op, err)
	}

	return urls, nil
}
