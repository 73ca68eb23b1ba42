package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/url-popularity/internal/entity"
)

type urlStatsDB struct {
	originalURLDB
	KeyCount     int64 `db:"key_count"`
	RequestCount int64 `db:"request_count"`
}

func (s *Store) ShortKeyExists(ctx context.Context, key string) (bool, error) {
	return NewRegistry(s.db).ShortKeyExists(ctx, key)
}

// Resolve returns the original URL the short key was issued for.
func (s *Store) Resolve(ctx context.Context, key string) (string, error) {
	const op = "adapter.repository.postgres.Store.Resolve"
	const query = `SELECT ou.url FROM short_keys sk
		JOIN original_urls ou ON ou.id = sk.original_url_id
		WHERE sk.key = $1`

	var url string

	if err := sqlx.GetContext(ctx, s.db, &url, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, entity.ErrShortKeyNotFound)
		}

		return "", fmt.Errorf("%s: failed to get row from short_keys table: %w", op, err)
	}

	return url, nil
}

// URLStats returns the original URL the short key belongs to along with its counters.
func (s *Store) URLStats(ctx context.Context, key string) (*entity.URLStats, error) {
	const op = "adapter.repository.postgres.Store.URLStats"
	const query = `SELECT ou.id, ou.url, ou.unique_hit_count, ou.created_at, ou.updated_at,
		(SELECT COUNT(*) FROM short_keys k WHERE k.original_url_id = ou.id) AS key_count,
		(SELECT COUNT(*) FROM shortening_requests r WHERE r.original_url_id = ou.id) AS request_count
		FROM short_keys sk
		JOIN original_urls ou ON ou.id = sk.original_url_id
		WHERE sk.key = $1`

	var rec urlStatsDB

	if err := sqlx.GetContext(ctx, s.db, &rec, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortKeyNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return &entity.URLStats{
		OriginalURL:  *rec.toEntity(),
		KeyCount:     rec.KeyCount,
		RequestCount: rec.RequestCount,
	}, nil
}
