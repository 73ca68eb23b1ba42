package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/url-popularity/internal/entity"
)

type originalURLDB struct {
	ID             int64     `db:"id"`
	URL            string    `db:"url"`
	UniqueHitCount int64     `db:"unique_hit_count"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (u *originalURLDB) toEntity() *entity.OriginalURL {
	return &entity.OriginalURL{
		ID:             u.ID,
		URL:            u.URL,
		UniqueHitCount: u.UniqueHitCount,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

type shortKeyDB struct {
	ID            int64     `db:"id"`
	Key           string    `db:"key"`
	OriginalURLID int64     `db:"original_url_id"`
	CreatedAt     time.Time `db:"created_at"`
}

func (k *shortKeyDB) toEntity() *entity.ShortKey {
	return &entity.ShortKey{
		ID:            k.ID,
		Key:           k.Key,
		OriginalURLID: k.OriginalURLID,
		CreatedAt:     k.CreatedAt,
	}
}

// Registry persists original URLs, the short keys issued for them and their
// unique-hit counters. It runs on either a pool or a transaction.
type Registry struct {
	db sqlx.ExtContext
}

func NewRegistry(db sqlx.ExtContext) *Registry {
	return &Registry{db: db}
}

// RegisterOriginalURL returns the row for url, creating it with a zero counter
// if it does not exist yet.
func (r *Registry) RegisterOriginalURL(ctx context.Context, url string) (*entity.OriginalURL, error) {
	const op = "adapter.repository.postgres.Registry.RegisterOriginalURL"
	const insertQuery = `INSERT INTO original_urls(url) VALUES ($1)
		ON CONFLICT (url) DO NOTHING
		RETURNING id, url, unique_hit_count, created_at, updated_at`
	const selectQuery = `SELECT id, url, unique_hit_count, created_at, updated_at
		FROM original_urls WHERE url = $1`

	var rec originalURLDB

	err := sqlx.GetContext(ctx, r.db, &rec, insertQuery, url)
	if err == nil {
		return rec.toEntity(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: failed to insert into original_urls table: %w", op, err)
	}

	if err := sqlx.GetContext(ctx, r.db, &rec, selectQuery, url); err != nil {
		return nil, fmt.Errorf("%s: failed to get row from original_urls table: %w", op, err)
	}

	return rec.toEntity(), nil
}

// IssueShortKey binds key to the original URL with the given id.
func (r *Registry) IssueShortKey(ctx context.Context, originalURLID int64, key string) (*entity.ShortKey, error) {
	const op = "adapter.repository.postgres.Registry.IssueShortKey"
	const query = `INSERT INTO short_keys(key, original_url_id) VALUES ($1, $2)
		RETURNING id, key, original_url_id, created_at`

	var rec shortKeyDB

	if err := sqlx.GetContext(ctx, r.db, &rec, query, key, originalURLID); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortKeyExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into short_keys table: %w", op, err)
	}

	return rec.toEntity(), nil
}

// IncrementUniqueHit adds one to the counter of the original URL and returns the new value.
// Callers must have established that the hit is unique.
func (r *Registry) IncrementUniqueHit(ctx context.Context, originalURLID int64) (int64, error) {
	const op = "adapter.repository.postgres.Registry.IncrementUniqueHit"
	const query = `UPDATE original_urls
		SET unique_hit_count = unique_hit_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING unique_hit_count`

	var count int64

	if err := sqlx.GetContext(ctx, r.db, &count, query, originalURLID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, entity.ErrOriginalURLNotFound)
		}

		return 0, fmt.Errorf("%s: failed to update original_urls table row: %w", op, err)
	}

	return count, nil
}

func (r *Registry) ShortKeyExists(ctx context.Context, key string) (bool, error) {
	const op = "adapter.repository.postgres.Registry.ShortKeyExists"
	const query = `SELECT EXISTS(SELECT 1 FROM short_keys WHERE key = $1)`

	var exists bool

	if err := sqlx.GetContext(ctx, r.db, &exists, query, key); err != nil {
		return false, fmt.Errorf("%s: failed to query short_keys table: %w", op, err)
	}

	return exists, nil
}
