package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/url-popularity/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationErrCode
}

// Store is the entry point to the database. Writes for a single shortening
// request go through Shorten, which runs them in one transaction.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Shorten registers originalURL (or reuses its row), issues key for it,
// registers clientIP and records the request in the ledger. Either every
// write commits or none does. A taken key is reported as entity.ErrShortKeyExists.
func (s *Store) Shorten(ctx context.Context, originalURL, key, clientIP string) (*entity.Shortening, error) {
	const op = "adapter.repository.postgres.Store.Shorten"

	var res entity.Shortening

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		registry := NewRegistry(tx)
		ledger := NewLedger(tx, registry)

		url, err := registry.RegisterOriginalURL(ctx, originalURL)
		if err != nil {
			return err
		}

		shortKey, err := registry.IssueShortKey(ctx, url.ID, key)
		if err != nil {
			return err
		}

		client, err := ledger.RegisterClient(ctx, clientIP)
		if err != nil {
			return err
		}

		req, err := ledger.RecordRequest(ctx, client, url, shortKey)
		if err != nil {
			return err
		}

		res = entity.Shortening{
			OriginalURL: *url,
			ShortKey:    *shortKey,
			Client:      *client,
			Request:     *req,
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &res, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
