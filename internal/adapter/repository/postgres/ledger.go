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

type clientDB struct {
	ID        int64     `db:"id"`
	IP        string    `db:"ip"`
	CreatedAt time.Time `db:"created_at"`
}

func (c *clientDB) toEntity() *entity.Client {
	return &entity.Client{
		ID:        c.ID,
		IP:        c.IP,
		CreatedAt: c.CreatedAt,
	}
}

type shorteningRequestDB struct {
	ID            int64     `db:"id"`
	ClientID      int64     `db:"client_id"`
	OriginalURLID int64     `db:"original_url_id"`
	ShortKeyID    int64     `db:"short_key_id"`
	UniqueHit     bool      `db:"unique_hit"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r *shorteningRequestDB) toEntity() *entity.ShorteningRequest {
	return &entity.ShorteningRequest{
		ID:            r.ID,
		ClientID:      r.ClientID,
		OriginalURLID: r.OriginalURLID,
		ShortKeyID:    r.ShortKeyID,
		UniqueHit:     r.UniqueHit,
		CreatedAt:     r.CreatedAt,
	}
}

// Ledger appends shortening requests and decides whether each of them is a
// unique hit. The decision is made by the partial unique index on
// (client_id, original_url_id) WHERE unique_hit, so concurrent requests for
// the same pair are serialized by the database.
type Ledger struct {
	db       sqlx.ExtContext
	registry *Registry
}

func NewLedger(db sqlx.ExtContext, registry *Registry) *Ledger {
	return &Ledger{
		db:       db,
		registry: registry,
	}
}

// RegisterClient returns the row for ip, creating it if it does not exist yet.
func (l *Ledger) RegisterClient(ctx context.Context, ip string) (*entity.Client, error) {
	const op = "adapter.repository.postgres.Ledger.RegisterClient"
	const insertQuery = `INSERT INTO clients(ip) VALUES ($1)
		ON CONFLICT (ip) DO NOTHING
		RETURNING id, ip, created_at`
	const selectQuery = `SELECT id, ip, created_at FROM clients WHERE ip = $1`

	var rec clientDB

	err := sqlx.GetContext(ctx, l.db, &rec, insertQuery, ip)
	if err == nil {
		return rec.toEntity(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: failed to insert into clients table: %w", op, err)
	}

	if err := sqlx.GetContext(ctx, l.db, &rec, selectQuery, ip); err != nil {
		return nil, fmt.Errorf("%s: failed to get row from clients table: %w", op, err)
	}

	return rec.toEntity(), nil
}

// RecordRequest appends a ledger entry for the request. The first entry for a
// (client, url) pair is marked as a unique hit and increments the url counter;
// url.UniqueHitCount is updated to the new value in that case.
func (l *Ledger) RecordRequest(
	ctx context.Context,
	client *entity.Client,
	url *entity.OriginalURL,
	shortKey *entity.ShortKey,
) (*entity.ShorteningRequest, error) {
	const op = "adapter.repository.postgres.Ledger.RecordRequest"
	const uniqueQuery = `INSERT INTO shortening_requests(client_id, original_url_id, short_key_id, unique_hit)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (client_id, original_url_id) WHERE unique_hit DO NOTHING
		RETURNING id, client_id, original_url_id, short_key_id, unique_hit, created_at`
	const repeatQuery = `INSERT INTO shortening_requests(client_id, original_url_id, short_key_id, unique_hit)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, client_id, original_url_id, short_key_id, unique_hit, created_at`

	var rec shorteningRequestDB

	err := sqlx.GetContext(ctx, l.db, &rec, uniqueQuery, client.ID, url.ID, shortKey.ID)
	switch {
	case err == nil:
		count, err := l.registry.IncrementUniqueHit(ctx, url.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		url.UniqueHitCount = count

		return rec.toEntity(), nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%s: failed to insert into shortening_requests table: %w", op, err)
	}

	if err := sqlx.GetContext(ctx, l.db, &rec, repeatQuery, client.ID, url.ID, shortKey.ID); err != nil {
		return nil, fmt.Errorf("%s: failed to insert into shortening_requests table: %w", op, err)
	}

	return rec.toEntity(), nil
}
