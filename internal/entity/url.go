// Package entity defines the entities and errors used in the application.
// It describes original URLs, the short keys issued for them, the clients
// requesting shortenings and the append-only ledger of shortening requests.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrShortKeyExists is returned when a short key being issued is already taken.
	ErrShortKeyExists = errors.New("short key exists")
	// ErrShortKeyNotFound is returned when no short key with the given value exists.
	ErrShortKeyNotFound = errors.New("short key not found")
	// ErrOriginalURLNotFound is returned when an original URL row referenced by id does not exist.
	ErrOriginalURLNotFound = errors.New("original url not found")
)

// OriginalURL is a normalized long-form URL together with its unique-hit counter.
type OriginalURL struct {
	ID             int64     // ID is the unique identifier of the original URL in the database.
	URL            string    // URL is the normalized original URL, unique across the registry.
	UniqueHitCount int64     // UniqueHitCount is the number of distinct clients that requested a shortening of URL.
	CreatedAt      time.Time // CreatedAt is the timestamp when the URL was first registered.
	UpdatedAt      time.Time // UpdatedAt is the timestamp of the last counter change.
}

// ShortKey is a fixed-length token bound to exactly one original URL.
type ShortKey struct {
	ID            int64
	Key           string
	OriginalURLID int64
	CreatedAt     time.Time
}

// Client is a network address shortening requests were made from.
type Client struct {
	ID        int64
	IP        string
	CreatedAt time.Time
}

// ShorteningRequest is a ledger entry. UniqueHit reports whether the request
// was the first one from its client for its original URL and therefore
// incremented the URL's counter.
type ShorteningRequest struct {
	ID            int64
	ClientID      int64
	OriginalURLID int64
	ShortKeyID    int64
	UniqueHit     bool
	CreatedAt     time.Time
}

// Shortening is the outcome of a single accepted shortening request.
type Shortening struct {
	OriginalURL OriginalURL
	ShortKey    ShortKey
	Client      Client
	Request     ShorteningRequest
}

// URLStats contains statistics for the original URL a short key belongs to.
type URLStats struct {
	OriginalURL
	KeyCount     int64 // KeyCount is the number of short keys issued for the URL.
	RequestCount int64 // RequestCount is the number of ledger entries for the URL.
}
