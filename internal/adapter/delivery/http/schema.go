package http

import (
	"time"

	"github.com/vadimbarashkov/url-popularity/internal/entity"
)

type shortenRequest struct {
	URL string `json:"url" validate:"required,max=2048,http_url"`
}

type shortenResponse struct {
	Key         string    `json:"key"`
	ShortURL    string    `json:"short_url"`
	OriginalURL string    `json:"original_url"`
	UniqueHit   bool      `json:"unique_hit"`
	CreatedAt   time.Time `json:"created_at"`
}

func toShortenResponse(baseURL string, res *entity.Shortening) shortenResponse {
	return shortenResponse{
		Key:         res.ShortKey.Key,
		ShortURL:    shortURL(baseURL, res.ShortKey.Key),
		OriginalURL: res.OriginalURL.URL,
		UniqueHit:   res.Request.UniqueHit,
		CreatedAt:   res.ShortKey.CreatedAt,
	}
}

type resolveResponse struct {
	Key         string `json:"key"`
	OriginalURL string `json:"original_url"`
}

type urlStatsResponse struct {
	Key            string    `json:"key"`
	OriginalURL    string    `json:"original_url"`
	UniqueHitCount int64     `json:"unique_hit_count"`
	KeyCount       int64     `json:"key_count"`
	RequestCount   int64     `json:"request_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toURLStatsResponse(key string, stats *entity.URLStats) urlStatsResponse {
	return urlStatsResponse{
		Key:            key,
		OriginalURL:    stats.URL,
		UniqueHitCount: stats.UniqueHitCount,
		KeyCount:       stats.KeyCount,
		RequestCount:   stats.RequestCount,
		CreatedAt:      stats.CreatedAt,
		UpdatedAt:      stats.UpdatedAt,
	}
}

type totalResponse struct {
	TotalUniqueRequests int64 `json:"total_unique_requests"`
}
