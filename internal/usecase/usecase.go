package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vadimbarashkov/url-popularity/internal/entity"
	"github.com/vadimbarashkov/url-popularity/internal/metrics"
)

const DefaultMaxAttempts = 1000

var (
	ErrKeySpaceExhausted = errors.New("no free short key found within the attempt limit")
	ErrInvalidLimit      = errors.New("limit must be positive")
)

type urlRepository interface {
	ShortKeyExists(ctx context.Context, key string) (bool, error)
	Shorten(ctx context.Context, originalURL, key, clientIP string) (*entity.Shortening, error)
	Resolve(ctx context.Context, key string) (string, error)
	URLStats(ctx context.Context, key string) (*entity.URLStats, error)
	TotalUniqueHits(ctx context.Context) (int64, error)
	MostPopular(ctx context.Context, n int) ([]string, error)
}

type keyGenerator interface {
	Generate() (string, error)
}

type resolveCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, originalURL string) error
}

type Option func(*URLUseCase)

// WithMaxAttempts bounds the number of keys drawn for a single shortening.
func WithMaxAttempts(n int) Option {
	return func(uc *URLUseCase) {
		uc.maxAttempts = n
	}
}

func WithCache(cache resolveCache) Option {
	return func(uc *URLUseCase) {
		uc.cache = cache
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *URLUseCase) {
		uc.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(uc *URLUseCase) {
		uc.logger = logger
	}
}

type URLUseCase struct {
	maxAttempts int
	urlRepo     urlRepository
	keyGen      keyGenerator
	cache       resolveCache
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func New(urlRepo urlRepository, keyGen keyGenerator, opts ...Option) *URLUseCase {
	uc := &URLUseCase{
		maxAttempts: DefaultMaxAttempts,
		urlRepo:     urlRepo,
		keyGen:      keyGen,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// ShortenURL issues a fresh short key for originalURL on behalf of clientIP and
// records the request. The URL's counter grows only on the first request from
// clientIP. Keys are redrawn on collision until maxAttempts is reached.
func (uc *URLUseCase) ShortenURL(ctx context.Context, originalURL, clientIP string) (*entity.Shortening, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	for i := 0; i < uc.maxAttempts; i++ {
		key, err := uc.keyGen.Generate()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short key: %w", op, err)
		}

		exists, err := uc.urlRepo.ShortKeyExists(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to check short key: %w", op, err)
		}
		if exists {
			uc.metrics.ObserveKeyCollision()
			continue
		}

		// The key may still be taken by a concurrent request between the check and the insert.
		res, err := uc.urlRepo.Shorten(ctx, originalURL, key, clientIP)
		if err != nil {
			if errors.Is(err, entity.ErrShortKeyExists) {
				uc.metrics.ObserveKeyCollision()
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		uc.metrics.ObserveShortening(res.Request.UniqueHit)

		return res, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrKeySpaceExhausted)
}

// ResolveShortKey returns the original URL key was issued for.
func (uc *URLUseCase) ResolveShortKey(ctx context.Context, key string) (string, error) {
	const op = "usecase.URLUseCase.ResolveShortKey"

	if uc.cache != nil {
		url, ok, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.logger.WarnContext(ctx, "resolve cache lookup failed", slog.String("op", op), slog.Any("err", err))
		}
		if ok {
			uc.metrics.ObserveResolution(metrics.ResolutionCacheHit)
			return url, nil
		}
	}

	url, err := uc.urlRepo.Resolve(ctx, key)
	if err != nil {
		if errors.Is(err, entity.ErrShortKeyNotFound) {
			uc.metrics.ObserveResolution(metrics.ResolutionNotFound)
		}

		return "", fmt.Errorf("%s: failed to resolve short key: %w", op, err)
	}

	uc.metrics.ObserveResolution(metrics.ResolutionFound)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, url); err != nil {
			uc.logger.WarnContext(ctx, "resolve cache store failed", slog.String("op", op), slog.Any("err", err))
		}
	}

	return url, nil
}

func (uc *URLUseCase) GetURLStats(ctx context.Context, key string) (*entity.URLStats, error) {
	const op = "usecase.URLUseCase.GetURLStats"

	stats, err := uc.urlRepo.URLStats(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return stats, nil
}

// TotalUniqueRequests returns the number of distinct (client, url) pairs ever seen.
func (uc *URLUseCase) TotalUniqueRequests(ctx context.Context) (int64, error) {
	const op = "usecase.URLUseCase.TotalUniqueRequests"

	total, err := uc.urlRepo.TotalUniqueHits(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to sum unique hits: %w", op, err)
	}

	return total, nil
}

// MostPopularURLs returns at most n original URLs, most unique hits first.
func (uc *URLUseCase) MostPopularURLs(ctx context.Context, n int) ([]string, error) {
	const op = "usecase.URLUseCase.MostPopularURLs"

	if n <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidLimit)
	}

	urls, err := uc.urlRepo.MostPopular(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get popular urls: %w", op, err)
	}

	return urls, nil
}
