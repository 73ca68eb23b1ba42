package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/url-popularity/internal/entity"
)

type MockURLRepository struct {
	mock.Mock
}

func (r *MockURLRepository) ShortKeyExists(ctx context.Context, key string) (bool, error) {
	args := r.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (r *MockURLRepository) Shorten(ctx context.Context, originalURL, key, clientIP string) (*entity.Shortening, error) {
	args := r.Called(ctx, originalURL, key, clientIP)
	res, _ := args.Get(0).(*entity.Shortening)
	return res, args.Error(1)
}

func (r *MockURLRepository) Resolve(ctx context.Context, key string) (string, error) {
	args := r.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (r *MockURLRepository) URLStats(ctx context.Context, key string) (*entity.URLStats, error) {
	args := r.Called(ctx, key)
	stats, _ := args.Get(0).(*entity.URLStats)
	return stats, args.Error(1)
}

func (r *MockURLRepository) TotalUniqueHits(ctx context.Context) (int64, error) {
	args := r.Called(ctx)
	total, _ := args.Get(0).(int64)
	return total, args.Error(1)
}

func (r *MockURLRepository) MostPopular(ctx context.Context, n int) ([]string, error) {
	args := r.Called(ctx, n)
	urls, _ := args.Get(0).([]string)
	return urls, args.Error(1)
}

type MockKeyGenerator struct {
	mock.Mock
}

func (g *MockKeyGenerator) Generate() (string, error) {
	args := g.Called()
	return args.String(0), args.Error(1)
}

type MockResolveCache struct {
	mock.Mock
}

func (c *MockResolveCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := c.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (c *MockResolveCache) Set(ctx context.Context, key, originalURL string) error {
	args := c.Called(ctx, key, originalURL)
	return args.Error(0)
}
