package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/url-popularity/internal/entity"
)

type MockURLUseCase struct {
	mock.Mock
}

func (uc *MockURLUseCase) ShortenURL(ctx context.Context, originalURL, clientIP string) (*entity.Shortening, error) {
	args := uc.Called(ctx, originalURL, clientIP)
	res, _ := args.Get(0).(*entity.Shortening)
	return res, args.Error(1)
}

func (uc *MockURLUseCase) ResolveShortKey(ctx context.Context, key string) (string, error) {
	args := uc.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (uc *MockURLUseCase) GetURLStats(ctx context.Context, key string) (*entity.URLStats, error) {
	args := uc.Called(ctx, key)
	stats, _ := args.Get(0).(*entity.URLStats)
	return stats, args.Error(1)
}

func (uc *MockURLUseCase) TotalUniqueRequests(ctx context.Context) (int64, error) {
	args := uc.Called(ctx)
	total, _ := args.Get(0).(int64)
	return total, args.Error(1)
}

func (uc *MockURLUseCase) MostPopularURLs(ctx context.Context, n int) ([]string, error) {
	args := uc.Called(ctx, n)
	urls, _ := args.Get(0).([]string)
	return urls, args.Error(1)
}
