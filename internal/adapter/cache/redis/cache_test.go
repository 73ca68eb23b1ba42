package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/suite"
)

type ResolveCacheTestSuite struct {
	suite.Suite
	errUnknown error
	ttl        time.Duration
	mock       redismock.ClientMock
	cache      *ResolveCache
}

func (suite *ResolveCacheTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.ttl = time.Hour
}

func (suite *ResolveCacheTestSuite) SetupSubTest() {
	client, mock := redismock.NewClientMock()
	suite.T().Cleanup(func() {
		client.Close()
	})

	suite.mock = mock
	suite.cache = NewResolveCache(client, suite.ttl)
}

func (suite *ResolveCacheTestSuite) TearDownSubTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *ResolveCacheTestSuite) TestGet() {
	suite.Run("cache miss", func() {
		suite.mock.ExpectGet("short_key:ABCD1234").RedisNil()

		url, ok, err := suite.cache.Get(context.Background(), "ABCD1234")

		suite.NoError(err)
		suite.False(ok)
		suite.Empty(url)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectGet("short_key:ABCD1234").SetErr(suite.errUnknown)

		url, ok, err := suite.cache.Get(context.Background(), "ABCD1234")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.False(ok)
		suite.Empty(url)
	})

	suite.Run("success", func() {
		suite.mock.ExpectGet("short_key:ABCD1234").SetVal("https://example.com")

		url, ok, err := suite.cache.Get(context.Background(), "ABCD1234")

		suite.NoError(err)
		suite.True(ok)
		suite.Equal("https://example.com", url)
	})
}

func (suite *ResolveCacheTestSuite) TestSet() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectSet("short_key:ABCD1234", "https://example.com", suite.ttl).SetErr(suite.errUnknown)

		err := suite.cache.Set(context.Background(), "ABCD1234", "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("success", func() {
		suite.mock.ExpectSet("short_key:ABCD1234", "https://example.com", suite.ttl).SetVal("OK")

		err := suite.cache.Set(context.Background(), "ABCD1234", "https://example.com")

		suite.NoError(err)
	})
}

func TestResolveCache(t *testing.T) {
	suite.Run(t, new(ResolveCacheTestSuite))
}
