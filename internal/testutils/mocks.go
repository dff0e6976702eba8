package testutils

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/weather-app/weather-pipeline/internal/aggregate"
	"github.com/weather-app/weather-pipeline/internal/logger"
	"github.com/weather-app/weather-pipeline/internal/models"
	"github.com/weather-app/weather-pipeline/internal/upstream"
)

// NewLogger returns a logger that swallows everything below error level.
func NewLogger() logger.Logger {
	return logger.NewWithWriter("error", io.Discard)
}

type MockWeatherRepository struct {
	mock.Mock
}

func (m *MockWeatherRepository) Insert(ctx context.Context, rec *models.WeatherRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockWeatherRepository) FindByCityAndDateRange(ctx context.Context, city string, from, to time.Time, page, limit int) ([]*models.WeatherRecord, error) {
	args := m.Called(ctx, city, from, to, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WeatherRecord), args.Error(1)
}

func (m *MockWeatherRepository) ListAll(ctx context.Context) ([]*models.WeatherRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WeatherRecord), args.Error(1)
}

func (m *MockWeatherRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWeatherRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Store(ctx context.Context, key string, payload []byte) error {
	args := m.Called(ctx, key, payload)
	return args.Error(0)
}

type MockResultCache struct {
	mock.Mock
}

func (m *MockResultCache) Fetch(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	args := m.Called(ctx, key, ttl, compute)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockResultCache) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockResultCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockDaysFetcher struct {
	mock.Mock
}

func (m *MockDaysFetcher) FetchDays(ctx context.Context, q upstream.Query) ([]aggregate.Day, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]aggregate.Day), args.Error(1)
}
