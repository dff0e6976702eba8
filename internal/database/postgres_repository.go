package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weather-app/weather-pipeline/internal/config"
	"github.com/weather-app/weather-pipeline/internal/logger"
	"github.com/weather-app/weather-pipeline/internal/models"
)

// WeatherRepository is the storage port of Service A. Rows are insert-only;
// the query path never mutates them.
type WeatherRepository interface {
	Insert(ctx context.Context, rec *models.WeatherRecord) error
	FindByCityAndDateRange(ctx context.Context, city string, from, to time.Time, page, limit int) ([]*models.WeatherRecord, error)
	ListAll(ctx context.Context) ([]*models.WeatherRecord, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

type PostgresWeatherRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresWeatherRepository(cfg config.PostgresConfig, log logger.Logger) (*PostgresWeatherRepository, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode, cfg.MaxConnections)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectionTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	log = log.WithField("component", "weather_repository")
	log.Info("Postgres weather repository initialized")

	return &PostgresWeatherRepository{
		pool:   pool,
		logger: log,
	}, nil
}

func (r *PostgresWeatherRepository) Insert(ctx context.Context, rec *models.WeatherRecord) error {
	query := `
		INSERT INTO weather (date, city, temp_max, temp_min, precipitation, cloudiness)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		rec.Date,
		rec.City,
		rec.TempMax,
		rec.TempMin,
		rec.Precipitation,
		rec.Cloudiness,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert weather record: %w", err)
	}

	return nil
}

func (r *PostgresWeatherRepository) FindByCityAndDateRange(ctx context.Context, city string, from, to time.Time, page, limit int) ([]*models.WeatherRecord, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `
		SELECT id, date, city, temp_max, temp_min, precipitation, cloudiness
		FROM weather
		WHERE city = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, id ASC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query, city, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query weather records: %w", err)
	}
	defer rows.Close()

	records := []*models.WeatherRecord{}
	for rows.Next() {
		var rec models.WeatherRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Date,
			&rec.City,
			&rec.TempMax,
			&rec.TempMin,
			&rec.Precipitation,
			&rec.Cloudiness,
		); err != nil {
			return nil, fmt.Errorf("failed to scan weather record: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read weather records: %w", err)
	}
	return records, nil
}

func (r *PostgresWeatherRepository) ListAll(ctx context.Context) ([]*models.WeatherRecord, error) {
	query := `
		SELECT id, date, city, temp_max, temp_min, precipitation, cloudiness
		FROM weather
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list weather records: %w", err)
	}
	defer rows.Close()

	records := []*models.WeatherRecord{}
	for rows.Next() {
		var rec models.WeatherRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Date,
			&rec.City,
			&rec.TempMax,
			&rec.TempMin,
			&rec.Precipitation,
			&rec.Cloudiness,
		); err != nil {
			return nil, fmt.Errorf("failed to scan weather record: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read weather records: %w", err)
	}
	return records, nil
}

func (r *PostgresWeatherRepository) HealthCheck(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (r *PostgresWeatherRepository) Close() error {
	r.logger.Info("Closing weather repository...")
	r.pool.Close()
	return nil
}
