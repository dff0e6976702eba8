package aggapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weather-app/weather-pipeline/internal/aggregate"
	"github.com/weather-app/weather-pipeline/internal/logger"
	"github.com/weather-app/weather-pipeline/internal/models"
	"github.com/weather-app/weather-pipeline/internal/upstream"
)

// DaysFetcher is the upstream dependency of the aggregation handlers.
type DaysFetcher interface {
	FetchDays(ctx context.Context, q upstream.Query) ([]aggregate.Day, error)
}

// Handler serves the aggregation service HTTP surface.
type Handler struct {
	fetcher DaysFetcher
	logger  logger.Logger
}

func NewHandler(fetcher DaysFetcher, log logger.Logger) *Handler {
	return &Handler{
		fetcher: fetcher,
		logger:  log.WithField("component", "agg_handler"),
	}
}

// HealthCheck godoc
// @Summary Service liveness probe
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetWeather godoc
// @Summary Aggregated weather for one city
// @Description Fans out to the storage service and applies either daily
// @Description passthrough or a trailing 7-day rolling mean, with optional
// @Description Celsius-to-Fahrenheit conversion.
// @Produce json
// @Param city path string true "City name"
// @Param date query string true "Anchor date (YYYY-MM-DD)"
// @Param days query int false "Window length, clamped to [1,10]"
// @Param agg query string false "daily or rolling7"
// @Param unit query string false "C or F"
// @Success 200
// @Failure 422 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /weather/{city} [get]
func (h *Handler) GetWeather(c *gin.Context) {
	params := ValidateAggregationParams(c.Param("city"), c.Request.URL.Query())
	if !params.IsValid() {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: params.ErrorMessage(),
		})
		return
	}

	from := params.Date
	to := params.Date.AddDate(0, 0, params.Days-1)

	var days interface{}
	var err error
	switch params.Agg {
	case aggregate.ModeRolling7:
		days, err = h.rolling(c.Request.Context(), params)
	default:
		days, err = h.daily(c.Request.Context(), params)
	}
	if err != nil {
		status := http.StatusInternalServerError
		message := "Failed to aggregate weather data"
		if errors.Is(err, upstream.ErrUpstream) {
			status = http.StatusBadGateway
			message = "Storage service is unavailable"
		}
		h.logger.Errorf("Aggregation failed for %s: %v", params.City, err)
		c.JSON(status, models.ErrorResponse{Code: status, Message: message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city": params.City,
		"unit": string(params.Unit),
		"from": from.Format(models.DateOnly),
		"to":   to.Format(models.DateOnly),
		"days": days,
	})
}

func (h *Handler) daily(ctx context.Context, params AggregationParams) ([]aggregate.DailyDay, error) {
	q := upstream.Query{
		City:  params.City,
		From:  params.Date.Format(models.DateOnly),
		To:    params.Date.AddDate(0, 0, params.Days-1).Format(models.DateOnly),
		Page:  1,
		Limit: params.Days,
	}

	raw, err := h.fetcher.FetchDays(ctx, q)
	if err != nil {
		return nil, err
	}

	return aggregate.Daily(raw, params.Unit), nil
}

// rolling fetches days+6 raw days so the first output day has a full
// trailing window behind it.
func (h *Handler) rolling(ctx context.Context, params AggregationParams) ([]aggregate.RollingDay, error) {
	lookback := aggregate.RollingWindow - 1
	q := upstream.Query{
		City:  params.City,
		From:  params.Date.AddDate(0, 0, -lookback).Format(models.DateOnly),
		To:    params.Date.AddDate(0, 0, params.Days-1).Format(models.DateOnly),
		Page:  1,
		Limit: params.Days + lookback,
	}

	raw, err := h.fetcher.FetchDays(ctx, q)
	if err != nil {
		return nil, err
	}

	return aggregate.Rolling7(raw, params.Unit), nil
}
