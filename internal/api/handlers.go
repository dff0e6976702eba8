package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weather-app/weather-pipeline/internal/database"
	"github.com/weather-app/weather-pipeline/internal/excel"
	"github.com/weather-app/weather-pipeline/internal/ingest"
	"github.com/weather-app/weather-pipeline/internal/logger"
	"github.com/weather-app/weather-pipeline/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves the storage service HTTP surface.
type Handler struct {
	repo           database.WeatherRepository
	pipeline       *ingest.Pipeline
	exporter       *excel.Generator
	maxUploadBytes int64
	logger         logger.Logger
}

func NewHandler(repo database.WeatherRepository, pipeline *ingest.Pipeline, exporter *excel.Generator, maxUploadBytes int64, log logger.Logger) *Handler {
	return &Handler{
		repo:           repo,
		pipeline:       pipeline,
		exporter:       exporter,
		maxUploadBytes: maxUploadBytes,
		logger:         log.WithField("component", "api_handler"),
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
// @Summary List stored weather records
// @Description Without any query parameters returns every stored line. Any
// @Description parameter at all switches to the validated, paginated
// @Description city/from/to date-range query.
// @Produce json
// @Param city query string false "City name"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200
// @Failure 422 {object} models.ErrorResponse
// @Router /weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	values := c.Request.URL.Query()

	if len(values) == 0 {
		h.listAll(c)
		return
	}

	params := ValidateQueryParams(values)
	if !params.IsValid() {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: params.ErrorMessage(),
		})
		return
	}

	from, to, ok := h.parseRange(c, params)
	if !ok {
		return
	}

	records, err := h.repo.FindByCityAndDateRange(c.Request.Context(), params.City, from, to, params.Page, params.Limit)
	if err != nil {
		h.logger.Errorf("Weather query failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to query weather records",
		})
		return
	}

	days := make([]day, 0, len(records))
	for _, rec := range records {
		days = append(days, day{
			Date:          rec.DateString(),
			City:          rec.City,
			TempMax:       rec.TempMax,
			TempMin:       rec.TempMin,
			Precipitation: rec.Precipitation,
			Cloudiness:    rec.Cloudiness,
		})
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (h *Handler) listAll(c *gin.Context) {
	records, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Weather listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to list weather records",
		})
		return
	}

	lines := make([]weatherLine, 0, len(records))
	for _, rec := range records {
		lines = append(lines, weatherLine{
			ID:            rec.ID,
			Date:          rec.DateString(),
			City:          rec.City,
			TempMax:       rec.TempMax,
			TempMin:       rec.TempMin,
			Precipitation: rec.Precipitation,
			Cloudiness:    rec.Cloudiness,
		})
	}

	c.JSON(http.StatusOK, gin.H{"weather_lines": lines})
}

// Ingest godoc
// @Summary Upload a CSV file of daily weather observations
// @Description Accepts a multipart upload (field name "file") of
// @Description semicolon-delimited rows. The whole file is always
// @Description processed; per-row failures are counted, never fatal.
// @Accept mpfd
// @Produce json
// @Param file formData file true "CSV payload"
// @Success 201 {object} models.IngestionSummary
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Router /ingest [post]
func (h *Handler) Ingest(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: `multipart field "file" is required`,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "failed to open uploaded file",
		})
		return
	}
	defer file.Close()

	// Read one byte past the limit so truncation is detectable instead of
	// silently ingesting a cut-off row.
	payload, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "failed to read uploaded file",
		})
		return
	}
	if int64(len(payload)) > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Code:    http.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("uploaded file exceeds the %d byte limit", h.maxUploadBytes),
		})
		return
	}

	summary := h.pipeline.Ingest(c.Request.Context(), payload)
	c.JSON(http.StatusCreated, summary)
}

// ExportWeather godoc
// @Summary Export a weather query as an xlsx workbook
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param city query string true "City name"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200
// @Failure 422 {object} models.ErrorResponse
// @Router /weather/export [get]
func (h *Handler) ExportWeather(c *gin.Context) {
	params := ValidateQueryParams(c.Request.URL.Query())
	if !params.IsValid() {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: params.ErrorMessage(),
		})
		return
	}

	from, to, ok := h.parseRange(c, params)
	if !ok {
		return
	}

	records, err := h.repo.FindByCityAndDateRange(c.Request.Context(), params.City, from, to, params.Page, params.Limit)
	if err != nil {
		h.logger.Errorf("Weather export query failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to query weather records",
		})
		return
	}

	data, err := h.exporter.GenerateWeatherExport(params.City, params.From, params.To, records)
	if err != nil {
		h.logger.Errorf("Weather export failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to generate export",
		})
		return
	}

	fileName := fmt.Sprintf("weather_%s_%s_%s.xlsx", params.City, params.From, params.To)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// parseRange converts the validated from/to strings into dates. The
// validator only checks presence and ordering, so a present-but-malformed
// date is reported here, still as a 422.
func (h *Handler) parseRange(c *gin.Context, params QueryParams) (time.Time, time.Time, bool) {
	from, err := time.Parse(models.DateOnly, params.From)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: `"from" format was incorrect. Expected format is 'YYYY-MM-DD'.`,
		})
		return time.Time{}, time.Time{}, false
	}

	to, err := time.Parse(models.DateOnly, params.To)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: `"to" format was incorrect. Expected format is 'YYYY-MM-DD'.`,
		})
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}
