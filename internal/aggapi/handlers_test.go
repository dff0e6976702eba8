package aggapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/weather-app/weather-pipeline/internal/aggregate"
	"github.com/weather-app/weather-pipeline/internal/models"
	"github.com/weather-app/weather-pipeline/internal/testutils"
	"github.com/weather-app/weather-pipeline/internal/upstream"
)

func newTestRouter(fetcher *testutils.MockDaysFetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(fetcher, testutils.NewLogger())

	router := gin.New()
	router.GET("/weather/:city", handler.GetWeather)
	return router
}

func ptr(v float64) *float64 { return &v }

func rawDays(start, n int) []aggregate.Day {
	days := make([]aggregate.Day, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, aggregate.Day{
			Date:          fmt.Sprintf("2024-01-%02d", start+i),
			TempMin:       ptr(0),
			TempMax:       ptr(10),
			Precipitation: ptr(2),
			Cloudiness:    ptr(40),
		})
	}
	return days
}

func TestHandler_GetWeather(t *testing.T) {
	t.Run("daily aggregation", func(t *testing.T) {
		fetcher := &testutils.MockDaysFetcher{}
		fetcher.On("FetchDays", mock.Anything, upstream.Query{
			City: "Paris", From: "2024-01-15", To: "2024-01-16", Page: 1, Limit: 2,
		}).Return(rawDays(15, 2), nil)

		router := newTestRouter(fetcher)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/weather/Paris?date=2024-01-15&days=2", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			City string                   `json:"city"`
			Unit string                   `json:"unit"`
			From string                   `json:"from"`
			To   string                   `json:"to"`
			Days []map[string]interface{} `json:"days"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Paris", resp.City)
		assert.Equal(t, "C", resp.Unit)
		assert.Equal(t, "2024-01-15", resp.From)
		assert.Equal(t, "2024-01-16", resp.To)
		require.Len(t, resp.Days, 2)
		assert.Equal(t, 5.0, resp.Days[0]["temp_mean"])
		fetcher.AssertExpectations(t)
	})

	t.Run("rolling aggregation fetches the lookback", func(t *testing.T) {
		fetcher := &testutils.MockDaysFetcher{}
		fetcher.On("FetchDays", mock.Anything, upstream.Query{
			City: "Paris", From: "2024-01-09", To: "2024-01-16", Page: 1, Limit: 8,
		}).Return(rawDays(9, 8), nil)

		router := newTestRouter(fetcher)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/weather/Paris?date=2024-01-15&days=2&agg=rolling7", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Days []map[string]interface{} `json:"days"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Days, 2)
		assert.Equal(t, "2024-01-15", resp.Days[0]["date"])
		assert.Equal(t, 5.0, resp.Days[0]["temp_rolling_mean"])
		fetcher.AssertExpectations(t)
	})

	t.Run("short upstream window yields no rolling days", func(t *testing.T) {
		fetcher := &testutils.MockDaysFetcher{}
		fetcher.On("FetchDays", mock.Anything, mock.Anything).Return(rawDays(12, 4), nil)

		router := newTestRouter(fetcher)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/weather/Paris?date=2024-01-15&agg=rolling7", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Days []map[string]interface{} `json:"days"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Days)
	})

	t.Run("fahrenheit output", func(t *testing.T) {
		fetcher := &testutils.MockDaysFetcher{}
		fetcher.On("FetchDays", mock.Anything, mock.Anything).Return(rawDays(15, 1), nil)

		router := newTestRouter(fetcher)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/weather/Paris?date=2024-01-15&unit=F", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Unit string                   `json:"unit"`
			Days []map[string]interface{} `json:"days"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "F", resp.Unit)
		require.Len(t, resp.Days, 1)
		assert.Equal(t, 41.0, resp.Days[0]["temp_mean"])
		assert.Equal(t, 2.0, resp.Days[0]["precipitation"])
	})

	t.Run("missing date is unprocessable", func(t *testing.T) {
		router := newTestRouter(&testutils.MockDaysFetcher{})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/weather/Paris", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, `"date" parameter is required.`)
	})

	t.Run("upstream failure maps to bad gateway", func(t *testing.T) {
		fetcher := &testutils.MockDaysFetcher{}
		fetcher.On("FetchDays", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: status 500", upstream.ErrUpstream))

		router := newTestRouter(fetcher)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/weather/Paris?date=2024-01-15", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadGateway, w.Code)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusBadGateway, resp.Code)
		assert.Equal(t, "Storage service is unavailable", resp.Message)
	})

	t.Run("other failures stay internal", func(t *testing.T) {
		fetcher := &testutils.MockDaysFetcher{}
		fetcher.On("FetchDays", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		router := newTestRouter(fetcher)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/weather/Paris?date=2024-01-15", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
