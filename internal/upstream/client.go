package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"github.com/weather-app/weather-pipeline/internal/aggregate"
	"github.com/weather-app/weather-pipeline/internal/cache"
	"github.com/weather-app/weather-pipeline/internal/config"
	"github.com/weather-app/weather-pipeline/internal/logger"
)

// ErrUpstream marks failures of the storage service call: transport errors,
// non-200 statuses and malformed JSON. Handlers map it to 502.
var ErrUpstream = errors.New("upstream service error")

// Query is one fully expanded storage-service query. Its URL doubles as the
// cache key input, so identical parameters always map to the same entry.
type Query struct {
	City  string
	From  string
	To    string
	Page  int
	Limit int
}

func (q Query) URL(base string) string {
	params := url.Values{}
	params.Set("city", q.City)
	params.Set("from", q.From)
	params.Set("to", q.To)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	return base + "/weather?" + params.Encode()
}

type daysResponse struct {
	Days []aggregate.Day `json:"days"`
}

// Client calls the storage service, short-circuiting through the result
// cache and a circuit breaker.
type Client struct {
	client  *http.Client
	baseURL string
	breaker *gobreaker.CircuitBreaker
	cache   cache.ResultCache
	ttl     time.Duration
	logger  logger.Logger
}

func NewClient(cfg config.UpstreamConfig, resultCache cache.ResultCache, ttl time.Duration, log logger.Logger) *Client {
	log = log.WithField("component", "upstream_client")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "service-a",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		breaker: breaker,
		cache:   resultCache,
		ttl:     ttl,
		logger:  log,
	}
}

// FetchDays returns the raw daily records for one query, served from the
// result cache when possible.
func (c *Client) FetchDays(ctx context.Context, q Query) ([]aggregate.Day, error) {
	queryURL := q.URL(c.baseURL)

	var body []byte
	var err error
	if c.cache != nil {
		key := cache.QueryKey(queryURL)
		body, err = c.cache.Fetch(ctx, key, c.ttl, func(ctx context.Context) ([]byte, error) {
			return c.get(ctx, queryURL)
		})
	} else {
		body, err = c.get(ctx, queryURL)
	}
	if err != nil {
		return nil, err
	}

	var resp daysResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUpstream, err)
	}
	return resp.Days, nil
}

func (c *Client) get(ctx context.Context, queryURL string) ([]byte, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		c.logger.Warnf("Upstream query failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return result.([]byte), nil
}

// HealthCheck probes the storage service health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream health check returned status %d", resp.StatusCode)
	}
	return nil
}
