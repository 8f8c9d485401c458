package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/betcatalog/core/internal/config"
	"github.com/betcatalog/core/pkg/logger"
	"github.com/sony/gobreaker"
)

// APIError represents a non-2xx response from the odds provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}

// Sport is a sport as the provider reports it.
type Sport struct {
	Key          string `json:"key"`
	Group        string `json:"group"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Active       bool   `json:"active"`
	HasOutrights bool   `json:"has_outrights"`
}

// Outcome is one priced outcome within a market.
type Outcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Market groups the outcomes of one bet type.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Bookmaker carries one bookmaker's markets for an event.
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// Event is a match as the provider reports it.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Client talks to the external odds provider. Calls run through a circuit
// breaker and carry the configured timeout; failures are not retried so a
// partial ingestion is never repeated blindly.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "odds-provider",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL: cfg.Provider.BaseURL,
		apiKey:  cfg.Provider.APIKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.Provider.Timeout) * time.Second,
		},
		breaker: breaker,
		logger:  log,
	}
}

// ListSports fetches the provider's sport catalog.
func (c *Client) ListSports(ctx context.Context) ([]Sport, error) {
	var sports []Sport
	if err := c.get(ctx, "/v4/sports", nil, &sports); err != nil {
		return nil, err
	}
	return sports, nil
}

// ListEventOdds fetches upcoming events with odds for one sport.
func (c *Client) ListEventOdds(ctx context.Context, sportKey string) ([]Event, error) {
	params := url.Values{}
	params.Set("regions", "eu")
	params.Set("markets", "h2h")
	params.Set("dateFormat", "iso")

	var events []Event
	if err := c.get(ctx, fmt.Sprintf("/v4/sports/%s/odds", url.PathEscape(sportKey)), params, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEventOdds fetches odds for a single event.
func (c *Client) GetEventOdds(ctx context.Context, sportKey, eventKey string) (*Event, error) {
	params := url.Values{}
	params.Set("regions", "eu")
	params.Set("markets", "h2h")
	params.Set("dateFormat", "iso")

	var event Event
	if err := c.get(ctx, fmt.Sprintf("/v4/sports/%s/events/%s/odds", url.PathEscape(sportKey), url.PathEscape(eventKey)), params, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	start := time.Now()
	body, err := c.breaker.Execute(func() (any, error) {
		return c.doRequest(ctx, fullURL)
	})
	c.logger.LogAPICall(http.MethodGet, path, statusOf(err), time.Since(start), err)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	return body, nil
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	if err != nil {
		return 0
	}
	return http.StatusOK
}
