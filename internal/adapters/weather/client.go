package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripweaver/internal/adapters/observability"
	"tripweaver/internal/domain"
)

// Client fetches current conditions from an HTTP weather provider.
// The pipeline treats any error as "no weather", so the client keeps a
// single attempt and lets the caller's timeout bound it.
type Client struct {
	base string
	key  string
	hc   *http.Client
}

func New(base, key string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{base: base, key: key, hc: &http.Client{Timeout: timeout}}
}

func (c *Client) Current(ctx context.Context, location string) (*domain.WeatherReport, error) {
	params := url.Values{}
	params.Set("location", location)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/v1/current?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.key)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("weather", "current", 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("weather", "current", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("weather status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var payload struct {
		domain.WeatherReport
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("weather provider: %s", payload.Error)
	}
	report := payload.WeatherReport
	return &report, nil
}
