// Package openweather fetches current conditions from the
// OpenWeatherMap current-weather endpoint.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Snapshot is the subset of the upstream response the board renders.
type Snapshot struct {
	TempCelsius float64
	Description string
}

type Client struct {
	http    *http.Client
	baseURL *url.URL
	apiKey  string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("apiKey required")
	}
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: u,
		apiKey:  apiKey,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type currentResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Current returns the current conditions for a city, in Celsius.
func (c *Client) Current(ctx context.Context, city string) (Snapshot, error) {
	u := *c.baseURL
	u.Path += "/weather"
	q := u.Query()
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Snapshot{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Snapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Snapshot{}, fmt.Errorf("GET /weather?q=%s: %s: %s", city, resp.Status, string(b))
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Snapshot{}, fmt.Errorf("weather for %s: %w", city, err)
	}

	s := Snapshot{TempCelsius: body.Main.Temp}
	if len(body.Weather) > 0 {
		s.Description = body.Weather[0].Description
	}
	return s, nil
}
