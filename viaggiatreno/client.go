// Package viaggiatreno is a thin client for the ViaggiaTreno REST API,
// the public endpoint behind Trenitalia's live departure boards.
package viaggiatreno

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const DefaultBaseURL = "http://www.viaggiatreno.it/infomobilita/resteasy/viaggiatreno"

// The departures endpoint wants the request time in the verbose
// JavaScript Date.toString() layout.
const departuresTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700"

type Client struct {
	http    *http.Client
	baseURL *url.URL
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

func New(opts ...Option) *Client {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: u,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, elem ...string) ([]byte, error) {
	u := *c.baseURL
	u.Path = path.Join(append([]string{u.Path}, elem...)...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GET %s: %s: %s", u.Path, resp.Status, string(b))
	}
	return io.ReadAll(resp.Body)
}

// Departures returns the raw train records leaving stationCode around
// the given time. The upstream occasionally answers with something
// other than a JSON array (unknown station, maintenance page); that is
// reported as an empty list rather than an error so the board can
// degrade to an empty screen.
func (c *Client) Departures(ctx context.Context, stationCode string, when time.Time) ([]Train, error) {
	body, err := c.get(ctx, "partenze", stationCode, when.Format(departuresTimeLayout))
	if err != nil {
		return nil, err
	}

	var trains []Train
	if err := json.Unmarshal(body, &trains); err != nil {
		return []Train{}, nil
	}
	return trains, nil
}

// StationName resolves a station code to its display name via the
// two-step region → station detail lookup.
func (c *Client) StationName(ctx context.Context, stationCode string) (string, error) {
	regionBody, err := c.get(ctx, "regione", stationCode)
	if err != nil {
		return "", err
	}
	region := strings.TrimSpace(string(regionBody))
	if region == "" {
		return "", fmt.Errorf("empty region for station %s", stationCode)
	}

	detailBody, err := c.get(ctx, "dettaglioStazione", stationCode, region)
	if err != nil {
		return "", err
	}

	var detail stationDetail
	if err := json.Unmarshal(detailBody, &detail); err != nil {
		return "", fmt.Errorf("station detail for %s: %w", stationCode, err)
	}
	name := detail.Localita.NomeLungo
	if name == "" {
		name = detail.Localita.NomeBreve
	}
	if name == "" {
		return "", fmt.Errorf("no name in station detail for %s", stationCode)
	}
	return name, nil
}
