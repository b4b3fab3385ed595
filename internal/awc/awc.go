// Package awc fetches METAR observations from the Aviation Weather Center
// data API.
package awc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/regenrek/metarbar/internal/limits"
)

// DefaultBaseURL is the AWC METAR data endpoint.
const DefaultBaseURL = "https://aviationweather.gov/api/data/metar"

// DefaultHours is the observation lookback window sent with each request.
const DefaultHours = 2

// Source yields the raw payload for a station's latest observation.
type Source interface {
	Fetch(ctx context.Context, station string) ([]byte, error)
}

// StatusError reports a non-OK HTTP response for a station.
type StatusError struct {
	Station string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("awc status %d for %s", e.Code, e.Station)
}

// Client fetches METAR XML over HTTPS.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	Hours      int
	MaxBytes   int64
}

// Fetch implements Source.
func (c Client) Fetch(ctx context.Context, station string) (payload []byte, err error) {
	station = strings.ToUpper(strings.TrimSpace(station))
	if station == "" {
		return nil, fmt.Errorf("awc: station is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	endpoint, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("awc base url: %w", err)
	}
	hours := c.Hours
	if hours <= 0 {
		hours = DefaultHours
	}
	query := endpoint.Query()
	query.Set("ids", station)
	query.Set("format", "xml")
	query.Set("hours", strconv.Itoa(hours))
	endpoint.RawQuery = query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("awc request: %w", err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = "metarbar/panel"
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/xml")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("awc fetch %s: %w", station, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("awc close response: %w", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Station: station, Code: resp.StatusCode}
	}
	max := c.MaxBytes
	if max <= 0 || max > limits.FetchMaxBytesMax {
		max = limits.FetchMaxBytesDefault
	}
	payload, err = io.ReadAll(io.LimitReader(resp.Body, max+1))
	if err != nil {
		return nil, fmt.Errorf("awc read %s: %w", station, err)
	}
	if int64(len(payload)) > max {
		return nil, fmt.Errorf("awc payload for %s exceeds %d bytes", station, max)
	}
	return payload, nil
}
