package avwx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrObservationUnavailable marks METAR fetch or decode failures. An update
// cycle cannot proceed without an observation.
var ErrObservationUnavailable = errors.New("observation unavailable")

// TAFUnavailable is the placeholder forecast line used when no TAF exists
// for a station.
const TAFUnavailable = "TAF not available"

// Client fetches aviation weather from the AVWX REST API.
type Client struct {
	client  *resty.Client
	baseURL string
	token   string
	logger  zerolog.Logger
}

// NewClient creates an AVWX client. Timeout bounds each HTTP round trip;
// the overall per-cycle budget is enforced by the caller's context.
func NewClient(baseURL, token string, timeout time.Duration, logger zerolog.Logger) *Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(1 * time.Second)

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  logger,
	}
}

// get performs one authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.token).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("AVWX returned status %d for %s", resp.StatusCode(), url)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", url, err)
	}
	return nil
}

// FetchMETAR retrieves the current observation for station.
func (c *Client) FetchMETAR(ctx context.Context, station string) (*METAR, error) {
	url := fmt.Sprintf("%s/metar/%s?remove=true", c.baseURL, station)
	var metar METAR
	if err := c.get(ctx, url, &metar); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrObservationUnavailable, err)
	}
	return &metar, nil
}

// FetchStationName resolves the station's display name, falling back to
// the requested code when the lookup fails.
func (c *Client) FetchStationName(ctx context.Context, station string) string {
	url := fmt.Sprintf("%s/station/%s", c.baseURL, station)
	var info Station
	if err := c.get(ctx, url, &info); err != nil || info.Name == "" {
		c.logger.Warn().Str("station", station).Msg("Station lookup failed, using code as name")
		return station
	}
	return info.Name
}

// FetchTAFLines retrieves the sanitized forecast lines, falling back to a
// single placeholder line when no TAF is published.
func (c *Client) FetchTAFLines(ctx context.Context, station string) []string {
	url := fmt.Sprintf("%s/taf/%s", c.baseURL, station)
	var taf TAF
	if err := c.get(ctx, url, &taf); err != nil || len(taf.Forecast) == 0 {
		c.logger.Warn().Str("station", station).Msg("TAF unavailable, using placeholder")
		return []string{TAFUnavailable}
	}
	lines := make([]string, 0, len(taf.Forecast))
	for _, period := range taf.Forecast {
		lines = append(lines, period.Sanitized)
	}
	return lines
}

// FetchAll gathers everything one update cycle needs. A METAR failure is
// fatal; station and TAF lookups degrade to fallbacks.
func (c *Client) FetchAll(ctx context.Context, station string) (*Bundle, error) {
	start := time.Now()

	metar, err := c.FetchMETAR(ctx, station)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{
		METAR:       metar,
		StationName: c.FetchStationName(ctx, station),
		TAFLines:    c.FetchTAFLines(ctx, station),
	}

	c.logger.Debug().
		Str("station", station).
		Dur("elapsed", time.Since(start)).
		Msg("AVWX fetch complete")

	return bundle, nil
}
