// Package nws is a client for the National Weather Service forecast API.
// Getting a forecast takes two sequential requests: the points endpoint maps
// coordinates to a location-specific forecast URL, and that URL returns the
// ordered list of forecast periods.
package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const DefaultBaseURL = "https://api.weather.gov"

// Period is one forecast block ("Tonight", "Thursday", ...) as returned by
// the API, fields extracted verbatim.
type Period struct {
	Name            string `json:"name"`
	Temperature     int    `json:"temperature"`
	TemperatureUnit string `json:"temperatureUnit"`
	// PrecipChance is nil when the API reports no probability value.
	PrecipChance  *int   `json:"precipChance"`
	WindSpeed     string `json:"windSpeed"`
	WindDirection string `json:"windDirection"`
	ShortForecast string `json:"shortForecast"`
}

// PointsResult carries the metadata extracted from the points endpoint.
type PointsResult struct {
	ForecastURL string
}

// Client calls the NWS API. The service requires a descriptive User-Agent
// identifying the calling application; requests without one risk rejection.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
}

// NewClient creates a Client sharing the given HTTP client. baseURL may be
// empty to use the production API.
func NewClient(httpClient *http.Client, baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nws",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		circuit:    cb,
	}
}

// Points resolves coordinates to forecast metadata. The API expects
// coordinates rounded to four decimal places.
func (c *Client) Points(ctx context.Context, lat, lon float64) (PointsResult, error) {
	u := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, lat, lon)

	resp, err := c.do(ctx, u)
	if err != nil {
		return PointsResult{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			Forecast string `json:"forecast"`
		} `json:"properties"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return PointsResult{}, fmt.Errorf("%w: decoding points payload: %v", ErrMalformedResponse, err)
	}

	if payload.Properties.Forecast == "" {
		return PointsResult{}, fmt.Errorf("%w: points payload has no forecast URL", ErrMalformedResponse)
	}

	return PointsResult{ForecastURL: payload.Properties.Forecast}, nil
}

// Forecast fetches the period list from a forecast URL obtained via Points.
func (c *Client) Forecast(ctx context.Context, forecastURL string) ([]Period, error) {
	resp, err := c.do(ctx, forecastURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			Periods []struct {
				Name                       string `json:"name"`
				Temperature                int    `json:"temperature"`
				TemperatureUnit            string `json:"temperatureUnit"`
				ProbabilityOfPrecipitation struct {
					Value *int `json:"value"`
				} `json:"probabilityOfPrecipitation"`
				WindSpeed     string `json:"windSpeed"`
				WindDirection string `json:"windDirection"`
				ShortForecast string `json:"shortForecast"`
			} `json:"periods"`
		} `json:"properties"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding forecast payload: %v", ErrMalformedResponse, err)
	}

	if len(payload.Properties.Periods) == 0 {
		return nil, fmt.Errorf("%w: forecast payload has no periods", ErrMalformedResponse)
	}

	periods := make([]Period, 0, len(payload.Properties.Periods))
	for _, p := range payload.Properties.Periods {
		periods = append(periods, Period{
			Name:            p.Name,
			Temperature:     p.Temperature,
			TemperatureUnit: p.TemperatureUnit,
			PrecipChance:    p.ProbabilityOfPrecipitation.Value,
			WindSpeed:       p.WindSpeed,
			WindDirection:   p.WindDirection,
			ShortForecast:   p.ShortForecast,
		})
	}

	return periods, nil
}

// GetForecast composes Points and Forecast. The second request depends on the
// first response, so the calls are strictly sequential.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) ([]Period, error) {
	points, err := c.Points(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("points lookup: %w", err)
	}

	periods, err := c.Forecast(ctx, points.ForecastURL)
	if err != nil {
		return nil, fmt.Errorf("forecast lookup: %w", err)
	}

	return periods, nil
}

// do performs one GET through the circuit breaker. There is no retry: a
// failed call is reported once and the breaker trips only to shed load from a
// struggling upstream across subsequent lookups.
func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.httpClient.Do(req)
		if execErr != nil {
			return nil, fmt.Errorf("requesting %s: %w", url, execErr)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
