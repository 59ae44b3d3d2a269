// Package weather looks up current conditions for a city from the
// OpenWeatherMap API.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripplan/internal/config"
)

// DefaultErrorMessage is reported when the API rejects a lookup without
// saying why.
const DefaultErrorMessage = "Invalid city."

// ErrNoCity is returned by Lookup for a blank city.
var ErrNoCity = errors.New("city is required")

// ErrNoAPIKey is returned by Lookup when no API key is configured.
var ErrNoAPIKey = errors.New("weather api_key is not configured")

// LookupError is returned when the API answers with a non-2xx status.
type LookupError struct {
	Status  int
	Message string
}

func (e *LookupError) Error() string {
	return e.Message
}

// Report is the subset of the current-weather response tripplan shows.
type Report struct {
	City        string  `json:"city"`
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"` // °C
	FeelsLike   float64 `json:"feelsLike"`   // °C
	WindSpeed   float64 `json:"windSpeed"`   // m/s
}

// Client calls the current-weather endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a Client. A zero timeout means no timeout beyond the
// caller's context.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// NewClientFromConfig creates a Client from the [weather] config section.
func NewClientFromConfig(cfg config.WeatherConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultWeatherBaseURL
	}
	return NewClient(baseURL, cfg.APIKey, time.Duration(cfg.TimeoutSeconds)*time.Second)
}

type currentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Lookup fetches current conditions for city in metric units.
// A rejected lookup (unknown city, bad key) returns a *LookupError carrying
// the API's message.
func (c *Client) Lookup(ctx context.Context, city string) (Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Report{}, ErrNoCity
	}
	if c.apiKey == "" {
		return Report{}, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "Metric")
	q.Set("appid", c.apiKey)
	endpoint := c.baseURL + "/data/2.5/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Report{}, fmt.Errorf("building weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Report{}, fmt.Errorf("reading weather response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		msg := DefaultErrorMessage
		if json.Unmarshal(body, &er) == nil && er.Message != "" {
			msg = er.Message
		}
		return Report{}, &LookupError{Status: resp.StatusCode, Message: msg}
	}

	var cr currentResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return Report{}, fmt.Errorf("decoding weather response: %w", err)
	}

	r := Report{
		City:        cr.Name,
		Temperature: cr.Main.Temp,
		FeelsLike:   cr.Main.FeelsLike,
		WindSpeed:   cr.Wind.Speed,
	}
	if len(cr.Weather) > 0 {
		r.Description = cr.Weather[0].Description
	}
	return r, nil
}
