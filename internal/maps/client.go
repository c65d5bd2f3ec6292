// Package maps talks to the Google Distance Matrix API to estimate trip
// distance and duration between two cleaned addresses.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

var ErrNotConfigured = errors.New("maps client is not configured")

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 12 * time.Second},
	}
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// DistanceDuration returns the driving distance in km (two decimals) and
// duration in minutes (one decimal) between origin and destination.
func (c *Client) DistanceDuration(ctx context.Context, origin, destination string) (float64, float64, error) {
	if c == nil || c.apiKey == "" {
		return 0, 0, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("origins", origin)
	params.Set("destinations", destination)
	params.Set("mode", "driving")
	params.Set("language", "zh-TW")
	params.Set("units", "metric")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var data matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, 0, fmt.Errorf("decode distance matrix response: %w", err)
	}

	if data.Status != "OK" {
		return 0, 0, fmt.Errorf("distance matrix status %s", data.Status)
	}
	if len(data.Rows) == 0 || len(data.Rows[0].Elements) == 0 {
		return 0, 0, errors.New("distance matrix returned no elements")
	}
	el := data.Rows[0].Elements[0]
	if el.Status != "OK" {
		return 0, 0, fmt.Errorf("distance matrix element status %s", el.Status)
	}

	km := math.Round(el.Distance.Value/1000.0*100) / 100
	mins := math.Round(el.Duration.Value/60.0*10) / 10
	return km, mins, nil
}
