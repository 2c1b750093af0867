package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// Client fetches one place record from the external lookup provider.
type Client interface {
	FetchPlace(ctx context.Context, placeID string) (*models.Place, error)
}

const detailFields = "place_id,name,formatted_address,types,geometry,rating,user_ratings_total"

// HTTPClient talks to a place-details style JSON endpoint: a GET with
// place_id/key/fields query parameters, answered by a body carrying a status
// string beside the result. Provider statuses map onto the lookup error
// taxonomy. A circuit breaker sits in front of the endpoint so a misbehaving
// provider sheds load quickly instead of burning the request budget.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPClient creates a lookup client for the given endpoint.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "places-lookup",
			MaxRequests: 5,
			Interval:    30 * time.Second,
			Timeout:     60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < 5 {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				zap.S().Warnf("[PlacesClient] circuit breaker %s: %v -> %v", name, from, to)
			},
			IsSuccessful: func(err error) bool {
				// A definitive not-found is a working provider, not a fault.
				return err == nil || errors.Is(err, ErrNotFound)
			},
		}),
	}
}

// FetchPlace fetches a single place record.
func (c *HTTPClient) FetchPlace(ctx context.Context, placeID string) (*models.Place, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, placeID)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: circuit breaker open", ErrTransient)
		}
		return nil, err
	}
	return result.(*models.Place), nil
}

type detailsResponse struct {
	Status string        `json:"status"`
	Result detailsResult `json:"result"`
}

type detailsResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Types            []string `json:"types"`
	Geometry         *struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Rating           float64 `json:"rating"`
	UserRatingsTotal int     `json:"user_ratings_total"`
}

func (c *HTTPClient) fetch(ctx context.Context, placeID string) (*models.Place, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lookup url: %w", err)
	}
	q := u.Query()
	q.Set("place_id", placeID)
	q.Set("key", c.apiKey)
	q.Set("fields", detailFields)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: provider returned 429", ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: provider returned %d", ErrTransient, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransient, err)
	}

	var payload detailsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrTransient, err)
	}

	switch payload.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST":
		return nil, fmt.Errorf("%w: provider status %s", ErrNotFound, payload.Status)
	case "OVER_QUERY_LIMIT", "RESOURCE_EXHAUSTED":
		return nil, fmt.Errorf("%w: provider status %s", ErrRateLimited, payload.Status)
	default:
		return nil, fmt.Errorf("%w: provider status %s", ErrTransient, payload.Status)
	}

	place := &models.Place{
		PlaceID:          payload.Result.PlaceID,
		Name:             payload.Result.Name,
		FormattedAddress: payload.Result.FormattedAddress,
		Types:            payload.Result.Types,
		Rating:           payload.Result.Rating,
		UserRatingsTotal: payload.Result.UserRatingsTotal,
		Status:           models.PlaceStatusOK,
		APIResponse:      string(body),
	}
	if place.PlaceID == "" {
		place.PlaceID = placeID
	}
	if payload.Result.Geometry != nil {
		place.Location = &models.LatLng{
			Lat: payload.Result.Geometry.Location.Lat,
			Lng: payload.Result.Geometry.Location.Lng,
		}
	}
	return place, nil
}
