package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pkordes/eld-planner/backend/internal/domain"
)

const (
	defaultBaseURL = "https://api.openrouteservice.org"
	// orsProfile is the heavy-goods-vehicle routing profile; trip plans are
	// for commercial trucks, not cars.
	orsProfile = "driving-hgv"

	metersPerMile = 1609.344
)

// ORSClient is a Provider backed by the OpenRouteService HTTP API. It
// geocodes each location descriptor (unless it is already a "lon,lat"
// coordinate pair) and then requests a directions route between the two
// points. Transient failures are retried with exponential backoff.
//
// The client is safe for concurrent use.
type ORSClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewORSClient constructs an ORSClient. baseURL may be empty to use the
// public OpenRouteService endpoint; tests point it at an httptest server.
func NewORSClient(apiKey, baseURL string) (*ORSClient, error) {
	if apiKey == "" {
		return nil, errors.New("routing: ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &ORSClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

// coordinates is a lon/lat pair in ORS wire order.
type coordinates [2]float64

// RouteBetween resolves both locations to coordinates and fetches the
// driving route between them. Every failure is reported as
// domain.ErrRouteUnavailable; callers must not attempt partial recovery.
func (c *ORSClient) RouteBetween(ctx context.Context, origin, destination string) (domain.RouteLeg, error) {
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return domain.RouteLeg{}, fmt.Errorf("%w: origin and destination must be non-empty", domain.ErrRouteUnavailable)
	}

	from, err := c.resolve(ctx, origin)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("%w: geocode %q: %v", domain.ErrRouteUnavailable, origin, err)
	}
	to, err := c.resolve(ctx, destination)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("%w: geocode %q: %v", domain.ErrRouteUnavailable, destination, err)
	}

	leg, err := c.directions(ctx, from, to)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("%w: route %q -> %q: %v", domain.ErrRouteUnavailable, origin, destination, err)
	}
	return leg, nil
}

// resolve turns a location descriptor into coordinates. A descriptor already
// in "lon,lat" form is parsed directly and skips the geocoding call.
func (c *ORSClient) resolve(ctx context.Context, location string) (coordinates, error) {
	if coord, ok := parseCoordinates(location); ok {
		return coord, nil
	}
	return c.geocode(ctx, location)
}

// parseCoordinates accepts "lon,lat" with both parts numeric.
func parseCoordinates(location string) (coordinates, bool) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return coordinates{}, false
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return coordinates{}, false
	}
	return coordinates{lon, lat}, true
}

func (c *ORSClient) geocode(ctx context.Context, location string) (coordinates, error) {
	q := url.Values{"text": {location}, "size": {"1"}}
	endpoint := c.baseURL + "/geocode/search?" + q.Encode()

	var payload struct {
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return coordinates{}, err
	}
	if len(payload.Features) == 0 || len(payload.Features[0].Geometry.Coordinates) < 2 {
		return coordinates{}, fmt.Errorf("no coordinates found for %q", location)
	}
	coords := payload.Features[0].Geometry.Coordinates
	return coordinates{coords[0], coords[1]}, nil
}

func (c *ORSClient) directions(ctx context.Context, from, to coordinates) (domain.RouteLeg, error) {
	body, err := json.Marshal(map[string]any{
		"coordinates": []coordinates{from, to},
	})
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("encode request: %w", err)
	}

	endpoint := c.baseURL + "/v2/directions/" + orsProfile + "/geojson"

	var payload struct {
		Features []struct {
			Properties struct {
				Segments []struct {
					Distance float64 `json:"distance"` // meters
					Duration float64 `json:"duration"` // seconds
				} `json:"segments"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := c.postJSON(ctx, endpoint, body, &payload); err != nil {
		return domain.RouteLeg{}, err
	}
	if len(payload.Features) == 0 {
		return domain.RouteLeg{}, errors.New("no route found")
	}
	segments := payload.Features[0].Properties.Segments
	if len(segments) == 0 {
		return domain.RouteLeg{}, errors.New("no route segments found")
	}

	return domain.RouteLeg{
		DistanceMiles: segments[0].Distance / metersPerMile,
		DurationHours: segments[0].Duration / 3600,
	}, nil
}

func (c *ORSClient) getJSON(ctx context.Context, endpoint string, out any) error {
	return c.doJSON(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	}, out)
}

func (c *ORSClient) postJSON(ctx context.Context, endpoint string, body []byte, out any) error {
	return c.doJSON(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, out)
}

// doJSON issues the request with retry on transient failures (network
// errors, 429, 5xx) using capped exponential backoff, then decodes the JSON
// response into out.
func (c *ORSClient) doJSON(ctx context.Context, makeReq func() (*http.Request, error), out any) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := makeReq()
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) {
				return retry.RetryableError(err)
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			statusErr := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
			switch resp.StatusCode {
			case http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
				http.StatusGatewayTimeout:
				return retry.RetryableError(statusErr)
			}
			return statusErr
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}
