// Package maps forwards place lookups to the Google Maps Web Services API.
package maps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/travelog/travelog/internal/metrics"
)

const (
	// DefaultBaseURL is the Google Maps Web Services root.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api"
	// DefaultTimeout is the total upstream request timeout.
	DefaultTimeout = 10 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 5 * time.Second
	// maxResponseBytes is the largest upstream body relayed; bigger ones fail.
	maxResponseBytes = 5 << 20
)

// Endpoint names, also used as metric labels.
const (
	EndpointGeocode      = "geocode"
	EndpointSearch       = "search"
	EndpointPlaceDetails = "place_details"
	EndpointAutocomplete = "autocomplete"
	EndpointDistance     = "distance"
)

var (
	// ErrUpstream is returned when the provider is unreachable or answers non-2xx.
	ErrUpstream = errors.New("maps provider request failed")
	// ErrMissingParameter is returned when a required query value is empty.
	ErrMissingParameter = errors.New("missing required parameter")
)

// paths maps each endpoint to its provider path.
var paths = map[string]string{
	EndpointGeocode:      "/geocode/json",
	EndpointSearch:       "/place/textsearch/json",
	EndpointPlaceDetails: "/place/details/json",
	EndpointAutocomplete: "/place/autocomplete/json",
	EndpointDistance:     "/distancematrix/json",
}

// Response is an upstream body relayed verbatim.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the maps provider on behalf of authenticated users.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// NewHTTPClient creates an HTTP client with bounded timeouts that does not follow redirects.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   DialTimeout,
			ResponseHeaderTimeout: timeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// NewClient creates a Client. A nil httpClient gets NewHTTPClient(cfg.Timeout).
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger, recorder metrics.Recorder) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(cfg.Timeout)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     cfg.APIKey,
		logger:     logger,
		metrics:    recorder,
	}
}

// Geocode resolves a free-form address.
func (c *Client) Geocode(ctx context.Context, address string) (*Response, error) {
	return c.get(ctx, EndpointGeocode, url.Values{"address": {address}}, "address")
}

// Search runs a text place search.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	return c.get(ctx, EndpointSearch, url.Values{"query": {query}}, "query")
}

// PlaceDetails fetches details for a place ID.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*Response, error) {
	return c.get(ctx, EndpointPlaceDetails, url.Values{"place_id": {placeID}}, "place_id")
}

// Autocomplete returns place predictions for partial input.
func (c *Client) Autocomplete(ctx context.Context, input string) (*Response, error) {
	return c.get(ctx, EndpointAutocomplete, url.Values{"input": {input}}, "input")
}

// Distance computes a distance matrix. Each list is joined with "|".
func (c *Client) Distance(ctx context.Context, origins, destinations []string) (*Response, error) {
	q := url.Values{
		"origins":      {joinNonEmpty(origins)},
		"destinations": {joinNonEmpty(destinations)},
	}
	return c.get(ctx, EndpointDistance, q, "origins", "destinations")
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, required ...string) (*Response, error) {
	for _, name := range required {
		if strings.TrimSpace(q.Get(name)) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingParameter, name)
		}
	}

	reqURL, err := url.Parse(c.baseURL + paths[endpoint])
	if err != nil {
		return nil, fmt.Errorf("parse maps base URL: %w", err)
	}
	q.Set("key", c.apiKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create maps request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Travelog/1.0")

	start := time.Now()
	resp, err := c.do(req)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.ObserveMapsRequest(endpoint, outcome, time.Since(start))

	if err != nil {
		c.logger.Error("maps request failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request URL carries the API key; report only the cause.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrUpstream, maxResponseBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

func joinNonEmpty(values []string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, "|")
}
