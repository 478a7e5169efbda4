// Package thingspeak implements feed.Provider against the ThingSpeak channel
// feeds API.
package thingspeak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/nodewatch/nodewatch/internal/feed"
	"github.com/nodewatch/nodewatch/internal/provider/resilience"
)

const (
	// ProviderName identifies this telemetry provider.
	ProviderName = "thingspeak"

	// DefaultBaseURL is the ThingSpeak API base URL.
	DefaultBaseURL = "https://api.thingspeak.com"

	// DefaultResults is how many of the most recent feeds are requested.
	DefaultResults = 20

	// DefaultRound is the decimal precision hint sent to the provider.
	// The provider may ignore it; readings are rounded locally as well.
	DefaultRound = 2

	maxBodySize = 1 << 20
)

// ClientConfig holds configuration for the ThingSpeak client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to ThingSpeak).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a single-attempt resilient client with a 5 second timeout.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a ThingSpeak API client.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new ThingSpeak client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetFeeds fetches the most recent feeds of a channel, newest first.
// Every failure is returned wrapped in feed.ErrFetch.
func (c *Client) GetFeeds(ctx context.Context, channelID, apiKey string) ([]json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.httpClient.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedsURL(channelID, apiKey), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", feed.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %w", feed.ErrFetch, stripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", feed.ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", feed.ErrFetch, err)
	}

	feeds, err := decodeFeeds(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", feed.ErrFetch, err)
	}

	c.logger.Debug().
		Str("channel_id", channelID).
		RawJSON("response", body).
		Msg("thingspeak response")

	return feeds, nil
}

// decodeFeeds extracts the feed entries. A body without a feeds key, such as
// a top-level array, and an empty feeds container both mean no data.
func decodeFeeds(body []byte) ([]json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, errors.New("invalid JSON")
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		return nil, nil
	}

	var tsResp feedsResponse
	if err := json.Unmarshal(body, &tsResp); err != nil {
		return nil, err
	}

	raw := bytes.TrimSpace(tsResp.Feeds)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var empty map[string]json.RawMessage
	if raw[0] == '{' && json.Unmarshal(raw, &empty) == nil && len(empty) == 0 {
		return nil, nil
	}

	var feeds []json.RawMessage
	if err := json.Unmarshal(raw, &feeds); err != nil {
		return nil, err
	}
	return feeds, nil
}

func (c *Client) feedsURL(channelID, apiKey string) string {
	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("results", strconv.Itoa(DefaultResults))
	params.Set("round", strconv.Itoa(DefaultRound))

	return fmt.Sprintf("%s/channels/%s/feeds.json?%s",
		c.baseURL, url.PathEscape(channelID), params.Encode())
}

// stripURL drops the request URL from transport errors. The URL carries the
// channel's api key and errors end up in logs and the status endpoint.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

// ThingSpeak API response structure. Channel metadata is ignored; entries stay
// raw so malformed ones can be skipped individually.
type feedsResponse struct {
	Feeds json.RawMessage `json:"feeds"`
}
