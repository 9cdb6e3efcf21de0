// Package gateway performs the outbound calls to the restaurant-search
// provider and normalizes what comes back. It never touches session state.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/observability"
)

const maxBody = 4 << 20

// Searcher is the search half of the gateway; the store and the cache
// decorator depend on this rather than on *Client.
type Searcher interface {
	Search(ctx context.Context, params url.Values) (model.SearchResult, error)
}

// BodySearcher is implemented by searchers that can also POST the filters
// as a JSON body.
type BodySearcher interface {
	SearchBody(ctx context.Context, body any) (model.SearchResult, error)
}

var _ BodySearcher = (*Client)(nil)

type Client struct {
	logger    *slog.Logger
	client    *http.Client
	searchURL *url.URL
	apiKey    string
	startNow  func() time.Time // for tests
}

var _ Searcher = (*Client)(nil)

func New(logger *slog.Logger, client *http.Client, searchURL, apiKey string) (*Client, error) {
	u, err := url.Parse(searchURL)
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("search url %q must be absolute", searchURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		logger:    logger,
		client:    client,
		searchURL: u,
		apiKey:    apiKey,
		startNow:  time.Now,
	}, nil
}

// Search issues a GET with params as the query string.
func (c *Client) Search(ctx context.Context, params url.Values) (model.SearchResult, error) {
	u := *c.searchURL
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.SearchResult{}, &TransportError{Op: "build request", Err: err}
	}
	body, err := c.do(req)
	if err != nil {
		return model.SearchResult{}, err
	}
	return decodeResult(body)
}

// SearchBody POSTs body as JSON to the search endpoint.
func (c *Client) SearchBody(ctx context.Context, body any) (model.SearchResult, error) {
	raw, err := c.post(ctx, c.searchURL.String(), body)
	if err != nil {
		return model.SearchResult{}, err
	}
	return decodeResult(raw)
}

// PostJSON POSTs in to endpoint and decodes the success body into out.
func (c *Client) PostJSON(ctx context.Context, endpoint string, in, out any) error {
	raw, err := c.post(ctx, endpoint, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ProviderError{Status: http.StatusOK, Message: ""}
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, in any) ([]byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := c.startNow()
	resp, err := c.client.Do(req)
	if err != nil {
		observability.ObserveUpstreamLatency("provider", err, time.Since(start).Seconds())
		c.logger.WarnContext(req.Context(), "provider request failed",
			"method", req.Method, "host", req.URL.Host, "err", err)
		return nil, &TransportError{Op: "do request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		pe := &ProviderError{Status: resp.StatusCode, Message: providerMessage(b)}
		observability.ObserveUpstreamLatency("provider", pe, time.Since(start).Seconds())
		c.logger.WarnContext(req.Context(), "provider returned error",
			"method", req.Method, "status", resp.StatusCode, "message", pe.Message)
		return nil, pe
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	dur := time.Since(start)
	observability.ObserveUpstreamLatency("provider", err, dur.Seconds())
	if err != nil {
		return nil, &TransportError{Op: "read body", Err: err}
	}
	c.logger.DebugContext(req.Context(), "provider call done",
		"method", req.Method, "status", resp.StatusCode, "bytes", len(b), "duration", dur)
	return b, nil
}

func decodeResult(body []byte) (model.SearchResult, error) {
	res, err := Normalize(body)
	if err != nil {
		return model.SearchResult{}, &ProviderError{Status: http.StatusOK, Message: ""}
	}
	return res, nil
}
