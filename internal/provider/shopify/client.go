// Package shopify reads orders and fulfillments from the Shopify Admin
// GraphQL API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/order-resolution-service/internal/config"
	apperrors "github.com/spec-kit/order-resolution-service/pkg/util/errorutil"
)

// Client is a rate limited GraphQL client for one shop.
type Client struct {
	endpoint    string
	accessToken string
	lookupLimit int
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the GraphQL URL derived from the shop name.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient builds a client from configuration.
func NewClient(cfg config.ShopifyConfig, logger *zap.Logger, opts ...Option) *Client {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	lookupLimit := cfg.OrderLookupLimit
	if lookupLimit <= 0 {
		lookupLimit = 10
	}

	c := &Client{
		endpoint:    fmt.Sprintf("https://%s.myshopify.com/admin/api/%s/graphql.json", cfg.ShopName, cfg.APIVersion),
		accessToken: cfg.AccessToken,
		lookupLimit: lookupLimit,
		httpClient:  &http.Client{Timeout: cfg.Timeout()},
		limiter:     rate.NewLimiter(limit, burst),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// query runs one GraphQL operation and decodes its data object into out.
func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("shopify rate limit wait: %w", err)
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode shopify query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build shopify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewUpstreamError("shopify", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("shopify api error", zap.Int("status", resp.StatusCode), zap.ByteString("body", snippet))
		return apperrors.NewUpstreamError("shopify", fmt.Errorf("status %d", resp.StatusCode))
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode shopify response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("shopify graphql errors: %s", strings.Join(messages, "; "))
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode shopify data: %w", err)
	}
	return nil
}
