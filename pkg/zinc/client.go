package zinc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/orderbridge/orderbridge-backend/pkg/config"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
)

var (
	errClientTokenRequired   = errors.New("zinc client token is required")
	errWebhookSecretRequired = errors.New("zinc webhook secret is required")
	errPublicBaseURLRequired = errors.New("public base url for webhook callbacks is required")
)

// APIError is a non-success response from the upstream API. Callers can
// distinguish "upstream rejected" from transport failures by type assertion.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zinc api error: status %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Client wraps every call to the upstream fulfillment API with the fixed
// credential and the tagged-variant decode. No retries here; retry policy
// belongs to callers.
type Client struct {
	baseURL       string
	clientToken   string
	webhookSecret string
	publicBaseURL string
	httpClient    *http.Client
	logger        *logger.Logger
}

// NewClient validates the upstream credentials and builds the gateway.
func NewClient(ctx context.Context, cfg config.ZincConfig, logg *logger.Logger) (*Client, error) {
	token := strings.TrimSpace(cfg.ClientToken)
	if token == "" {
		return nil, errClientTokenRequired
	}
	secret := strings.TrimSpace(cfg.WebhookSecret)
	if secret == "" {
		return nil, errWebhookSecretRequired
	}
	publicBase := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if publicBase == "" {
		return nil, errPublicBaseURLRequired
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		clientToken:   token,
		webhookSecret: secret,
		publicBaseURL: publicBase,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logg,
	}

	if logg != nil {
		logg.Info(ctx, "zinc client initialized")
	}
	return c, nil
}

// WebhookSecret returns the shared secret expected on webhook callbacks.
func (c *Client) WebhookSecret() string {
	if c == nil {
		return ""
	}
	return c.webhookSecret
}

// WebhookURL builds the callback URL for the given channel slug, carrying
// the shared secret as a query parameter.
func (c *Client) WebhookURL(channel string) string {
	return fmt.Sprintf("%s/webhooks/%s?secret=%s", c.publicBaseURL, channel, url.QueryEscape(c.webhookSecret))
}

// SubmitOrder posts a new order and returns the decoded acknowledgment.
func (c *Client) SubmitOrder(ctx context.Context, order OrderRequest) (Event, error) {
	return c.call(ctx, http.MethodPost, "/v1/orders", order)
}

// GetOrder queries the current state of an accepted submission.
func (c *Client) GetOrder(ctx context.Context, requestID string) (Event, error) {
	return c.call(ctx, http.MethodGet, "/v1/orders/"+url.PathEscape(requestID), nil)
}

// RetryOrder resubmits an order with a verification code supplied by the buyer.
func (c *Client) RetryOrder(ctx context.Context, requestID, verificationCode string) (Event, error) {
	body := map[string]any{
		"retailer_credentials": map[string]any{
			"verification_code": verificationCode,
		},
	}
	return c.call(ctx, http.MethodPost, "/v1/orders/"+url.PathEscape(requestID)+"/retry", body)
}

// SubmitReturn posts a return request against an accepted order.
func (c *Client) SubmitReturn(ctx context.Context, requestID string, ret ReturnRequest) (Event, error) {
	return c.call(ctx, http.MethodPost, "/v1/orders/"+url.PathEscape(requestID)+"/return", ret)
}

// GetReturn queries the current state of a return request.
func (c *Client) GetReturn(ctx context.Context, requestID string) (Event, error) {
	return c.call(ctx, http.MethodGet, "/v1/returns/"+url.PathEscape(requestID), nil)
}

func (c *Client) call(ctx context.Context, method, path string, body any) (Event, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Event{}, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Event{}, fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.clientToken, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Event{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Event{}, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Event{}, &APIError{StatusCode: resp.StatusCode, Body: data}
	}

	ev, err := DecodeEvent(data)
	if err != nil {
		return Event{}, fmt.Errorf("decoding response: %w", err)
	}
	return ev, nil
}
