package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
)

// ErrInvalidCredentials is returned when the access service rejects the
// provided passphrase.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is what a surface collects before joining a conversation.
type Credentials struct {
	Username   string `json:"username"`
	Passphrase string `json:"passphrase"`
}

// Grant is the access decision. Role determines which side of the
// conversation the session speaks as.
type Grant struct {
	Approved bool   `json:"approved"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// Client talks to the HTTP access endpoint of the remote service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate exchanges credentials for an access grant.
func (c *Client) Authenticate(ctx context.Context, credentials Credentials) (*Grant, error) {
	ctx, span := tracer.Start(ctx, "auth.authenticate")
	defer span.End()

	body, err := json.Marshal(credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build access request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		recordedErr := fmt.Errorf("failed to reach access service: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return nil, recordedErr
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidCredentials
	case response.StatusCode != http.StatusOK:
		logger.Warn("unexpected access service response", "status", response.StatusCode)
		return nil, fmt.Errorf("access service returned status %d", response.StatusCode)
	}

	var grant Grant
	if err := json.NewDecoder(response.Body).Decode(&grant); err != nil {
		return nil, fmt.Errorf("failed to decode access grant: %w", err)
	}
	if !grant.Approved {
		return nil, ErrInvalidCredentials
	}

	return &grant, nil
}
