// Package gateway is the HTTP client of the remote auth gateway. It knows
// the endpoints and wire formats but keeps no state of its own.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/GoPowerDNS-Admin/authportal/internal/identity"
)

const (
	// DefaultBaseURL is the local development gateway.
	DefaultBaseURL = "http://localhost:8080/api/v1"
	// DefaultTimeout bounds a single gateway call.
	DefaultTimeout = 10 * time.Second

	headerRequestID = "X-Request-ID"
	maxBodySize     = 1 << 20
)

// Endpoints, relative to the base URL.
const (
	PathLogin    = "/auth/login"
	PathRegister = "/auth/register"
	PathMe       = "/auth/me"
	PathVerify   = "/auth/verify"
	PathResend   = "/auth/resend"
)

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is the number of outbound calls per second. Zero disables limiting.
	RateLimit float64
	Burst     int
	UserAgent string
	// HTTPClient replaces http.DefaultClient as base transport.
	HTTPClient *http.Client
}

// Client talks to the remote auth gateway.
type Client struct {
	base      string
	timeout   time.Duration
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// New creates a gateway client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrEmptyBaseURL
	}

	u, err := url.Parse(base)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidBaseURL
	}

	c := &Client{
		base:      base,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		http:      cfg.HTTPClient,
		limiter:   rate.NewLimiter(rate.Inf, 0),
	}

	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}

	if c.http == nil {
		c.http = http.DefaultClient
	}

	if cfg.RateLimit > 0 {
		burst := max(cfg.Burst, 1)
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.base
}

// Login posts credentials. A 2xx answer may still carry an Error field.
func (c *Client) Login(ctx context.Context, req identity.LoginRequest) (*identity.LoginResponse, error) {
	out := &identity.LoginResponse{}
	if err := c.do(ctx, c.http, http.MethodPost, PathLogin, nil, req, out); err != nil {
		return nil, err
	}

	return out, nil
}

// Register creates an account. No session is issued.
func (c *Client) Register(ctx context.Context, req identity.RegisterRequest) (*identity.MessageResponse, error) {
	out := &identity.MessageResponse{}
	if err := c.do(ctx, c.http, http.MethodPost, PathRegister, nil, req, out); err != nil {
		return nil, err
	}

	return out, nil
}

// Me returns the user the bearer token was issued for.
func (c *Client) Me(ctx context.Context, token string) (*identity.User, error) {
	// oauth2.NewClient picks its base transport from the context
	bearer := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, c.http),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
	)

	out := &identity.User{}
	if err := c.do(ctx, bearer, http.MethodGet, PathMe, nil, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// VerifyEmail confirms an email address with the token from the mail link.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*identity.MessageResponse, error) {
	out := &identity.MessageResponse{}
	if err := c.do(ctx, c.http, http.MethodGet, PathVerify, url.Values{"token": {token}}, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// ResendVerification asks the gateway to mail a new verification link.
func (c *Client) ResendVerification(ctx context.Context, email string) (*identity.MessageResponse, error) {
	out := &identity.MessageResponse{}
	if err := c.do(ctx, c.http, http.MethodPost, PathResend, url.Values{"email": {email}}, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(
	ctx context.Context,
	hc *http.Client,
	method, endpoint string,
	query url.Values,
	in, out any,
) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.base + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader

	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}

		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}

	requestID := uuid.NewString()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()

	resp, err := hc.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("request_id", requestID).Str("endpoint", endpoint).Msg("gateway call failed")
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}

	log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("gateway call")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(endpoint, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func decodeError(endpoint string, status int, raw []byte) *GatewayError {
	gwErr := &GatewayError{Endpoint: endpoint, Status: status}

	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		gwErr.Message = fmt.Sprintf("HTTP error! status: %d", status)
		return gwErr
	}

	switch {
	case eb.Error != "":
		gwErr.Message = eb.Error
	case eb.Message != "":
		gwErr.Message = eb.Message
	default:
		gwErr.Message = fallbackMessage
	}

	return gwErr
}
