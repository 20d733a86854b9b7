// Package remote implements ports.AuthAPI over the blog API's HTTP
// endpoints.
package remote

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
	"strings"
	"time"

	"github.com/google/uuid"
	cookiejar "github.com/juju/persistent-cookiejar"
	"github.com/rs/zerolog"

	"github.com/digitallog/console/internal/core/domain"
)

const (
	pathLogin        = "/auth/login"
	pathRegister     = "/auth/register"
	pathRefreshToken = "/auth/refresh-token"
	pathLogout       = "/auth/logout"
	pathCurrentUser  = "/users/current"

	headerRequestID = "X-Request-ID"
)

var ErrMissingAccessToken = errors.New("refresh response has no access token")

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds each request. Zero leaves it to the transport.
	Timeout time.Duration
	// CookieFile persists the cookie jar (and with it the refresh cookie)
	// between runs. Empty keeps cookies in memory only.
	CookieFile string
	Logger     zerolog.Logger
	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

// Client talks to the blog API. Cookies set by the API are kept in a jar
// and sent back on every request.
type Client struct {
	base *url.URL
	http *http.Client
	jar  *cookiejar.Jar
	log  zerolog.Logger
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", opts.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{
		Filename:  opts.CookieFile,
		NoPersist: opts.CookieFile == "",
	})
	if err != nil {
		return nil, fmt.Errorf("open cookie jar: %w", err)
	}

	return &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: opts.Timeout, Transport: opts.Transport},
		jar:  jar,
		log:  opts.Logger,
	}, nil
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, pathLogin, "", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, pathRegister, "", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken exchanges the refresh cookie for a new access token.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, pathRefreshToken, "", struct{}{}, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrMissingAccessToken
	}
	return out.AccessToken, nil
}

func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, pathLogout, accessToken, struct{}{}, nil)
}

// UpdateCurrentUser sends body as-is and returns the updated user.
func (c *Client) UpdateCurrentUser(ctx context.Context, accessToken string, body any) (*domain.User, error) {
	var out domain.UserResponse
	if err := c.do(ctx, http.MethodPut, pathCurrentUser, accessToken, body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ResetCookies drops every cookie, including the persisted copy.
func (c *Client) ResetCookies() error {
	c.jar.RemoveAll()
	return c.saveCookies()
}

// Ping checks that the API answers at all. Any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping api: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, reqID)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("api call")

	if err := c.saveCookies(); err != nil {
		c.log.Warn().Err(err).Msg("failed to persist cookies")
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) saveCookies() error {
	return c.jar.Save()
}

// decodeAPIError builds the error of a non-2xx reply. A body that is not
// a known error shape becomes a generic ServerError.
func decodeAPIError(resp *http.Response, raw []byte) *domain.APIError {
	apiErr := &domain.APIError{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
	}

	var top struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &top) == nil {
		apiErr.Message = top.Message
	}

	payload, err := domain.DecodeErrorPayload(raw)
	if err != nil {
		payload = &domain.ServerError{Message: domain.DefaultServerMessage}
	}
	apiErr.Payload = payload
	return apiErr
}

// statusText returns the reason phrase the server sent, falling back to
// the standard one.
func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	if text == "" || text == resp.Status {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
