package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/client/tokenstore"
	"github.com/dmitrijs2005/policyinsight/internal/common"
	"github.com/dmitrijs2005/policyinsight/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	maxResponseBody = 1 << 20

	// defaultRefreshTimeout bounds a shared refresh when the HTTP client has
	// no timeout of its own.
	defaultRefreshTimeout = 30 * time.Second
)

// Request is one API call. Path is relative to the base URL, e.g. "/user/me".
// A nil Body sends no payload.
type Request struct {
	Method string
	Path   string
	Body   any
	Header http.Header
}

// Response is a successful (2xx) API response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// attempt is the retry state of one logical request, kept apart from the
// Request so that the caller's value is never mutated.
type attempt struct {
	requestID string
	retried   bool
}

// Client sends API requests on behalf of the stored session.
type Client struct {
	http             *http.Client
	baseURL          string
	store            *tokenstore.Store
	logger           logging.Logger
	onSessionExpired func(ctx context.Context)
	refreshGroup     *singleflight.Group
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient. Pass a client whose Jar is the
// jar backend's jar to have the credential cookies sent as well.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithSessionExpiredHook registers fn to run after a failed refresh has
// cleared the store. The CLI uses it to drop the in-memory session and send
// the user back to login.
func WithSessionExpiredHook(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// WithSingleFlightRefresh coalesces concurrent refreshes into one call.
// Without it every request that hits a 401 refreshes on its own.
func WithSingleFlightRefresh() Option {
	return func(c *Client) { c.refreshGroup = &singleflight.Group{} }
}

// New creates a client for baseURL, e.g. "http://127.0.0.1:8080/api/v1".
func New(baseURL string, store *tokenstore.Store, opts ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Store() *tokenstore.Store {
	return c.store
}

// Do sends req, refreshing the session and retrying once on a 401 from a
// protected endpoint. A mutating request refused for a stale CSRF token is
// retried once with a freshly fetched token. Non-2xx results are returned as
// *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	at := attempt{requestID: uuid.NewString()}

	resp, err := c.exchange(ctx, req, &at)
	if err == nil || !csrfRejected(req, err) {
		return resp, err
	}
	if rerr := c.renewCSRF(ctx, at); rerr != nil {
		return nil, err
	}
	return c.exchange(ctx, req, &at)
}

// exchange sends req and handles a 401. at.retried survives across calls,
// so a request is refreshed at most once.
func (c *Client) exchange(ctx context.Context, req Request, at *attempt) (*Response, error) {
	resp, err := c.send(ctx, req, *at, "")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || at.retried || common.IsPublicEndpoint(req.Path) {
		return c.result(resp)
	}
	drain(resp)

	at.retried = true
	c.logger.Info(ctx, "access token rejected, refreshing", "request_id", at.requestID, "method", req.Method, "path", req.Path)

	if err := c.refresh(ctx, *at); err != nil {
		return nil, err
	}

	resp, err = c.send(ctx, req, *at, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn(ctx, "retried request still unauthorized", "request_id", at.requestID, "method", req.Method, "path", req.Path)
	}
	return c.result(resp)
}

// csrfRejected reports whether err is the server refusing the CSRF token that
// decorated req.
func csrfRejected(req Request, err error) bool {
	if req.Method == "" || req.Method == http.MethodGet || strings.Contains(req.Path, common.PathCSRFToken) {
		return false
	}
	var apiErr *Error
	return errors.As(err, &apiErr) &&
		apiErr.Status == http.StatusForbidden &&
		apiErr.Message == common.ErrInvalidCSRF.Error()
}

// renewCSRF drops the stored CSRF token and fetches a new one.
func (c *Client) renewCSRF(ctx context.Context, at attempt) error {
	c.logger.Info(ctx, "csrf token rejected, fetching a new one", "request_id", at.requestID)
	if err := c.store.Clear(ctx, tokenstore.KindCSRF); err != nil {
		c.logger.Error(ctx, "failed to clear csrf token", "request_id", at.requestID, "error", err)
	}
	if _, err := c.FetchCSRFToken(ctx); err != nil {
		c.logger.Warn(ctx, "csrf token renewal failed", "request_id", at.requestID, "error", err)
		return err
	}
	return nil
}

// Refresh exchanges the stored refresh token for a new access token. On
// failure the store is cleared and the session-expired hook runs. A caller
// that gives up (ctx done) gets the context error and the session is kept.
func (c *Client) Refresh(ctx context.Context) error {
	return c.refresh(ctx, attempt{requestID: uuid.NewString(), retried: true})
}

func (c *Client) refresh(ctx context.Context, at attempt) error {
	if c.refreshGroup == nil {
		return c.refreshTokens(ctx, at)
	}

	// The shared refresh serves every joined caller, so it runs detached
	// from the one that started it.
	ch := c.refreshGroup.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout())
		defer cancel()
		return nil, c.refreshTokens(rctx, at)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.logger.Debug(ctx, "joined in-flight refresh", "request_id", at.requestID)
		}
		return res.Err
	case <-ctx.Done():
		c.logger.Info(ctx, "caller left in-flight refresh", "request_id", at.requestID, "error", ctx.Err())
		return unavailable(ctx.Err())
	}
}

func (c *Client) refreshTimeout() time.Duration {
	if c.http.Timeout > 0 {
		return c.http.Timeout
	}
	return defaultRefreshTimeout
}

func (c *Client) refreshTokens(ctx context.Context, at attempt) error {
	refreshToken, ok := c.store.RefreshToken(ctx)
	if !ok {
		c.logger.Warn(ctx, "no refresh token stored", "request_id", at.requestID)
		c.expire(ctx)
		return sessionExpired()
	}

	refreshed, err := c.postRefresh(ctx, at, refreshToken)
	if err != nil {
		if errors.Is(err, ErrUnavailable) && interrupted(ctx, err) {
			c.logger.Info(ctx, "token refresh abandoned", "request_id", at.requestID, "error", err)
			if ctx.Err() != nil {
				return unavailable(ctx.Err())
			}
			return err
		}
		c.logger.Warn(ctx, "token refresh failed", "request_id", at.requestID, "error", err)
		c.expire(ctx)
		return sessionExpired()
	}

	var tokens RefreshResponse
	if err := refreshed.Decode(&tokens); err != nil || tokens.AccessToken == "" {
		c.logger.Warn(ctx, "token refresh returned no access token", "request_id", at.requestID)
		c.expire(ctx)
		return sessionExpired()
	}

	if err := c.store.SetTokens(ctx, tokens.AccessToken, tokens.RefreshToken); err != nil {
		if interrupted(ctx, err) {
			c.logger.Warn(ctx, "refreshed tokens not stored", "request_id", at.requestID, "error", err)
			return unavailable(err)
		}
		c.logger.Error(ctx, "failed to store refreshed tokens", "request_id", at.requestID, "error", err)
		c.expire(ctx)
		return sessionExpired()
	}

	c.logger.Info(ctx, "tokens refreshed", "request_id", at.requestID, "rotated", tokens.RefreshToken != "")
	return nil
}

// postRefresh sends the refresh call with the refresh token as bearer,
// renewing a stale CSRF token once.
func (c *Client) postRefresh(ctx context.Context, at attempt, refreshToken string) (*Response, error) {
	req := Request{Method: http.MethodPost, Path: common.PathRefresh, Body: struct{}{}}

	resp, err := c.send(ctx, req, at, refreshToken)
	if err != nil {
		return nil, err
	}
	out, err := c.result(resp)
	if err == nil || !csrfRejected(req, err) {
		return out, err
	}
	if rerr := c.renewCSRF(ctx, at); rerr != nil {
		if errors.Is(rerr, ErrUnavailable) {
			return nil, rerr
		}
		return nil, err
	}

	resp, err = c.send(ctx, req, at, refreshToken)
	if err != nil {
		return nil, err
	}
	return c.result(resp)
}

// interrupted reports whether err comes from ctx ending rather than from the
// server.
func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) expire(ctx context.Context) {
	if err := c.store.ClearAll(ctx); err != nil {
		c.logger.Error(ctx, "failed to clear credentials", "error", err)
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired(ctx)
	}
}

// send builds, decorates and sends one HTTP request. A non-empty bearer
// overrides the stored access token.
func (c *Client) send(ctx context.Context, req Request, at attempt, bearer string) (*http.Response, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	c.decorate(ctx, httpReq, req.Path, at, bearer)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, unavailable(err)
	}
	return resp, nil
}

func (c *Client) decorate(ctx context.Context, r *http.Request, path string, at attempt, bearer string) {
	r.Header.Set(common.RequestIDHeaderName, at.requestID)

	r.Header.Del(common.AuthorizationHeaderName)
	switch {
	case bearer != "":
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+bearer)
	case common.IsPublicEndpoint(path):
	default:
		if token, ok := c.store.AccessToken(ctx); ok {
			r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	if r.Method != http.MethodGet && !strings.Contains(path, common.PathCSRFToken) {
		if token, ok := c.store.CSRFToken(ctx); ok {
			r.Header.Set(common.CSRFHeaderName, token)
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// result reads and closes resp, returning a Response for 2xx statuses and an
// *Error otherwise.
func (c *Client) result(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, unavailable(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
	}

	var eb errorBody
	_ = json.Unmarshal(data, &eb)
	return nil, statusError(resp.StatusCode, eb.Error)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
	_ = resp.Body.Close()
}
