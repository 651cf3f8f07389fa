package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"admin/internal/models"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by every call when no backend base URL is set.
var ErrNotConfigured = errors.New("backend base url is not configured")

// StatusError reports a non-2xx reply to a typed call.
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s answered %d", e.Path, e.Status)
}

// Client issues single-attempt requests to the backend API. Redirects are returned, not followed.
type Client struct {
	baseURL string
	http    *resty.Client
}

func NewClient(config models.BackendConfiguration) *Client {
	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		})).
		SetCookieJar(nil).
		SetLogger(zap.S()).
		SetDisableWarn(true).
		SetPreRequestHook(dropDetectedContentType)

	return &Client{baseURL: config.BaseURL, http: httpClient}
}

func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// R starts a request bound to ctx. The bearer token is attached only when present.
func (c *Client) R(ctx context.Context, token string) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// Envelope is an inbound request rewritten for the backend.
type Envelope struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     io.Reader
}

func (e Envelope) target() string {
	if e.RawQuery == "" {
		return e.Path
	}
	return e.Path + "?" + e.RawQuery
}

type rawBodyKey struct{}

// dropDetectedContentType removes the Content-Type resty infers for a relayed body the
// client sent without one.
func dropDetectedContentType(_ *resty.Client, req *http.Request) error {
	if untyped, _ := req.Context().Value(rawBodyKey{}).(bool); untyped {
		req.Header.Del("Content-Type")
	}
	return nil
}

// Forward relays an envelope unchanged apart from its headers. The caller must close RawBody.
func (c *Client) Forward(ctx context.Context, envelope Envelope, token string) (*resty.Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	header := OutboundHeaders(envelope.Header)
	if envelope.Body != nil && header.Get("Content-Type") == "" {
		ctx = context.WithValue(ctx, rawBodyKey{}, true)
	}

	req := c.R(ctx, token).
		SetDoNotParseResponse(true).
		SetHeaderMultiValues(header)
	if envelope.Body != nil {
		req.SetBody(envelope.Body)
	}

	resp, err := req.Execute(envelope.Method, envelope.target())
	if err != nil {
		return nil, fmt.Errorf("forward %s %s: %w", envelope.Method, envelope.Path, err)
	}
	return resp, nil
}

// Send issues one prepared request and buffers the reply. Non-2xx statuses are not errors.
func (c *Client) Send(req *resty.Request, method, path string) (*resty.Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}
