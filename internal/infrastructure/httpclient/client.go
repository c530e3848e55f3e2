// Package httpclient is the outbound transport to the audit REST API. Every
// request runs through an ordered chain of request and response interceptors;
// the bearer token and the 401 hook are installed that way.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/pkg/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 10 << 20
)

// RequestInterceptor may decorate or veto an outbound request.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor observes every response before the caller sees it.
type ResponseInterceptor func(req *http.Request, resp *Response)

// Request describes one call relative to the base URL.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Body        []byte
}

// Response is a fully read backend response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client sends requests to the backend base URL with a fixed timeout.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger

	onRequest  []RequestInterceptor
	onResponse []ResponseInterceptor
}

// Option customises a Client.
type Option func(*Client)

// WithRequestInterceptor appends a request interceptor.
func WithRequestInterceptor(i RequestInterceptor) Option {
	return func(c *Client) { c.onRequest = append(c.onRequest, i) }
}

// WithResponseInterceptor appends a response interceptor.
func WithResponseInterceptor(i ResponseInterceptor) Option {
	return func(c *Client) { c.onResponse = append(c.onResponse, i) }
}

// WithLogger sets the logger used for transport diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a client for baseURL. A non-positive timeout falls back to 15s.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req and returns the response for any HTTP status. A non-nil error
// means no response was received (ErrNetwork) or an interceptor vetoed it.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, intercept := range c.onRequest {
		if err := intercept(httpReq); err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues("network_error").Observe(time.Since(start).Seconds())
		c.logger.Warn().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Bool("timeout", IsTimeout(err)).
			Msg("backend unreachable")
		return nil, &domain.APIError{Kind: domain.ErrNetwork, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues("network_error").Observe(time.Since(start).Seconds())
		return nil, &domain.APIError{Kind: domain.ErrNetwork, Status: httpResp.StatusCode, Err: err}
	}
	metrics.BackendRequestDuration.WithLabelValues(strconv.Itoa(httpResp.StatusCode)).Observe(time.Since(start).Seconds())

	resp := &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: body}
	for _, intercept := range c.onResponse {
		intercept(httpReq, resp)
	}
	return resp, nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	target, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	target = target.JoinPath(cleanPath(req.Path))
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	return httpReq, nil
}

// cleanPath roots p below the base URL and resolves dot segments, keeping a
// trailing slash.
func cleanPath(p string) string {
	cleaned := path.Clean("/" + p)
	if strings.HasSuffix(p, "/") && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned
}

// Classify maps a response status onto the error taxonomy; 2xx is nil.
func Classify(resp *Response) error {
	switch {
	case resp.Status >= 200 && resp.Status < 300:
		return nil
	case resp.Status == http.StatusUnauthorized:
		return &domain.APIError{Kind: domain.ErrInvalidSession, Status: resp.Status, Message: Message(resp.Body)}
	case resp.Status == http.StatusForbidden:
		return &domain.APIError{Kind: domain.ErrForbidden, Status: resp.Status, Message: Message(resp.Body)}
	case resp.Status >= 500:
		return &domain.APIError{Kind: domain.ErrServer, Status: resp.Status, Message: Message(resp.Body)}
	}
	return &domain.APIError{Kind: domain.ErrRejected, Status: resp.Status, Message: Message(resp.Body)}
}

// Message extracts the human-readable message from a backend error body of
// the form {"message": "..."} or {"error": "..."}.
func Message(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(body) == 0 || json.Unmarshal(body, &envelope) != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

// IsTimeout reports whether err came from the transport deadline.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout() || errors.Is(err, context.DeadlineExceeded)
}
