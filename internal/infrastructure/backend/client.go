// Package backend is the typed client of the dormitory REST API. Every call goes
// through Client.Do, which attaches the caller's bearer token, unwraps the
// response envelope and maps failures onto apperror codes. Nothing is retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dormdesk/internal/core/apperror"
	appctx "dormdesk/internal/core/context"
	"dormdesk/pkg/logger"
)

var tracer = otel.Tracer("dormdesk/api")

// APIPrefix is prepended to every resource path.
const APIPrefix = "/api/v1"

// TokenSource yields the bearer token for a call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ContextTokenSource forwards the token of the user in ctx.
type ContextTokenSource struct{}

// Token implements TokenSource.
func (ContextTokenSource) Token(ctx context.Context) (string, error) {
	if tok := appctx.GetToken(ctx); tok != "" {
		return tok, nil
	}
	return "", apperror.NewUnauthorized("missing bearer token")
}

// StaticTokenSource always returns the same token.
type StaticTokenSource string

// Token implements TokenSource.
func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Tokens defaults to ContextTokenSource
	Tokens TokenSource

	// HTTPClient overrides the default client (tests)
	HTTPClient *http.Client
}

// Client talks to the backend.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = ContextTokenSource{}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokens:     tokens,
		httpClient: httpClient,
	}
}

// Request describes one backend call. Path is relative to APIPrefix.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// PaginationMeta is the backend's pagination block.
type PaginationMeta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	LastPage    int    `json:"last_page"`
	Links       []Link `json:"links"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          *int   `json:"to"`
	Total       int    `json:"total"`
}

// Link is a pagination link.
type Link struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Envelope is the uniform response shape.
type Envelope struct {
	// Success is nil when the backend omitted it; a 2xx status counts as success then
	Success *bool               `json:"success,omitempty"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Meta    *PaginationMeta     `json:"meta,omitempty"`
	Total   *int                `json:"total,omitempty"`
	Limit   *int                `json:"limit,omitempty"`

	// Status is the HTTP status of the response
	Status int `json:"-"`
}

// Do performs req and returns the decoded envelope. Any failure is an *apperror.AppError.
func (c *Client) Do(ctx context.Context, req Request) (*Envelope, error) {
	ctx, span := tracer.Start(ctx, "backend "+req.Method, trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.path", req.Path),
	))
	defer span.End()

	env, err := c.do(ctx, req)
	if env != nil {
		span.SetAttributes(attribute.Int("http.status_code", env.Status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperror.Message(err))
		logger.Warn(ctx, "backend call failed", "method", req.Method, "path", req.Path, "error", err)
	}
	return env, err
}

func (c *Client) do(ctx context.Context, req Request) (*Envelope, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	target := c.baseURL + APIPrefix + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("encode %s %s: %w", req.Method, req.Path, err))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if rid := appctx.GetRequestID(ctx); rid != "" {
		httpReq.Header.Set("X-Request-ID", rid)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	env := &Envelope{Status: resp.StatusCode}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, env); err != nil || !env.looksLikeEnvelope() {
			if resp.StatusCode >= 400 {
				return env, mapError(req.Path, env)
			}
			if !json.Valid(raw) {
				return env, apperror.NewBackend(http.StatusBadGateway, "backend returned malformed JSON")
			}
			// bare payload without envelope
			*env = Envelope{Status: resp.StatusCode, Data: raw}
		}
	}

	if resp.StatusCode >= 400 || (env.Success != nil && !*env.Success) {
		return env, mapError(req.Path, env)
	}
	return env, nil
}

func (e *Envelope) looksLikeEnvelope() bool {
	return e.Success != nil || e.Data != nil || e.Error != "" || e.Errors != nil || e.Meta != nil || e.Message != ""
}

// Decode unmarshals the envelope's data into out. Empty data leaves out untouched.
func (e *Envelope) Decode(out any) error {
	if len(e.Data) == 0 || bytes.Equal(e.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return apperror.NewBackend(http.StatusBadGateway, "unexpected response shape").WithCause(err)
	}
	return nil
}

func mapError(path string, env *Envelope) error {
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}

	if len(env.Errors) > 0 {
		return apperror.NewFieldValidation(msg, env.Errors).WithDetail("backend_status", env.Status)
	}

	switch env.Status {
	case http.StatusUnauthorized:
		return apperror.NewUnauthorized(orDefault(msg, "session expired"))
	case http.StatusForbidden:
		return apperror.NewForbidden(orDefault(msg, "not allowed"))
	case http.StatusNotFound:
		e := apperror.NewNotFound(resourceName(path), path)
		if msg != "" {
			e.Message = msg
		}
		return e
	}

	status := env.Status
	if status < 400 {
		// success:false on a 2xx is a business rejection
		status = http.StatusUnprocessableEntity
	}
	return apperror.NewBackend(status, msg)
}

func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperror.NewTimeout(err)
	}
	return apperror.NewTransport(err)
}

func resourceName(path string) string {
	p := strings.Trim(path, "/")
	if i := strings.Index(p, "/"); i >= 0 {
		p = p[:i]
	}
	return p
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Get performs a GET and decodes data into T.
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, *Envelope, error) {
	return Send[T](ctx, c, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Send performs req and decodes data into T.
func Send[T any](ctx context.Context, c *Client, req Request) (T, *Envelope, error) {
	var out T
	env, err := c.Do(ctx, req)
	if err != nil {
		return out, env, err
	}
	if err := env.Decode(&out); err != nil {
		return out, env, err
	}
	return out, env, nil
}

// Ping reports whether the backend answers HTTP at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+APIPrefix, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 500 {
		return apperror.NewBackend(resp.StatusCode, "backend is unhealthy")
	}
	return nil
}
