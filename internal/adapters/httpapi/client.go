package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/bnema/taskflow-cli/internal/telemetry"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	DefaultBaseURL        = "http://localhost:5000/api"
	defaultRequestTimeout = 30 * time.Second
	maxResponseBytes      = 4 << 20
)

// ErrResponseTooLarge is returned instead of a truncated body.
var ErrResponseTooLarge = errors.New("response too large")

// SessionSource hands out the session snapshot used for each request.
type SessionSource interface {
	Snapshot() domain.Session
}

// Client executes registry endpoints against the API. It never retries and
// never refreshes tokens on its own.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Registry       *Registry
	Session        SessionSource
	Logger         *slog.Logger
	Tracer         trace.Tracer
	Metrics        *telemetry.Metrics

	// MaxResponseBytes caps the accepted body size; zero means 4 MiB.
	MaxResponseBytes int64
}

// Do calls the named endpoint and returns the raw response body.
func (c *Client) Do(ctx context.Context, name string, args any) ([]byte, error) {
	if c.Registry == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownEndpoint)
	}
	endpoint, ok := c.Registry.Find(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownEndpoint)
	}

	desc, err := endpoint.Descriptor(args)
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if c.Session != nil && !endpoint.Public {
		session = c.Session.Snapshot()
	}

	requestID := telemetry.RequestID(ctx)
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	requestCtx, span := telemetry.StartClientSpan(requestCtx, c.tracer(), "api."+name,
		telemetry.AttrEndpoint.String(name),
		telemetry.AttrMethod.String(desc.Method),
		telemetry.AttrRequestID.String(requestID),
	)
	defer span.End()

	req, err := BuildRequest(requestCtx, c.BaseURL, desc, session)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		c.Metrics.RecordRequest(ctx, name, 0, time.Since(start).Seconds(), true)
		c.logger().Debug("api request failed", "endpoint", name, "method", desc.Method, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%s: %s %s: %w", name, desc.Method, desc.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	limit := c.responseLimit()
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return nil, fmt.Errorf("%s: read response body: %w", name, err)
	}
	if int64(len(body)) > limit {
		span.SetStatus(codes.Error, "response too large")
		c.Metrics.RecordRequest(ctx, name, resp.StatusCode, time.Since(start).Seconds(), true)
		return nil, fmt.Errorf("%s: %w: more than %d bytes", name, ErrResponseTooLarge, limit)
	}

	failed := resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices
	span.SetAttributes(telemetry.AttrStatusCode.Int(resp.StatusCode))
	c.Metrics.RecordRequest(ctx, name, resp.StatusCode, time.Since(start).Seconds(), failed)
	c.logger().Debug("api request",
		"endpoint", name,
		"method", desc.Method,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if failed {
		statusErr := &StatusError{
			Endpoint:   name,
			Method:     desc.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       body,
		}
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", resp.StatusCode))
		return nil, statusErr
	}

	return body, nil
}

// DoJSON calls the endpoint and decodes a non-empty body into out.
func (c *Client) DoJSON(ctx context.Context, name string, args any, out any) error {
	body, err := c.Do(ctx, name, args)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) responseLimit() int64 {
	if c.MaxResponseBytes > 0 {
		return c.MaxResponseBytes
	}
	return maxResponseBytes
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func (c *Client) tracer() trace.Tracer {
	if c.Tracer != nil {
		return c.Tracer
	}
	return nooptrace.NewTracerProvider().Tracer("")
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return telemetry.Discard()
}
