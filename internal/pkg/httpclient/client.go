// Package httpclient is the outbound HTTP client shared by the provider
// adapters. Every call is bounded by a deadline, traced and counted.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/accessroute/internal/pkg/metrics"
	"github.com/samirrijal/accessroute/internal/pkg/telemetry"
)

const maxErrorBody = 512

// StatusError reports a non-2xx provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// ErrTimeout is returned when the deadline passes before a response arrives.
var ErrTimeout = errors.New("provider request timed out")

// Request is one outbound call.
type Request struct {
	Method      string
	URL         string
	ContentType string
	Body        []byte
	Headers     map[string]string
}

// Client calls a single named provider.
type Client struct {
	name    string
	timeout time.Duration
	hc      *fasthttp.Client
}

// New creates a client for provider name. timeout bounds every request.
func New(name string, timeout time.Duration) *Client {
	return &Client{
		name:    name,
		timeout: timeout,
		hc: &fasthttp.Client{
			Name:                name,
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 30 * time.Second,
		},
	}
}

// Name returns the provider name used in logs and metrics.
func (c *Client) Name() string { return c.name }

// Do performs req and returns the response body of a 2xx response. The
// deadline is the earlier of the client timeout and the context deadline.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(telemetry.InstrumentationName).Start(ctx, c.name+" "+r.Method)
	defer span.End()
	span.SetAttributes(
		attribute.String("provider", c.name),
		attribute.String("http.method", r.Method),
	)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.URL)
	req.Header.SetMethod(r.Method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if r.ContentType != "" {
		req.Header.SetContentType(r.ContentType)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if len(r.Body) > 0 {
		req.SetBody(r.Body)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	start := time.Now()
	err := c.hc.DoDeadline(req, resp, deadline)
	elapsed := time.Since(start)

	if err != nil {
		outcome := "error"
		if errors.Is(err, fasthttp.ErrTimeout) {
			outcome = "timeout"
			err = fmt.Errorf("%w after %s", ErrTimeout, elapsed.Round(time.Millisecond))
		}
		c.fail(ctx, span, outcome, elapsed, err)
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}

	status := resp.StatusCode()
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status < 200 || status > 299 {
		body := resp.Body()
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		serr := &StatusError{Code: status, Body: string(body)}
		c.fail(ctx, span, "status", elapsed, serr)
		return nil, fmt.Errorf("%s: %w", c.name, serr)
	}

	metrics.ObserveProvider(c.name, "ok", elapsed)
	return append([]byte(nil), resp.Body()...), nil
}

func (c *Client) fail(ctx context.Context, span trace.Span, outcome string, elapsed time.Duration, err error) {
	metrics.ObserveProvider(c.name, outcome, elapsed)
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	slog.WarnContext(ctx, "provider request failed",
		"provider", c.name, "outcome", outcome, "latency_ms", elapsed.Milliseconds(), "error", err)
}
