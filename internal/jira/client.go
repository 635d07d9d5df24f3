package jira

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gi8lino/ticketbridge/internal/jira"

// Requester is the transport the actions talk to Jira through.
type Requester interface {
	Request(ctx context.Context, method, path string, body any) (*Response, error)
}

// Response is a fully read Jira response.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the body into v. An empty body decodes to the zero value.
func (r *Response) JSON(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// Client handles communication with the Jira REST API.
type Client struct {
	APIURL *url.URL     // Base API URL (must include /rest/api/X/)
	Client *http.Client // Underlying HTTP client
	auth   AuthFunc
	tracer trace.Tracer // nil uses the global provider
}

// NewClient returns a Jira client with the given base URL and authentication function.
func NewClient(apiURL *url.URL, auth AuthFunc, skipVerify bool, timeout time.Duration) *Client {
	return &Client{
		APIURL: apiURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: newHTTPTransport(skipVerify),
		},
		auth: auth,
	}
}

// SearchPath builds the relative search path for jql with additional query parameters.
func SearchPath(endpoint, jql string, queryParams map[string]string) string {
	params := url.Values{}
	params.Set("jql", jql)

	// Add additional query parameters
	for k, v := range queryParams {
		if k != "" && v != "" {
			params.Set(k, v)
		}
	}

	return strings.Trim(endpoint, "/") + "?" + params.Encode()
}

// TransitionsPath returns the relative transitions path for an issue key.
func TransitionsPath(issueKey string) string {
	return "issue/" + url.PathEscape(issueKey) + "/transitions"
}

// Request performs an authenticated request. Non-2xx responses are returned
// as a Response, only transport failures produce an error.
func (c *Client) Request(ctx context.Context, method, path string, body any) (*Response, error) {
	tracer := c.tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	ctx, span := tracer.Start(ctx, "jira "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("jira.path", strings.SplitN(path, "?", 2)[0]),
		),
	)
	defer span.End()

	respBody, status, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if status >= 400 {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	return &Response{StatusCode: status, Body: respBody}, nil
}

// doRequest performs an authenticated HTTP request and returns response body, status, and error.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (response []byte, statusCode int, err error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	// Parse path into relative URL with optional query
	relURL, err := url.Parse(path)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("parse path: %w", err)
	}
	fullURL := c.APIURL.ResolveReference(relURL).String()

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("create request: %w", err)
	}

	if c.auth != nil {
		c.auth(req)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}
