// Package graphql is the dispatcher: it POSTs GraphQL operations to a fixed
// endpoint and resolves the authorization header of every request at send time.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-storefront/authctx"
	"github.com/jrsteele09/go-storefront/internal/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json"

	// DefaultMaxResponseSize bounds the response body read from the API
	DefaultMaxResponseSize = 8 << 20

	// HeaderRequestID correlates a storefront request with API logs
	HeaderRequestID = "X-Request-Id"
)

// Request is the body of a GraphQL POST
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
}

// Response is the envelope every GraphQL endpoint answers with
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors ErrorList       `json:"errors,omitempty"`
}

// Client sends operations to one endpoint. It is safe for concurrent use and never mutated after New.
type Client struct {
	endpoint   string
	httpClient *http.Client
	provider   authctx.Provider
	metrics    *metrics.Manager
	maxBody    int64
}

// Option configures a Client
type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAuthProvider sets the provider consulted before every request (default authctx.FromContext)
func WithAuthProvider(p authctx.Provider) Option {
	return func(c *Client) {
		c.provider = p
	}
}

// WithMaxResponseSize caps the bytes read from a response body; larger bodies fail with ErrResponseTooLarge
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		c.maxBody = n
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func New(endpoint string, options ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("[graphql New] endpoint is required")
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		provider:   authctx.FromContext(),
		maxBody:    DefaultMaxResponseSize,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.provider == nil {
		c.provider = authctx.Anonymous()
	}
	if c.maxBody <= 0 {
		c.maxBody = DefaultMaxResponseSize
	}
	return c, nil
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// WithProvider returns a client sharing this client's transport that resolves headers with p.
// The receiver is left untouched, so requests already issued through it keep their header.
func (c *Client) WithProvider(p authctx.Provider) *Client {
	if p == nil {
		p = authctx.Anonymous()
	}
	clone := *c
	clone.provider = p
	return &clone
}

// Do sends req and decodes the response data into out (which may be nil).
// Every failure is returned as *Error.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	resp, err := c.Raw(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return &Error{Kind: KindDecode, Operation: req.OperationName, Err: err}
	}
	return nil
}

// Raw sends req and returns the undecoded response envelope
func (c *Client) Raw(ctx context.Context, req Request) (*Response, error) {
	begin := time.Now()
	op := req.OperationName

	header, err := c.provider.Header(ctx)
	if err != nil {
		c.observe(op, KindProvider, time.Since(begin))
		return nil, &Error{Kind: KindProvider, Operation: op, Err: err}
	}

	body, err := json.Marshal(req)
	if err != nil {
		c.observe(op, KindEncode, time.Since(begin))
		log.Err(err).Str("operation", op).Msg("GraphQL request could not be encoded")
		return nil, &Error{Kind: KindEncode, Operation: op, Err: errors.Wrap(err, "marshal request")}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Operation: op, Err: err}
	}
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	for key, values := range header {
		httpReq.Header[key] = append([]string(nil), values...)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(op, KindNetwork, time.Since(begin))
		log.Err(err).Str("operation", op).Msg("GraphQL request failed")
		return nil, &Error{Kind: KindNetwork, Operation: op, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBody+1))
	if err != nil {
		c.observe(op, KindNetwork, time.Since(begin))
		return nil, &Error{Kind: KindNetwork, Operation: op, StatusCode: httpResp.StatusCode, Err: err}
	}
	if int64(len(respBody)) > c.maxBody {
		c.observe(op, KindDecode, time.Since(begin))
		log.Warn().Str("operation", op).Int64("limit", c.maxBody).Msg("GraphQL response too large")
		return nil, &Error{Kind: KindDecode, Operation: op, StatusCode: httpResp.StatusCode,
			Err: errors.Wrapf(ErrResponseTooLarge, "over %d bytes", c.maxBody)}
	}

	if kind := kindForStatus(httpResp.StatusCode); kind != KindNone {
		c.observe(op, kind, time.Since(begin))
		gqlErr := &Error{Kind: kind, Operation: op, StatusCode: httpResp.StatusCode}
		var envelope Response
		if json.Unmarshal(respBody, &envelope) == nil {
			gqlErr.Messages = envelope.Errors
		}
		log.Warn().Str("operation", op).Int("status", httpResp.StatusCode).Msg("GraphQL request rejected")
		return nil, gqlErr
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		c.observe(op, KindDecode, time.Since(begin))
		return nil, &Error{Kind: KindDecode, Operation: op, StatusCode: httpResp.StatusCode, Err: err}
	}
	if len(resp.Errors) > 0 {
		c.observe(op, KindGraphQL, time.Since(begin))
		log.Debug().Str("operation", op).Str("errors", resp.Errors.Error()).Msg("GraphQL errors")
		return &resp, &Error{Kind: KindGraphQL, Operation: op, StatusCode: httpResp.StatusCode, Messages: resp.Errors}
	}

	c.observe(op, KindNone, time.Since(begin))
	log.Debug().Str("operation", op).Dur("took", time.Since(begin)).Msg("GraphQL request")
	return &resp, nil
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status < 200 || status > 299:
		return KindHTTP
	default:
		return KindNone
	}
}

func (c *Client) observe(operation string, kind Kind, took time.Duration) {
	if c.metrics == nil {
		return
	}
	if operation == "" {
		operation = "anonymous"
	}
	c.metrics.CounterGraphQLRequests.WithLabelValues(operation, kind.String()).Inc()
	if took > 0 {
		c.metrics.HistGraphQLRequestDuration.WithLabelValues(operation).Observe(took.Seconds())
	}
}
