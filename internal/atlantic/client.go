// Package atlantic is a client for the Atlantic H2H reseller API. Every
// endpoint takes a form encoded POST carrying the api key and answers with
// a JSON envelope whose "data" field holds the result.
package atlantic

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tokotopup/internal/metrics"
	"tokotopup/internal/tracing"
)

const (
	EndpointPriceList         = "/layanan/price_list"
	EndpointDepositMethods    = "/deposit/metode"
	EndpointDepositCreate     = "/deposit/create"
	EndpointDepositStatus     = "/deposit/status"
	EndpointDepositCancel     = "/deposit/cancel"
	EndpointTransactionCreate = "/transaksi/create"
	EndpointTransactionStatus = "/transaksi/status"
)

// Config holds the API location and credentials.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the Atlantic API.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	tracer  trace.Tracer
}

// NewClient creates a new Client.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		tracer:  tracing.GetTracer("atlantic"),
	}
}

// DepositRequest is the input of CreateDeposit.
type DepositRequest struct {
	ReffID  string
	Nominal string
	Type    string
	Method  string
	Phone   string
}

// TransactionRequest is the input of CreateTransaction.
type TransactionRequest struct {
	ReffID string
	Code   string
	Target string
}

// PriceList fetches the product price list of the given type (e.g. "prabayar").
func (c *Client) PriceList(ctx context.Context, typ string) (Payload, error) {
	return c.post(ctx, EndpointPriceList, map[string]string{"type": typ})
}

// DepositMethods lists the available deposit methods, optionally narrowed
// by type and method.
func (c *Client) DepositMethods(ctx context.Context, typ, method string) (Payload, error) {
	form := map[string]string{}
	if typ != "" {
		form["type"] = typ
	}
	if method != "" {
		form["metode"] = method
	}
	return c.post(ctx, EndpointDepositMethods, form)
}

// CreateDeposit opens a deposit and returns its payment instructions.
func (c *Client) CreateDeposit(ctx context.Context, req DepositRequest) (Payload, error) {
	form := map[string]string{
		"reff_id": req.ReffID,
		"nominal": req.Nominal,
		"type":    req.Type,
		"metode":  req.Method,
	}
	if req.Phone != "" {
		form["phone"] = req.Phone
	}
	return c.post(ctx, EndpointDepositCreate, form)
}

func (c *Client) DepositStatus(ctx context.Context, id string) (Payload, error) {
	return c.post(ctx, EndpointDepositStatus, map[string]string{"id": id})
}

func (c *Client) CancelDeposit(ctx context.Context, id string) (Payload, error) {
	return c.post(ctx, EndpointDepositCancel, map[string]string{"id": id})
}

// CreateTransaction buys product code for target, paid from the deposit balance.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (Payload, error) {
	return c.post(ctx, EndpointTransactionCreate, map[string]string{
		"reff_id": req.ReffID,
		"code":    req.Code,
		"target":  req.Target,
	})
}

func (c *Client) TransactionStatus(ctx context.Context, id, typ string) (Payload, error) {
	return c.post(ctx, EndpointTransactionStatus, map[string]string{"id": id, "type": typ})
}

func (c *Client) post(ctx context.Context, endpoint string, form map[string]string) (payload Payload, err error) {
	ctx, span := c.tracer.Start(ctx, "atlantic "+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("atlantic.endpoint", endpoint)),
	)
	start := time.Now()
	defer func() {
		metrics.UpstreamLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		metrics.UpstreamRequests.WithLabelValues(endpoint, requestStatus(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("atlantic %s: %w", endpoint, err)
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("api_key", c.apiKey)
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args.Set(k, form[k])
	}

	agent := fiber.Post(c.baseURL + endpoint)
	agent.Form(args)
	if timeout := c.requestTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("atlantic %s: failed to prepare request: %w", endpoint, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("atlantic %s: request failed: %w", endpoint, errs[0])
	}
	span.SetAttributes(attribute.Int("http.status_code", code))

	payload, decodeErr := decode(body)
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: code, Body: string(body)}
		if decodeErr == nil {
			apiErr.Body = payload
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("atlantic %s: failed to decode response: %w", endpoint, decodeErr)
	}
	return payload, nil
}

// requestTimeout is the configured timeout, shortened to the context deadline.
func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func decode(body []byte) (Payload, error) {
	if len(body) == 0 {
		return Payload{}, nil
	}
	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = Payload{}
	}
	return payload, nil
}

func requestStatus(err error) string {
	if err == nil {
		return "success"
	}
	if _, ok := err.(*APIError); ok {
		return "http_error"
	}
	return "error"
}
