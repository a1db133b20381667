// Package client is a small HTTP consumer for the inklint grammar service.
// It mirrors the server's JSON contract and translates transport and
// service failures into stable, user-presentable error messages.
package client

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

	"github.com/inklint/inklint/pkg/types"
)

// DefaultBaseURL points at a locally running inklint server.
const DefaultBaseURL = "http://localhost:3001"

const defaultTimeout = 60 * time.Second

// Client calls the grammar-check HTTP API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the server address.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient swaps the underlying HTTP client, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpc = hc
	}
}

// New creates a Client with a 60 second request timeout.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type checkRequest struct {
	Text string `json:"text"`
}

type errorBody struct {
	Error    string `json:"error"`
	Fallback bool   `json:"fallback"`
}

// Check submits text for analysis and returns the normalized result.
func (c *Client) Check(ctx context.Context, text string) (*types.CorrectionResult, error) {
	var result types.CorrectionResult
	if err := c.post(ctx, "/api/grammar-check", checkRequest{Text: text}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type applyRequest struct {
	Text       string            `json:"text"`
	Errors     []types.TextError `json:"errors"`
	ErrorID    string            `json:"errorId"`
	Suggestion string            `json:"suggestion"`
}

// ApplyResult is the server's response to an apply-suggestion call.
type ApplyResult struct {
	Text   string            `json:"text"`
	Errors []types.TextError `json:"errors"`
}

// ApplySuggestion asks the server to splice one suggestion into text.
func (c *Client) ApplySuggestion(ctx context.Context, text string, errs []types.TextError, errorID, suggestion string) (*ApplyResult, error) {
	var result ApplyResult
	req := applyRequest{Text: text, Errors: errs, ErrorID: errorID, Suggestion: suggestion}
	if err := c.post(ctx, "/api/apply-suggestion", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return translateTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return translateStatus(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func translateTransport(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return errors.New("Request timed out. The text might be too long or the service is slow.")
	}
	var oerr *net.OpError
	if errors.As(err, &oerr) {
		return errors.New("Cannot connect to grammar service. Is the server running?")
	}
	return fmt.Errorf("grammar service request failed: %w", err)
}

func translateStatus(status int, raw []byte) error {
	var body errorBody
	// A non-JSON error body falls through to the generic message below.
	_ = json.Unmarshal(raw, &body)

	switch {
	case status == http.StatusTooManyRequests:
		return errors.New("Too many requests. Please wait a moment before trying again.")
	case status >= http.StatusInternalServerError && body.Fallback:
		return errors.New("Grammar service failed. Please try again.")
	case body.Error != "":
		return errors.New(body.Error)
	default:
		return fmt.Errorf("grammar service returned status %d", status)
	}
}
