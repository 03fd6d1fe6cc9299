// Package sokosumi implements the HTTP client for the Sokosumi
// job-management API.
//
// Clients are scoped to a single tool invocation: each handler opens a
// client with the credential resolved for that call, issues exactly one
// request, and closes the client before returning. Nothing is reused or
// cached across calls, which is what keeps per-call credentials isolated
// in multi-tenant deployments.
package sokosumi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// apiKeyHeader carries the credential on every upstream request.
	apiKeyHeader = "x-api-key"

	// apiPrefix is prepended to every operation path.
	apiPrefix = "/api/v1"

	// requestTimeout bounds each upstream request. There is no retry
	// and no cancellation beyond this timeout.
	requestTimeout = 30 * time.Second
)

// Client is a short-lived Sokosumi API client bound to one base URL and
// one credential. Create with New, release with Close.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the given environment base URL and API key.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Close releases the client's connections. Must be called on every exit
// path of the invocation that created the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// GetUserInfo fetches the current user's account information.
func (c *Client) GetUserInfo(ctx context.Context) (any, error) {
	return c.do(ctx, http.MethodGet, "/users/me", nil, nil)
}

// ListAgents lists all agents available to the caller.
func (c *Client) ListAgents(ctx context.Context) (any, error) {
	return c.do(ctx, http.MethodGet, "/agents", nil, nil)
}

// GetAgentJobs lists the jobs of a single agent.
func (c *Client) GetAgentJobs(ctx context.Context, agentID string) (any, error) {
	if agentID == "" {
		return nil, &InvalidRequestError{Field: "agent_id", Reason: "must not be empty"}
	}
	return c.do(ctx, http.MethodGet, "/agents/"+url.PathEscape(agentID)+"/jobs", nil, nil)
}

// ListJobsOptions holds the optional filters for ListJobs. Empty fields
// are not sent as query parameters.
type ListJobsOptions struct {
	Status  string
	AgentID string
}

// ListJobs lists jobs, optionally filtered by status and agent.
func (c *Client) ListJobs(ctx context.Context, opts ListJobsOptions) (any, error) {
	query := url.Values{}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.AgentID != "" {
		query.Set("agentId", opts.AgentID)
	}
	return c.do(ctx, http.MethodGet, "/jobs", query, nil)
}

// GetAgentInputSchema fetches the input schema of an agent. The schema
// is agent-defined and returned verbatim.
func (c *Client) GetAgentInputSchema(ctx context.Context, agentID string) (any, error) {
	if agentID == "" {
		return nil, &InvalidRequestError{Field: "agent_id", Reason: "must not be empty"}
	}
	return c.do(ctx, http.MethodGet, "/agents/"+url.PathEscape(agentID)+"/input-schema", nil, nil)
}

// createJobRequest is the POST body for CreateAgentJob. Field names are
// the upstream API's, not ours.
type createJobRequest struct {
	InputData          map[string]any `json:"inputData"`
	MaxAcceptedCredits float64        `json:"maxAcceptedCredits"`
}

// CreateAgentJob submits a new job to an agent. inputData is passed
// through untouched; its schema belongs to the agent.
func (c *Client) CreateAgentJob(ctx context.Context, agentID string, inputData map[string]any, maxAcceptedCredits float64) (any, error) {
	if agentID == "" {
		return nil, &InvalidRequestError{Field: "agent_id", Reason: "must not be empty"}
	}
	if inputData == nil {
		return nil, &InvalidRequestError{Field: "input_data", Reason: "is required"}
	}
	if maxAcceptedCredits < 0 {
		return nil, &InvalidRequestError{Field: "max_accepted_credits", Reason: "must not be negative"}
	}

	body := createJobRequest{
		InputData:          inputData,
		MaxAcceptedCredits: maxAcceptedCredits,
	}
	return c.do(ctx, http.MethodPost, "/agents/"+url.PathEscape(agentID)+"/jobs", nil, &body)
}

// do issues a single request and maps the response to a decoded JSON
// value or an UpstreamError. The response body is returned verbatim;
// no field renaming or filtering happens here.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	target := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       decodeErrorBody(raw),
		}
	}

	if len(raw) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}
	return result, nil
}

// decodeErrorBody decodes an error response as JSON when possible,
// falling back to the raw text so diagnostics are never lost.
func decodeErrorBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return string(raw)
	}
	return body
}

// isTimeout reports whether a transport error was caused by the request
// deadline, so UpstreamError can distinguish UpstreamTimeout from other
// transport failures.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	return os.IsTimeout(err)
}
