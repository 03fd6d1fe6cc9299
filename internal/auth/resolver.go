// Package auth resolves the Sokosumi API credential for a tool call.
//
// Two strategies exist behind the same contract. The per-call resolver
// (multi-tenant deployments) extracts a bearer token from the inbound
// call and never caches it, so concurrent callers can never observe each
// other's credential. The Store (single-tenant deployments) holds one
// process-wide credential with last-write-wins semantics.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrMissingCredential is returned when no usable API key could be
// determined for a call.
var ErrMissingCredential = errors.New(
	`missing API key: expected Authorization value of the form "Bearer <api key>"`)

// bearerPrefix is the only accepted credential form. The prefix is
// case-sensitive with a single space, matching the upstream contract.
const bearerPrefix = "Bearer "

// ParseBearer strips the bearer prefix from an Authorization value.
// It returns false for any other form, including an empty token.
func ParseBearer(value string) (string, bool) {
	if !strings.HasPrefix(value, bearerPrefix) {
		return "", false
	}
	token := value[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

type contextKey string

// authHeaderKey stores the inbound Authorization header on the request
// context. Populated by HTTPContextFunc on the HTTP transport.
const authHeaderKey contextKey = "sokosumi.authorization"

// HTTPContextFunc copies the Authorization header of an inbound HTTP
// request onto the context the MCP server hands to tool handlers. Wire
// it into the streamable HTTP transport via server.WithHTTPContextFunc.
func HTTPContextFunc(ctx context.Context, r *http.Request) context.Context {
	if value := r.Header.Get("Authorization"); value != "" {
		ctx = context.WithValue(ctx, authHeaderKey, value)
	}
	return ctx
}

// WithAuthorization returns a context carrying the given Authorization
// value, as HTTPContextFunc would produce it. Intended for tests and for
// transports that surface headers themselves.
func WithAuthorization(ctx context.Context, value string) context.Context {
	return context.WithValue(ctx, authHeaderKey, value)
}

// Extractor is one named strategy for locating the raw Authorization
// value of a call. Absence is a normal outcome, not an error: ok is
// false when the carrier has no value at all.
type Extractor struct {
	Name string
	Fn   func(ctx context.Context, req mcp.CallToolRequest) (value string, ok bool)
}

// headerExtractor reads the Authorization header captured from the
// inbound HTTP request.
var headerExtractor = Extractor{
	Name: "http-header",
	Fn: func(ctx context.Context, _ mcp.CallToolRequest) (string, bool) {
		value, ok := ctx.Value(authHeaderKey).(string)
		return value, ok && value != ""
	},
}

// metaExtractor reads an "authorization" field from the MCP request
// metadata. Some client bindings cannot set HTTP headers and pass the
// credential through _meta instead.
var metaExtractor = Extractor{
	Name: "request-meta",
	Fn: func(_ context.Context, req mcp.CallToolRequest) (string, bool) {
		meta := req.Params.Meta
		if meta == nil || meta.AdditionalFields == nil {
			return "", false
		}
		value, ok := meta.AdditionalFields["authorization"].(string)
		return value, ok && value != ""
	},
}

// PerCallResolver resolves a credential from the inbound call itself.
// It tries each extractor in order and takes the first carrier that
// yields a well-formed bearer value. No result is ever cached.
type PerCallResolver struct {
	extractors []Extractor
}

// NewPerCallResolver returns a resolver with the default carrier order:
// the HTTP Authorization header first, then request metadata.
func NewPerCallResolver() *PerCallResolver {
	return &PerCallResolver{
		extractors: []Extractor{headerExtractor, metaExtractor},
	}
}

// Resolve returns the API key for this call, or ErrMissingCredential
// when no carrier holds a well-formed bearer value.
func (r *PerCallResolver) Resolve(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	for _, extractor := range r.extractors {
		value, ok := extractor.Fn(ctx, req)
		if !ok {
			continue
		}
		if token, ok := ParseBearer(value); ok {
			return token, nil
		}
	}
	return "", ErrMissingCredential
}
