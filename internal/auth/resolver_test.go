package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBearer(t *testing.T) {
	cases := []struct {
		value string
		token string
		ok    bool
	}{
		{"Bearer abc123", "abc123", true},
		{"Bearer a", "a", true},
		{"abc123", "", false},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"bearer abc123", "", false},
		{"BEARER abc123", "", false},
		{"Bearer  abc123", " abc123", true}, // single prefix space, rest is the token
	}

	for _, tc := range cases {
		token, ok := ParseBearer(tc.value)
		assert.Equal(t, tc.ok, ok, "value %q", tc.value)
		assert.Equal(t, tc.token, token, "value %q", tc.value)
	}
}

func TestResolveFromHTTPHeader(t *testing.T) {
	resolver := NewPerCallResolver()
	ctx := WithAuthorization(context.Background(), "Bearer abc123")

	token, err := resolver.Resolve(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func TestResolveFromRequestMeta(t *testing.T) {
	resolver := NewPerCallResolver()

	req := mcp.CallToolRequest{}
	req.Params.Meta = &mcp.Meta{
		AdditionalFields: map[string]any{"authorization": "Bearer from-meta"},
	}

	token, err := resolver.Resolve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "from-meta", token)
}

func TestHeaderCarrierTakesPrecedence(t *testing.T) {
	resolver := NewPerCallResolver()
	ctx := WithAuthorization(context.Background(), "Bearer from-header")

	req := mcp.CallToolRequest{}
	req.Params.Meta = &mcp.Meta{
		AdditionalFields: map[string]any{"authorization": "Bearer from-meta"},
	}

	token, err := resolver.Resolve(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "from-header", token)
}

func TestResolveMissingCredential(t *testing.T) {
	resolver := NewPerCallResolver()

	// Nothing present at all.
	_, err := resolver.Resolve(context.Background(), mcp.CallToolRequest{})
	assert.ErrorIs(t, err, ErrMissingCredential)

	// Header present but not bearer-formed.
	ctx := WithAuthorization(context.Background(), "abc123")
	_, err = resolver.Resolve(ctx, mcp.CallToolRequest{})
	assert.ErrorIs(t, err, ErrMissingCredential)

	// Meta present but wrong type.
	req := mcp.CallToolRequest{}
	req.Params.Meta = &mcp.Meta{
		AdditionalFields: map[string]any{"authorization": 42},
	}
	_, err = resolver.Resolve(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestMalformedHeaderDoesNotFallThroughToMeta(t *testing.T) {
	// A present-but-malformed header still lets the next carrier be
	// consulted; the resolver takes the first well-formed value.
	resolver := NewPerCallResolver()
	ctx := WithAuthorization(context.Background(), "not-a-bearer")

	req := mcp.CallToolRequest{}
	req.Params.Meta = &mcp.Meta{
		AdditionalFields: map[string]any{"authorization": "Bearer fallback"},
	}

	token, err := resolver.Resolve(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "fallback", token)
}

func TestHTTPContextFunc(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	r.Header.Set("Authorization", "Bearer via-http")

	ctx := HTTPContextFunc(context.Background(), r)
	resolver := NewPerCallResolver()

	token, err := resolver.Resolve(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Equal(t, "via-http", token)

	// No header: context unchanged, resolution fails.
	bare := HTTPContextFunc(context.Background(), httptest.NewRequest(http.MethodPost, "/mcp", nil))
	_, err = resolver.Resolve(bare, mcp.CallToolRequest{})
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestConcurrentResolutionIsIsolated(t *testing.T) {
	// Concurrent calls with distinct tokens must each resolve their own
	// credential, never a swapped one.
	resolver := NewPerCallResolver()

	const iterations = 200
	var wg sync.WaitGroup
	for i := 0; i < iterations; i++ {
		for _, token := range []string{"T1", "T2"} {
			wg.Add(1)
			go func(token string) {
				defer wg.Done()
				ctx := WithAuthorization(context.Background(), "Bearer "+token)
				got, err := resolver.Resolve(ctx, mcp.CallToolRequest{})
				assert.NoError(t, err)
				assert.Equal(t, token, got)
			}(token)
		}
	}
	wg.Wait()
}
