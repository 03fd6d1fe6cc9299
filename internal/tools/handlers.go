package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sokosumi-mcp/internal/environment"
	"sokosumi-mcp/internal/sokosumi"
	"sokosumi-mcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func handleGetUserInfo(baseURL string, resolve credentialFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		apiKey, err := resolve(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		client := sokosumi.New(baseURL, apiKey)
		defer client.Close()

		return toolResult(client.GetUserInfo(ctx))
	}
}

func handleListAgents(baseURL string, resolve credentialFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		apiKey, err := resolve(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		client := sokosumi.New(baseURL, apiKey)
		defer client.Close()

		return toolResult(client.ListAgents(ctx))
	}
}

func handleGetAgentJobs(baseURL string, resolve credentialFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		agentID, ok := stringArg(req, "agent_id")
		if !ok {
			return mcp.NewToolResultError("agent_id is required and must be a non-empty string"), nil
		}

		apiKey, err := resolve(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		client := sokosumi.New(baseURL, apiKey)
		defer client.Close()

		return toolResult(client.GetAgentJobs(ctx, agentID))
	}
}

func handleListJobs(baseURL string, resolve credentialFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status, ok := optionalStringArg(req, "status")
		if !ok {
			return mcp.NewToolResultError("status must be a string"), nil
		}
		agentID, ok := optionalStringArg(req, "agent_id")
		if !ok {
			return mcp.NewToolResultError("agent_id must be a string"), nil
		}

		apiKey, err := resolve(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		client := sokosumi.New(baseURL, apiKey)
		defer client.Close()

		return toolResult(client.ListJobs(ctx, sokosumi.ListJobsOptions{
			Status:  status,
			AgentID: agentID,
		}))
	}
}

func handleGetAgentInputSchema(baseURL string, resolve credentialFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		agentID, ok := stringArg(req, "agent_id")
		if !ok {
			return mcp.NewToolResultError("agent_id is required and must be a non-empty string"), nil
		}

		apiKey, err := resolve(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		client := sokosumi.New(baseURL, apiKey)
		defer client.Close()

		return toolResult(client.GetAgentInputSchema(ctx, agentID))
	}
}

func handleCreateAgentJob(baseURL string, resolve credentialFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		agentID, ok := stringArg(req, "agent_id")
		if !ok {
			return mcp.NewToolResultError("agent_id is required and must be a non-empty string"), nil
		}

		args, _ := req.Params.Arguments.(map[string]interface{})
		inputData, ok := args["input_data"].(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("input_data is required and must be an object"), nil
		}
		credits, ok := numberArg(args["max_accepted_credits"])
		if !ok {
			return mcp.NewToolResultError("max_accepted_credits is required and must be a number"), nil
		}
		if credits < 0 {
			return mcp.NewToolResultError("max_accepted_credits must not be negative"), nil
		}

		apiKey, err := resolve(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		client := sokosumi.New(baseURL, apiKey)
		defer client.Close()

		return toolResult(client.CreateAgentJob(ctx, agentID, inputData, credits))
	}
}

// handleServerInfo reports the environment registry and the expected
// authentication scheme. It touches neither the network nor any
// credential.
func handleServerInfo() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolResult(map[string]any{
			"environments":   environment.BaseURLs(),
			"authentication": "API key required via Authorization header (Bearer token)",
			"mode":           "stateless",
		}, nil)
	}
}

// handleConfigure replaces the process-wide API key.
func (st *SingleTenantTools) handleConfigure(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiKey, ok := stringArg(req, "api_key")
	if !ok {
		return mcp.NewToolResultError("api_key is required and must be a non-empty string"), nil
	}
	st.store.Set(apiKey)
	logging.Info("Tools", "API key reconfigured")
	return toolResult(map[string]any{"configured": true}, nil)
}

// handleGetConfiguration reports the fixed environment and whether an
// API key is currently set, without exposing the key.
func (st *SingleTenantTools) handleGetConfiguration(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(map[string]any{
		"environment":      st.environment,
		"baseUrl":          st.baseURL,
		"apiKeyConfigured": st.store.Configured(),
		"authentication":   "API key via SOKOSUMI_API_KEY, config file, or the configure tool",
	}, nil)
}

// stringArg extracts a required non-empty string argument.
func stringArg(req mcp.CallToolRequest, name string) (string, bool) {
	args, _ := req.Params.Arguments.(map[string]interface{})
	value, ok := args[name].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// optionalStringArg extracts an optional string argument. An absent
// argument yields the empty string; a present argument of any other
// type is rejected rather than silently dropped.
func optionalStringArg(req mcp.CallToolRequest, name string) (string, bool) {
	args, _ := req.Params.Arguments.(map[string]interface{})
	value, present := args[name]
	if !present {
		return "", true
	}
	str, ok := value.(string)
	return str, ok
}

// numberArg coerces a JSON number argument. Decoded JSON always hands
// us float64, but direct callers in tests may pass int.
func numberArg(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// toolResult maps an operation outcome to a tool result: the decoded
// JSON re-serialized verbatim on success, a typed error message on
// failure. Handler errors are returned as error results, not Go errors,
// so the dispatch layer relays them to the caller unchanged.
func toolResult(result any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(formatOperationError(err)), nil
	}
	payload, merr := json.MarshalIndent(result, "", "  ")
	if merr != nil {
		return nil, fmt.Errorf("encoding tool result: %w", merr)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// formatOperationError renders the error taxonomy for the caller.
// Upstream errors keep their status code and decoded body.
func formatOperationError(err error) string {
	var upErr *sokosumi.UpstreamError
	if errors.As(err, &upErr) && upErr.Body != nil {
		if body, merr := json.Marshal(upErr.Body); merr == nil {
			return fmt.Sprintf("%s: %s", upErr.Error(), body)
		}
	}
	return err.Error()
}
