// Package tools defines the MCP tools exposed for the Sokosumi API and
// their handlers.
//
// Each of the six operations has exactly one handler body, parametrized
// by the environment base URL and a credential resolution function. The
// multi-tenant tool set composes (environment x operation) into prefixed
// tool names; the single-tenant set registers the same operations once,
// unprefixed, against a fixed environment.
package tools

import (
	"context"
	"fmt"

	"sokosumi-mcp/internal/auth"
	"sokosumi-mcp/internal/environment"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// credentialFunc resolves the API key for one tool call. It is the
// single contract both resolution strategies implement.
type credentialFunc func(ctx context.Context, req mcp.CallToolRequest) (string, error)

// operationTools returns the six Sokosumi operations as registered
// tools. Tool names carry the given prefix (e.g. "preprod_"),
// descriptions the given label (e.g. "[Preprod] "). All requests target
// baseURL with a credential from resolve.
func operationTools(prefix, label, baseURL string, resolve credentialFunc) []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool(prefix+"get_user_info",
				mcp.WithDescription(label+"Get current user information"),
			),
			Handler: handleGetUserInfo(baseURL, resolve),
		},
		{
			Tool: mcp.NewTool(prefix+"list_agents",
				mcp.WithDescription(label+"List all available agents"),
			),
			Handler: handleListAgents(baseURL, resolve),
		},
		{
			Tool: mcp.NewTool(prefix+"get_agent_jobs",
				mcp.WithDescription(label+"Get jobs for a specific agent"),
				mcp.WithString("agent_id",
					mcp.Required(),
					mcp.Description("The agent ID"),
				),
			),
			Handler: handleGetAgentJobs(baseURL, resolve),
		},
		{
			Tool: mcp.NewTool(prefix+"list_jobs",
				mcp.WithDescription(label+"List jobs with optional filters"),
				mcp.WithString("status",
					mcp.Description("Filter by job status (e.g. 'payment_pending')"),
				),
				mcp.WithString("agent_id",
					mcp.Description("Filter by agent ID"),
				),
			),
			Handler: handleListJobs(baseURL, resolve),
		},
		{
			Tool: mcp.NewTool(prefix+"get_agent_input_schema",
				mcp.WithDescription(label+"Get input schema for a specific agent"),
				mcp.WithString("agent_id",
					mcp.Required(),
					mcp.Description("The agent ID"),
				),
			),
			Handler: handleGetAgentInputSchema(baseURL, resolve),
		},
		{
			Tool: mcp.NewTool(prefix+"create_agent_job",
				mcp.WithDescription(label+"Create a new job for an agent"),
				mcp.WithString("agent_id",
					mcp.Required(),
					mcp.Description("The agent ID"),
				),
				mcp.WithObject("input_data",
					mcp.Required(),
					mcp.Description("Input data for the job (agent-specific)"),
				),
				mcp.WithNumber("max_accepted_credits",
					mcp.Required(),
					mcp.Description("Maximum credits to spend"),
				),
			),
			Handler: handleCreateAgentJob(baseURL, resolve),
		},
	}
}

// MultiTenantTools provides the environment-prefixed tool set for the
// stateless HTTP deployment. Credentials come from each inbound call.
type MultiTenantTools struct {
	resolver *auth.PerCallResolver
}

// NewMultiTenantTools creates the multi-tenant tool set.
func NewMultiTenantTools() *MultiTenantTools {
	return &MultiTenantTools{
		resolver: auth.NewPerCallResolver(),
	}
}

// GetTools returns one prefixed tool per environment and operation,
// plus the informational get_server_info tool.
func (mt *MultiTenantTools) GetTools() []server.ServerTool {
	resolve := mt.resolver.Resolve

	var tools []server.ServerTool
	for _, env := range environment.All() {
		baseURL, err := environment.Resolve(string(env))
		if err != nil {
			// The registry only ever hands out its own members.
			panic(fmt.Sprintf("environment registry inconsistent: %v", err))
		}
		prefix := string(env) + "_"
		label := "[" + envLabel(env) + "] "
		tools = append(tools, operationTools(prefix, label, baseURL, resolve)...)
	}

	tools = append(tools, server.ServerTool{
		Tool: mcp.NewTool("get_server_info",
			mcp.WithDescription("Get information about the server configuration"),
		),
		Handler: handleServerInfo(),
	})

	return tools
}

// SingleTenantTools provides the unprefixed tool set for a fixed
// environment, with the API key held in a process-wide store.
type SingleTenantTools struct {
	store       *auth.Store
	environment string
	baseURL     string
}

// NewSingleTenantTools creates the single-tenant tool set for the given
// environment. An unknown environment is a startup error.
func NewSingleTenantTools(store *auth.Store, environmentID string) (*SingleTenantTools, error) {
	baseURL, err := environment.Resolve(environmentID)
	if err != nil {
		return nil, err
	}
	return &SingleTenantTools{
		store:       store,
		environment: environmentID,
		baseURL:     baseURL,
	}, nil
}

// GetTools returns the six operations plus the configure and
// get_configuration tools.
func (st *SingleTenantTools) GetTools() []server.ServerTool {
	resolve := func(_ context.Context, _ mcp.CallToolRequest) (string, error) {
		return st.store.Get()
	}

	tools := operationTools("", "", st.baseURL, resolve)

	tools = append(tools,
		server.ServerTool{
			Tool: mcp.NewTool("configure",
				mcp.WithDescription("Set the Sokosumi API key used by all subsequent calls"),
				mcp.WithString("api_key",
					mcp.Required(),
					mcp.Description("The Sokosumi API key"),
				),
			),
			Handler: st.handleConfigure,
		},
		server.ServerTool{
			Tool: mcp.NewTool("get_configuration",
				mcp.WithDescription("Get the server configuration and whether an API key is set"),
			),
			Handler: st.handleGetConfiguration,
		},
	)

	return tools
}

// envLabel renders an environment identifier for tool descriptions,
// e.g. "preprod" -> "Preprod".
func envLabel(env environment.Environment) string {
	id := string(env)
	if id == "" {
		return id
	}
	return string(id[0]-'a'+'A') + id[1:]
}
