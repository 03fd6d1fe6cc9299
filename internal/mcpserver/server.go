// Package mcpserver wires the Sokosumi tool sets to an MCP transport.
//
// Multi-tenant deployments run the streamable HTTP transport in
// stateless mode; the Authorization header of each inbound request is
// captured onto the request context so the per-call credential resolver
// can read it. Single-tenant deployments run over stdio with a fixed
// environment and a process-wide credential store.
package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sokosumi-mcp/internal/auth"
	"sokosumi-mcp/internal/tools"
	"sokosumi-mcp/pkg/logging"

	"github.com/mark3labs/mcp-go/server"
)

const serverName = "Sokosumi API"

const multiTenantInstructions = "Access to Sokosumi API. Tools are prefixed with 'preprod_' or 'mainnet_'. " +
	"API key required via Authorization header (format: 'Bearer YOUR_API_KEY')."

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

// HTTPOptions configures the multi-tenant HTTP server.
type HTTPOptions struct {
	Host    string
	Port    int
	Version string
}

// newMCPServer builds the MCP server and registers the given tools.
func newMCPServer(version, instructions string, serverTools []server.ServerTool) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.AddTools(serverTools...)
	return s
}

// ServeHTTP runs the multi-tenant server on the streamable HTTP
// transport until ctx is cancelled. Every tool call resolves its own
// credential from the inbound request; nothing is shared across calls.
func ServeHTTP(ctx context.Context, opts HTTPOptions) error {
	mcpServer := newMCPServer(opts.Version, multiTenantInstructions, tools.NewMultiTenantTools().GetTools())

	httpServer := server.NewStreamableHTTPServer(
		mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithHTTPContextFunc(auth.HTTPContextFunc),
	)

	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	logging.Info("Server", "Starting Sokosumi MCP server on %s", addr)
	logging.Info("Server", "Mode: stateless (multi-tenant)")
	logging.Info("Server", "Environments: preprod and mainnet")
	logging.Info("Server", "Authentication: Bearer token via Authorization header")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down HTTP server")
			return err
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	}
}

// ServeStdio runs the single-tenant server over stdio for the given
// environment. An unknown environment refuses to start. The store holds
// the process-wide API key and may be reconfigured at runtime through
// the configure tool.
func ServeStdio(environmentID, version string, store *auth.Store) error {
	singleTenant, err := tools.NewSingleTenantTools(store, environmentID)
	if err != nil {
		return err
	}

	instructions := fmt.Sprintf(
		"Access to Sokosumi API (%s environment). Set the API key via the "+
			"SOKOSUMI_API_KEY environment variable or the configure tool.",
		environmentID)
	mcpServer := newMCPServer(version, instructions, singleTenant.GetTools())

	logging.Info("Server", "Starting Sokosumi MCP server on stdio")
	logging.Info("Server", "Mode: single-tenant, environment: %s", environmentID)
	if !store.Configured() {
		logging.Warn("Server", "No API key configured; calls will fail until the configure tool is used")
	}

	return server.ServeStdio(mcpServer)
}
