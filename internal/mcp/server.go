/*
Package mcp implements the MCP server that exposes the hub as tools.

The server uses stdio transport and exposes these tools:
  - hub_recommend: actions to show right now
  - hub_preview: the current plan with readable labels
  - hub_search: search quick actions by label
  - hub_launch: open an action and record its use
  - hub_record: record an action or app invocation
  - hub_sync: queue a plan sync
  - hub_status: sync, plan and catalog status
  - hub_catalog: list or update AI suggested actions
  - hub_apps: recent and favorite apps
*/
package mcp

import (
	"context"
	"os"

	"github.com/khanglvm/action-hub/internal/hub"
	"github.com/khanglvm/action-hub/internal/version"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the action-hub MCP server.
type Server struct {
	hub   *hub.Hub
	mcp   *server.MCPServer
	tools []string
}

// NewServer creates a server over h and registers every tool. The server
// does not own h.
func NewServer(h *hub.Hub) *Server {
	s := &Server{
		hub: h,
		mcp: server.NewMCPServer(version.AppName, version.ServerVersion()),
	}

	s.register(mcp.NewTool("hub_recommend",
		mcp.WithDescription(`Get the quick actions to show to the user right now.

WHEN TO USE: When the user asks what to do next or opens their launcher.

Returns: the ranked actions, the time window they were picked for and
where they came from ("plan", "usage" or "default").`),
	), s.recommendHandler)

	s.register(mcp.NewTool("hub_preview",
		mcp.WithDescription(`Show the current plan: per time window the primary and fallback actions,
pinned and suppressed actions, and the reasons Gemini gave.`),
	), s.previewHandler)

	s.register(mcp.NewTool("hub_search",
		mcp.WithDescription(`Search quick actions by label.

WHEN TO USE: When you need the id of an action before calling hub_launch.`),
		mcp.WithString("query", mcp.Required(), mcp.Description("Words from the action label")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
	), s.searchHandler)

	s.register(mcp.NewTool("hub_launch",
		mcp.WithDescription(`Open an action on the user's machine and record the use.

Search and map actions append the query to their target.`),
		mcp.WithString("id", mcp.Required(), mcp.Description("Action id from hub_recommend or hub_search")),
		mcp.WithString("query", mcp.Description("Search or destination text")),
	), s.launchHandler)

	s.register(mcp.NewTool("hub_record",
		mcp.WithDescription(`Record that the user used an action or an app outside of hub_launch.`),
		mcp.WithString("id", mcp.Description("Action id")),
		mcp.WithString("app", mcp.Description("App package name, instead of id")),
	), s.recordHandler)

	s.register(mcp.NewTool("hub_sync",
		mcp.WithDescription(`Queue a plan sync with Gemini. Returns immediately with an attempt id;
poll hub_status for the result.`),
	), s.syncHandler)

	s.register(mcp.NewTool("hub_status",
		mcp.WithDescription(`Get the sync state and last error, the plan age and catalog counts.`),
	), s.statusHandler)

	s.register(mcp.NewTool("hub_catalog",
		mcp.WithDescription(`List or update actions suggested by Gemini.

Operations:
  list    candidates, adopted and hidden actions (default)
  accept  adopt an action, raising its priority
  dismiss hide an action from recommendations
  restore undo a dismissal`),
		mcp.WithString("operation", mcp.Enum("list", "accept", "dismiss", "restore"), mcp.Description("What to do")),
		mcp.WithString("id", mcp.Description("Action id, required for accept, dismiss and restore")),
	), s.catalogHandler)

	s.register(mcp.NewTool("hub_apps",
		mcp.WithDescription(`Get the user's recently used and favorite apps.`),
	), s.appsHandler)

	return s
}

func (s *Server) register(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.tools = append(s.tools, tool.Name)
	s.mcp.AddTool(tool, handler)
}

// ToolNames returns the registered tool names in registration order.
func (s *Server) ToolNames() []string {
	return append([]string(nil), s.tools...)
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Run serves stdio until stdin closes or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}
