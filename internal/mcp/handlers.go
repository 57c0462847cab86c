package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/khanglvm/action-hub/internal/hub"
	"github.com/khanglvm/action-hub/internal/learning"
	"github.com/khanglvm/action-hub/internal/plansync"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultSearchLimit = 10

func stringArg(request mcp.CallToolRequest, name string) string {
	args, _ := request.Params.Arguments.(map[string]any)
	v, _ := args[name].(string)
	return strings.TrimSpace(v)
}

func intArg(request mcp.CallToolRequest, name string, def int) int {
	args, _ := request.Params.Arguments.(map[string]any)
	switch v := args[name].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	}
	return def
}

// jsonResult returns v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) recommendHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.hub.Recommend()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Recommendation failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (s *Server) previewHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := s.hub.Preview()
	if p.GeneratedAt.IsZero() {
		return mcp.NewToolResultText("No plan yet. Call hub_sync to request one."), nil
	}
	return jsonResult(p)
}

func (s *Server) searchHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := stringArg(request, "query")
	if query == "" {
		return mcp.NewToolResultError("Query cannot be empty"), nil
	}

	results, err := s.hub.Search(query, intArg(request, "limit", defaultSearchLimit))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No actions match %q.", query)), nil
	}
	return jsonResult(results)
}

func (s *Server) launchHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(request, "id")
	if id == "" {
		return mcp.NewToolResultError("Action id cannot be empty"), nil
	}

	target, err := s.hub.Launch(ctx, id, stringArg(request, "query"))
	if err != nil {
		if errors.Is(err, hub.ErrUnknownAction) {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown action '%s'. Use hub_search to find ids.", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Launch failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Opened %s", target)), nil
}

func (s *Server) recordHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, app := stringArg(request, "id"), stringArg(request, "app")

	var event learning.Event
	switch {
	case id != "" && app != "":
		return mcp.NewToolResultError("Give either id or app, not both"), nil
	case app != "":
		event = learning.NewAppEvent(app)
	default:
		event = learning.NewActionEvent(id)
	}
	if !event.Valid() {
		return mcp.NewToolResultError("id or app is required"), nil
	}

	s.hub.Record(event)
	return mcp.NewToolResultText(fmt.Sprintf("Recorded %s", event.ActionID)), nil
}

func (s *Server) syncHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := s.hub.RequestSync()
	return mcp.NewToolResultText(fmt.Sprintf("Sync queued (attempt %s). Call hub_status for progress.", id)), nil
}

// statusReport is the hub_status result.
type statusReport struct {
	Sync          plansync.Status `json:"sync"`
	PlanGenerated *time.Time      `json:"planGeneratedAt,omitempty"`
	PlanWindows   int             `json:"planWindows"`
	Candidates    int             `json:"candidates"`
	Adopted       int             `json:"adopted"`
	Hidden        int             `json:"hidden"`
	APIKeySet     bool            `json:"apiKeySet"`
}

func (s *Server) statusHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lists := s.hub.HubLists()
	report := statusReport{
		Sync:       s.hub.SyncStatus(),
		Candidates: len(lists.Candidates),
		Adopted:    len(lists.Adopted),
		Hidden:     len(lists.Hidden),
		APIKeySet:  s.hub.Config().MaskedKey() != "",
	}
	if p := s.hub.Plan(); p != nil {
		generated := p.GeneratedAt
		report.PlanGenerated = &generated
		report.PlanWindows = len(p.Windows)
	}
	return jsonResult(report)
}

func (s *Server) catalogHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	op := stringArg(request, "operation")
	if op == "" || op == "list" {
		return jsonResult(s.hub.HubLists())
	}

	var update func(string) error
	switch op {
	case "accept":
		update = s.hub.Accept
	case "dismiss":
		update = s.hub.Dismiss
	case "restore":
		update = s.hub.Restore
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Unknown operation '%s'", op)), nil
	}

	id := stringArg(request, "id")
	if id == "" {
		return mcp.NewToolResultError(fmt.Sprintf("id is required for %s", op)), nil
	}
	if err := update(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s '%s': %v", op, id, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Action '%s': %s done.", id, op)), nil
}

func (s *Server) appsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apps, err := s.hub.Apps()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read apps: %v", err)), nil
	}
	return jsonResult(apps)
}
