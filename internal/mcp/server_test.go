package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/khanglvm/action-hub/internal/config"
	"github.com/khanglvm/action-hub/internal/hub"
	"github.com/khanglvm/action-hub/internal/learning"
	"github.com/khanglvm/action-hub/internal/plan"
	"github.com/khanglvm/action-hub/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

type stubClient struct {
	plan *plan.Plan
}

func (c *stubClient) FetchPlan(ctx context.Context, payloadJSON []byte, credential string) (*plan.Plan, error) {
	cp := *c.plan
	return &cp, nil
}

type stubOpener struct {
	mu      sync.Mutex
	targets []string
}

func (o *stubOpener) Open(ctx context.Context, target string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.targets = append(o.targets, target)
	return nil
}

func newTestServer(t *testing.T) (*Server, *stubOpener) {
	t.Helper()
	cfg := config.NewConfig()
	cfg.GeminiAPIKey = "test-key"
	cfg.Settings.DataDir = t.TempDir()

	opener := &stubOpener{}
	client := &stubClient{plan: &plan.Plan{
		Windows: []plan.Window{
			{ID: "weekday_morning", PrimaryActionIDs: []string{"ai_weather"}},
		},
		NewActions: []plan.SuggestedAction{
			{ID: "ai_weather", Label: "Weather radar", ActionType: "URL", Data: "https://weather.example.com"},
		},
	}}

	h, err := hub.Open(cfg, hub.WithClient(client), hub.WithOpener(opener))
	if err != nil {
		t.Fatalf("hub.Open failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return NewServer(h), opener
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text
}

// syncOnce seeds usage and runs a foreground sync so the catalog holds
// ai_weather.
func syncOnce(t *testing.T, s *Server) {
	t.Helper()
	h := s.hub
	h.Record(learning.NewActionEvent("gmail_inbox"))

	deadline := time.Now().Add(2 * time.Second)
	for {
		export, err := h.Export(10)
		if err != nil {
			t.Fatal(err)
		}
		if len(export.Events) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("recorded event never reached the log")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if st := h.Sync(context.Background(), nil); st.Key() != "succeeded" {
		t.Fatalf("sync ended in %v", st)
	}
}

func TestToolNames(t *testing.T) {
	s, _ := newTestServer(t)

	want := []string{"hub_recommend", "hub_preview", "hub_search", "hub_launch", "hub_record",
		"hub_sync", "hub_status", "hub_catalog", "hub_apps"}
	got := s.ToolNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("tools = %v, want %v", got, want)
	}
	if s.MCPServer() == nil {
		t.Error("MCPServer() returned nil")
	}
}

func TestRecommendHandler(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.recommendHandler(context.Background(), call(nil))
	if err != nil || res.IsError {
		t.Fatalf("recommend failed: %v %v", err, res)
	}

	var out struct {
		Actions []struct {
			ID string `json:"id"`
		} `json:"actions"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if out.Source != "default" || len(out.Actions) == 0 {
		t.Errorf("expected default actions, got %+v", out)
	}
}

func TestSearchHandler(t *testing.T) {
	s, _ := newTestServer(t)

	res, _ := s.searchHandler(context.Background(), call(map[string]any{}))
	if !res.IsError {
		t.Error("empty query should be an error result")
	}

	res, _ = s.searchHandler(context.Background(), call(map[string]any{"query": "mail", "limit": float64(3)}))
	if res.IsError {
		t.Fatalf("search failed: %s", resultText(t, res))
	}
	var results []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &results); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(results) == 0 || len(results) > 3 {
		t.Errorf("unexpected results %+v", results)
	}

	res, _ = s.searchHandler(context.Background(), call(map[string]any{"query": "zzzz"}))
	if res.IsError || !strings.Contains(resultText(t, res), "No actions") {
		t.Errorf("expected no-match message, got %s", resultText(t, res))
	}
}

func TestLaunchHandler(t *testing.T) {
	s, opener := newTestServer(t)

	res, _ := s.launchHandler(context.Background(), call(map[string]any{"id": "maps_open", "query": "coffee"}))
	if res.IsError {
		t.Fatalf("launch failed: %s", resultText(t, res))
	}
	if len(opener.targets) != 1 || !strings.HasSuffix(opener.targets[0], "query=coffee") {
		t.Errorf("unexpected targets %v", opener.targets)
	}

	res, _ = s.launchHandler(context.Background(), call(map[string]any{"id": "nope"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "hub_search") {
		t.Errorf("unknown id should point to hub_search, got %s", resultText(t, res))
	}
}

func TestRecordHandler(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
		want    string
	}{
		{"action", map[string]any{"id": "gmail_inbox"}, false, "gmail_inbox"},
		{"app", map[string]any{"app": "org.example.notes"}, false, storage.AppActionID("org.example.notes")},
		{"both", map[string]any{"id": "x", "app": "y"}, true, ""},
		{"neither", map[string]any{}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := s.recordHandler(context.Background(), call(tt.args))
			if res.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, text %s", res.IsError, resultText(t, res))
			}
			if !tt.wantErr && !strings.Contains(resultText(t, res), tt.want) {
				t.Errorf("got %s, want mention of %s", resultText(t, res), tt.want)
			}
		})
	}
}

func TestSyncAndStatusHandlers(t *testing.T) {
	s, _ := newTestServer(t)

	res, _ := s.syncHandler(context.Background(), call(nil))
	if res.IsError || !strings.Contains(resultText(t, res), "queued") {
		t.Fatalf("unexpected sync result %s", resultText(t, res))
	}

	res, _ = s.statusHandler(context.Background(), call(nil))
	var report statusReport
	if err := json.Unmarshal([]byte(resultText(t, res)), &report); err != nil {
		t.Fatalf("status is not JSON: %v", err)
	}
	if !report.Sync.Pending || !report.APIKeySet || report.PlanGenerated != nil {
		t.Errorf("unexpected status %+v", report)
	}
}

func TestCatalogHandler(t *testing.T) {
	s, _ := newTestServer(t)
	syncOnce(t, s)

	res, _ := s.catalogHandler(context.Background(), call(map[string]any{"operation": "dismiss", "id": "ai_weather"}))
	if res.IsError {
		t.Fatalf("dismiss failed: %s", resultText(t, res))
	}

	res, _ = s.catalogHandler(context.Background(), call(nil))
	var lists struct {
		Hidden []struct {
			ID string `json:"id"`
		} `json:"hidden"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &lists); err != nil {
		t.Fatalf("list is not JSON: %v", err)
	}
	if len(lists.Hidden) != 1 || lists.Hidden[0].ID != "ai_weather" {
		t.Errorf("expected ai_weather hidden, got %+v", lists)
	}

	for _, args := range []map[string]any{
		{"operation": "accept"},
		{"operation": "accept", "id": "gmail_inbox"},
		{"operation": "explode", "id": "ai_weather"},
	} {
		res, _ := s.catalogHandler(context.Background(), call(args))
		if !res.IsError {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestPreviewHandler(t *testing.T) {
	s, _ := newTestServer(t)

	res, _ := s.previewHandler(context.Background(), call(nil))
	if !strings.Contains(resultText(t, res), "No plan yet") {
		t.Errorf("expected no-plan message, got %s", resultText(t, res))
	}

	syncOnce(t, s)
	res, _ = s.previewHandler(context.Background(), call(nil))
	if !strings.Contains(resultText(t, res), "Weather radar") {
		t.Errorf("preview should label actions, got %s", resultText(t, res))
	}
}

func TestAppsHandler(t *testing.T) {
	s, _ := newTestServer(t)

	res, _ := s.appsHandler(context.Background(), call(nil))
	if res.IsError {
		t.Fatalf("apps failed: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), `"recent"`) {
		t.Errorf("unexpected apps result %s", resultText(t, res))
	}
}
