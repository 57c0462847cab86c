package plan

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// DecodeReport counts elements dropped while decoding a remote response.
type DecodeReport struct {
	DroppedWindows    int
	DroppedIDs        int
	DroppedRationales int
	DroppedActions    int
}

// Total returns the number of dropped elements.
func (r DecodeReport) Total() int {
	return r.DroppedWindows + r.DroppedIDs + r.DroppedRationales + r.DroppedActions
}

type wireWindow struct {
	WindowID          string            `json:"windowId"`
	ID                string            `json:"id"`
	Start             string            `json:"start"`
	End               string            `json:"end"`
	PrimaryActionIDs  []json.RawMessage `json:"primaryActionIds"`
	FallbackActionIDs []json.RawMessage `json:"fallbackActionIds"`
}

type wireRationale struct {
	TargetID string `json:"targetId"`
	Summary  string `json:"summary"`
}

type wireAction struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	ActionType  string   `json:"actionType"`
	Data        string   `json:"data"`
	PackageName string   `json:"packageName"`
	TimeWindows []string `json:"timeWindows"`
}

// Decode parses a plan document returned by the remote service.
//
// The document must be a JSON object; anything else is an error. Inside it,
// every field is optional and elements that do not match the expected shape
// are dropped and counted instead of failing the whole plan. Both the
// response field names (timeWindows/windowId) and the stored ones
// (windows/id) are accepted.
func Decode(data []byte) (*Plan, DecodeReport, error) {
	var report DecodeReport

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, report, fmt.Errorf("malformed plan: %w", err)
	}
	if root == nil {
		return nil, report, fmt.Errorf("malformed plan: not an object")
	}

	p := &Plan{}

	if raw, ok := root["generatedAt"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			if ts, err := time.Parse(time.RFC3339, s); err == nil {
				p.GeneratedAt = ts
			}
		}
	}

	windowsRaw := rawArray(root, "timeWindows")
	if windowsRaw == nil {
		windowsRaw = rawArray(root, "windows")
	}
	for _, raw := range windowsRaw {
		var ww wireWindow
		if err := json.Unmarshal(raw, &ww); err != nil {
			report.DroppedWindows++
			continue
		}
		id := strings.TrimSpace(ww.WindowID)
		if id == "" {
			id = strings.TrimSpace(ww.ID)
		}
		if id == "" {
			report.DroppedWindows++
			continue
		}
		w := Window{
			ID:                id,
			Start:             validClock(ww.Start),
			End:               validClock(ww.End),
			PrimaryActionIDs:  stringList(ww.PrimaryActionIDs, MaxWindowActions, &report),
			FallbackActionIDs: stringList(ww.FallbackActionIDs, MaxWindowActions, &report),
		}
		p.Windows = append(p.Windows, w)
	}

	p.GlobalPins = stringList(rawArray(root, "globalPins"), MaxGlobalIDs, &report)
	p.Suppressions = stringList(rawArray(root, "suppressions"), MaxGlobalIDs, &report)

	for _, raw := range rawArray(root, "rationales") {
		var wr wireRationale
		if err := json.Unmarshal(raw, &wr); err != nil || wr.TargetID == "" || wr.Summary == "" {
			report.DroppedRationales++
			continue
		}
		p.Rationales = append(p.Rationales, Rationale{TargetID: wr.TargetID, Summary: wr.Summary})
	}

	for _, raw := range rawArray(root, "newActions") {
		var wa wireAction
		if err := json.Unmarshal(raw, &wa); err != nil {
			report.DroppedActions++
			continue
		}
		if strings.TrimSpace(wa.ID) == "" || strings.TrimSpace(wa.Label) == "" || strings.TrimSpace(wa.ActionType) == "" {
			report.DroppedActions++
			continue
		}
		p.NewActions = append(p.NewActions, SuggestedAction{
			ID:          wa.ID,
			Label:       wa.Label,
			ActionType:  wa.ActionType,
			Data:        wa.Data,
			PackageName: wa.PackageName,
			TimeWindows: wa.TimeWindows,
		})
	}

	if report.Total() > 0 {
		log.Printf("Warning: dropped %d malformed plan elements (windows=%d ids=%d rationales=%d actions=%d)",
			report.Total(), report.DroppedWindows, report.DroppedIDs, report.DroppedRationales, report.DroppedActions)
	}

	return p, report, nil
}

// rawArray returns root[key] as a list of raw elements, or nil when the
// field is missing or not an array.
func rawArray(root map[string]json.RawMessage, key string) []json.RawMessage {
	raw, ok := root[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// stringList keeps non-empty string elements up to limit.
func stringList(items []json.RawMessage, limit int, report *DecodeReport) []string {
	out := make([]string, 0, len(items))
	for _, raw := range items {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
			report.DroppedIDs++
			continue
		}
		if len(out) == limit {
			report.DroppedIDs++
			continue
		}
		out = append(out, s)
	}
	return out
}

// validClock returns s when it is a valid "HH:MM" time of day, "" otherwise.
func validClock(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, ok := ParseClock(s); !ok {
		return ""
	}
	return s
}

// ParseClock parses "HH:MM" (or "HH:MM:SS") into minutes since midnight.
func ParseClock(s string) (int, bool) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// FormatClock formats minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
