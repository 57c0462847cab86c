/*
Package timewindow defines the recurring daily/weekly windows that usage is
bucketed into, and resolves which plan window applies at a given moment.

Windows may wrap midnight: a window whose start is after its end covers
[start, 24:00) and [00:00, end). All matching is at minute-of-day resolution.
*/
package timewindow

import (
	"fmt"
	"strings"
	"time"

	"github.com/khanglvm/action-hub/internal/plan"
)

// Definition is a recurring time-of-day window.
type Definition struct {
	ID                string `json:"id"`
	Label             string `json:"label,omitempty"`
	StartHour         int    `json:"startHour"`
	StartMinute       int    `json:"startMinute"`
	EndHour           int    `json:"endHour"`
	EndMinute         int    `json:"endMinute"`
	AppliesToWeekdays bool   `json:"appliesToWeekdays"`
	AppliesToWeekends bool   `json:"appliesToWeekends"`
}

var defaultWindows = []Definition{
	{ID: "weekday_morning", Label: "Weekday morning", StartHour: 5, EndHour: 10, AppliesToWeekdays: true},
	{ID: "weekday_daytime", Label: "Weekday daytime", StartHour: 10, EndHour: 18, AppliesToWeekdays: true},
	{ID: "weekday_night", Label: "Weekday night", StartHour: 18, EndHour: 5, AppliesToWeekdays: true},
	{ID: "weekend_daytime", Label: "Weekend daytime", StartHour: 8, EndHour: 20, AppliesToWeekends: true},
	{ID: "weekend_night", Label: "Weekend night", StartHour: 20, EndHour: 8, AppliesToWeekends: true},
}

// DefaultWindows returns a copy of the built-in window table.
func DefaultWindows() []Definition {
	out := make([]Definition, len(defaultWindows))
	copy(out, defaultWindows)
	return out
}

// StartMinutes returns the start as minutes since midnight.
func (d Definition) StartMinutes() int { return d.StartHour*60 + d.StartMinute }

// EndMinutes returns the end as minutes since midnight.
func (d Definition) EndMinutes() int { return d.EndHour*60 + d.EndMinute }

// Start returns the start formatted as "HH:MM".
func (d Definition) Start() string { return plan.FormatClock(d.StartMinutes()) }

// End returns the end formatted as "HH:MM".
func (d Definition) End() string { return plan.FormatClock(d.EndMinutes()) }

// Contains reports whether t falls inside the window, honoring the
// weekday/weekend flags. t is interpreted in its own location.
func (d Definition) Contains(t time.Time) bool {
	weekend := IsWeekend(t)
	if weekend && !d.AppliesToWeekends {
		return false
	}
	if !weekend && !d.AppliesToWeekdays {
		return false
	}
	return InRange(MinuteOfDay(t), d.StartMinutes(), d.EndMinutes())
}

// Validate checks hour/minute ranges and that the window is not empty.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("window id is required")
	}
	if d.StartHour < 0 || d.StartHour > 23 || d.EndHour < 0 || d.EndHour > 23 {
		return fmt.Errorf("window %s: hours must be in 0-23", d.ID)
	}
	if d.StartMinute < 0 || d.StartMinute > 59 || d.EndMinute < 0 || d.EndMinute > 59 {
		return fmt.Errorf("window %s: minutes must be in 0-59", d.ID)
	}
	if d.StartMinutes() == d.EndMinutes() {
		return fmt.Errorf("window %s: start and end must differ", d.ID)
	}
	if !d.AppliesToWeekdays && !d.AppliesToWeekends {
		return fmt.Errorf("window %s: must apply to weekdays or weekends", d.ID)
	}
	return nil
}

// IsWeekend reports whether t is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// MinuteOfDay returns minutes since midnight in t's location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// InRange applies the wraparound rule: start <= end covers [start, end),
// otherwise [start, 24:00) and [00:00, end).
func InRange(minute, start, end int) bool {
	if start <= end {
		return minute >= start && minute < end
	}
	return minute >= start || minute < end
}

// Labels maps window ids to display labels.
func Labels(defs []Definition) map[string]string {
	out := make(map[string]string, len(defs))
	for _, d := range defs {
		if d.Label != "" {
			out[d.ID] = d.Label
		}
	}
	return out
}
