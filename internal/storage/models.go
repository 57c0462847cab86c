/*
Package storage provides data models for the action event log.

These models represent user invocations of quick actions and apps, and the
per-action counts derived from them.
*/
package storage

import (
	"strings"
	"time"
)

// AppPrefix marks an action id as an app launch rather than a shortcut.
const AppPrefix = "app:"

// ActionEvent represents a single user invocation.
type ActionEvent struct {
	// ActionID is the invoked action id; app launches carry AppPrefix.
	ActionID string `json:"actionId"`

	// Timestamp is when the action was invoked.
	Timestamp time.Time `json:"timestamp"`
}

// IsApp reports whether the event is an app launch.
func (e ActionEvent) IsApp() bool {
	return IsAppID(e.ActionID)
}

// ActionStat is the number of times an action has been invoked.
type ActionStat struct {
	ActionID string `json:"actionId"`
	Count    int    `json:"count"`
}

// AppActionID encodes a package name as an app-launch action id.
func AppActionID(packageName string) string {
	return AppPrefix + packageName
}

// IsAppID reports whether id is an app-launch action id.
func IsAppID(id string) bool {
	return strings.HasPrefix(id, AppPrefix)
}

// PackageName strips AppPrefix from an app-launch action id.
func PackageName(id string) string {
	return strings.TrimPrefix(id, AppPrefix)
}
