package version

import "testing"

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"dev", "none", "unknown", "dev (development build)"},
		{"v0.3.0", "abc1234", "2026-01-02", "v0.3.0 (commit: abc1234, built: 2026-01-02)"},
	}
	for _, tt := range tests {
		if got := FormatVersion(tt.version, tt.commit, tt.date); got != tt.want {
			t.Errorf("FormatVersion(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestServerVersion(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "dev"
	if got := ServerVersion(); got != "0.0.0-dev" {
		t.Errorf("ServerVersion() = %q for dev build", got)
	}
	Version = "v1.2.0"
	if got := ServerVersion(); got != "v1.2.0" {
		t.Errorf("ServerVersion() = %q, want v1.2.0", got)
	}
}
