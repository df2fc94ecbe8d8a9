package version

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFormatConfigSchema(t *testing.T) {
	tests := []struct {
		version  int
		expected string
	}{
		{1, "config/1"},
		{2, "config/2"},
		{10, "config/10"},
	}
	for _, tt := range tests {
		got := FormatConfigSchema(tt.version)
		if got != tt.expected {
			t.Errorf("FormatConfigSchema(%d) = %q, want %q", tt.version, got, tt.expected)
		}
	}
}

func TestParseConfigVersion(t *testing.T) {
	tests := []struct {
		schema  string
		want    int
		wantErr bool
	}{
		{"config/1", 1, false},
		{"config/12", 12, false},
		{"config/0", 0, true},
		{"config/x", 0, true},
		{"wallet/1", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseConfigVersion(tt.schema)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseConfigVersion(%q) error = %v, wantErr %v", tt.schema, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseConfigVersion(%q) = %d, want %d", tt.schema, got, tt.want)
		}
	}
}

func TestMinPlankVersionCompleteness(t *testing.T) {
	for v := 1; v <= CurrentConfigVersion; v++ {
		key := fmt.Sprintf("config/%d", v)
		if _, ok := MinPlankVersion[key]; !ok {
			t.Errorf("MinPlankVersion missing entry for %s", key)
		}
	}
}

func TestInvalidConfigSchema_FutureVersion(t *testing.T) {
	err := InvalidConfigSchema("/tmp/config.toml", "config/99")

	var sve *SchemaVersionError
	if !errors.As(err, &sve) {
		t.Fatalf("Expected SchemaVersionError, got %T", err)
	}
	if sve.MinRequired != "a newer version" {
		t.Errorf("MinRequired = %q", sve.MinRequired)
	}
	if !strings.Contains(err.Error(), "requires plank") {
		t.Errorf("Unexpected message: %s", err)
	}
}

func TestMissingConfigSchema_Message(t *testing.T) {
	err := MissingConfigSchema("/tmp/config.toml")
	if !strings.Contains(err.Error(), "no schema version") {
		t.Errorf("Unexpected message: %s", err)
	}
}
