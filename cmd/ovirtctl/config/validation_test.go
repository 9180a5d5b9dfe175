package config

import (
	"testing"
)

func TestValidateLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		expectError bool
	}{
		{name: "debug_ok", level: "DEBUG", expectError: false},
		{name: "info_ok", level: "INFO", expectError: false},
		{name: "warn_ok", level: "WARN", expectError: false},
		{name: "error_ok", level: "ERROR", expectError: false},
		{name: "lowercase_rejected", level: "info", expectError: true},
		{name: "empty_rejected", level: "", expectError: true},
		{name: "garbage_rejected", level: "LOUD", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Global.LogLevel = tt.level
			err := ValidateLogLevel()
			if tt.expectError && err == nil {
				t.Fatalf("expected error for level %q", tt.level)
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error for level %q: %v", tt.level, err)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	tests := []struct {
		name        string
		timeout     int
		expectError bool
	}{
		{name: "default_ok", timeout: DefaultTimeout, expectError: false},
		{name: "one_second_ok", timeout: 1, expectError: false},
		{name: "hour_ok", timeout: 3600, expectError: false},
		{name: "zero_rejected", timeout: 0, expectError: true},
		{name: "negative_rejected", timeout: -5, expectError: true},
		{name: "too_large_rejected", timeout: 7200, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Global.Timeout = tt.timeout
			err := ValidateTimeout()
			if tt.expectError && err == nil {
				t.Fatalf("expected error for timeout %d", tt.timeout)
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error for timeout %d: %v", tt.timeout, err)
			}
		})
	}
}
