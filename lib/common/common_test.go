package common

import (
	"github.com/lni/dragonboat/v4/logger"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine = "rocksdb"
	cfg.SlotKey = ""
	cfg.BootstrapRetries = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"Engine", "SlotKey", "BootstrapRetries"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected %s in error, got %q", field, err.Error())
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	out := cfg.String()
	for _, want := range []string{"STORAGE", "blog.maple", "blogData", "(embedded)", "LOGGING"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in config dump:\n%s", want, out)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
