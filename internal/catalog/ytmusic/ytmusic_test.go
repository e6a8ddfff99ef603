package ytmusic

import (
	"strings"
	"testing"
)

func TestHeadersToRawPrefersRawString(t *testing.T) {
	cfg := Config{RawHeaders: "cookie: abc\nauthorization: def"}
	raw, err := headersToRaw(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != cfg.RawHeaders {
		t.Errorf("raw = %q, want %q", raw, cfg.RawHeaders)
	}
}

func TestHeadersToRawFromMap(t *testing.T) {
	cfg := Config{Headers: map[string]string{"cookie": "abc"}}
	raw, err := headersToRaw(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(raw, "cookie: abc") {
		t.Errorf("raw = %q, want to contain cookie header", raw)
	}
}

func TestHeadersToRawEmpty(t *testing.T) {
	raw, err := headersToRaw(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "" {
		t.Errorf("raw = %q, want empty", raw)
	}
}

func TestNewRequiresHeaders(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error when no headers provided")
	}
}
