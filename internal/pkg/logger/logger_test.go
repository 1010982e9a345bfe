package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for name, want := range cases {
		if got := ParseLevel(name); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestConfigureJSONWithService(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "warn", Format: FormatJSON, Service: "questionbank", Output: &buf})
	t.Cleanup(func() { Configure(Config{Format: FormatText}) })

	Info().Msg("dropped")
	Warn().Str("scope", "login").Msg("kept")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "kept" || entry["service"] != "questionbank" || entry["scope"] != "login" {
		t.Fatalf("unexpected entry %v", entry)
	}
}
