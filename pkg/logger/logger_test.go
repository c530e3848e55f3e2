package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_WritesJSONWithService(t *testing.T) {
	resetForTest(t)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf, Service: "dashboard"})
	l := Component("session")
	l.Info().Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["service"] != "dashboard" || line["component"] != "session" || line["message"] != "hello" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestInit_OnlyFirstCallCounts(t *testing.T) {
	resetForTest(t)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})
	l := Get()
	l.Info().Msg("x")

	if first.Len() == 0 || second.Len() != 0 {
		t.Fatalf("expected output only on the first writer")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestForEnv(t *testing.T) {
	if ForEnv("production", "info", "x").Pretty {
		t.Fatalf("production must log JSON")
	}
	if !ForEnv("development", "info", "x").Pretty {
		t.Fatalf("development should use the console writer")
	}
}

func resetForTest(t *testing.T) {
	t.Helper()
	prev := zerolog.GlobalLevel()
	Reset()
	t.Cleanup(func() {
		Reset()
		zerolog.SetGlobalLevel(prev)
	})
}
