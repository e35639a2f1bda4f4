package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: " INFO ", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "", want: slog.LevelInfo},
		{in: "verbose", want: slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)

	log.Info("hidden")
	log.Warn("shown", FieldWidget, "summary")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("output is not a single JSON line: %v (%q)", err, buf.String())
	}
	if line["msg"] != "shown" {
		t.Fatalf("msg = %v, want %q", line["msg"], "shown")
	}
	if line[FieldWidget] != "summary" {
		t.Fatalf("%s = %v, want %q", FieldWidget, line[FieldWidget], "summary")
	}
}

func TestFromContextNeverNil(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() = nil, want default logger")
	}

	log := NewTest()
	ctx := ToContext(context.Background(), log)
	if FromContext(ctx) != log {
		t.Fatal("FromContext() did not return the stored logger")
	}

	derived, ctx2 := With(ctx, FieldPeriod, "2024-03")
	if FromContext(ctx2) != derived {
		t.Fatal("With() did not store the derived logger")
	}
}
