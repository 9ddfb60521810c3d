package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromZap(zap.New(core)), logs
}

func TestRedactsSecrets(t *testing.T) {
	l, logs := observed()
	l.Info("calling api", "api_key", "AIza-secret", "model", "gemini-2.0-flash", "ndis_number", "430000001")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["api_key"] != "[REDACTED]" {
		t.Errorf("api_key = %v", fields["api_key"])
	}
	if fields["model"] != "gemini-2.0-flash" {
		t.Errorf("model = %v", fields["model"])
	}
	ndis, _ := fields["ndis_number"].(string)
	if !strings.HasPrefix(ndis, "hash:") || strings.Contains(ndis, "430000001") {
		t.Errorf("ndis_number = %q, want hashed", ndis)
	}
}

func TestWithCarriesFields(t *testing.T) {
	l, logs := observed()
	l.With("component", "daemon", "token", "abc").Warn("poll failed", "err", "boom")

	fields := logs.All()[0].ContextMap()
	if fields["component"] != "daemon" || fields["token"] != "[REDACTED]" || fields["err"] != "boom" {
		t.Errorf("fields = %v", fields)
	}
}

func TestOddKVKeepsTrailingValue(t *testing.T) {
	got := sanitizeKVs([]any{"a", 1, "dangling"})
	if len(got) != 3 || got[2] != "dangling" {
		t.Errorf("sanitizeKVs = %v", got)
	}
}

func TestNewFallsBackToWarn(t *testing.T) {
	l, err := New("dev", "nonsense")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.SugaredLogger.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at the fallback level")
	}
}
