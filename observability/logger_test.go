package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLogger_StructuredProperties(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(buf, InfoLevel)

	log.Info("Resolved {PackageId} {Version}", "Newtonsoft.Json", "13.0.3")

	output := buf.String()
	if !strings.Contains(output, "Newtonsoft.Json") {
		t.Errorf("Output missing PackageId: %s", output)
	}
	if !strings.Contains(output, "13.0.3") {
		t.Errorf("Output missing Version: %s", output)
	}
}

func TestLogger_ForContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(buf, InfoLevel).ForContext("RunID", "abc")

	log.InfoContext(context.Background(), "Walk finished with {Count} packages", 7)

	if !strings.Contains(buf.String(), "7") {
		t.Errorf("Output missing template property: %s", buf.String())
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name          string
		level         LogLevel
		logFunc       func(Logger)
		shouldContain bool
	}{
		{"info allows info", InfoLevel, func(l Logger) { l.Info("info") }, true},
		{"info blocks debug", InfoLevel, func(l Logger) { l.Debug("debug") }, false},
		{"debug allows debug", DebugLevel, func(l Logger) { l.Debug("debug") }, true},
		{"verbose allows verbose", VerboseLevel, func(l Logger) { l.Verbose("verbose") }, true},
		{"warn blocks info", WarnLevel, func(l Logger) { l.Info("info") }, false},
		{"warn allows warn", WarnLevel, func(l Logger) { l.Warn("warn") }, true},
		{"error blocks warn", ErrorLevel, func(l Logger) { l.Warn("warn") }, false},
		{"error allows error", ErrorLevel, func(l Logger) { l.Error("error") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.logFunc(NewLogger(buf, tt.level))

			contains := buf.Len() > 0
			if contains != tt.shouldContain {
				t.Errorf("Message presence = %v, want %v. Output: %s", contains, tt.shouldContain, buf.String())
			}
		})
	}
}

func TestNullLogger(t *testing.T) {
	log := NewNullLogger()
	ctx := context.Background()

	log.Verbose("v")
	log.DebugContext(ctx, "d")
	log.InfoContext(ctx, "i")
	log.WarnContext(ctx, "w")
	log.ErrorContext(ctx, "e")

	if log.ForContext("k", "v") == nil {
		t.Error("ForContext() returned nil")
	}
}
