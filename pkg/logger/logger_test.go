package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"twitterwipe/pkg/config"
)

func newBufferLogger(t *testing.T, level string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := NewWithWriter(&config.LoggingConfig{Level: level}, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() failed: %v", err)
	}
	return l, &buf
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "valid config with info level",
			cfg:     &config.LoggingConfig{Level: "info"},
			wantErr: false,
		},
		{
			name:    "valid config without color",
			cfg:     &config.LoggingConfig{Level: "debug", NoColor: true},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "invalid"},
			wantErr: true,
		},
		{
			name:    "config with file output",
			cfg:     &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "wipe.log")},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && l == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wipe.log")
	l, err := New(&config.LoggingConfig{Level: "info", File: path, NoColor: true})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	l.WithField("tweet_id", "42").Info("Deleting tweet")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"tweet_id":"42"`) {
		t.Errorf("Expected JSON field in log file, got %s", data)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"invalid", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(t, "warn")

	l.Info("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("Info message should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("Warn message not found in output")
	}
}

func TestFieldChaining(t *testing.T) {
	l, buf := newBufferLogger(t, "debug")

	l.WithField("field1", "value1").
		WithFields(map[string]interface{}{
			"field2": 2,
			"field3": true,
		}).
		InfoWithFields("chained fields", map[string]interface{}{
			"wait": 1500 * time.Millisecond,
		})

	output := buf.String()
	for _, want := range []string{"chained fields", `"field1":"value1"`, `"field2":2`, `"field3":true`, `"app":"twitterwipe"`} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %s in output, got %s", want, output)
		}
	}
}

func TestWithError(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	if l.WithError(nil) != l {
		t.Error("WithError(nil) should return the same logger")
	}

	l.WithError(errors.New("boom")).Error("error occurred")

	output := buf.String()
	if !strings.Contains(output, "error occurred") || !strings.Contains(output, "boom") {
		t.Errorf("Expected message and error in output, got %s", output)
	}
}

func TestChildDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	_ = l.WithField("child", "yes")
	l.Info("parent message")

	if strings.Contains(buf.String(), "child") {
		t.Error("Parent logger should not carry child fields")
	}
}

func TestTestLoggerCapture(t *testing.T) {
	tl := NewTestLogger()

	tl.WithField("tweet_id", "1").Info("Deleting tweet 1: hello")
	tl.WithError(errors.New("gone")).Error("failed")

	messages := tl.GetMessages()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[0].Fields["tweet_id"] != "1" {
		t.Errorf("Expected tweet_id field, got %v", messages[0].Fields)
	}
	if !tl.HasMessagePrefix("Deleting tweet") {
		t.Error("Expected message prefix to be found")
	}
	if !tl.HasError() {
		t.Error("Expected error message to be captured")
	}

	tl.Clear()
	if len(tl.GetMessages()) != 0 {
		t.Error("Expected messages to be cleared")
	}
}
