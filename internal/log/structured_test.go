package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func newCapturedLogger(buf *bytes.Buffer) *StructuredLogger {
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	return NewStructuredLogger(New(Config{Handler: handler}))
}

func TestLogHTTPStartCarriesRequestFields(t *testing.T) {
	var buf bytes.Buffer
	sl := newCapturedLogger(&buf)

	r := httptest.NewRequest("POST", "/records?type=filter", nil)
	r.Header.Set("User-Agent", "test-agent")
	sl.LogHTTPStart(context.Background(), r, "req-1", "10.0.0.1")

	line := buf.String()
	for _, want := range []string{
		"HTTP request started",
		FieldRequestID + "=req-1",
		FieldMethod + "=POST",
		FieldPath + "=/records",
		FieldClientIP + "=10.0.0.1",
		FieldUserAgent + "=test-agent",
		FieldComponent + "=" + ComponentHTTP,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}

func TestLogHTTPEndLevelTracksStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "level=INFO"},
		{404, "level=WARN"},
		{500, "level=ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := newCapturedLogger(&buf)

		r := httptest.NewRequest("GET", "/", nil)
		sl.LogHTTPEnd(context.Background(), r, "req-2", tt.status, 12, "10.0.0.1")

		line := buf.String()
		if !strings.Contains(line, tt.level) {
			t.Errorf("status %d: want %s in %s", tt.status, tt.level, line)
		}
		if !strings.Contains(line, FieldDuration+"=12") {
			t.Errorf("status %d: missing duration in %s", tt.status, line)
		}
	}
}

func TestLogRecordSaved(t *testing.T) {
	var buf bytes.Buffer
	sl := newCapturedLogger(&buf)

	sl.LogRecordSaved(context.Background(), OpUpdate, "r1", "عطیہ", "احمد", "500")

	line := buf.String()
	for _, want := range []string{
		FieldOperation + "=" + OpUpdate,
		FieldRecordID + "=r1",
		FieldRecordType + "=عطیہ",
		FieldComponent + "=" + ComponentLedger,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}

func TestLogErrorMergesFields(t *testing.T) {
	var buf bytes.Buffer
	sl := newCapturedLogger(&buf)

	sl.LogError(context.Background(), "Print run failed", errors.New("spool exited"),
		ComponentPrinter, OpPrint, NewFields().WithView("عطیہ", "احمد"))

	line := buf.String()
	for _, want := range []string{
		"level=ERROR",
		FieldError + "=\"spool exited\"",
		FieldComponent + "=" + ComponentPrinter,
		FieldOperation + "=" + OpPrint,
		FieldTypeFilter + "=عطیہ",
		FieldSearchQuery + "=احمد",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}
