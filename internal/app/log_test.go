package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestInvHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&invHandler{w: &buf, opID: "op-123"})

	logger.Info("instance used", "id", 7, "amount", 0.5)

	line := strings.TrimSuffix(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	if len(fields) != 6 {
		t.Fatalf("record has %d fields, want 6: %q", len(fields), line)
	}
	if fields[1] != "INFO" {
		t.Errorf("level = %q, want INFO", fields[1])
	}
	if fields[2] != "op-123" {
		t.Errorf("opID = %q, want op-123", fields[2])
	}
	if fields[3] != "instance used" {
		t.Errorf("message = %q, want %q", fields[3], "instance used")
	}
	if fields[4] != "id=7" || fields[5] != "amount=0.5" {
		t.Errorf("attrs = %v, want [id=7 amount=0.5]", fields[4:])
	}
}

func TestInvHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&invHandler{w: &buf, opID: "op-123"}).With("operation", "Use")

	logger.Info("instance used", "id", 7)

	line := buf.String()
	if !strings.Contains(line, "\toperation=Use\t") {
		t.Errorf("record missing pre-set attr: %q", line)
	}
	if !strings.Contains(line, "\tid=7") {
		t.Errorf("record missing per-record attr: %q", line)
	}
}

func TestNewLogger_CreatesLogFile(t *testing.T) {
	logDir := t.TempDir() + "/log"

	logger, f, err := newLogger(logDir, "op-1")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	logger.Info("hello")
	if f.Name() != logDir+"/inv.log" {
		t.Errorf("log file = %q, want %q", f.Name(), logDir+"/inv.log")
	}
}
