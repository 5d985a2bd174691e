package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"marquee/internal/logging"
)

func TestConsoleHandlerRendersComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WithComponent(logger, "enrich").Info("fields updated", "show_id", 7)

	line := buf.String()
	if !strings.Contains(line, " INFO enrich: fields updated") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "show_id=7") {
		t.Fatalf("missing attribute in line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("added", "show", "The Lion King")

	if !strings.Contains(buf.String(), `show="The Lion King"`) {
		t.Fatalf("value not quoted: %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("visible")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info record should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

// Derived loggers share one write lock, so concurrent records from
// different components land as whole lines in an unsynchronized writer.
func TestConsoleHandlerDerivedLoggersSerializeWrites(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	const perLogger = 50
	var wg sync.WaitGroup
	for _, component := range []string{"scan", "enrich", "shows"} {
		derived := logging.WithComponent(logger, component)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perLogger; i++ {
				derived.Info("worked", "iteration", i)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3*perLogger {
		t.Fatalf("got %d lines, want %d", len(lines), 3*perLogger)
	}
	for _, line := range lines {
		if !strings.Contains(line, ": worked iteration=") {
			t.Fatalf("interleaved or truncated line: %q", line)
		}
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("scan complete", "count", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json record: %v", err)
	}
	if record["msg"] != "scan complete" {
		t.Fatalf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("level = %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("ts key missing")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWithComponentNilLogger(t *testing.T) {
	logger := logging.WithComponent(nil, "scan")
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	logger.Info("discarded")
}
