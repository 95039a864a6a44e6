package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("warn", &buf)

	logger.Info("should be dropped")
	logger.Warn("should appear", "key", "value")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Errorf("info record emitted at warn level: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn record missing: %s", out)
	}
}

func TestNewWithWriter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf)

	logger.Info("hello", "patient_id", "p-1")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", record["msg"])
	}
	if record["patient_id"] != "p-1" {
		t.Errorf("patient_id = %v, want p-1", record["patient_id"])
	}
}

func TestWith_CarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf).With("component", "scheduling")

	logger.Info("slot checked")

	if !strings.Contains(buf.String(), `"component":"scheduling"`) {
		t.Errorf("expected component attribute, got: %s", buf.String())
	}
}

func TestParseLevel_UnknownDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("verbose", &buf)

	logger.Debug("dropped")
	logger.Info("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Error("debug record emitted at default level")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Error("info record missing at default level")
	}
}
