package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_InfoHiddenWithoutVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Out: &buf}

	l.Infof("hello %s", "world")
	l.Debugf("debug %d", 1)

	if buf.Len() != 0 {
		t.Errorf("Expected no output, got: %q", buf.String())
	}
}

func TestLogger_VerboseShowsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Verbose: true, Out: &buf}

	l.Infof("resolved %d variables", 3)

	if !strings.Contains(buf.String(), "resolved 3 variables") {
		t.Errorf("Expected info message, got: %q", buf.String())
	}
}

func TestLogger_DebugImpliesInfo(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Debug: true, Out: &buf}

	l.Infof("info line")
	l.Debugf("debug line")

	out := buf.String()
	if !strings.Contains(out, "info line") || !strings.Contains(out, "debug line") {
		t.Errorf("Expected both messages, got: %q", out)
	}
}

func TestLogger_WarnAlwaysShown(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Out: &buf}

	l.Warnf("document %s skipped", "ai.yaml")

	if !strings.Contains(buf.String(), "[warn]") || !strings.Contains(buf.String(), "ai.yaml") {
		t.Errorf("Expected warning, got: %q", buf.String())
	}
}

func TestLogger_ErrorfAndReturn(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Out: &buf}

	err := l.ErrorfAndReturn("failed to load %s", "config.toml")
	if err == nil || err.Error() != "failed to load config.toml" {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "[error]") {
		t.Errorf("Expected error prefix, got: %q", buf.String())
	}
}
