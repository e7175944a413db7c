package applog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: Warn, Output: &buf, Prefix: "test"})
	l.Info("should not appear")
	l.Warn("should appear")
	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("Info record leaked through Warn-level logger: %q", out)
	}
	if !strings.Contains(out, "should appear") || !strings.Contains(out, "[WARN]") {
		t.Fatalf("expected warn record, got %q", out)
	}
}

func TestLoggerWithFieldIsOrderedAndImmutable(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: Debug, Output: &buf})
	derived := base.WithField("b", 2).WithField("a", 1)
	derived.Info("msg")
	if !strings.Contains(buf.String(), "a=1 b=2") {
		t.Fatalf("expected sorted key=value fields, got %q", buf.String())
	}

	buf.Reset()
	base.Info("base unaffected")
	if strings.Contains(buf.String(), "a=1") {
		t.Fatalf("WithField mutated the base logger's fields: %q", buf.String())
	}
}

func TestNullLoggerDiscardsEverything(t *testing.T) {
	l := Null()
	l.SetOutput(nil) // must not panic even though output is nil; disabled short-circuits first
	l.Error("anything")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": Debug,
		"warn":  Warn,
		"error": Error,
		"info":  Info,
		"":      Info,
		"bogus": Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
