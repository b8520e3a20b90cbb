package logger

import (
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level info, got %s", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format console, got %s", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output stderr, got %s", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled by default")
	}
}

func TestConfig_ApplyDefaults_PreservesExplicit(t *testing.T) {
	cfg := Config{Level: "debug", Format: "json", Output: "stdout"}
	cfg.ApplyDefaults()
	if cfg.Level != "debug" || cfg.Format != "json" || cfg.Output != "stdout" {
		t.Errorf("defaults overwrote explicit values: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Level: "info", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestConfig_Validate_BadLevel(t *testing.T) {
	cfg := Config{Level: "loud", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestConfig_Validate_BadFormat(t *testing.T) {
	cfg := Config{Level: "info", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test")
	if l == nil {
		t.Fatal("expected logger")
	}
	l.Info("hello")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("discarded")
	l.WithPipe("p1").Debug("also discarded")
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test").WithComponent("pipe")
	if l == nil {
		t.Fatal("expected component logger")
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two")
	if m["a"] != 1 {
		t.Errorf("expected a=1, got %v", m["a"])
	}
	if m["b"] != "two" {
		t.Errorf("expected b=two, got %v", m["b"])
	}
}

func TestFields_OddArgs(t *testing.T) {
	m := Fields("a", 1, "dangling")
	if len(m) != 1 {
		t.Errorf("expected dangling key dropped, got %v", m)
	}
}

func TestFields_NonStringKey(t *testing.T) {
	m := Fields(42, "x", "b", 2)
	if _, ok := m["b"]; !ok {
		t.Error("expected valid pair kept")
	}
	if len(m) != 1 {
		t.Errorf("expected non-string key skipped, got %v", m)
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("copy", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", m[FieldDuration])
	}
	if m[FieldOperation] != "copy" {
		t.Errorf("expected op copy, got %v", m[FieldOperation])
	}
}

func TestRegistry_GetUnregistered(t *testing.T) {
	l := Get("never-registered")
	if l == nil {
		t.Fatal("expected fallback component logger")
	}
}

func TestRegistry_RegisterThenGet(t *testing.T) {
	want := NewDefault("registered")
	Register("my-pipe", want)
	if got := Get("my-pipe"); got != want {
		t.Error("expected the registered logger")
	}
}
