package logging

import "testing"

func TestNew_KnownLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if logger := New(level); logger == nil {
			t.Errorf("expected logger for level %q", level)
		}
	}
}

func TestNew_UnknownLevelFallsBack(t *testing.T) {
	if logger := New("verbose"); logger == nil {
		t.Error("expected logger for unknown level")
	}
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Error("expected default logger")
	}
}

func TestWith(t *testing.T) {
	logger := Default().With("component", "test")
	if logger == nil {
		t.Fatal("expected derived logger")
	}
}
