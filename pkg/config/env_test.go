package config_test

import (
	"testing"
	"time"

	"quantum-news-agent/pkg/config"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "hello")
	if got := config.GetEnvString("TEST_STRING", "fallback"); got != "hello" {
		t.Errorf("GetEnvString() = %q, want hello", got)
	}
	if got := config.GetEnvString("TEST_STRING_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnvString() = %q, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := config.GetEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("GetEnvInt() = %d, want 42", got)
	}
	if got := config.GetEnvInt("TEST_INT_UNSET", 7); got != 7 {
		t.Errorf("GetEnvInt() = %d, want default 7", got)
	}

	t.Setenv("TEST_INT_BAD", "not-a-number")
	if got := config.GetEnvInt("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("GetEnvInt() = %d, want default on parse failure", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	if got := config.GetEnvBool("TEST_BOOL", false); !got {
		t.Error("GetEnvBool() = false, want true")
	}

	t.Setenv("TEST_BOOL_BAD", "maybe")
	if got := config.GetEnvBool("TEST_BOOL_BAD", true); !got {
		t.Error("GetEnvBool() = false, want default on parse failure")
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "45s")
	if got := config.GetEnvDuration("TEST_DURATION", time.Minute); got != 45*time.Second {
		t.Errorf("GetEnvDuration() = %v, want 45s", got)
	}

	t.Setenv("TEST_DURATION_BAD", "soon")
	if got := config.GetEnvDuration("TEST_DURATION_BAD", time.Minute); got != time.Minute {
		t.Errorf("GetEnvDuration() = %v, want default on parse failure", got)
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "0.5")
	if got := config.GetEnvFloat("TEST_FLOAT", 1.0); got != 0.5 {
		t.Errorf("GetEnvFloat() = %v, want 0.5", got)
	}
	if got := config.GetEnvFloat("TEST_FLOAT_UNSET", 1.0); got != 1.0 {
		t.Errorf("GetEnvFloat() = %v, want default", got)
	}
}
