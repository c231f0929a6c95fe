package config

import (
	"testing"
	"time"
)

func TestString(t *testing.T) {
	t.Setenv("CFG_TEST_STR", "value")
	if got := String("CFG_TEST_STR", "fallback"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
	if got := String("CFG_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestRequiredString(t *testing.T) {
	if _, err := RequiredString("CFG_TEST_ABSENT"); err == nil {
		t.Fatal("expected error for missing required key")
	}
	t.Setenv("CFG_TEST_REQ", "set")
	v, err := RequiredString("CFG_TEST_REQ")
	if err != nil || v != "set" {
		t.Fatalf("expected set, got %q err=%v", v, err)
	}
}

func TestInt(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "42")
	if got := Int("CFG_TEST_INT", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	t.Setenv("CFG_TEST_INT_BAD", "not-a-number")
	if got := Int("CFG_TEST_INT_BAD", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
}

func TestSeconds(t *testing.T) {
	t.Setenv("CFG_TEST_SECS", "30")
	if got := Seconds("CFG_TEST_SECS", time.Minute); got != 30*time.Second {
		t.Fatalf("expected 30s, got %s", got)
	}
	if got := Seconds("CFG_TEST_SECS_MISSING", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback 1m, got %s", got)
	}
}

func TestPort(t *testing.T) {
	t.Setenv("CFG_TEST_PORT", "8083")
	p, err := Port("CFG_TEST_PORT", "8080")
	if err != nil || p != "8083" {
		t.Fatalf("expected 8083, got %q err=%v", p, err)
	}
	t.Setenv("CFG_TEST_PORT_BAD", "99999")
	if _, err := Port("CFG_TEST_PORT_BAD", "8080"); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}
