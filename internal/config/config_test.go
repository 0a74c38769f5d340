package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DISPATCH_MODE", "GEMINI_AUTH", "GEMINI_BACKEND", "GEMINI_MODEL",
		"GEMINI_ENDPOINT", "GEMINI_TIMEOUT_SECONDS", "CHAT_RESPONDER", "KEYWORD_RULES",
		"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_VALIDATE_SIGNATURE",
		"PUBLIC_BASE_URL", "HISTORY_LIMIT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("expected addr :3000, got %q", cfg.Addr())
	}
	if cfg.DispatchMode != DispatchSync {
		t.Errorf("expected sync dispatch, got %q", cfg.DispatchMode)
	}
	if cfg.GeminiTimeout != 10*time.Second {
		t.Errorf("expected 10s gemini timeout, got %s", cfg.GeminiTimeout)
	}
	if cfg.ChatResponder != ResponderEcho {
		t.Errorf("expected echo responder, got %q", cfg.ChatResponder)
	}
	if !cfg.UseRules {
		t.Error("expected keyword rules enabled by default")
	}
	if !strings.HasSuffix(cfg.GeminiEndpoint, "/models/gemini-pro:generateContent") {
		t.Errorf("unexpected default endpoint %q", cfg.GeminiEndpoint)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DISPATCH_MODE", "ASYNC")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("GEMINI_AUTH", "bearer")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")
	t.Setenv("KEYWORD_RULES", "false")
	t.Setenv("PUBLIC_BASE_URL", "https://console.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.Addr())
	}
	if cfg.DispatchMode != DispatchAsync {
		t.Errorf("expected async dispatch, got %q", cfg.DispatchMode)
	}
	if cfg.GeminiAuthMode != AuthBearer {
		t.Errorf("expected bearer auth, got %q", cfg.GeminiAuthMode)
	}
	if !strings.Contains(cfg.GeminiEndpoint, "gemini-2.5-flash") {
		t.Errorf("expected endpoint to follow model, got %q", cfg.GeminiEndpoint)
	}
	if cfg.UseRules {
		t.Error("expected keyword rules disabled")
	}
	if cfg.PublicBaseURL != "https://console.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.PublicBaseURL)
	}
}

func TestLoad_AsyncRequiresTwilio(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISPATCH_MODE", "async")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when async mode lacks twilio credentials")
	}
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	cases := map[string]string{
		"DISPATCH_MODE":  "later",
		"GEMINI_AUTH":    "cookie",
		"GEMINI_BACKEND": "grpc",
		"CHAT_RESPONDER": "parrot",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_TIMEOUT_SECONDS", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GeminiTimeout != 10*time.Second {
		t.Errorf("expected fallback 10s, got %s", cfg.GeminiTimeout)
	}
}
