package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load("does-not-exist.env")

	if cfg.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderGemini)
	}
	if cfg.SpeechRate != 150 {
		t.Errorf("SpeechRate = %d, want 150", cfg.SpeechRate)
	}
	if cfg.ListenTimeout != 5*time.Second {
		t.Errorf("ListenTimeout = %v, want 5s", cfg.ListenTimeout)
	}
	if cfg.WakeWord != "zen" {
		t.Errorf("WakeWord = %q, want zen", cfg.WakeWord)
	}
	if cfg.CacheSize != 50 {
		t.Errorf("CacheSize = %d, want 50", cfg.CacheSize)
	}
	if cfg.SystemPrompt == "" {
		t.Error("SystemPrompt should have a built-in default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "ollama")
	t.Setenv("SPEECH_RATE", "200")
	t.Setenv("PHRASE_TIME_LIMIT", "15")
	t.Setenv("ASYNC_SPEECH", "false")
	t.Setenv("WAKE_WORD_SENSITIVITY", "0.8")

	cfg := Load("does-not-exist.env")

	if cfg.Provider != ProviderOllama {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.SpeechRate != 200 {
		t.Errorf("SpeechRate = %d", cfg.SpeechRate)
	}
	if cfg.PhraseTimeLimit != 15*time.Second {
		t.Errorf("PhraseTimeLimit = %v", cfg.PhraseTimeLimit)
	}
	if cfg.AsyncSpeech {
		t.Error("AsyncSpeech should be false")
	}
	if cfg.WakeWordSensitivity != 0.8 {
		t.Errorf("WakeWordSensitivity = %v", cfg.WakeWordSensitivity)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SPEECH_RATE", "fast")
	t.Setenv("CACHE_ENABLED", "yep")

	cfg := Load("does-not-exist.env")

	if cfg.SpeechRate != 150 {
		t.Errorf("SpeechRate = %d, want default on parse failure", cfg.SpeechRate)
	}
	if !cfg.CacheEnabled {
		t.Error("CacheEnabled should keep its default on parse failure")
	}
}

func TestValidate_MissingProviderKey(t *testing.T) {
	cfg := &Config{Provider: ProviderOpenAI, CacheSize: 10, MaxHistoryLength: 5}

	errs := cfg.Validate()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := &Config{
		Provider:            "siri",
		WakeWordSensitivity: 1.5,
		CacheSize:           0,
		MaxHistoryLength:    -1,
	}

	errs := cfg.Validate()
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), errs)
	}
}

func TestValidate_OllamaNeedsNoKey(t *testing.T) {
	cfg := &Config{Provider: ProviderOllama, CacheSize: 10, MaxHistoryLength: 5}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}
