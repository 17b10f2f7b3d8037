package brain

import (
	"context"
	"fmt"
	"net/http"

	log "log/slog"

	"zen/internal/config"
)

// Session is one conversation: a provider, its bounded history and an
// optional response cache. It is passed explicitly; nothing here is
// package-global.
type Session struct {
	provider Provider
	history  *History
	cache    *Cache // nil when caching is disabled
}

// NewSession wires the configured provider. httpClient is used for the
// cloud backends and may be nil for a direct connection.
func NewSession(cfg *config.Config, httpClient *http.Client) (*Session, error) {
	var provider Provider
	switch cfg.Provider {
	case config.ProviderOpenAI:
		provider = NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, cfg.SystemPrompt, httpClient)
	case config.ProviderGemini:
		provider = NewGeminiProvider(cfg.GeminiKey, cfg.GeminiModel, cfg.SystemPrompt, httpClient)
	case config.ProviderOllama:
		provider = NewOllamaProvider(cfg.OllamaURL, cfg.OllamaModel, cfg.SystemPrompt)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", cfg.Provider)
	}

	s := &Session{
		provider: provider,
		history:  NewHistory(cfg.MaxHistoryLength, cfg.HistoryTokenBudget),
	}

	if cfg.CacheEnabled {
		cache, err := NewCache(cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("init cache: %w", err)
		}
		s.cache = cache
	}

	log.Info("Session ready", "provider", provider.Name(), "cache", cfg.CacheEnabled)
	return s, nil
}

// NewSessionWith assembles a session from explicit parts, mainly for
// tests and the text-mode front end.
func NewSessionWith(p Provider, h *History, c *Cache) *Session {
	return &Session{provider: p, history: h, cache: c}
}

// Ask answers a prompt: cache first, provider on a miss. Successful
// exchanges land in the history and the cache.
func (s *Session) Ask(ctx context.Context, prompt string) (string, error) {
	if s.cache != nil {
		if resp, ok := s.cache.Get(prompt); ok {
			log.Debug("Cache hit", "prompt", prompt)
			s.history.Append(prompt, resp)
			return resp, nil
		}
	}

	resp, err := s.provider.Ask(ctx, prompt, s.history.Turns())
	if err != nil {
		return "", err
	}

	s.history.Append(prompt, resp)
	if s.cache != nil {
		s.cache.Put(prompt, resp)
	}
	return resp, nil
}

func (s *Session) ProviderName() string { return s.provider.Name() }

// Reset clears the conversation window. The cache survives.
func (s *Session) Reset() { s.history.Clear() }

func (s *Session) HistoryLen() int { return s.history.Len() }
