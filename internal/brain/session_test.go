package brain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider counts calls and replies with a canned or failing answer.
type fakeProvider struct {
	calls   int
	reply   string
	err     error
	lastLen int // history length seen on the last call
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Ask(ctx context.Context, prompt string, history []Turn) (string, error) {
	f.calls++
	f.lastLen = len(history)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestSession(t *testing.T, p Provider, cacheSize int) *Session {
	t.Helper()
	var cache *Cache
	if cacheSize > 0 {
		var err error
		cache, err = NewCache(cacheSize)
		require.NoError(t, err)
	}
	h := NewHistory(10, 0).WithCounter(func(s string) int { return 1 })
	return NewSessionWith(p, h, cache)
}

func TestSession_AskRecordsHistory(t *testing.T) {
	p := &fakeProvider{reply: "hi there"}
	s := newTestSession(t, p, 0)

	got, err := s.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", got)
	assert.Equal(t, 1, s.HistoryLen())

	// Second ask sees the first turn as context.
	_, err = s.Ask(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, 1, p.lastLen)
}

func TestSession_CacheShortCircuitsProvider(t *testing.T) {
	p := &fakeProvider{reply: "cached answer"}
	s := newTestSession(t, p, 8)

	_, err := s.Ask(context.Background(), "What is Go?")
	require.NoError(t, err)
	require.Equal(t, 1, p.calls)

	// Same prompt, different casing: served from cache.
	got, err := s.Ask(context.Background(), "what is go")
	require.NoError(t, err)
	assert.Equal(t, "cached answer", got)
	assert.Equal(t, 1, p.calls, "provider must not be called on a cache hit")
}

func TestSession_ErrorLeavesHistoryUntouched(t *testing.T) {
	p := &fakeProvider{err: provErr("fake", "chat", fmt.Errorf("quota exceeded"))}
	s := newTestSession(t, p, 8)

	_, err := s.Ask(context.Background(), "hello")
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "fake", perr.Provider)
	assert.Equal(t, 0, s.HistoryLen())
}

func TestSession_ResetClearsHistoryNotCache(t *testing.T) {
	p := &fakeProvider{reply: "answer"}
	s := newTestSession(t, p, 8)

	_, err := s.Ask(context.Background(), "hello")
	require.NoError(t, err)

	s.Reset()
	assert.Equal(t, 0, s.HistoryLen())

	// Still a cache hit after reset.
	_, err = s.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
}
