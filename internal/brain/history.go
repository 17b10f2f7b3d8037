package brain

import (
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter reports how many model tokens a string costs. Injectable
// so tests stay deterministic and offline.
type TokenCounter func(s string) int

// History is a bounded ordered window of recent turns. Eviction is
// oldest-first and happens on every Append, against two limits: a turn
// count and a token budget.
type History struct {
	mu       sync.Mutex
	turns    []Turn
	maxTurns int
	budget   int // tokens, 0 = unlimited
	count    TokenCounter
}

func NewHistory(maxTurns, tokenBudget int) *History {
	return &History{
		maxTurns: maxTurns,
		budget:   tokenBudget,
		count:    defaultCounter(),
	}
}

// WithCounter replaces the token counter. Returns h for chaining.
func (h *History) WithCounter(c TokenCounter) *History {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count = c
	return h
}

// Append records a completed exchange and trims the window.
func (h *History) Append(prompt, response string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, Turn{
		Prompt:    prompt,
		Response:  response,
		Timestamp: time.Now(),
	})
	h.trim()
}

// Turns returns a copy of the current window, oldest first.
func (h *History) Turns() []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}

func (h *History) trim() {
	if h.maxTurns > 0 && len(h.turns) > h.maxTurns {
		h.turns = h.turns[len(h.turns)-h.maxTurns:]
	}
	if h.budget <= 0 {
		return
	}
	for len(h.turns) > 1 && h.tokens() > h.budget {
		h.turns = h.turns[1:]
	}
}

func (h *History) tokens() int {
	total := 0
	for _, t := range h.turns {
		total += h.count(t.Prompt) + h.count(t.Response)
	}
	return total
}

// defaultCounter uses the cl100k_base BPE when the encoding is
// available and falls back to a bytes/4 estimate otherwise, so a missing
// encoding file never breaks the conversation loop.
func defaultCounter() TokenCounter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return func(s string) int { return len(s)/4 + 1 }
	}
	return func(s string) int {
		return len(enc.Encode(s, nil, nil))
	}
}
