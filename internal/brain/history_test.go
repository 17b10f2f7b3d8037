package brain

import (
	"fmt"
	"strings"
	"testing"
)

// wordCounter is a deterministic offline token counter.
func wordCounter(s string) int { return len(strings.Fields(s)) }

func TestHistory_NeverExceedsMaxTurns(t *testing.T) {
	h := NewHistory(3, 0).WithCounter(wordCounter)

	for i := 0; i < 20; i++ {
		h.Append(fmt.Sprintf("prompt %d", i), fmt.Sprintf("response %d", i))
		if h.Len() > 3 {
			t.Fatalf("history length %d exceeds max after %d appends", h.Len(), i+1)
		}
	}

	turns := h.Turns()
	if len(turns) != 3 {
		t.Fatalf("len(turns) = %d, want 3", len(turns))
	}
	// Oldest-first eviction keeps the most recent exchanges.
	if turns[0].Prompt != "prompt 17" {
		t.Errorf("oldest kept turn = %q, want %q", turns[0].Prompt, "prompt 17")
	}
	if turns[2].Response != "response 19" {
		t.Errorf("newest turn response = %q, want %q", turns[2].Response, "response 19")
	}
}

func TestHistory_TokenBudgetTrimsOldest(t *testing.T) {
	// Each turn costs 4 tokens (2-word prompt + 2-word response).
	h := NewHistory(100, 10).WithCounter(wordCounter)

	h.Append("a b", "c d")
	h.Append("e f", "g h")
	h.Append("i j", "k l") // 12 tokens > budget, oldest goes

	turns := h.Turns()
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
	if turns[0].Prompt != "e f" {
		t.Errorf("oldest kept turn = %q, want %q", turns[0].Prompt, "e f")
	}
}

func TestHistory_BudgetKeepsAtLeastOneTurn(t *testing.T) {
	h := NewHistory(100, 1).WithCounter(wordCounter)

	h.Append("one very long prompt indeed", "and a long response")
	if h.Len() != 1 {
		t.Fatalf("len = %d, want 1: a single oversized turn must survive", h.Len())
	}
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(5, 0).WithCounter(wordCounter)
	h.Append("p", "r")
	h.Clear()
	if h.Len() != 0 {
		t.Fatalf("len after Clear = %d, want 0", h.Len())
	}
}
