package router

import (
	"context"
	"testing"
)

func echo(name string) Handler {
	return func(ctx context.Context, m []string) (string, error) {
		return name, nil
	}
}

func TestDispatch_FirstMatchWins(t *testing.T) {
	r := New()
	// Both patterns match "open the search page"; registration order
	// decides.
	r.Add("open", `\bopen\b`, echo("open"))
	r.Add("search", `\bsearch\b`, echo("search"))

	reply, matched, err := r.Dispatch(context.Background(), "open the search page")
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("expected a match")
	}
	if reply != "open" {
		t.Errorf("reply = %q, want %q (first registered route)", reply, "open")
	}
}

func TestDispatch_Deterministic(t *testing.T) {
	r := New()
	r.Add("a", `time`, echo("a"))
	r.Add("b", `what time`, echo("b"))

	for i := 0; i < 50; i++ {
		reply, matched, _ := r.Dispatch(context.Background(), "What time is it?")
		if !matched || reply != "a" {
			t.Fatalf("iteration %d: reply = %q, matched = %v", i, reply, matched)
		}
	}
}

func TestDispatch_CaseInsensitive(t *testing.T) {
	r := New()
	r.Add("time", `\bwhat time\b`, echo("time"))

	_, matched, _ := r.Dispatch(context.Background(), "WHAT TIME is it")
	if !matched {
		t.Error("uppercase input should match; router lowercases first")
	}
}

func TestDispatch_FallThrough(t *testing.T) {
	r := New()
	r.Add("time", `\bwhat time\b`, echo("time"))

	_, matched, err := r.Dispatch(context.Background(), "tell me about black holes")
	if err != nil {
		t.Fatal(err)
	}
	if matched {
		t.Error("unrelated text must fall through to the AI provider")
	}
}

func TestDispatch_Submatches(t *testing.T) {
	r := New()
	r.Add("open", `\bopen\s+(\w+)`, func(ctx context.Context, m []string) (string, error) {
		return m[1], nil
	})

	reply, matched, _ := r.Dispatch(context.Background(), "please open Firefox now")
	if !matched {
		t.Fatal("expected a match")
	}
	if reply != "firefox" {
		t.Errorf("submatch = %q, want %q", reply, "firefox")
	}
}
