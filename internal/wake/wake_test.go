package wake

import (
	"context"
	"testing"
	"time"
)

func TestScore_ExactWordIsFullConfidence(t *testing.T) {
	d := NewDetector("zen", 0.5, nil)

	for _, text := range []string{"zen", "hey zen", "Zen, are you there?", "HEY ZEN!"} {
		if got := d.Score(text); got != 1.0 {
			t.Errorf("Score(%q) = %v, want 1.0", text, got)
		}
	}
}

func TestScore_NearMissScoresBelowExact(t *testing.T) {
	d := NewDetector("zen", 0.5, nil)

	near := d.Score("hey zenn")
	if near <= 0.5 || near >= 1.0 {
		t.Errorf("Score(\"hey zenn\") = %v, want in (0.5, 1.0)", near)
	}
}

func TestDetected_NeverBelowSensitivity(t *testing.T) {
	// Noise-free unrelated input must not activate at any sensible
	// threshold.
	d := NewDetector("zen", 0.9, nil)

	for _, text := range []string{"open firefox", "what time is it", "purple monkey dishwasher", ""} {
		if d.Detected(text) {
			t.Errorf("Detected(%q) = true below threshold, score %v", text, d.Score(text))
		}
	}
}

func TestDetected_ThresholdBoundary(t *testing.T) {
	// Exact word scores 1.0, so it activates even at maximum
	// sensitivity.
	d := NewDetector("zen", 1.0, nil)
	if !d.Detected("zen") {
		t.Error("exact wake word must activate at sensitivity 1.0")
	}
	if d.Detected("zenith") {
		t.Error("a different word must not activate at sensitivity 1.0")
	}
}

func TestDetector_EmitsActivation(t *testing.T) {
	transcripts := make(chan string, 3)
	transcripts <- "nothing interesting"
	transcripts <- "hey zen"

	source := func(ctx context.Context) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case text := <-transcripts:
			return text, nil
		}
	}

	d := NewDetector("zen", 0.8, source)
	d.Start()
	defer d.Stop()

	select {
	case text := <-d.Activations():
		if text != "hey zen" {
			t.Errorf("activation transcript = %q, want %q", text, "hey zen")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for activation")
	}
}

func TestDetector_StartStopIdempotent(t *testing.T) {
	source := func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	d := NewDetector("zen", 0.5, source)
	d.Start()
	d.Start() // second start is a no-op
	d.Stop()
	d.Stop() // second stop is a no-op
}
